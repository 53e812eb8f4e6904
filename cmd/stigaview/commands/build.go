package commands

import (
	"context"
	"log/slog"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/stigaview/stigaview/internal/catalog"
	"github.com/stigaview/stigaview/internal/config"
	"github.com/stigaview/stigaview/internal/logfields"
	"github.com/stigaview/stigaview/internal/metrics"
	"github.com/stigaview/stigaview/internal/sidecar"
	"github.com/stigaview/stigaview/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Input           string `arg:"" optional:"" help:"Products directory (overrides products_path)"`
	Output          string `short:"o" help:"Output directory (overrides output.directory)"`
	Clean           bool   `help:"Remove the output directory before building"`
	JSONControls    bool   `name:"json-controls" help:"Also write one JSON document per control"`
	Workers         int    `short:"w" help:"Worker count (0 = number of CPUs)" default:"-1"`
	MetricsTextfile string `name:"metrics-textfile" help:"Write Prometheus metrics to this file after the build"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	b.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	return RunBuild(g.ctx(), cfg)
}

// apply overlays command line flags onto cfg.
func (b *BuildCmd) apply(cfg *config.Config) {
	if b.Input != "" {
		cfg.ProductsPath = b.Input
	}
	if b.Output != "" {
		cfg.Output.Directory = b.Output
	}
	if b.Clean {
		cfg.Output.Clean = true
	}
	if b.JSONControls {
		cfg.Output.JSONControls = true
	}
	if b.Workers >= 0 {
		cfg.Build.Workers = b.Workers
	}
	if b.MetricsTextfile != "" {
		cfg.Build.MetricsTextfile = b.MetricsTextfile
	}
}

// RunBuild imports the products tree, renders the site and writes sidecar
// files. Metrics are written to the configured textfile whatever the outcome.
func RunBuild(ctx context.Context, cfg *config.Config) (err error) {
	start := time.Now()
	reg := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(reg)
	if path := cfg.Build.MetricsTextfile; path != "" {
		defer func() {
			if werr := metrics.WriteTextfile(reg, path); werr != nil {
				slog.Warn("Failed to write metrics textfile", logfields.Path(path), logfields.Error(werr))
			}
		}()
	}

	slog.Info("Starting build",
		logfields.Path(cfg.ProductsPath),
		slog.String("output", cfg.Output.Directory))

	cat, err := catalog.NewBuilder(cfg).WithRecorder(recorder).Build(ctx)
	if err != nil {
		recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
		return err
	}

	if _, err := site.NewGenerator(cfg, cfg.Output.Directory).WithRecorder(recorder).Generate(ctx, cat); err != nil {
		return err
	}

	sw := sidecar.NewWriter(cfg.Output.Directory)
	if err := sw.WriteMaps(cat.Products); err != nil {
		return err
	}
	if cfg.Output.JSONControls {
		n, err := sw.WriteControls(cat.Products, cfg.Output.JSONControlsDir)
		if err != nil {
			return err
		}
		slog.Info("Control documents written", logfields.Path(cfg.Output.JSONControlsDir), logfields.Count(n))
	}

	slog.Info("Build complete",
		logfields.Path(cfg.Output.Directory),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return nil
}
