package site

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/stigaview/stigaview/internal/catalog"
	"github.com/stigaview/stigaview/internal/config"
	ferrors "github.com/stigaview/stigaview/internal/foundation/errors"
	"github.com/stigaview/stigaview/internal/git"
	"github.com/stigaview/stigaview/internal/logfields"
	"github.com/stigaview/stigaview/internal/metrics"
	"github.com/stigaview/stigaview/internal/parallel"
)

// Generator renders a catalog into an output directory.
type Generator struct {
	cfg         *config.Config
	outputDir   string
	revisionDir string
	workers     int
	recorder    metrics.Recorder
}

// NewGenerator creates a generator writing below outputDir. An empty
// outputDir falls back to the configured output directory.
func NewGenerator(cfg *config.Config, outputDir string) *Generator {
	if outputDir == "" {
		outputDir = cfg.Output.Directory
	}
	revisionDir := cfg.ProductsPath
	if revisionDir == "" {
		revisionDir = "."
	}
	return &Generator{
		cfg:         cfg,
		outputDir:   outputDir,
		revisionDir: revisionDir,
		workers:     parallel.Workers(cfg.Build.Workers),
		recorder:    metrics.NoopRecorder{},
	}
}

// WithRecorder sets the metrics recorder.
func (g *Generator) WithRecorder(r metrics.Recorder) *Generator {
	if r != nil {
		g.recorder = r
	}
	return g
}

// WithRevisionDir sets the directory whose git revision is shown in page
// footers.
func (g *Generator) WithRevisionDir(dir string) *Generator {
	g.revisionDir = dir
	return g
}

// OutputDir returns the directory the generator writes to.
func (g *Generator) OutputDir() string { return g.outputDir }

func (g *Generator) stages() []StageDef {
	stages := []StageDef{
		{StagePrepareOutput, stagePrepareOutput},
		{StageStaticAssets, stageStaticAssets},
		{StageGlobalIndexes, stageGlobalIndexes},
		{StageRenderProducts, stageRenderProducts},
	}
	if g.cfg.Output.VerifyLinks {
		stages = append(stages, StageDef{StageVerifyLinks, stageVerifyLinks})
	}
	return stages
}

// Generate runs every stage against cat and returns the build report. The
// report is returned even when a stage fails. When output.report is set it is
// also persisted into the output directory.
func (g *Generator) Generate(ctx context.Context, cat *catalog.Catalog) (*BuildReport, error) {
	report := newBuildReport(cat)
	bs := &BuildState{Generator: g, Catalog: cat, Report: report}

	slog.Info("Rendering site",
		logfields.Path(g.outputDir),
		logfields.Count(report.Products),
		logfields.Worker(g.workers))
	g.recorder.SetWorkers(g.workers)

	err := runStages(ctx, bs, g.stages())
	report.finish()

	g.recorder.ObserveBuildDuration(report.End.Sub(report.Start))
	switch report.Outcome {
	case OutcomeSuccess:
		g.recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
	case OutcomeCanceled:
		g.recorder.IncBuildOutcome(metrics.BuildOutcomeCanceled)
	default:
		g.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
	}

	if g.cfg.Output.Report {
		if perr := report.Persist(g.outputDir); perr != nil {
			slog.Warn("Failed to persist build report", logfields.Path(g.outputDir), logfields.Error(perr))
		}
	}
	if err != nil {
		return report, err
	}
	slog.Info("Site rendered",
		slog.String("summary", report.Summary()),
		logfields.Count(report.RenderedPages))
	return report, nil
}

// writePage renders the named template into <out>/<dir>/index.html.
func (g *Generator) writePage(ts *templateSet, dir, name string, data any) error {
	var buf bytes.Buffer
	if err := ts.execute(&buf, name, data); err != nil {
		return addPath(err, dir)
	}
	target := filepath.Join(g.outputDir, filepath.FromSlash(dir))
	if rel, err := filepath.Rel(g.outputDir, target); err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ferrors.FileSystemError("page path escapes output directory").
			WithContext("path", dir).
			Build()
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return ferrors.FileSystemError("cannot create page directory").
			WithCause(err).
			WithContext("path", target).
			Build()
	}
	file := filepath.Join(target, "index.html")
	if err := os.WriteFile(file, buf.Bytes(), 0o644); err != nil {
		return ferrors.FileSystemError("cannot write page").
			WithCause(err).
			WithContext("path", file).
			Build()
	}
	return nil
}

func addPath(err error, dir string) error {
	if ce, ok := ferrors.AsClassified(err); ok {
		return ce.WithContext("path", dir)
	}
	return err
}

// page returns the common data for the page at urlPath.
func (g *Generator) page(bs *BuildState, urlPath string) Page {
	return Page{
		Site: SiteData{
			Title:       g.cfg.Site.Title,
			Description: g.cfg.Site.Description,
			BaseURL:     g.cfg.Site.BaseURL,
		},
		Path:     urlPath,
		Revision: bs.Revision,
	}
}

func (g *Generator) revision() string {
	if !g.cfg.Site.ShowRevision {
		return ""
	}
	rev, err := git.Revision(g.revisionDir)
	if err != nil {
		slog.Debug("No source revision for footer", logfields.Path(g.revisionDir), logfields.Error(err))
		return ""
	}
	return rev
}

func durationMS(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
