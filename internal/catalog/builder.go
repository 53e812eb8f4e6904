package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/stigaview/stigaview/internal/config"
	"github.com/stigaview/stigaview/internal/logfields"
	"github.com/stigaview/stigaview/internal/metrics"
	"github.com/stigaview/stigaview/internal/model"
	"github.com/stigaview/stigaview/internal/parallel"
	"github.com/stigaview/stigaview/internal/srg"
	"github.com/stigaview/stigaview/internal/xccdf"
)

// Builder drives the document importer across every configured product.
type Builder struct {
	root       string
	allow      []string
	skipPrefix string
	workers    int
	recorder   metrics.Recorder
}

// NewBuilder creates a builder reading the products tree named by cfg.
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{
		root:       cfg.ProductsPath,
		allow:      cfg.Products,
		skipPrefix: cfg.Build.SkipPrefix,
		workers:    parallel.Workers(cfg.Build.Workers),
		recorder:   metrics.NoopRecorder{},
	}
}

// WithRoot overrides the products root directory.
func (b *Builder) WithRoot(root string) *Builder {
	if root != "" {
		b.root = root
	}
	return b
}

// WithRecorder sets the metrics recorder.
func (b *Builder) WithRecorder(r metrics.Recorder) *Builder {
	if r != nil {
		b.recorder = r
	}
	return b
}

type imported struct {
	stig         *model.Stig
	contribution srg.Contribution
}

// Build discovers products, validates every document against its product's
// declared versions, imports documents concurrently and merges the results.
// The first error aborts the build.
func (b *Builder) Build(ctx context.Context) (*Catalog, error) {
	start := time.Now()

	cfgs, err := Discover(b.root, b.allow)
	if err != nil {
		return nil, err
	}

	products := make(map[string]*model.Product, len(cfgs))
	ordered := make([]*model.Product, 0, len(cfgs))
	var docs []Document
	for _, pc := range cfgs {
		p := model.NewProduct(pc.ShortName, pc.FullName)
		p.Description = pc.Description
		products[pc.ShortName] = p
		ordered = append(ordered, p)

		pd, err := Documents(pc, b.skipPrefix)
		if err != nil {
			return nil, err
		}
		docs = append(docs, pd...)
	}

	slog.Info("Importing documents",
		logfields.Count(len(docs)),
		slog.Int("products", len(ordered)),
		logfields.Worker(b.workers))

	results := parallel.Ordered(ctx, docs, b.workers, func(_ context.Context, d Document) (imported, error) {
		p := products[d.Product.ShortName]
		t0 := time.Now()
		stig, contribution, err := xccdf.Import(d.Path, d.ReleaseDate, p)
		b.recorder.ObserveImportDuration(p.ShortName, time.Since(t0), err == nil)
		if err != nil {
			return imported{}, err
		}
		slog.Debug("Imported document",
			logfields.Product(p.ShortName),
			logfields.Version(stig.ShortVersion()),
			logfields.Count(len(stig.Controls)))
		return imported{stig: stig, contribution: contribution}, nil
	})
	if err := parallel.FirstError(results); err != nil {
		return nil, err
	}

	// Fan-in runs in document order so the catalog is identical across runs.
	contributions := make([]srg.Contribution, 0, len(results))
	for _, r := range results {
		r.Value.stig.Product.AddStig(r.Value.stig)
		contributions = append(contributions, r.Value.contribution)
	}
	srgs := srg.Reduce(contributions...)
	shareSrgs(srgs)
	for _, p := range ordered {
		for _, s := range p.Stigs {
			s.SortControls()
		}
	}

	cat := &Catalog{Products: ordered, SRGs: srgs}
	np, ns, nc, nsrg := cat.Counts()
	b.recorder.SetCatalogSize(np, ns, nc, nsrg)
	slog.Info("Catalog built",
		slog.Int("products", np),
		slog.Int("stigs", ns),
		slog.Int("controls", nc),
		slog.Int("srgs", nsrg),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return cat, nil
}

// shareSrgs points every control mapped to one SRG id at a single Srg value.
func shareSrgs(m srg.Map) {
	for _, id := range m.IDs() {
		s := &model.Srg{ID: id}
		for _, c := range m[id] {
			c.Srg = s
		}
	}
}
