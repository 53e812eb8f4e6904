package site

import (
	"context"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	ferrors "github.com/stigaview/stigaview/internal/foundation/errors"
	"github.com/stigaview/stigaview/internal/linkverify"
	"github.com/stigaview/stigaview/internal/logfields"
	"github.com/stigaview/stigaview/internal/model"
	"github.com/stigaview/stigaview/internal/parallel"
)

const stylesheetPath = "static/css/stigaview.css"

// stagePrepareOutput optionally removes the previous tree, creates the output
// root and loads templates.
func stagePrepareOutput(_ context.Context, bs *BuildState) error {
	g := bs.Generator
	out := filepath.Clean(g.outputDir)
	if g.cfg.Output.Clean {
		if out == "." || out == string(filepath.Separator) {
			return ferrors.ValidationError("refusing to clean output directory").
				WithContext("path", g.outputDir).
				Build()
		}
		slog.Info("Removing previous output", logfields.Path(out))
		if err := os.RemoveAll(out); err != nil {
			return ferrors.FileSystemError("cannot clean output directory").
				WithCause(err).
				WithContext("path", out).
				Build()
		}
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return ferrors.FileSystemError("cannot create output directory").
			WithCause(err).
			WithContext("path", out).
			Build()
	}

	ts, err := loadTemplates(g.cfg.Site.TemplatesDir)
	if err != nil {
		return err
	}
	bs.Templates = ts
	bs.Report.Templates = ts.sources
	bs.Revision = g.revision()
	bs.Report.Phase = PhaseRendering
	return nil
}

func stageStaticAssets(_ context.Context, bs *BuildState) error {
	target := filepath.Join(bs.Generator.outputDir, filepath.FromSlash(stylesheetPath))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return ferrors.FileSystemError("cannot create static directory").
			WithCause(err).
			WithContext("path", filepath.Dir(target)).
			Build()
	}
	if err := os.WriteFile(target, stylesheet, 0o644); err != nil {
		return ferrors.FileSystemError("cannot write stylesheet").
			WithCause(err).
			WithContext("path", target).
			Build()
	}
	return nil
}

// stageGlobalIndexes writes the pages that read the whole catalog: landing
// page, products, all stigs, the SRG catalog and one page per SRG.
func stageGlobalIndexes(ctx context.Context, bs *BuildState) error {
	g := bs.Generator
	cat := bs.Catalog
	ts := bs.Templates

	globals := []struct {
		dir, name string
		data      any
	}{
		{"", "index", indexPage{
			Page:     g.page(bs, "/"),
			Recent:   model.RecentStigs(cat.Products, recentCount),
			Products: model.SortedProducts(cat.Products),
		}},
		{"products", "products", productsPage{
			Page:     g.page(bs, "/products/"),
			Products: model.SortedProducts(cat.Products),
		}},
		{"stigs", "stigs", stigsPage{
			Page:  g.page(bs, "/stigs/"),
			Stigs: cat.Stigs(),
		}},
		{"srgs", "srgs", srgsPage{
			Page: g.page(bs, "/srgs/"),
			SRGs: srgEntries(cat.SRGs),
		}},
	}
	for _, p := range globals {
		if err := g.writePage(ts, p.dir, p.name, p.data); err != nil {
			return err
		}
	}

	ids := cat.SRGs.IDs()
	results := parallel.Ordered(ctx, ids, g.workers, func(_ context.Context, id string) (struct{}, error) {
		data := srgDetailPage{
			Page:     g.page(bs, model.SrgPath(id)),
			ID:       id,
			Controls: viewControls(cat.SRGs.Controls(id)),
		}
		err := g.writePage(ts, path.Join("srgs", id), "srg_detail", data)
		return struct{}{}, err
	})
	if err := parallel.FirstError(results); err != nil {
		return err
	}

	n := len(globals) + len(ids)
	bs.Report.RenderedPages += n
	g.recorder.AddPagesRendered("", n)
	slog.Info("Global indexes rendered", logfields.Count(n))
	return nil
}

type productResult struct {
	pages  int
	latest bool
}

// stageRenderProducts fans out one task per product. Tasks only write below
// products/<slug>/ and share nothing but the read-only catalog.
func stageRenderProducts(ctx context.Context, bs *BuildState) error {
	g := bs.Generator
	products := model.SortedProducts(bs.Catalog.Products)

	results := parallel.Ordered(ctx, products, g.workers, func(ctx context.Context, p *model.Product) (productResult, error) {
		return g.renderProduct(ctx, bs, p)
	})
	if err := parallel.FirstError(results); err != nil {
		return err
	}
	for i, r := range results {
		bs.Report.RenderedPages += r.Value.pages
		if r.Value.latest {
			bs.Report.LatestAliases++
		}
		g.recorder.AddPagesRendered(products[i].ShortName, r.Value.pages)
	}
	return nil
}

func stageVerifyLinks(ctx context.Context, bs *BuildState) error {
	g := bs.Generator
	res, err := linkverify.NewVerifier(g.outputDir).WithWorkers(g.workers).Verify(ctx)
	if err != nil {
		return err
	}
	bs.Report.LinksChecked = res.Links
	slog.Info("Links verified",
		slog.Int("pages", res.Pages),
		slog.Int("links", res.Links),
		slog.Int("broken", len(res.Broken)))
	return res.Err()
}
