package site

import (
	"context"
	"html/template"
	"log/slog"
	"path"
	"time"

	ferrors "github.com/stigaview/stigaview/internal/foundation/errors"
	"github.com/stigaview/stigaview/internal/logfields"
	"github.com/stigaview/stigaview/internal/markdown"
	"github.com/stigaview/stigaview/internal/model"
)

// LatestDir is the path segment of a product's newest-version alias.
const LatestDir = "latest"

// renderProduct writes a product page, every version of the product and the
// latest alias.
func (g *Generator) renderProduct(ctx context.Context, bs *BuildState, p *model.Product) (productResult, error) {
	start := time.Now()
	var res productResult
	base := path.Join("products", p.ShortName)

	desc, err := markdown.Render(p.Description)
	if err != nil {
		return res, ferrors.RenderError("cannot render product description").
			WithCause(err).
			WithContext("product", p.ShortName).
			Build()
	}

	stigs := model.SortedStigs(p.Stigs)
	latest := p.LatestStig()
	data := productPage{
		Page:        g.page(bs, model.ProductPath(p)),
		Product:     p,
		Description: template.HTML(desc), //nolint:gosec // goldmark output without raw HTML
		Stigs:       stigs,
		Latest:      latest,
	}
	if err := g.writePage(bs.Templates, base, "product", data); err != nil {
		return res, err
	}
	res.pages++

	for _, s := range stigs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		n, err := g.renderStig(bs, s)
		res.pages += n
		if err != nil {
			return res, err
		}
	}

	if latest != nil {
		if err := g.aliasLatest(latest); err != nil {
			return res, err
		}
		res.latest = true
	}

	slog.Info("Product rendered",
		logfields.Product(p.ShortName),
		logfields.Count(res.pages),
		logfields.DurationMS(durationMS(time.Since(start))))
	return res, nil
}

// renderStig writes a version's detail page, its one-page view and a page per
// control.
func (g *Generator) renderStig(bs *BuildState, s *model.Stig) (int, error) {
	dir := path.Join("products", s.ProductName(), s.Slug())
	controls := viewControls(s.Controls)
	pages := 0

	data := stigPage{
		Page:     g.page(bs, model.StigPath(s)),
		Product:  s.Product,
		Stig:     s,
		Controls: controls,
	}
	if err := g.writePage(bs.Templates, dir, "stig", data); err != nil {
		return pages, withVersion(err, s)
	}
	pages++

	data.Page = g.page(bs, model.StigPath(s)+"onepage/")
	if err := g.writePage(bs.Templates, path.Join(dir, "onepage"), "one_page_stig", data); err != nil {
		return pages, withVersion(err, s)
	}
	pages++

	for _, c := range controls {
		cp := controlPage{
			Page:    g.page(bs, model.ControlPath(c.Control)),
			Product: s.Product,
			Stig:    s,
			Control: c,
		}
		if err := g.writePage(bs.Templates, path.Join(dir, c.DisaStigID), "control", cp); err != nil {
			return pages, withVersion(err, s).WithContext("control", c.DisaStigID)
		}
		pages++
	}

	slog.Debug("Version rendered",
		logfields.Product(s.ProductName()),
		logfields.Version(s.ShortVersion()),
		logfields.Count(pages))
	return pages, nil
}

func withVersion(err error, s *model.Stig) *ferrors.ClassifiedError {
	ce, ok := ferrors.AsClassified(err)
	if !ok {
		ce = ferrors.RenderError("cannot render version").WithCause(err).Build()
	}
	return ce.WithContext("product", s.ProductName()).WithContext("version", s.ShortVersion())
}
