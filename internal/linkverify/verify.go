package linkverify

import (
	"context"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/stigaview/stigaview/internal/foundation/errors"
	"github.com/stigaview/stigaview/internal/logfields"
	"github.com/stigaview/stigaview/internal/parallel"
)

// BrokenLink is an internal link whose target is missing from the tree.
type BrokenLink struct {
	Page string // page path relative to the tree root, slash separated
	URL  string // link as written in the page
}

// Result summarises a verification run.
type Result struct {
	Pages  int
	Links  int
	Broken []BrokenLink
}

// Err returns a link check error when any link is broken, or nil.
func (r *Result) Err() error {
	if len(r.Broken) == 0 {
		return nil
	}
	first := r.Broken[0]
	return errors.LinkCheckError("broken internal links").
		WithContext("count", len(r.Broken)).
		WithContext("page", first.Page).
		WithContext("url", first.URL).
		Build()
}

// Verifier walks a rendered tree and checks its internal links.
type Verifier struct {
	root    string
	workers int
}

// NewVerifier creates a verifier for the tree at root.
func NewVerifier(root string) *Verifier {
	return &Verifier{root: root, workers: parallel.Workers(0)}
}

// WithWorkers bounds the number of pages parsed concurrently.
func (v *Verifier) WithWorkers(n int) *Verifier {
	v.workers = parallel.Workers(n)
	return v
}

// VerifyTree checks every HTML page under root.
func VerifyTree(root string) (*Result, error) {
	return NewVerifier(root).Verify(context.Background())
}

type pageResult struct {
	links  int
	broken []BrokenLink
}

// Verify parses every .html file under the root and resolves each internal
// link against the tree. Broken links are sorted by page then URL.
func (v *Verifier) Verify(ctx context.Context) (*Result, error) {
	pages, err := v.pages()
	if err != nil {
		return nil, err
	}

	results := parallel.Ordered(ctx, pages, v.workers, func(_ context.Context, page string) (pageResult, error) {
		return v.verifyPage(page)
	})
	if err := parallel.FirstError(results); err != nil {
		return nil, err
	}

	res := &Result{Pages: len(pages)}
	for _, pr := range parallel.Values(results) {
		res.Links += pr.links
		res.Broken = append(res.Broken, pr.broken...)
	}
	slices.SortFunc(res.Broken, func(a, b BrokenLink) int {
		if c := strings.Compare(a.Page, b.Page); c != 0 {
			return c
		}
		return strings.Compare(a.URL, b.URL)
	})
	slog.Info("Link verification completed",
		logfields.Path(v.root),
		slog.Int("pages", res.Pages),
		slog.Int("links", res.Links),
		slog.Int("broken", len(res.Broken)))
	return res, nil
}

// pages lists the slash-separated paths of every HTML page under the root.
func (v *Verifier) pages() ([]string, error) {
	var pages []string
	err := filepath.WalkDir(v.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".html") {
			return nil
		}
		rel, err := filepath.Rel(v.root, p)
		if err != nil {
			return err
		}
		pages = append(pages, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "cannot walk site tree").
			WithContext("path", v.root).
			Build()
	}
	return pages, nil
}

func (v *Verifier) verifyPage(page string) (pageResult, error) {
	f, err := os.Open(filepath.Join(v.root, filepath.FromSlash(page)))
	if err != nil {
		return pageResult{}, errors.WrapError(err, errors.CategoryFileSystem, "cannot open page").
			WithContext("path", page).
			Build()
	}
	defer func() { _ = f.Close() }()

	links, err := ExtractLinksFromReader(f)
	if err != nil {
		return pageResult{}, err
	}

	var pr pageResult
	for _, l := range links {
		if !isInternal(l.URL) {
			continue
		}
		pr.links++
		if !v.resolves(page, l.URL) {
			slog.Debug("Broken link", logfields.Path(page), slog.String("url", l.URL))
			pr.broken = append(pr.broken, BrokenLink{Page: page, URL: l.URL})
		}
	}
	return pr, nil
}

// resolves reports whether link, found on page, names a file in the tree.
// Directory targets resolve through their index.html.
func (v *Verifier) resolves(page, link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	target := u.Path
	if target == "" {
		return true
	}
	if !strings.HasPrefix(target, "/") {
		target = path.Join("/", path.Dir(page), target)
	}
	clean := path.Clean(target)
	if clean == "/.." || strings.HasPrefix(clean, "/../") {
		return false
	}

	full := filepath.Join(v.root, filepath.FromSlash(clean))
	info, err := os.Stat(full)
	if err != nil {
		return false
	}
	if info.IsDir() {
		_, err := os.Stat(filepath.Join(full, "index.html"))
		return err == nil
	}
	return !strings.HasSuffix(u.Path, "/")
}
