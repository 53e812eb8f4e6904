package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/stigaview/stigaview/internal/config"
	ferrors "github.com/stigaview/stigaview/internal/foundation/errors"
	"github.com/stigaview/stigaview/internal/logfields"
	"github.com/stigaview/stigaview/internal/model"
	"github.com/stigaview/stigaview/internal/xccdf"
)

// Document is one benchmark file scheduled for import.
type Document struct {
	Path        string
	Key         string // lower-cased file stem, e.g. "v1r2"
	ReleaseDate model.Date
	Product     *config.Product
}

// Discover loads the configuration of every product under root. When allow is
// non-empty only those slugs are loaded, and each must exist as a directory.
// Products are returned sorted by short name. A product whose short name does
// not name a directory under root is a missing product directory error.
func Discover(root string, allow []string) ([]*config.Product, error) {
	dirs, err := productDirs(root, allow)
	if err != nil {
		return nil, err
	}

	products := make([]*config.Product, 0, len(dirs))
	seen := make(map[string]string, len(dirs))
	for _, dir := range dirs {
		p, err := config.LoadProduct(dir)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[p.ShortName]; dup {
			return nil, ferrors.ConfigError("two product configurations share a short name").
				WithCause(ErrDuplicateProduct).
				WithContext("product", p.ShortName).
				WithContext("path", dir).
				WithContext("other", prev).
				Build()
		}
		seen[p.ShortName] = dir

		expected := filepath.Join(root, p.ShortName)
		if !isDir(expected) {
			return nil, missingProductDir(p.ShortName, expected)
		}
		products = append(products, p)
	}

	slices.SortFunc(products, func(a, b *config.Product) int {
		return strings.Compare(a.ShortName, b.ShortName)
	})
	slog.Debug("Discovered products", logfields.Path(root), logfields.Count(len(products)))
	return products, nil
}

func productDirs(root string, allow []string) ([]string, error) {
	if len(allow) > 0 {
		dirs := make([]string, 0, len(allow))
		for _, slug := range allow {
			dir := filepath.Join(root, slug)
			if !isDir(dir) {
				return nil, missingProductDir(slug, dir)
			}
			dirs = append(dirs, dir)
		}
		return dirs, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		msg := "cannot read products directory"
		if errors.Is(err, fs.ErrNotExist) {
			msg = "products directory not found"
		}
		return nil, ferrors.ConfigError(msg).
			WithCause(err).
			WithContext("path", root).
			Build()
	}
	var dirs []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		dirs = append(dirs, filepath.Join(root, e.Name()))
	}
	return dirs, nil
}

func missingProductDir(slug, dir string) error {
	return ferrors.MissingProductDirError("product directory not found").
		WithCause(ErrMissingProductDir).
		WithContext("product", slug).
		WithContext("path", dir).
		Build()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Documents lists the benchmark files of a product in file name order and
// resolves each one's declared release date. Files whose name starts with
// skipPrefix are ignored, as is anything that is not an .xml file.
func Documents(p *config.Product, skipPrefix string) ([]Document, error) {
	entries, err := os.ReadDir(p.Dir)
	if err != nil {
		return nil, ferrors.FileSystemError("cannot list product directory").
			WithCause(err).
			WithContext("product", p.ShortName).
			WithContext("path", p.Dir).
			Build()
	}

	var docs []Document
	keys := make(map[string]string)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ".xml") {
			continue
		}
		path := filepath.Join(p.Dir, name)
		if skipPrefix != "" && strings.HasPrefix(name, skipPrefix) {
			slog.Debug("Skipping document", logfields.Product(p.ShortName), logfields.File(name))
			continue
		}
		version, release, err := xccdf.ParseVersion(path)
		if err != nil {
			return nil, ferrors.VersionFormatError("cannot derive version from document file name").
				WithCause(err).
				WithContext("product", p.ShortName).
				WithContext("path", path).
				Build()
		}

		// v1r2.xml and v01r02.xml name the same release
		short := fmt.Sprintf("V%dR%d", version, release)
		if prev, dup := keys[short]; dup {
			return nil, ferrors.ProductConfigError("two documents declare the same version").
				WithCause(fmt.Errorf("%w: %s and %s", ErrDuplicateVersion, prev, name)).
				WithContext("product", p.ShortName).
				WithContext("version", short).
				Build()
		}
		keys[short] = name

		key := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))

		date, ok := p.ReleaseDate(key)
		if !ok {
			return nil, ferrors.MissingVersionConfigError("no release date declared for document version").
				WithCause(ErrMissingVersionConfig).
				WithContext("product", p.ShortName).
				WithContext("version", key).
				WithContext("path", path).
				Build()
		}
		docs = append(docs, Document{Path: path, Key: key, ReleaseDate: date, Product: p})
	}
	return docs, nil
}
