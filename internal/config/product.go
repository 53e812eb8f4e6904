package config

import (
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"

	ferrors "github.com/stigaview/stigaview/internal/foundation/errors"
	"github.com/stigaview/stigaview/internal/model"
)

// ProductFile is the name of the per-product configuration file.
const ProductFile = "product.toml"

var (
	errEmptySlug = errors.New("slug is empty")
	errSlugPath  = errors.New("slug must be a single path segment")
)

// Product is the configuration of one product directory.
type Product struct {
	FullName    string               `toml:"full_name"`
	ShortName   string               `toml:"short_name"`
	Description string               `toml:"description"`
	Stigs       map[string]StigEntry `toml:"stigs"`

	// Dir is the directory the file was loaded from.
	Dir string `toml:"-"`
}

// StigEntry declares one document version of a product.
type StigEntry struct {
	ReleaseDate model.Date `toml:"release_date"`
}

// LoadProduct reads dir/product.toml.
func LoadProduct(dir string) (*Product, error) {
	path := filepath.Join(dir, ProductFile)
	data, err := os.ReadFile(path)
	if err != nil {
		msg := "cannot read product configuration"
		if errors.Is(err, fs.ErrNotExist) {
			msg = "product configuration not found"
		}
		return nil, ferrors.ProductConfigError(msg).
			WithCause(err).
			WithContext("path", path).
			Build()
	}

	var p Product
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, ferrors.ProductConfigError("cannot parse product configuration").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	p.Dir = dir
	if err := p.validate(); err != nil {
		return nil, ferrors.ProductConfigError("invalid product configuration").
			WithCause(err).
			WithContext("path", path).
			WithContext("product", p.ShortName).
			Build()
	}

	// Version keys are matched case-insensitively against file names.
	stigs := make(map[string]StigEntry, len(p.Stigs))
	for k, v := range p.Stigs {
		stigs[strings.ToLower(k)] = v
	}
	p.Stigs = stigs
	return &p, nil
}

func (p *Product) validate() error {
	if strings.TrimSpace(p.FullName) == "" {
		return errors.New("full_name is required")
	}
	if err := validateSlug(p.ShortName); err != nil {
		return err
	}
	for k, v := range p.Stigs {
		if v.ReleaseDate.IsZero() {
			return errors.New("stigs." + k + ": release_date is required")
		}
	}
	return nil
}

// ReleaseDate returns the declared release date for a version key such as
// "v1r2". Lookup ignores case.
func (p *Product) ReleaseDate(key string) (model.Date, bool) {
	e, ok := p.Stigs[strings.ToLower(key)]
	return e.ReleaseDate, ok
}

// Versions returns the declared version keys in ascending order.
func (p *Product) Versions() []string {
	return slices.Sorted(maps.Keys(p.Stigs))
}
