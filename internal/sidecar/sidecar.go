// Package sidecar writes the JSON files that accompany the rendered site:
// the product to version map, product display names and, optionally, one
// document per control for external search indexing.
package sidecar

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	ferrors "github.com/stigaview/stigaview/internal/foundation/errors"
	"github.com/stigaview/stigaview/internal/model"
)

const (
	StigMapFile  = "product-stig-map.json"
	ProductsFile = "products.json"
)

// ErrDuplicateDocumentID is the cause when two controls map to one document id.
var ErrDuplicateDocumentID = errors.New("duplicate control document id")

// Writer writes sidecar files below an output root.
type Writer struct {
	root string
}

// NewWriter creates a writer for the output root.
func NewWriter(root string) *Writer {
	return &Writer{root: root}
}

// WriteMaps writes product-stig-map.json (slug to version labels, oldest
// first) and products.json (slug to display name).
func (w *Writer) WriteMaps(products []*model.Product) error {
	versions := make(map[string][]string, len(products))
	names := make(map[string]string, len(products))
	for _, p := range products {
		labels := []string{}
		for _, s := range model.SortedStigs(p.Stigs) {
			labels = append(labels, s.ShortVersion())
		}
		versions[p.ShortName] = labels
		names[p.ShortName] = p.FullName
	}
	if err := w.writeJSON(filepath.Join(w.root, StigMapFile), versions); err != nil {
		return err
	}
	return w.writeJSON(filepath.Join(w.root, ProductsFile), names)
}

// ControlDocument is the per-control record read by the search front end.
type ControlDocument struct {
	ID              string     `json:"id"`
	Product         string     `json:"product"`
	ProductName     string     `json:"product_name"`
	Stig            string     `json:"stig"`
	ReleaseDate     model.Date `json:"release_date"`
	DisaStigID      string     `json:"disa_stig_id"`
	VulnerabilityID string     `json:"vulnerability_id"`
	SRG             string     `json:"srg"`
	Severity        string     `json:"severity"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Fix             string     `json:"fix"`
	Check           string     `json:"check"`
	CCI             []string   `json:"cci"`
	Path            string     `json:"path"`
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// DocumentID returns the primary key of a control: product, lowercased short
// version and DISA STIG id joined by dashes, with any other character
// replaced by an underscore.
func DocumentID(c *model.Control) string {
	key := strings.Join([]string{c.Stig.ProductName(), c.Stig.Slug(), c.DisaStigID}, "-")
	return unsafeKeyChars.ReplaceAllString(key, "_")
}

// NewControlDocument builds the record for c, which must belong to a stig
// attached to a product.
func NewControlDocument(c *model.Control) ControlDocument {
	cci := c.CCI
	if cci == nil {
		cci = []string{}
	}
	return ControlDocument{
		ID:              DocumentID(c),
		Product:         c.Stig.ProductName(),
		ProductName:     c.Stig.Product.FullName,
		Stig:            c.Stig.ShortVersion(),
		ReleaseDate:     c.Stig.ReleaseDate,
		DisaStigID:      c.DisaStigID,
		VulnerabilityID: c.VulnerabilityID,
		SRG:             c.SrgID(),
		Severity:        c.Severity.String(),
		Title:           c.Title,
		Description:     c.Description,
		Fix:             c.Fix,
		Check:           c.Check,
		CCI:             cci,
		Path:            model.ControlPath(c),
	}
}

// WriteControls writes one <id>.json per control into dir, relative to the
// output root unless absolute. It returns the number of documents written.
func (w *Writer) WriteControls(products []*model.Product, dir string) (int, error) {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(w.root, dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, ferrors.FileSystemError("cannot create control documents directory").
			WithCause(err).
			WithContext("path", dir).
			Build()
	}

	n := 0
	seen := make(map[string]string)
	for _, p := range products {
		for _, s := range p.Stigs {
			for _, c := range s.Controls {
				doc := NewControlDocument(c)
				if prev, dup := seen[doc.ID]; dup {
					return n, ferrors.FileSystemError("two controls share a document id").
						WithCause(ErrDuplicateDocumentID).
						WithContext("id", doc.ID).
						WithContext("control", c.DisaStigID).
						WithContext("other", prev).
						Build()
				}
				seen[doc.ID] = c.DisaStigID
				if err := w.writeJSON(filepath.Join(dir, doc.ID+".json"), doc); err != nil {
					return n, err
				}
				n++
			}
		}
	}
	return n, nil
}

// writeJSON marshals v with sorted map keys and without HTML escaping; the
// text fields already hold escaped HTML.
func (w *Writer) writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return ferrors.InternalError("cannot encode sidecar").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return ferrors.FileSystemError("cannot write sidecar").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}
