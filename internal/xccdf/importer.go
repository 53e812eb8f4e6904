package xccdf

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"

	ferrors "github.com/stigaview/stigaview/internal/foundation/errors"
	"github.com/stigaview/stigaview/internal/model"
	"github.com/stigaview/stigaview/internal/srg"
)

// ErrMalformed is the cause of every malformed document error.
var ErrMalformed = errors.New("malformed benchmark document")

// Import parses the document at path into a fully populated Stig owned by
// product, along with the SRG contribution of its controls. The stig carries a
// back-reference to product but is not appended to it; callers decide ordering.
func Import(path string, releaseDate model.Date, product *model.Product) (*model.Stig, srg.Contribution, error) {
	version, release, err := ParseVersion(path)
	if err != nil {
		return nil, nil, ferrors.VersionFormatError("cannot derive version from document file name").
			WithCause(err).
			WithContext("product", product.ShortName).
			WithContext("path", path).
			Build()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, ferrors.FileSystemError("cannot open document").
			WithCause(err).
			WithContext("product", product.ShortName).
			WithContext("path", path).
			Build()
	}
	defer func() { _ = f.Close() }()

	stig := &model.Stig{
		Version:     version,
		Release:     release,
		ReleaseDate: releaseDate,
		Product:     product,
	}
	contribution, err := decode(f, stig)
	if err != nil {
		return nil, nil, malformed(err, stig, path)
	}
	return stig, contribution, nil
}

// decodeError names the control being decoded when a failure occurs.
type decodeError struct {
	control string
	err     error
}

func (e *decodeError) Error() string {
	if e.control == "" {
		return e.err.Error()
	}
	return e.control + ": " + e.err.Error()
}

func (e *decodeError) Unwrap() error { return e.err }

func malformed(err error, stig *model.Stig, path string) error {
	b := ferrors.MalformedDocumentError("cannot import document").
		WithCause(fmt.Errorf("%w: %w", ErrMalformed, err)).
		WithContext("product", stig.ProductName()).
		WithContext("version", stig.ShortVersion()).
		WithContext("path", path)
	var de *decodeError
	if errors.As(err, &de) && de.control != "" {
		b = b.WithContext("control", de.control)
	}
	return b.Build()
}

// decode reads a benchmark from r and adds its controls to stig.
func decode(r io.Reader, stig *model.Stig) (srg.Contribution, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var doc benchmark
	if err := dec.Decode(&doc); err != nil {
		return nil, &decodeError{err: err}
	}
	if !knownNamespace(doc.XMLName.Space) {
		return nil, &decodeError{err: fmt.Errorf("unsupported namespace %q", doc.XMLName.Space)}
	}

	var contribution srg.Contribution
	srgs := make(map[string]*model.Srg)
	seen := make(map[string]struct{})
	for _, g := range doc.Groups {
		for _, r := range g.Rules {
			c, err := buildControl(g, r)
			if err != nil {
				return nil, err
			}
			if _, dup := seen[c.DisaStigID]; dup {
				return nil, &decodeError{control: c.DisaStigID, err: errors.New("duplicate rule version")}
			}
			seen[c.DisaStigID] = struct{}{}
			id := strings.TrimSpace(*g.Title)
			s, ok := srgs[id]
			if !ok {
				s = &model.Srg{ID: id}
				srgs[id] = s
			}
			c.Srg = s
			stig.AddControl(c)
			contribution.Add(id, c)
		}
	}
	return contribution, nil
}

func buildControl(g group, r rule) (*model.Control, error) {
	name := r.ID
	if r.Version != nil && strings.TrimSpace(*r.Version) != "" {
		name = strings.TrimSpace(*r.Version)
	}
	fail := func(format string, args ...any) error {
		return &decodeError{control: name, err: fmt.Errorf(format, args...)}
	}

	switch {
	case g.Title == nil || strings.TrimSpace(*g.Title) == "":
		return nil, fail("group %s has no title", g.ID)
	case r.Version == nil || strings.TrimSpace(*r.Version) == "":
		return nil, fail("rule has no version")
	case r.Title == nil:
		return nil, fail("rule has no title")
	case r.Description == nil:
		return nil, fail("rule has no description")
	}
	if err := model.CheckSegment(strings.TrimSpace(*g.Title)); err != nil {
		return nil, fail("group %s title: %w", g.ID, err)
	}
	if err := model.CheckSegment(name); err != nil {
		return nil, fail("rule version: %w", err)
	}

	discussion, err := vulnDiscussion(*r.Description)
	if err != nil {
		return nil, fail("description: %w", err)
	}

	if len(r.FixTexts) == 0 {
		return nil, fail("rule has no fixtext")
	}
	content, ok := checkContent(r.Checks)
	if !ok {
		return nil, fail("rule has no check content")
	}

	cci := make([]string, 0, len(r.Idents))
	for _, id := range r.Idents {
		if id.System == CCISystem {
			cci = append(cci, strings.TrimSpace(id.Value))
		}
	}

	return &model.Control{
		DisaStigID:      name,
		VulnerabilityID: strings.TrimPrefix(g.ID, vulnerabilityPrefix),
		Severity:        model.ParseSeverity(r.Severity),
		Title:           *r.Title,
		Description:     TextToHTML(discussion),
		Fix:             TextToHTML(r.FixTexts[0]),
		Check:           TextToHTML(content),
		CCI:             cci,
	}, nil
}

func checkContent(checks []check) (string, bool) {
	for _, c := range checks {
		if c.Content != nil {
			return *c.Content, true
		}
	}
	return "", false
}

// vulnDiscussion parses a raw description as an embedded document and returns
// the text of its VulnDiscussion element.
func vulnDiscussion(raw string) (string, error) {
	var root descriptionRoot
	if err := xml.Unmarshal([]byte(prepareDescription(raw)), &root); err != nil {
		return "", err
	}
	if root.VulnDiscussion == nil {
		return "", errors.New("no VulnDiscussion element")
	}
	return *root.VulnDiscussion, nil
}
