package model

import (
	"fmt"
	"strings"
)

// Product is one benchmarked piece of software, identified by a unique slug.
type Product struct {
	ShortName   string
	FullName    string
	Description string // optional markdown from the product configuration
	Stigs       []*Stig
}

// NewProduct creates a product without stigs.
func NewProduct(shortName, fullName string) *Product {
	return &Product{ShortName: shortName, FullName: fullName}
}

// AddStig appends a stig and sets its back-reference.
func (p *Product) AddStig(s *Stig) {
	s.Product = p
	p.Stigs = append(p.Stigs, s)
}

// LatestStig returns the stig with the greatest release date, or nil when the
// product has none.
func (p *Product) LatestStig() *Stig {
	var latest *Stig
	for _, s := range p.Stigs {
		if latest == nil || CompareStigs(s, latest) > 0 {
			latest = s
		}
	}
	return latest
}

// ControlCount returns the number of controls across all stigs.
func (p *Product) ControlCount() int {
	n := 0
	for _, s := range p.Stigs {
		n += len(s.Controls)
	}
	return n
}

func (p *Product) String() string {
	return fmt.Sprintf("<Product %s>", p.ShortName)
}

// Stig is one release of a product's benchmark document.
type Stig struct {
	Version     int
	Release     int
	ReleaseDate Date
	Product     *Product
	Controls    []*Control
}

// ShortVersion returns the "V<version>R<release>" label.
func (s *Stig) ShortVersion() string {
	return fmt.Sprintf("V%dR%d", s.Version, s.Release)
}

// Slug returns the lowercased short version used as a path segment.
func (s *Stig) Slug() string {
	return strings.ToLower(s.ShortVersion())
}

// ProductName returns the owning product's slug, or "" for a detached stig.
func (s *Stig) ProductName() string {
	if s.Product == nil {
		return ""
	}
	return s.Product.ShortName
}

// AddControl appends a control and sets its back-reference.
func (s *Stig) AddControl(c *Control) {
	c.Stig = s
	s.Controls = append(s.Controls, c)
}

// SortControls orders the controls by their identifier. It is called once,
// before the catalog is handed to renderers.
func (s *Stig) SortControls() {
	s.Controls = SortedControls(s.Controls)
}

func (s *Stig) String() string {
	return fmt.Sprintf("<Stig %s %s>", s.ProductName(), s.ShortVersion())
}

// Srg is a generic requirement that specific controls map onto.
type Srg struct {
	ID string
}

// Control is one rule within a stig. Description, Fix and Check hold
// HTML-safe text.
type Control struct {
	DisaStigID      string
	VulnerabilityID string
	Severity        Severity
	Title           string
	Description     string
	Fix             string
	Check           string
	CCI             []string
	Srg             *Srg
	Stig            *Stig
}

// SrgID returns the identifier of the control's SRG, or "" when unset.
func (c *Control) SrgID() string {
	if c.Srg == nil {
		return ""
	}
	return c.Srg.ID
}

func (c *Control) String() string {
	return fmt.Sprintf("<Control %s>", c.DisaStigID)
}
