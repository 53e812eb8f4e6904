package site

import (
	"html/template"

	"github.com/stigaview/stigaview/internal/model"
	"github.com/stigaview/stigaview/internal/srg"
)

// recentCount is the number of releases on the landing page.
const recentCount = 9

// SiteData holds the configured values shown on every page.
type SiteData struct {
	Title       string
	Description string
	BaseURL     string
}

// Page is embedded in every page's template data.
type Page struct {
	Site     SiteData
	Path     string // root-relative URL of the page
	Revision string
}

// ControlView exposes a control's HTML-safe text fields as template.HTML.
type ControlView struct {
	*model.Control
	Description template.HTML
	Fix         template.HTML
	Check       template.HTML
}

// viewControl wraps c for rendering. The importer has already escaped the
// text fields.
func viewControl(c *model.Control) ControlView {
	return ControlView{
		Control:     c,
		Description: template.HTML(c.Description), //nolint:gosec // escaped on import
		Fix:         template.HTML(c.Fix),         //nolint:gosec // escaped on import
		Check:       template.HTML(c.Check),       //nolint:gosec // escaped on import
	}
}

func viewControls(cs []*model.Control) []ControlView {
	out := make([]ControlView, len(cs))
	for i, c := range cs {
		out[i] = viewControl(c)
	}
	return out
}

type indexPage struct {
	Page
	Recent   []*model.Stig
	Products []*model.Product
}

type productsPage struct {
	Page
	Products []*model.Product
}

type stigsPage struct {
	Page
	Stigs []*model.Stig
}

// SrgEntry is one row of the SRG catalog.
type SrgEntry struct {
	ID    string
	Count int
}

type srgsPage struct {
	Page
	SRGs []SrgEntry
}

type srgDetailPage struct {
	Page
	ID       string
	Controls []ControlView
}

type productPage struct {
	Page
	Product     *model.Product
	Description template.HTML
	Stigs       []*model.Stig
	Latest      *model.Stig
}

type stigPage struct {
	Page
	Product  *model.Product
	Stig     *model.Stig
	Controls []ControlView
}

type controlPage struct {
	Page
	Product *model.Product
	Stig    *model.Stig
	Control ControlView
}

func srgEntries(m srg.Map) []SrgEntry {
	ids := m.IDs()
	out := make([]SrgEntry, len(ids))
	for i, id := range ids {
		out[i] = SrgEntry{ID: id, Count: len(m[id])}
	}
	return out
}
