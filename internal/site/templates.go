package site

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ferrors "github.com/stigaview/stigaview/internal/foundation/errors"
	"github.com/stigaview/stigaview/internal/model"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

//go:embed static/stigaview.css
var stylesheet []byte

// Template sources recorded in the build report.
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
)

// TemplateInfo records where a template was loaded from. Path is empty for
// embedded templates.
type TemplateInfo struct {
	Source string `json:"source"`
	Path   string `json:"path,omitempty"`
}

// Layout templates are shared by every page; each page template defines
// "content" and may redefine "title".
var (
	layoutTemplates = []string{"base", "control_body"}
	pageTemplates   = []string{
		"index", "products", "product", "stigs", "srgs", "srg_detail",
		"stig", "one_page_stig", "control",
	}
)

var funcs = template.FuncMap{
	"productURL": model.ProductPath,
	"stigURL":    model.StigPath,
	"controlURL": model.ControlPath,
	"srgURL":     model.SrgPath,
	"join":       strings.Join,
}

type templateSet struct {
	pages   map[string]*template.Template
	sources map[string]TemplateInfo
}

// loadTemplates parses the embedded templates, substituting any file of the
// same name found in overrideDir.
func loadTemplates(overrideDir string) (*templateSet, error) {
	set := &templateSet{
		pages:   make(map[string]*template.Template, len(pageTemplates)),
		sources: make(map[string]TemplateInfo, len(layoutTemplates)+len(pageTemplates)),
	}

	layout := template.New("").Funcs(funcs)
	for _, name := range layoutTemplates {
		if err := set.parse(layout, overrideDir, name); err != nil {
			return nil, err
		}
	}
	for _, name := range pageTemplates {
		t, err := layout.Clone()
		if err != nil {
			return nil, ferrors.InternalError("cannot clone layout templates").WithCause(err).Build()
		}
		if err := set.parse(t, overrideDir, name); err != nil {
			return nil, err
		}
		set.pages[name] = t
	}
	return set, nil
}

func (s *templateSet) parse(t *template.Template, overrideDir, name string) error {
	src, info, err := readTemplate(overrideDir, name)
	if err != nil {
		return err
	}
	if _, err := t.New(name + ".html").Parse(src); err != nil {
		return ferrors.RenderError("cannot parse template").
			WithCause(err).
			WithContext("template", name).
			WithContext("source", info.Source).
			Build()
	}
	s.sources[name] = info
	return nil
}

func readTemplate(overrideDir, name string) (string, TemplateInfo, error) {
	file := name + ".html"
	if overrideDir != "" {
		path := filepath.Join(overrideDir, file)
		b, err := os.ReadFile(path)
		if err == nil {
			return string(b), TemplateInfo{Source: SourceFile, Path: path}, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", TemplateInfo{}, ferrors.FileSystemError("cannot read template override").
				WithCause(err).
				WithContext("path", path).
				Build()
		}
	}
	b, err := embeddedTemplates.ReadFile("templates/" + file)
	if err != nil {
		return "", TemplateInfo{}, ferrors.InternalError("missing embedded template").
			WithCause(err).
			WithContext("template", name).
			Build()
	}
	return string(b), TemplateInfo{Source: SourceEmbedded}, nil
}

// execute renders the named page through the "base" layout.
func (s *templateSet) execute(w io.Writer, name string, data any) error {
	t, ok := s.pages[name]
	if !ok {
		return ferrors.InternalError("unknown page template").WithContext("template", name).Build()
	}
	if err := t.ExecuteTemplate(w, "base", data); err != nil {
		return ferrors.RenderError("cannot execute template").
			WithCause(err).
			WithContext("template", name).
			Build()
	}
	return nil
}
