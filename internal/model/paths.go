package model

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrUnsafeSegment marks an identifier that cannot name a single directory of
// the site tree.
var ErrUnsafeSegment = errors.New("identifier is not a safe path segment")

// CheckSegment reports whether id can be used as one path segment, both as a
// directory on disk and, escaped, in a URL.
func CheckSegment(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, "/\\\x00") {
		return fmt.Errorf("%w: %q", ErrUnsafeSegment, id)
	}
	return nil
}

// Site locations are root-relative URL paths ending in a slash. Each maps to
// the directory holding that page's index.html.

// ProductPath returns the URL path of a product's page.
func ProductPath(p *Product) string {
	return "/products/" + url.PathEscape(p.ShortName) + "/"
}

// StigPath returns the URL path of a stig's detail page.
func StigPath(s *Stig) string {
	return "/products/" + url.PathEscape(s.ProductName()) + "/" + s.Slug() + "/"
}

// ControlPath returns the URL path of a control's page.
func ControlPath(c *Control) string {
	return StigPath(c.Stig) + url.PathEscape(c.DisaStigID) + "/"
}

// SrgPath returns the URL path of an SRG's detail page.
func SrgPath(id string) string {
	return "/srgs/" + url.PathEscape(id) + "/"
}
