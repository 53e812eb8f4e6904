package xccdf

import (
	"html"
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`<([a-zA-Z0-9_-]+)>`)

// EscapePlaceholders rewrites angle-bracketed words that are not known
// description sub-elements as escaped text, so "<VendorX>" becomes
// "&lt;VendorX&gt;". Known sub-elements and closing tags are left alone.
func EscapePlaceholders(text string) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := match[1 : len(match)-1]
		if KnownDescriptionElement(name) {
			return match
		}
		return "&lt;" + name + "&gt;"
	})
}

// TextToHTML escapes text for HTML and turns newlines into line breaks.
func TextToHTML(text string) string {
	return strings.ReplaceAll(html.EscapeString(text), "\n", "<br />")
}

// prepareDescription turns a raw rule description into a well-formed XML
// fragment. Ampersands are escaped first so the entities introduced for
// placeholders and "<<<" decode back to literal text exactly once.
func prepareDescription(raw string) string {
	s := strings.ReplaceAll(raw, "&", "&amp;")
	s = EscapePlaceholders(s)
	s = strings.ReplaceAll(s, "<<<", "&lt;&lt;&lt;")
	return "<root>" + s + "</root>"
}
