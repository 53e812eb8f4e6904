package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Severity is the normalised severity of a control.
type Severity string

const (
	SeverityHigh    Severity = "high"
	SeverityMedium  Severity = "medium"
	SeverityLow     Severity = "low"
	SeverityUnknown Severity = "unknown"
)

// ParseSeverity normalises a document severity attribute. Anything outside
// low/medium/high maps to SeverityUnknown.
func ParseSeverity(raw string) Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high", "cat i":
		return SeverityHigh
	case "medium", "cat ii":
		return SeverityMedium
	case "low", "cat iii":
		return SeverityLow
	default:
		return SeverityUnknown
	}
}

// Weight returns a numeric weight for sorting (higher = more severe).
func (s Severity) Weight() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Category returns the DISA category label (CAT I for high, ...).
func (s Severity) Category() string {
	switch s {
	case SeverityHigh:
		return "CAT I"
	case SeverityMedium:
		return "CAT II"
	case SeverityLow:
		return "CAT III"
	default:
		return ""
	}
}

// Label returns the display form, e.g. "Medium". A Caser is stateful, so one
// is built per call; labels are rendered from concurrent workers.
func (s Severity) Label() string {
	return cases.Title(language.English).String(string(s))
}

func (s Severity) String() string {
	return string(s)
}
