// Package xccdf imports DISA STIG benchmark documents (XCCDF 1.1) into the
// catalog model.
package xccdf

import (
	"encoding/xml"
)

// Namespace URIs accepted on the Benchmark root element.
const (
	NamespaceXCCDF11 = "http://checklists.nist.gov/xccdf/1.1"
	NamespaceXCCDF12 = "http://checklists.nist.gov/xccdf/1.2"
)

// CCISystem is the ident system URI marking control-correlation identifiers.
const CCISystem = "http://cyber.mil/cci"

const vulnerabilityPrefix = "V-"

func knownNamespace(ns string) bool {
	switch ns {
	case NamespaceXCCDF11, NamespaceXCCDF12:
		return true
	}
	return false
}

// KnownDescriptionElement reports whether name is one of the sub-elements the
// format embeds in a rule description. Any other angle-bracketed word found in
// a description is literal text.
func KnownDescriptionElement(name string) bool {
	switch name {
	case "VulnDiscussion",
		"FalsePositives",
		"FalseNegatives",
		"Documentable",
		"Mitigations",
		"SeverityOverrideGuidance",
		"PotentialImpacts",
		"ThirdPartyTools",
		"MitigationControl",
		"Responsibility",
		"IAControls":
		return true
	}
	return false
}

// Element names are matched by local name; the root namespace is checked once
// after decoding.
type benchmark struct {
	XMLName xml.Name `xml:"Benchmark"`
	Groups  []group  `xml:"Group"`
}

type group struct {
	ID    string  `xml:"id,attr"`
	Title *string `xml:"title"`
	Rules []rule  `xml:"Rule"`
}

type rule struct {
	ID          string   `xml:"id,attr"`
	Severity    string   `xml:"severity,attr"`
	Version     *string  `xml:"version"`
	Title       *string  `xml:"title"`
	Description *string  `xml:"description"`
	FixTexts    []string `xml:"fixtext"`
	Checks      []check  `xml:"check"`
	Idents      []ident  `xml:"ident"`
}

type check struct {
	Content *string `xml:"check-content"`
}

type ident struct {
	System string `xml:"system,attr"`
	Value  string `xml:",chardata"`
}

// descriptionRoot is the synthetic document wrapped around a rule description.
type descriptionRoot struct {
	XMLName        xml.Name `xml:"root"`
	VulnDiscussion *string  `xml:"VulnDiscussion"`
}
