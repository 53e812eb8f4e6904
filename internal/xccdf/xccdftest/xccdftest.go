// Package xccdftest builds small benchmark documents for tests.
package xccdftest

import (
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"
)

// Rule describes one Group/Rule pair. Zero fields get usable defaults.
type Rule struct {
	VulnID     string
	SRG        string
	StigID     string
	Severity   string
	Title      string
	Discussion string
	Fix        string
	Check      string
	CCI        []string
}

func (r Rule) withDefaults() Rule {
	if r.VulnID == "" {
		r.VulnID = "V-" + r.StigID
	}
	if r.SRG == "" {
		r.SRG = "SRG-OS-000480-GPOS-00227"
	}
	if r.Severity == "" {
		r.Severity = "medium"
	}
	if r.Title == "" {
		r.Title = "Rule " + r.StigID
	}
	if r.Fix == "" {
		r.Fix = "Fix " + r.StigID
	}
	if r.Check == "" {
		r.Check = "Check " + r.StigID
	}
	return r
}

func esc(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// Description returns the raw description text the format embeds in a rule.
func Description(discussion string) string {
	return "<VulnDiscussion>" + discussion + "</VulnDiscussion>" +
		"<FalsePositives></FalsePositives><FalseNegatives></FalseNegatives>" +
		"<Documentable>false</Documentable><Mitigations></Mitigations>" +
		"<SeverityOverrideGuidance></SeverityOverrideGuidance><PotentialImpacts></PotentialImpacts>" +
		"<ThirdPartyTools></ThirdPartyTools><MitigationControl></MitigationControl>" +
		"<Responsibility></Responsibility><IAControls></IAControls>"
}

// Document renders an XCCDF 1.1 benchmark holding rules.
func Document(rules ...Rule) string {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	b.WriteString(`<Benchmark xmlns="http://checklists.nist.gov/xccdf/1.1" id="Test_STIG">` + "\n")
	for _, r := range rules {
		r = r.withDefaults()
		b.WriteString(`<Group id="` + esc(r.VulnID) + `"><title>` + esc(r.SRG) + `</title>`)
		b.WriteString(`<Rule id="SV-` + esc(r.StigID) + `_rule" severity="` + esc(r.Severity) + `" weight="10.0">`)
		b.WriteString(`<version>` + esc(r.StigID) + `</version>`)
		b.WriteString(`<title>` + esc(r.Title) + `</title>`)
		b.WriteString(`<description>` + esc(Description(r.Discussion)) + `</description>`)
		for _, cci := range r.CCI {
			b.WriteString(`<ident system="http://cyber.mil/cci">` + esc(cci) + `</ident>`)
		}
		b.WriteString(`<ident system="http://cyber.mil/legacy">SV-1</ident>`)
		b.WriteString(`<fixtext fixref="F-1">` + esc(r.Fix) + `</fixtext>`)
		b.WriteString(`<check system="C-1"><check-content>` + esc(r.Check) + `</check-content></check>`)
		b.WriteString("</Rule></Group>\n")
	}
	b.WriteString("</Benchmark>\n")
	return b.String()
}

// Write stores a benchmark document at path, creating parent directories.
func Write(t testing.TB, path string, rules ...Rule) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(Document(rules...)), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
