package xccdf

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/stigaview/stigaview/internal/foundation/errors"
	"github.com/stigaview/stigaview/internal/model"
	"github.com/stigaview/stigaview/internal/xccdf/xccdftest"
)

func TestImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v1r2.xml")
	xccdftest.Write(t, path,
		xccdftest.Rule{
			VulnID:     "V-230222",
			SRG:        "SRG-OS-000366-GPOS-00153",
			StigID:     "RHEL-08-010010",
			Severity:   "high",
			Title:      "RHEL 8 must be a vendor-supported release.",
			Discussion: "Contact <VendorX> for details.\nSecond line.",
			Fix:        "Upgrade to a supported version.",
			Check:      "$ cat /etc/redhat-release",
			CCI:        []string{"CCI-001230", "CCI-000366"},
		},
		xccdftest.Rule{
			StigID: "RHEL-08-010020",
			SRG:    "SRG-OS-000366-GPOS-00153",
		},
		xccdftest.Rule{
			StigID: "RHEL-08-010030",
			SRG:    "SRG-OS-000480-GPOS-00227",
		},
	)

	product := model.NewProduct("rhel8", "Red Hat Enterprise Linux 8")
	date := model.NewDate(2023, time.June, 1)

	stig, contribution, err := Import(path, date, product)
	require.NoError(t, err)

	assert.Equal(t, 1, stig.Version)
	assert.Equal(t, 2, stig.Release)
	assert.Equal(t, "V1R2", stig.ShortVersion())
	assert.Equal(t, date, stig.ReleaseDate)
	assert.Same(t, product, stig.Product)
	assert.Empty(t, product.Stigs, "import must not append to the product")
	require.Len(t, stig.Controls, 3)

	c := stig.Controls[0]
	assert.Equal(t, "RHEL-08-010010", c.DisaStigID)
	assert.Equal(t, "230222", c.VulnerabilityID)
	assert.Equal(t, model.SeverityHigh, c.Severity)
	assert.Equal(t, "RHEL 8 must be a vendor-supported release.", c.Title)
	assert.Equal(t, "Contact &lt;VendorX&gt; for details.<br />Second line.", c.Description)
	assert.Equal(t, "Upgrade to a supported version.", c.Fix)
	assert.Equal(t, "$ cat /etc/redhat-release", c.Check)
	assert.Equal(t, []string{"CCI-001230", "CCI-000366"}, c.CCI)
	assert.Same(t, stig, c.Stig)
	assert.Equal(t, "SRG-OS-000366-GPOS-00153", c.SrgID())

	assert.Empty(t, stig.Controls[1].CCI)
	assert.NotNil(t, stig.Controls[1].CCI)
	assert.Same(t, c.Srg, stig.Controls[1].Srg, "controls of one SRG share the Srg")

	require.Len(t, contribution, 3)
	assert.Equal(t, "SRG-OS-000366-GPOS-00153", contribution[0].ID)
	assert.Same(t, c, contribution[0].Control)
	assert.Equal(t, "SRG-OS-000480-GPOS-00227", contribution[2].ID)
}

func TestImportIsStableAcrossReparses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v3r1.xml")
	xccdftest.Write(t, path, xccdftest.Rule{StigID: "A-1"}, xccdftest.Rule{StigID: "A-2"})
	product := model.NewProduct("p", "P")

	first, _, err := Import(path, model.NewDate(2024, time.January, 1), product)
	require.NoError(t, err)
	second, _, err := Import(path, model.NewDate(2024, time.January, 1), product)
	require.NoError(t, err)

	require.Len(t, second.Controls, len(first.Controls))
	for i := range first.Controls {
		assert.Equal(t, first.Controls[i].DisaStigID, second.Controls[i].DisaStigID)
	}
}

func TestImportVersionFormatError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rhel8.xml")
	xccdftest.Write(t, path, xccdftest.Rule{StigID: "A-1"})

	_, _, err := Import(path, model.Date{}, model.NewProduct("rhel8", "RHEL 8"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryVersionFormat))
	assert.True(t, errors.Is(err, ErrVersionFormat))
	assert.Contains(t, err.Error(), path)
}

func TestImportMalformedDocument(t *testing.T) {
	valid := xccdftest.Document(xccdftest.Rule{StigID: "RHEL-08-040000"})

	tests := []struct {
		name    string
		content string
		control string
	}{
		{
			name:    "not xml",
			content: "this is not a benchmark",
		},
		{
			name:    "foreign namespace",
			content: strings.Replace(valid, "http://checklists.nist.gov/xccdf/1.1", "urn:example", 1),
		},
		{
			name:    "missing fixtext",
			content: strings.Replace(valid, `<fixtext fixref="F-1">Fix RHEL-08-040000</fixtext>`, "", 1),
			control: "RHEL-08-040000",
		},
		{
			name:    "missing check content",
			content: strings.Replace(valid, `<check-content>Check RHEL-08-040000</check-content>`, "", 1),
			control: "RHEL-08-040000",
		},
		{
			name:    "unparseable description",
			content: strings.Replace(valid, "&lt;/VulnDiscussion&gt;", "&lt;/Broken&gt;", 1),
			control: "RHEL-08-040000",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "v1r1.xml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, _, err := Import(path, model.NewDate(2024, time.January, 1), model.NewProduct("rhel8", "RHEL 8"))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))

			ce, ok := ferrors.AsClassified(err)
			require.True(t, ok)
			assert.Equal(t, ferrors.CategoryMalformedDocument, ce.Category())
			product, _ := ce.Context().GetString("product")
			version, _ := ce.Context().GetString("version")
			assert.Equal(t, "rhel8", product)
			assert.Equal(t, "V1R1", version)
			if tt.control != "" {
				control, _ := ce.Context().GetString("control")
				assert.Equal(t, tt.control, control)
			}
		})
	}
}

func TestImportUnknownSeverity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v1r1.xml")
	xccdftest.Write(t, path, xccdftest.Rule{StigID: "X-1", Severity: "critical"})

	stig, _, err := Import(path, model.Date{}, model.NewProduct("p", "P"))
	require.NoError(t, err)
	assert.Equal(t, model.SeverityUnknown, stig.Controls[0].Severity)
}

func TestImportDuplicateControl(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v1r1.xml")
	xccdftest.Write(t, path, xccdftest.Rule{StigID: "DUP-1"}, xccdftest.Rule{StigID: "DUP-1", VulnID: "V-2"})

	_, _, err := Import(path, model.Date{}, model.NewProduct("p", "P"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryMalformedDocument))
	assert.Contains(t, err.Error(), "DUP-1")
}

func TestImportRejectsUnsafeIdentifiers(t *testing.T) {
	tests := []struct {
		name string
		rule xccdftest.Rule
	}{
		{"srg with slash", xccdftest.Rule{StigID: "A-1", SRG: "SRG-APP/000001"}},
		{"srg parent", xccdftest.Rule{StigID: "A-1", SRG: "../../escape"}},
		{"srg dot", xccdftest.Rule{StigID: "A-1", SRG: "."}},
		{"rule version parent", xccdftest.Rule{StigID: ".."}},
		{"rule version backslash", xccdftest.Rule{StigID: `A\1`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "v1r1.xml")
			xccdftest.Write(t, path, tt.rule)

			_, _, err := Import(path, model.Date{}, model.NewProduct("p", "P"))
			require.Error(t, err)
			assert.True(t, ferrors.HasCategory(err, ferrors.CategoryMalformedDocument))
			assert.True(t, errors.Is(err, model.ErrUnsafeSegment))
		})
	}
}
