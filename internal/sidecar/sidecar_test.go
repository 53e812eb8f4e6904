package sidecar

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/stigaview/stigaview/internal/foundation/errors"
	"github.com/stigaview/stigaview/internal/model"
)

func fixture() []*model.Product {
	rhel := model.NewProduct("rhel8", "Red Hat Enterprise Linux 8")
	newer := &model.Stig{Version: 1, Release: 2, ReleaseDate: model.NewDate(2023, time.June, 1)}
	older := &model.Stig{Version: 1, Release: 1, ReleaseDate: model.NewDate(2023, time.January, 1)}
	rhel.AddStig(newer)
	rhel.AddStig(older)
	srg := &model.Srg{ID: "SRG-OS-000480-GPOS-00227"}
	newer.AddControl(&model.Control{
		DisaStigID:      "RHEL-08-010010",
		VulnerabilityID: "230221",
		Severity:        model.SeverityHigh,
		Title:           "Vendor supported release",
		Description:     "Contact &lt;VendorX&gt; for details",
		Fix:             "Upgrade",
		Check:           "Verify",
		CCI:             []string{"CCI-000366"},
		Srg:             srg,
	})
	older.AddControl(&model.Control{DisaStigID: "RHEL-08-010010", Srg: srg, Severity: model.SeverityUnknown})

	empty := model.NewProduct("alpine", "Alpine Linux")
	return []*model.Product{empty, rhel}
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func TestWriteMaps(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, NewWriter(out).WriteMaps(fixture()))

	var versions map[string][]string
	readJSON(t, filepath.Join(out, StigMapFile), &versions)
	assert.Equal(t, map[string][]string{
		"alpine": {},
		"rhel8":  {"V1R1", "V1R2"},
	}, versions)

	var names map[string]string
	readJSON(t, filepath.Join(out, ProductsFile), &names)
	assert.Equal(t, map[string]string{
		"alpine": "Alpine Linux",
		"rhel8":  "Red Hat Enterprise Linux 8",
	}, names)
}

func TestWriteMapsSortsKeys(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, NewWriter(out).WriteMaps(fixture()))

	data, err := os.ReadFile(filepath.Join(out, ProductsFile))
	require.NoError(t, err)
	assert.Less(t, strings.Index(string(data), "alpine"), strings.Index(string(data), "rhel8"))
}

func TestWriteControls(t *testing.T) {
	out := t.TempDir()
	n, err := NewWriter(out).WriteControls(fixture(), "json_controls")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var doc ControlDocument
	readJSON(t, filepath.Join(out, "json_controls", "rhel8-v1r2-RHEL-08-010010.json"), &doc)
	assert.Equal(t, "rhel8-v1r2-RHEL-08-010010", doc.ID)
	assert.Equal(t, "Red Hat Enterprise Linux 8", doc.ProductName)
	assert.Equal(t, "V1R2", doc.Stig)
	assert.Equal(t, "2023-06-01", doc.ReleaseDate.String())
	assert.Equal(t, "SRG-OS-000480-GPOS-00227", doc.SRG)
	assert.Equal(t, "high", doc.Severity)
	assert.Equal(t, []string{"CCI-000366"}, doc.CCI)
	assert.Equal(t, "/products/rhel8/v1r2/RHEL-08-010010/", doc.Path)

	raw, err := os.ReadFile(filepath.Join(out, "json_controls", "rhel8-v1r2-RHEL-08-010010.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "&lt;VendorX&gt;")

	var older ControlDocument
	readJSON(t, filepath.Join(out, "json_controls", "rhel8-v1r1-RHEL-08-010010.json"), &older)
	assert.Equal(t, []string{}, older.CCI)
	assert.Equal(t, "unknown", older.Severity)
}

func TestDocumentIDReplacesUnsafeCharacters(t *testing.T) {
	p := model.NewProduct("win 2022", "Windows Server 2022")
	s := &model.Stig{Version: 2, Release: 1}
	p.AddStig(s)
	c := &model.Control{DisaStigID: "WN22/00.10"}
	s.AddControl(c)
	assert.Equal(t, "win_2022-v2r1-WN22_00_10", DocumentID(c))
}

func TestWriteControlsUnwritableDir(t *testing.T) {
	out := t.TempDir()
	blocker := filepath.Join(out, "json_controls")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := NewWriter(out).WriteControls(fixture(), "json_controls")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
}

func TestWriteControlsDocumentIDCollision(t *testing.T) {
	p := model.NewProduct("rhel8", "RHEL 8")
	s := &model.Stig{Version: 1, Release: 1}
	p.AddStig(s)
	s.AddControl(&model.Control{DisaStigID: "A.1"})
	s.AddControl(&model.Control{DisaStigID: "A_1"})

	_, err := NewWriter(t.TempDir()).WriteControls([]*model.Product{p}, "json_controls")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
	assert.ErrorIs(t, err, ErrDuplicateDocumentID)
}
