package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStig(p *Product, version, release int, date Date) *Stig {
	s := &Stig{Version: version, Release: release, ReleaseDate: date}
	p.AddStig(s)
	return s
}

func TestShortVersionAndSlug(t *testing.T) {
	s := &Stig{Version: 10, Release: 3}
	assert.Equal(t, "V10R3", s.ShortVersion())
	assert.Equal(t, "v10r3", s.Slug())
}

func TestLatestStigUsesReleaseDate(t *testing.T) {
	p := NewProduct("rhel8", "Red Hat Enterprise Linux 8")
	assert.Nil(t, p.LatestStig())

	newStig(p, 1, 2, NewDate(2023, time.June, 1))
	old := newStig(p, 1, 1, NewDate(2023, time.January, 1))
	require.NotNil(t, old)

	latest := p.LatestStig()
	require.NotNil(t, latest)
	assert.Equal(t, "V1R2", latest.ShortVersion())
}

func TestLatestStigTieBreaksOnVersionRelease(t *testing.T) {
	p := NewProduct("ol8", "Oracle Linux 8")
	same := NewDate(2024, time.March, 5)
	newStig(p, 2, 1, same)
	newStig(p, 1, 9, same)

	assert.Equal(t, "V2R1", p.LatestStig().ShortVersion())
}

func TestSortedStigsIsPure(t *testing.T) {
	p := NewProduct("rhel9", "RHEL 9")
	newStig(p, 1, 3, NewDate(2024, time.July, 1))
	newStig(p, 1, 1, NewDate(2023, time.January, 1))
	newStig(p, 1, 2, NewDate(2023, time.June, 1))

	sorted := SortedStigs(p.Stigs)
	assert.Equal(t, []string{"V1R1", "V1R2", "V1R3"}, shortVersions(sorted))
	assert.Equal(t, []string{"V1R3", "V1R1", "V1R2"}, shortVersions(p.Stigs), "input must keep its order")
}

func TestCompareStigsAcrossProducts(t *testing.T) {
	a := NewProduct("alma9", "AlmaLinux 9")
	b := NewProduct("rhel9", "RHEL 9")
	date := NewDate(2024, time.January, 1)
	sb := newStig(b, 1, 1, date)
	sa := newStig(a, 1, 1, date)

	assert.Negative(t, CompareStigs(sa, sb))
	assert.Positive(t, CompareStigs(sb, sa))
	assert.Zero(t, CompareStigs(sa, sa))
}

func TestSortedProducts(t *testing.T) {
	in := []*Product{NewProduct("win11", "Windows 11"), NewProduct("alma9", "AlmaLinux 9"), NewProduct("rhel8", "RHEL 8")}
	out := SortedProducts(in)
	names := make([]string, len(out))
	for i, p := range out {
		names[i] = p.ShortName
	}
	assert.Equal(t, []string{"alma9", "rhel8", "win11"}, names)
	assert.Equal(t, "win11", in[0].ShortName)
}

func TestSortControls(t *testing.T) {
	s := &Stig{Version: 1, Release: 1}
	for _, id := range []string{"RHEL-08-030000", "RHEL-08-010010", "RHEL-08-020000"} {
		s.AddControl(&Control{DisaStigID: id})
	}
	s.SortControls()

	ids := make([]string, len(s.Controls))
	for i, c := range s.Controls {
		ids[i] = c.DisaStigID
		assert.Same(t, s, c.Stig)
	}
	assert.Equal(t, []string{"RHEL-08-010010", "RHEL-08-020000", "RHEL-08-030000"}, ids)
}

func TestRecentStigs(t *testing.T) {
	var products []*Product
	for i, slug := range []string{"a", "b", "c"} {
		p := NewProduct(slug, slug)
		for r := 1; r <= 4; r++ {
			newStig(p, 1, r, NewDate(2020+r, time.Month(i+1), 1))
		}
		products = append(products, p)
	}

	recent := RecentStigs(products, 9)
	require.Len(t, recent, 9)
	for i := 1; i < len(recent); i++ {
		assert.GreaterOrEqual(t, CompareStigs(recent[i-1], recent[i]), 0, "newest first")
	}
	assert.Equal(t, "c", recent[0].ProductName())
	assert.Equal(t, 2024, recent[0].ReleaseDate.Year())

	assert.Len(t, RecentStigs(products[:1], 9), 4)
}

func TestParseSeverity(t *testing.T) {
	cases := map[string]Severity{
		"high":    SeverityHigh,
		"Medium":  SeverityMedium,
		" low ":   SeverityLow,
		"CAT I":   SeverityHigh,
		"":        SeverityUnknown,
		"bananas": SeverityUnknown,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseSeverity(raw), raw)
	}
	assert.Equal(t, "Medium", SeverityMedium.Label())
	assert.Equal(t, "CAT I", SeverityHigh.Category())
	assert.Greater(t, SeverityHigh.Weight(), SeverityLow.Weight())
}

func TestDateText(t *testing.T) {
	var d Date
	require.NoError(t, d.UnmarshalText([]byte("2023-06-01")))
	assert.Equal(t, "2023-06-01", d.String())

	require.NoError(t, d.UnmarshalText([]byte("2023-06-02T00:00:00Z")))
	assert.Equal(t, "2023-06-02", d.String())

	require.Error(t, d.UnmarshalText([]byte("June 1st")))

	b, err := json.Marshal(struct {
		D Date `json:"d"`
	}{D: NewDate(2023, time.June, 1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2023-06-01"}`, string(b))
}

func shortVersions(stigs []*Stig) []string {
	out := make([]string, len(stigs))
	for i, s := range stigs {
		out[i] = s.ShortVersion()
	}
	return out
}

func TestSitePaths(t *testing.T) {
	p := NewProduct("rhel8", "Red Hat Enterprise Linux 8")
	s := newStig(p, 1, 12, NewDate(2023, time.October, 25))
	c := &Control{DisaStigID: "RHEL-08-010010"}
	s.AddControl(c)

	assert.Equal(t, "/products/rhel8/", ProductPath(p))
	assert.Equal(t, "/products/rhel8/v1r12/", StigPath(s))
	assert.Equal(t, "/products/rhel8/v1r12/RHEL-08-010010/", ControlPath(c))
	assert.Equal(t, "/srgs/SRG-OS-000480-GPOS-00227/", SrgPath("SRG-OS-000480-GPOS-00227"))
}
