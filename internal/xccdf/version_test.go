package xccdf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		version int
		release int
	}{
		{"simple", "v1r2.xml", 1, 2},
		{"multi digit", "/data/products/rhel8/v10r3.xml", 10, 3},
		{"upper case", "V2R11.XML", 2, 11},
		{"leading zeros", "v01r007.xml", 1, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, r, err := ParseVersion(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.version, v)
			assert.Equal(t, tt.release, r)
		})
	}
}

func TestParseVersionRejectsOtherNames(t *testing.T) {
	for _, name := range []string{
		"v1r2.xml.bak",
		"rhel8-v1r2.xml",
		"v1.xml",
		"vxr1.xml",
		"v1r2xml",
		"product.toml",
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := ParseVersion("/in/" + name)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrVersionFormat))
			assert.Contains(t, err.Error(), "/in/"+name)
			assert.False(t, IsDocumentName(name))
		})
	}
}
