package xccdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapePlaceholders(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Contact <VendorX> for details", "Contact &lt;VendorX&gt; for details"},
		{"<VulnDiscussion>kept</VulnDiscussion>", "<VulnDiscussion>kept</VulnDiscussion>"},
		{"set <value_name> and <other-one>", "set &lt;value_name&gt; and &lt;other-one&gt;"},
		{"a < b > c", "a < b > c"},
		{"<IAControls></IAControls>", "<IAControls></IAControls>"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EscapePlaceholders(tt.in), tt.in)
	}
}

func TestTextToHTML(t *testing.T) {
	assert.Equal(t, "a &lt;b&gt; &amp; &#34;c&#34;<br />next", TextToHTML("a <b> & \"c\"\nnext"))
	assert.Equal(t, "", TextToHTML(""))
}

func TestVulnDiscussionKeepsPlaceholdersAsText(t *testing.T) {
	raw := "<VulnDiscussion>Contact <VendorX> for details & more <<< here</VulnDiscussion><FalsePositives></FalsePositives>"
	got, err := vulnDiscussion(raw)
	require.NoError(t, err)
	assert.Equal(t, "Contact <VendorX> for details & more <<< here", got)
	assert.Equal(t, "Contact &lt;VendorX&gt; for details &amp; more &lt;&lt;&lt; here", TextToHTML(got))
}

func TestVulnDiscussionErrors(t *testing.T) {
	_, err := vulnDiscussion("<FalsePositives></FalsePositives>")
	require.Error(t, err)

	_, err = vulnDiscussion("<VulnDiscussion>unterminated")
	require.Error(t, err)
}
