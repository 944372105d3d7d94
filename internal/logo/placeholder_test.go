package logo

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholderLabel(t *testing.T) {
	assert.Equal(t, "EX", PlaceholderLabel("example.com"))
	assert.Equal(t, "GI", PlaceholderLabel("github.com"))
	assert.Equal(t, "A", PlaceholderLabel("a"))
	assert.Equal(t, "??", PlaceholderLabel(""))
}

func TestPlaceholderHue_DeterministicAndInRange(t *testing.T) {
	h1 := PlaceholderHue("example.com")
	h2 := PlaceholderHue("example.com")
	assert.Equal(t, h1, h2)
	assert.GreaterOrEqual(t, h1, 0)
	assert.Less(t, h1, 360)
}

func TestPlaceholder_EmbedsLabel(t *testing.T) {
	p := Placeholder("example.com")
	require.True(t, strings.HasPrefix(p, "data:image/svg+xml,"))

	svg, err := url.PathUnescape(strings.TrimPrefix(p, "data:image/svg+xml,"))
	require.NoError(t, err)
	assert.Contains(t, svg, ">EX</text>")
}

func TestPlaceholder_Deterministic(t *testing.T) {
	assert.Equal(t, Placeholder("site.org"), Placeholder("site.org"))
	assert.NotEqual(t, Placeholder("site.org"), Placeholder("other.org"))
}
