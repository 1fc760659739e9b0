package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStyle(t *testing.T) {
	for _, name := range []string{"realistic", "cartoon", "cyberpunk", "fantasy", "abstract"} {
		style, ok := ParseStyle(name)
		require.True(t, ok, "style %q should parse", name)
		assert.Equal(t, Style(name), style)
	}

	for _, name := range []string{"", "Fantasy", "vaporwave", "realistic "} {
		_, ok := ParseStyle(name)
		assert.False(t, ok, "style %q should be rejected", name)
	}
}

func TestStylesIsClosedSet(t *testing.T) {
	styles := Styles()
	assert.Len(t, styles, 5)

	// the returned slice is a copy; mutating it must not widen the set
	styles[0] = Style("graffiti")
	_, ok := ParseStyle("graffiti")
	assert.False(t, ok)
}
