package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHeading(t *testing.T) {
	out, err := Render("# How do I reset my password?")
	require.NoError(t, err)
	assert.Equal(t, "<h1>How do I reset my password?</h1>\n", out)
}

func TestRenderEmpty(t *testing.T) {
	out, err := Render("   \n  ")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRenderList(t *testing.T) {
	out, err := Render("- one\n- two")
	require.NoError(t, err)
	assert.Contains(t, out, "<ul>")
	assert.Contains(t, out, "<li>one</li>")
	assert.Contains(t, out, "<li>two</li>")
}
