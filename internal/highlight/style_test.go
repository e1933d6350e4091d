package highlight

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSS(t *testing.T) {
	t.Parallel()

	var buff bytes.Buffer
	require.NoError(t, WriteCSS(&buff, PlainStyle))

	got := buff.String()
	assert.Contains(t, got, "pre.docglow { background-color: #eeeeee }\n")
	assert.Contains(t, got, ".code-comment { color: #666666 }\n")
	assert.NotContains(t, got, ".code-string",
		"tokens matching the background should not get rules")
}

func TestLookupStyle(t *testing.T) {
	t.Parallel()

	t.Run("known", func(t *testing.T) {
		t.Parallel()

		style, err := LookupStyle("plain")
		require.NoError(t, err)
		assert.Same(t, PlainStyle, style)
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()

		_, err := LookupStyle("does-not-exist")
		assert.ErrorContains(t, err, `unknown style "does-not-exist"`)
	})
}
