package ingest

import (
	"testing"

	"github.com/ohler55/ojg/oj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonWalker(t *testing.T) {
	input := `
{
  "items": [
    {"code": "en-US", "default": true},
    {"code": "de-DE", "fallbackCode": "en-US"}
  ],
  "sys": {"type": "Array"}
}
`
	data, err := oj.ParseString(input)
	require.NoError(t, err)

	w := NewJsonWalker()

	t.Run("select list of objects", func(t *testing.T) {
		matches, err := w.Query(data, "$.items[*]")
		require.NoError(t, err)
		require.Len(t, matches, 2)

		assert.Equal(t, map[string]any{"code": "en-US", "default": true}, matches[0].Values())
		assert.Equal(t, "de-DE", matches[1].Values()["code"])
	})

	t.Run("select primitive", func(t *testing.T) {
		matches, err := w.Query(data, "$.sys.type")
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, map[string]any{"value": "Array"}, matches[0].Values())
		assert.Equal(t, "Array", matches[0].Context())
	})

	t.Run("string lookup", func(t *testing.T) {
		s, ok := w.String(data, "$.sys.type")
		require.True(t, ok)
		assert.Equal(t, "Array", s)

		_, ok = w.String(data, "$.sys.missing")
		assert.False(t, ok)
		_, ok = w.String(data, "$.items")
		assert.False(t, ok, "non-string match")
	})

	t.Run("invalid selector", func(t *testing.T) {
		_, err := w.Query(data, "$.items[")
		assert.Error(t, err)
	})
}
