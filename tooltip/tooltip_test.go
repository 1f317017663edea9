package tooltip

import (
	"testing"

	"github.com/TFMV/insights/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowRendersTemplate(t *testing.T) {
	tip, err := New("")
	require.NoError(t, err)

	err = tip.Show(Near(100, 50), map[string]any{"text": "Apples", "size": 10})
	require.NoError(t, err)

	assert.True(t, tip.Visible())
	assert.Equal(t, "<div>word: Apples</div> <div>count: 10</div>", tip.Content())
	off, ok := tip.Offset()
	require.True(t, ok)
	assert.Equal(t, Offset{Left: 110, Top: 60}, off)
}

func TestShowWithoutOffsetFails(t *testing.T) {
	tip, err := New("{{text}}")
	require.NoError(t, err)

	err = tip.Show(nil, map[string]any{"text": "x"})
	assert.True(t, errors.Is(err, errors.ErrMissingOffset))
	assert.False(t, tip.Visible())
}

func TestShowReusesPreviousValues(t *testing.T) {
	tip, err := New("{{text}}")
	require.NoError(t, err)
	require.NoError(t, tip.Show(&Offset{Left: 1, Top: 2}, map[string]any{"text": "a"}))

	require.NoError(t, tip.Show(nil, nil))
	assert.Equal(t, "a", tip.Content())

	require.NoError(t, tip.Show(nil, map[string]any{"text": "b"}))
	assert.Equal(t, "b", tip.Content())
	off, _ := tip.Offset()
	assert.Equal(t, Offset{Left: 1, Top: 2}, off)
}

func TestContentIsEscaped(t *testing.T) {
	tip, err := New("{{text}}")
	require.NoError(t, err)
	require.NoError(t, tip.Show(&Offset{}, map[string]any{"text": "<b>"}))

	assert.Equal(t, "&lt;b&gt;", tip.Content())
}

func TestHide(t *testing.T) {
	tip, err := New("{{text}}")
	require.NoError(t, err)
	require.NoError(t, tip.Show(&Offset{}, map[string]any{"text": "a"}))

	tip.Hide()

	assert.False(t, tip.Visible())
	assert.Equal(t, "a", tip.Content())
}

func TestMalformedTemplate(t *testing.T) {
	_, err := New("{{#section}}never closed")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidTemplate))
	assert.True(t, errors.IsConfigError(err))
}
