package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jarredhawkins/cfmatch/internal/types"
)

var word = types.TokenType{Lang: "t", Name: "WORD"}

func sample() (string, []types.Token) {
	text := "ab cd"
	return text, []types.Token{
		{Type: word, Start: 0, End: 2, Lang: "t"},
		{Type: types.TokenType{Lang: "t", Name: "SPACE"}, Start: 2, End: 3, Lang: "t"},
		{Type: word, Start: 3, End: 5, Lang: "t"},
	}
}

func TestSliceCursor_Walk(t *testing.T) {
	text, tokens := sample()
	c := New(text, tokens)

	require.False(t, c.AtEnd())
	assert.Equal(t, word, c.TokenType())
	assert.Equal(t, "ab", c.Text(c.Start(), c.End()))

	c.Advance()
	c.Advance()
	assert.Equal(t, "cd", c.Text(c.Start(), c.End()))
	assert.Equal(t, types.LanguageID("t"), c.Language())

	c.Advance()
	assert.True(t, c.AtEnd())
	c.Retreat()
	assert.False(t, c.AtEnd())
	assert.Equal(t, 2, c.Index())

	c.Seek(0)
	c.Retreat()
	assert.True(t, c.AtEnd())
}

func TestSliceCursor_TextClamps(t *testing.T) {
	text, tokens := sample()
	c := New(text, tokens)

	assert.Equal(t, "ab cd", c.Text(-3, 99))
	assert.Equal(t, "", c.Text(4, 2))
}

func TestAtOffset(t *testing.T) {
	text, tokens := sample()

	tests := []struct {
		offset int
		want   int
		ok     bool
	}{
		{0, 0, true},
		{1, 0, true},
		{2, 1, true},
		{3, 2, true},
		{4, 2, true},
		{5, 0, false},
		{-1, 0, false},
	}
	for _, tc := range tests {
		c, ok := AtOffset(text, tokens, tc.offset)
		assert.Equal(t, tc.ok, ok, "offset %d", tc.offset)
		if ok {
			assert.Equal(t, tc.want, c.Index(), "offset %d", tc.offset)
		}
	}
}

func TestStepper(t *testing.T) {
	text, tokens := sample()
	inner := New(text, tokens)
	s := StepOnly(inner)

	_, seekable := types.Cursor(s).(types.Seeker)
	assert.False(t, seekable)

	s.Advance()
	s.Advance()
	s.Retreat()
	assert.Equal(t, 3, s.Steps)
	assert.Equal(t, 1, inner.Index())
	assert.Equal(t, 2, s.Start())
}
