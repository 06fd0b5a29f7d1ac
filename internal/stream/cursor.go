package stream

import (
	"sort"

	"github.com/jarredhawkins/cfmatch/internal/types"
)

// SliceCursor walks a token slice over its source text. It implements
// types.Cursor and types.Seeker.
type SliceCursor struct {
	text   string
	tokens []types.Token
	idx    int
}

// New returns a cursor positioned at the first token
func New(text string, tokens []types.Token) *SliceCursor {
	return &SliceCursor{text: text, tokens: tokens}
}

// At returns a cursor positioned at tokens[index]
func At(text string, tokens []types.Token, index int) *SliceCursor {
	return &SliceCursor{text: text, tokens: tokens, idx: index}
}

// AtOffset returns a cursor on the token covering offset. The second result is
// false when no token covers it.
func AtOffset(text string, tokens []types.Token, offset int) (*SliceCursor, bool) {
	i := sort.Search(len(tokens), func(i int) bool {
		return tokens[i].End > offset
	})
	if i >= len(tokens) || !tokens[i].Contains(offset) {
		return nil, false
	}
	return At(text, tokens, i), true
}

func (c *SliceCursor) TokenType() types.TokenType { return c.tokens[c.idx].Type }
func (c *SliceCursor) Start() int                 { return c.tokens[c.idx].Start }
func (c *SliceCursor) End() int                   { return c.tokens[c.idx].End }
func (c *SliceCursor) Language() types.LanguageID { return c.tokens[c.idx].Lang }
func (c *SliceCursor) Token() types.Token         { return c.tokens[c.idx] }

func (c *SliceCursor) Advance() { c.idx++ }
func (c *SliceCursor) Retreat() { c.idx-- }

func (c *SliceCursor) AtEnd() bool {
	return c.idx < 0 || c.idx >= len(c.tokens)
}

func (c *SliceCursor) Text(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(c.text) {
		end = len(c.text)
	}
	if start >= end {
		return ""
	}
	return c.text[start:end]
}

func (c *SliceCursor) Index() int     { return c.idx }
func (c *SliceCursor) Seek(index int) { c.idx = index }

// Stepper wraps a cursor and hides any Seeker implementation, forcing callers
// onto the step-counting path. It also counts the steps taken.
type Stepper struct {
	types.Cursor
	Steps int
}

// StepOnly wraps c
func StepOnly(c types.Cursor) *Stepper {
	return &Stepper{Cursor: c}
}

func (s *Stepper) Advance() {
	s.Steps++
	s.Cursor.Advance()
}

func (s *Stepper) Retreat() {
	s.Steps++
	s.Cursor.Retreat()
}
