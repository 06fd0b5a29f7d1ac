package lexer

import (
	"sort"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/jarredhawkins/cfmatch/internal/stream"
	"github.com/jarredhawkins/cfmatch/internal/types"
)

// Document is a tokenized template
type Document struct {
	Path     string
	Text     string
	Tokens   []types.Token
	FileType types.FileType

	lineStarts []int
}

func newDocument(path, text string, tokens []types.Token, ft types.FileType) *Document {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Document{
		Path:       path,
		Text:       text,
		Tokens:     tokens,
		FileType:   ft,
		lineStarts: starts,
	}
}

// Cursor returns a cursor on the first token
func (d *Document) Cursor() *stream.SliceCursor {
	return stream.New(d.Text, d.Tokens)
}

// CursorAt returns a cursor on the token at index i
func (d *Document) CursorAt(i int) *stream.SliceCursor {
	return stream.At(d.Text, d.Tokens, i)
}

// CursorAtOffset returns a cursor on the token covering offset
func (d *Document) CursorAtOffset(offset int) (*stream.SliceCursor, bool) {
	return stream.AtOffset(d.Text, d.Tokens, offset)
}

// TokenText returns the source text of t
func (d *Document) TokenText(t types.Token) string {
	return d.Text[t.Start:t.End]
}

// Position converts a byte offset to a 0-indexed line and a 0-indexed UTF-16
// column, as used by LSP clients
func (d *Document) Position(offset int) (line, col int) {
	if offset > len(d.Text) {
		offset = len(d.Text)
	}
	line = sort.Search(len(d.lineStarts), func(i int) bool {
		return d.lineStarts[i] > offset
	}) - 1
	for _, r := range d.Text[d.lineStarts[line]:offset] {
		col += utf16.RuneLen(r)
	}
	return line, col
}

// Offset converts a 0-indexed line and UTF-16 column to a byte offset. Out of
// range positions are clamped to the line or document end.
func (d *Document) Offset(line, col int) int {
	if line < 0 {
		return 0
	}
	if line >= len(d.lineStarts) {
		return len(d.Text)
	}
	start := d.lineStarts[line]
	end := len(d.Text)
	if line+1 < len(d.lineStarts) {
		end = d.lineStarts[line+1]
	}
	lineText := strings.TrimRight(d.Text[start:end], "\r\n")

	units := 0
	for i, r := range lineText {
		if units >= col {
			return start + i
		}
		if r == utf8.RuneError {
			units++
			continue
		}
		units += utf16.RuneLen(r)
	}
	return start + len(lineText)
}
