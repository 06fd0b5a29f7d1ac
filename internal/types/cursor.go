package types

// Cursor is a bidirectional iterator over a token stream. It may be positioned
// one step past either end of the stream, in which case AtEnd reports true and
// the token accessors are undefined. Advance and Retreat are exact inverses.
type Cursor interface {
	TokenType() TokenType
	Start() int
	End() int
	Language() LanguageID

	Advance()
	Retreat()
	AtEnd() bool

	// Text returns the raw document text in [start, end)
	Text(start, end int) string
}

// Seeker is implemented by cursors that can jump to a saved position in O(1).
type Seeker interface {
	Index() int
	Seek(index int)
}

// Element is a node of an external syntax tree
type Element interface {
	StartOffset() int
	Parent() (Element, bool)
}

// ElementLocator finds the smallest syntax element containing an offset
type ElementLocator interface {
	ElementAt(offset int) (Element, bool)
}
