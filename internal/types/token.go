package types

// LanguageID identifies the language that owns a token. Tokens from different
// languages are never compared against each other.
type LanguageID string

// FileType is a hint describing the flavor of document a matcher is asked about
// (e.g. "cfml", "html", "xml").
type FileType string

// TokenType is an opaque, identity-compared token identifier owned by a language.
type TokenType struct {
	Lang LanguageID
	Name string
}

// IsZero reports whether t is the unset token type
func (t TokenType) IsZero() bool {
	return t.Lang == "" && t.Name == ""
}

func (t TokenType) String() string {
	if t.IsZero() {
		return "<none>"
	}
	return string(t.Lang) + ":" + t.Name
}

// Token is a single lexed token. Start/End are byte offsets, End exclusive.
type Token struct {
	Type  TokenType
	Start int
	End   int
	Lang  LanguageID
}

// Len returns the byte length of the token
func (t Token) Len() int {
	return t.End - t.Start
}

// Contains reports whether offset falls inside the token's range
func (t Token) Contains(offset int) bool {
	return offset >= t.Start && offset < t.End
}

// Category classifies tag-construct tokens
type Category int

const (
	CategoryNone Category = iota
	CategoryOpener
	CategoryCloser
	CategoryAngleBracketClose
	CategoryTagName
)

func (c Category) String() string {
	switch c {
	case CategoryOpener:
		return "opener"
	case CategoryCloser:
		return "closer"
	case CategoryAngleBracketClose:
		return "angle_bracket_close"
	case CategoryTagName:
		return "tag_name"
	default:
		return "none"
	}
}

// Span is a half-open byte range in a document
type Span struct {
	Start int
	End   int
}
