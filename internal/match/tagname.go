package match

import (
	"strings"

	"github.com/jarredhawkins/cfmatch/internal/types"
)

// TagTokens names the token types a language uses for tag constructs.
//
//	<cfif x>   Opener TagName ... AngleBracketClose
//	<cfset/>   Opener TagName ... EmptyTagClose (classified as AngleBracketClose)
//	</cfif>    EndTagStart TagName Closer
type TagTokens struct {
	Opener            types.TokenType
	Closer            types.TokenType
	AngleBracketClose types.TokenType
	EmptyTagClose     types.TokenType
	TagName           types.TokenType
}

// Category classifies tt. Unset fields never match.
func (tt TagTokens) Category(t types.TokenType) types.Category {
	if t.IsZero() {
		return types.CategoryNone
	}
	switch t {
	case tt.Opener:
		return types.CategoryOpener
	case tt.Closer:
		return types.CategoryCloser
	case tt.AngleBracketClose, tt.EmptyTagClose:
		return types.CategoryAngleBracketClose
	case tt.TagName:
		return types.CategoryTagName
	}
	return types.CategoryNone
}

// NameAt returns the lower-cased name of the tag the cursor's Opener, Closer
// or AngleBracketClose belongs to. The cursor is left where it was found.
func (tt TagTokens) NameAt(c types.Cursor) (string, bool) {
	if c.AtEnd() {
		return "", false
	}
	switch tt.Category(c.TokenType()) {
	case types.CategoryOpener:
		return tt.nameAfterOpener(c)
	case types.CategoryCloser, types.CategoryAngleBracketClose:
		return tt.nameBeforeClose(c)
	}
	return "", false
}

func (tt TagTokens) nameAfterOpener(c types.Cursor) (string, bool) {
	sp := save(c)
	defer sp.restore()

	sp.advance()
	if c.AtEnd() || tt.Category(c.TokenType()) != types.CategoryTagName {
		return "", false
	}
	return readName(c), true
}

// nameBeforeClose walks back over attributes until the tag name. Reaching
// another tag end or an Opener first means this tag has no name.
func (tt TagTokens) nameBeforeClose(c types.Cursor) (string, bool) {
	sp := save(c)
	defer sp.restore()

	for {
		sp.retreat()
		if c.AtEnd() {
			return "", false
		}
		switch tt.Category(c.TokenType()) {
		case types.CategoryTagName:
			return readName(c), true
		case types.CategoryCloser, types.CategoryAngleBracketClose, types.CategoryOpener:
			return "", false
		}
	}
}

func readName(c types.Cursor) string {
	return strings.ToLower(c.Text(c.Start(), c.End()))
}

// emptyElement reports whether the Opener under the cursor starts a head
// ended by EmptyTagClose. Such an element has no body and no end tag.
func (tt TagTokens) emptyElement(c types.Cursor) bool {
	if tt.EmptyTagClose.IsZero() || c.AtEnd() || tt.Category(c.TokenType()) != types.CategoryOpener {
		return false
	}
	sp := save(c)
	defer sp.restore()

	for {
		sp.advance()
		if c.AtEnd() {
			return false
		}
		switch tt.Category(c.TokenType()) {
		case types.CategoryAngleBracketClose:
			return c.TokenType() == tt.EmptyTagClose
		case types.CategoryOpener, types.CategoryCloser:
			return false
		}
	}
}
