package check

import (
	"fmt"

	"github.com/jarredhawkins/cfmatch/internal/cfml"
	"github.com/jarredhawkins/cfmatch/internal/lexer"
	"github.com/jarredhawkins/cfmatch/internal/match"
	"github.com/jarredhawkins/cfmatch/internal/types"
)

// Kind names an issue category
type Kind string

const (
	KindUnclosedTag     Kind = "unclosed-tag"
	KindUnmatchedEndTag Kind = "unmatched-end-tag"
	KindUnclosedBrace   Kind = "unclosed-brace"
	KindUnmatchedBrace  Kind = "unmatched-brace"
)

// Issue is a delimiter without a counterpart
type Issue struct {
	Kind    Kind
	Path    string
	Offset  int
	Line    int // 1-indexed
	Column  int // 1-indexed
	Message string
}

var tagSets = map[types.LanguageID]match.TagTokens{
	cfml.LangCFML: cfml.Tags,
	cfml.LangHTML: cfml.HTMLTags,
}

// Document reports every tag head, end tag and cfscript brace in doc that
// the matcher cannot pair
func Document(doc *lexer.Document, m *match.Facade) []Issue {
	var issues []Issue
	for i, t := range doc.Tokens {
		c := doc.CursorAt(i)

		var kind Kind
		switch {
		case cfml.Pairs.IsOpener(t.Type):
			if _, ok := m.Counterpart(c, doc.FileType); !ok {
				kind = KindUnclosedBrace
			}
		case cfml.Pairs.IsCloser(t.Type):
			if _, ok := m.Counterpart(c, doc.FileType); !ok {
				kind = KindUnmatchedBrace
			}
		default:
			tags, ok := tagSets[t.Lang]
			if !ok {
				continue
			}
			switch tags.Category(t.Type) {
			case types.CategoryOpener:
				if !m.IsOpeningDelimiter(c, doc.FileType) {
					kind = KindUnclosedTag
				}
			case types.CategoryCloser:
				if !m.IsClosingDelimiter(c, doc.FileType) {
					kind = KindUnmatchedEndTag
				}
			}
		}
		if kind == "" {
			continue
		}

		line, col := doc.Position(t.Start)
		issues = append(issues, Issue{
			Kind:    kind,
			Path:    doc.Path,
			Offset:  t.Start,
			Line:    line + 1,
			Column:  col + 1,
			Message: message(kind, doc, i),
		})
	}
	return issues
}

func message(kind Kind, doc *lexer.Document, i int) string {
	switch kind {
	case KindUnclosedTag:
		return fmt.Sprintf("<%s> has no matching end tag", nameNear(doc, i))
	case KindUnmatchedEndTag:
		return fmt.Sprintf("</%s> has no matching start tag", nameNear(doc, i))
	case KindUnclosedBrace:
		return fmt.Sprintf("%q is never closed", doc.TokenText(doc.Tokens[i]))
	default:
		return fmt.Sprintf("%q closes nothing", doc.TokenText(doc.Tokens[i]))
	}
}

// nameNear reads the tag name belonging to the tag token at i
func nameNear(doc *lexer.Document, i int) string {
	t := doc.Tokens[i]
	tags := tagSets[t.Lang]
	if name, ok := tags.NameAt(doc.CursorAt(i)); ok {
		return name
	}
	return "?"
}
