package lexer

import (
	"strings"

	"github.com/jarredhawkins/cfmatch/internal/cfml"
	"github.com/jarredhawkins/cfmatch/internal/types"
)

// Lexer tokenizes CFML templates with a rule registry
type Lexer struct {
	registry *Registry
}

// New creates a lexer with the given registry
func New(registry *Registry) *Lexer {
	return &Lexer{
		registry: registry,
	}
}

// NewDefault creates a lexer with the default CFML rules
func NewDefault() *Lexer {
	r := NewRegistry()
	RegisterDefaults(r)
	return New(r)
}

// Lex tokenizes text. Every byte of text is covered by exactly one token.
func (l *Lexer) Lex(path, text string) *Document {
	st := &State{Mode: ModeContent, MarkupLang: cfml.LangHTML}
	var tokens []types.Token

	for pos := 0; pos < len(text); {
		res := l.next(text, pos, st)
		if res == nil {
			tokens = append(tokens, tok(cfml.Other, pos, pos+1))
			pos++
			continue
		}
		tokens = append(tokens, res.Tokens...)
		pos += res.Len
		st.Mode = res.Next
	}

	return newDocument(path, text, tokens, detectFileType(text))
}

func (l *Lexer) next(text string, pos int, st *State) *MatchResult {
	for _, rule := range l.registry.Rules(st.Mode) {
		res := rule.Match(text, pos, st)
		if res == nil {
			continue
		}
		if res.Len == 0 && res.Next == st.Mode {
			continue
		}
		return res
	}
	return nil
}

// detectFileType reports xml for templates that open with an XML prolog
func detectFileType(text string) types.FileType {
	trimmed := strings.TrimLeft(text, " \t\r\n\ufeff")
	if strings.HasPrefix(trimmed, "<?xml") {
		return cfml.FileTypeXML
	}
	return cfml.FileTypeCFML
}
