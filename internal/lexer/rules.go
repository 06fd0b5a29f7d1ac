package lexer

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jarredhawkins/cfmatch/internal/cfml"
	"github.com/jarredhawkins/cfmatch/internal/types"
)

var (
	// </cfif   </div >
	endTagPattern = regexp.MustCompile(`^</([A-Za-z][\w:.\-]*)(\s*)(>)?`)

	// <cfif   <div
	startTagPattern = regexp.MustCompile(`^<([A-Za-z][\w:.\-]*)`)

	// <?xml version="1.0"?>
	processingPattern = regexp.MustCompile(`(?s)^<\?.*?(\?>|$)`)

	textPattern         = regexp.MustCompile(`^[^<]+`)
	whitespacePattern   = regexp.MustCompile(`^\s+`)
	attrValuePattern    = regexp.MustCompile(`^(?:"[^"]*"?|'[^']*'?)`)
	attrNamePattern     = regexp.MustCompile(`^[\w:.\-#@$]+`)
	scriptEndPattern    = regexp.MustCompile(`(?i)^</cfscript\b`)
	lineCommentPattern  = regexp.MustCompile(`^//[^\n]*`)
	blockCommentPattern = regexp.MustCompile(`(?s)^/\*.*?(\*/|$)`)
	scriptStringPattern = regexp.MustCompile(`^(?:"(?:[^"\\]|\\.)*"?|'(?:[^'\\]|\\.)*'?)`)
	wordPattern         = regexp.MustCompile(`^[A-Za-z_$0-9][\w$.]*`)

	// <cfoutput  </cfif  inside a raw text body
	rawCFTagPattern = regexp.MustCompile(`(?i)^</?cf[A-Za-z_]`)
)

// rawTextTags are markup elements whose body is not markup
var rawTextTags = map[string]struct{}{
	"script": {},
	"style":  {},
}

// tagTypes is the token vocabulary of one tag-owning language
type tagTypes struct {
	opener, endStart, name, headEnd, emptyEnd, closer types.TokenType
	attr, assign, str, ws, other                      types.TokenType
}

var (
	cfTypes = tagTypes{
		opener: cfml.Opener, endStart: cfml.EndTagStart, name: cfml.TagName,
		headEnd: cfml.AngleBracketClose, emptyEnd: cfml.EmptyTagClose, closer: cfml.Closer,
		attr: cfml.AttrName, assign: cfml.Assign, str: cfml.String,
		ws: cfml.Whitespace, other: cfml.Other,
	}
	markupTypes = tagTypes{
		opener: cfml.HTMLOpener, endStart: cfml.HTMLEndTagStart, name: cfml.HTMLTagName,
		headEnd: cfml.HTMLAngleBracketClose, emptyEnd: cfml.HTMLEmptyTagClose, closer: cfml.HTMLCloser,
		attr: cfml.HTMLAttrName, assign: cfml.HTMLAssign, str: cfml.HTMLString,
		ws: cfml.HTMLWhitespace, other: cfml.HTMLOther,
	}
)

func typesFor(lang types.LanguageID) tagTypes {
	if lang == cfml.LangCFML {
		return cfTypes
	}
	return markupTypes
}

// tagLang decides which language owns a tag by its name
func tagLang(name string, st *State) types.LanguageID {
	if len(name) >= 2 && strings.EqualFold(name[:2], "cf") {
		return cfml.LangCFML
	}
	return st.MarkupLang
}

func tok(t types.TokenType, start, end int) types.Token {
	return types.Token{Type: t, Start: start, End: end, Lang: t.Lang}
}

// single emits one token of type t covering n bytes at pos
func single(t types.TokenType, pos, n int, next Mode) *MatchResult {
	return &MatchResult{Tokens: []types.Token{tok(t, pos, pos+n)}, Len: n, Next: next}
}

func runeLen(src string, pos int) int {
	_, n := utf8.DecodeRuneInString(src[pos:])
	if n == 0 {
		return 1
	}
	return n
}

// CommentRule consumes <!-- --> and <!--- ---> comments whole
type CommentRule struct{}

func (r *CommentRule) Name() string  { return "comment" }
func (r *CommentRule) Priority() int { return 100 }

func (r *CommentRule) Match(src string, pos int, st *State) *MatchResult {
	rest := src[pos:]
	var open, end string
	switch {
	case strings.HasPrefix(rest, "<!---"):
		open, end = "<!---", "--->"
	case strings.HasPrefix(rest, "<!--"):
		open, end = "<!--", "-->"
	default:
		return nil
	}
	// markup comments are plain text inside script and style bodies
	if st.Raw != "" && open != "<!---" {
		return nil
	}
	n := len(rest)
	if i := strings.Index(rest[len(open):], end); i >= 0 {
		n = len(open) + i + len(end)
	}
	return single(cfml.Comment, pos, n, st.resume())
}

// ProcessingRule consumes <?...?> instructions such as an XML prolog
type ProcessingRule struct{}

func (r *ProcessingRule) Name() string  { return "processing_instruction" }
func (r *ProcessingRule) Priority() int { return 95 }

func (r *ProcessingRule) Match(src string, pos int, st *State) *MatchResult {
	loc := processingPattern.FindStringIndex(src[pos:])
	if loc == nil {
		return nil
	}
	return single(cfml.Comment, pos, loc[1], ModeContent)
}

// EndTagRule emits </ name > for both cf and markup end tags
type EndTagRule struct{}

func (r *EndTagRule) Name() string  { return "end_tag" }
func (r *EndTagRule) Priority() int { return 90 }

func (r *EndTagRule) Match(src string, pos int, st *State) *MatchResult {
	m := endTagPattern.FindStringSubmatchIndex(src[pos:])
	if m == nil {
		return nil
	}
	name := src[pos+m[2] : pos+m[3]]
	lang := tagLang(name, st)
	tt := typesFor(lang)
	if lang != cfml.LangCFML && strings.EqualFold(name, st.Raw) {
		st.Raw = ""
	}

	res := &MatchResult{Len: m[1], Next: st.resume()}
	res.Tokens = append(res.Tokens,
		tok(tt.endStart, pos, pos+2),
		tok(tt.name, pos+m[2], pos+m[3]))
	if m[5] > m[4] {
		res.Tokens = append(res.Tokens, tok(tt.ws, pos+m[4], pos+m[5]))
	}
	if m[6] >= 0 {
		res.Tokens = append(res.Tokens, tok(tt.closer, pos+m[6], pos+m[7]))
	}
	return res
}

// StartTagRule emits < name and enters the tag head
type StartTagRule struct{}

func (r *StartTagRule) Name() string  { return "start_tag" }
func (r *StartTagRule) Priority() int { return 80 }

func (r *StartTagRule) Match(src string, pos int, st *State) *MatchResult {
	m := startTagPattern.FindStringSubmatchIndex(src[pos:])
	if m == nil {
		return nil
	}
	name := src[pos+m[2] : pos+m[3]]
	st.Tag = strings.ToLower(name)
	st.TagLang = tagLang(name, st)
	tt := typesFor(st.TagLang)

	return &MatchResult{
		Tokens: []types.Token{
			tok(tt.opener, pos, pos+1),
			tok(tt.name, pos+m[2], pos+m[3]),
		},
		Len:  m[1],
		Next: ModeTagHead,
	}
}

// TextRule consumes character data up to the next '<'
type TextRule struct{}

func (r *TextRule) Name() string  { return "text" }
func (r *TextRule) Priority() int { return 0 }

func (r *TextRule) Match(src string, pos int, st *State) *MatchResult {
	if loc := textPattern.FindStringIndex(src[pos:]); loc != nil {
		return single(cfml.Text, pos, loc[1], ModeContent)
	}
	// a '<' that starts nothing else
	return single(cfml.Text, pos, 1, ModeContent)
}

// HeadWhitespaceRule consumes whitespace between attributes
type HeadWhitespaceRule struct{}

func (r *HeadWhitespaceRule) Name() string  { return "head_whitespace" }
func (r *HeadWhitespaceRule) Priority() int { return 100 }

func (r *HeadWhitespaceRule) Match(src string, pos int, st *State) *MatchResult {
	loc := whitespacePattern.FindStringIndex(src[pos:])
	if loc == nil {
		return nil
	}
	return single(typesFor(st.TagLang).ws, pos, loc[1], ModeTagHead)
}

// HeadEndRule closes a tag head with > or />. A cfscript head switches to
// script mode, a markup script or style head to raw text mode.
type HeadEndRule struct{}

func (r *HeadEndRule) Name() string  { return "head_end" }
func (r *HeadEndRule) Priority() int { return 90 }

func (r *HeadEndRule) Match(src string, pos int, st *State) *MatchResult {
	tt := typesFor(st.TagLang)
	rest := src[pos:]
	switch {
	case strings.HasPrefix(rest, "/>"):
		return single(tt.emptyEnd, pos, 2, st.resume())
	case strings.HasPrefix(rest, ">"):
		next := st.resume()
		switch {
		case st.TagLang == cfml.LangCFML && st.Tag == "cfscript":
			next = ModeScript
		case st.TagLang != cfml.LangCFML && st.Raw == "":
			if _, raw := rawTextTags[st.Tag]; raw {
				st.Raw = st.Tag
				next = ModeRawText
			}
		}
		return single(tt.headEnd, pos, 1, next)
	}
	return nil
}

// AttributeValueRule consumes quoted attribute values
type AttributeValueRule struct{}

func (r *AttributeValueRule) Name() string  { return "attribute_value" }
func (r *AttributeValueRule) Priority() int { return 80 }

func (r *AttributeValueRule) Match(src string, pos int, st *State) *MatchResult {
	loc := attrValuePattern.FindStringIndex(src[pos:])
	if loc == nil {
		return nil
	}
	return single(typesFor(st.TagLang).str, pos, loc[1], ModeTagHead)
}

// AttributeRule consumes attribute names, bare expressions and '='
type AttributeRule struct{}

func (r *AttributeRule) Name() string  { return "attribute" }
func (r *AttributeRule) Priority() int { return 70 }

func (r *AttributeRule) Match(src string, pos int, st *State) *MatchResult {
	tt := typesFor(st.TagLang)
	if src[pos] == '=' {
		return single(tt.assign, pos, 1, ModeTagHead)
	}
	loc := attrNamePattern.FindStringIndex(src[pos:])
	if loc == nil {
		return nil
	}
	return single(tt.attr, pos, loc[1], ModeTagHead)
}

// ExprParenRule emits call parentheses inside cf tag expressions
type ExprParenRule struct{}

func (r *ExprParenRule) Name() string  { return "expr_paren" }
func (r *ExprParenRule) Priority() int { return 60 }

func (r *ExprParenRule) Match(src string, pos int, st *State) *MatchResult {
	var t types.TokenType
	switch src[pos] {
	case '(':
		t = cfml.ExprLParen
	case ')':
		t = cfml.ExprRParen
	default:
		return nil
	}
	if st.TagLang != cfml.LangCFML {
		t = typesFor(st.TagLang).other
	}
	return single(t, pos, 1, ModeTagHead)
}

// HeadOtherRule consumes any other character in a tag head
type HeadOtherRule struct{}

func (r *HeadOtherRule) Name() string  { return "head_other" }
func (r *HeadOtherRule) Priority() int { return 0 }

func (r *HeadOtherRule) Match(src string, pos int, st *State) *MatchResult {
	return single(typesFor(st.TagLang).other, pos, runeLen(src, pos), ModeTagHead)
}

// ScriptEndRule leaves script mode at </cfscript
type ScriptEndRule struct{}

func (r *ScriptEndRule) Name() string  { return "script_end" }
func (r *ScriptEndRule) Priority() int { return 100 }

func (r *ScriptEndRule) Match(src string, pos int, st *State) *MatchResult {
	if !scriptEndPattern.MatchString(src[pos:]) {
		return nil
	}
	return (&EndTagRule{}).Match(src, pos, st)
}

// ScriptCommentRule consumes // and /* */ comments
type ScriptCommentRule struct{}

func (r *ScriptCommentRule) Name() string  { return "script_comment" }
func (r *ScriptCommentRule) Priority() int { return 90 }

func (r *ScriptCommentRule) Match(src string, pos int, st *State) *MatchResult {
	rest := src[pos:]
	loc := lineCommentPattern.FindStringIndex(rest)
	if loc == nil {
		loc = blockCommentPattern.FindStringIndex(rest)
	}
	if loc == nil {
		return nil
	}
	return single(cfml.ScriptComment, pos, loc[1], ModeScript)
}

// ScriptStringRule consumes quoted strings with backslash escapes
type ScriptStringRule struct{}

func (r *ScriptStringRule) Name() string  { return "script_string" }
func (r *ScriptStringRule) Priority() int { return 80 }

func (r *ScriptStringRule) Match(src string, pos int, st *State) *MatchResult {
	loc := scriptStringPattern.FindStringIndex(src[pos:])
	if loc == nil {
		return nil
	}
	return single(cfml.ScriptString, pos, loc[1], ModeScript)
}

var scriptPunct = map[byte]types.TokenType{
	'{': cfml.LBrace,
	'}': cfml.RBrace,
	'[': cfml.LBracket,
	']': cfml.RBracket,
	'(': cfml.LParen,
	')': cfml.RParen,
}

// ScriptPunctRule emits braces, brackets and parentheses
type ScriptPunctRule struct{}

func (r *ScriptPunctRule) Name() string  { return "script_punct" }
func (r *ScriptPunctRule) Priority() int { return 70 }

func (r *ScriptPunctRule) Match(src string, pos int, st *State) *MatchResult {
	t, ok := scriptPunct[src[pos]]
	if !ok {
		return nil
	}
	return single(t, pos, 1, ModeScript)
}

// ScriptWordRule consumes identifiers, numbers and whitespace runs
type ScriptWordRule struct{}

func (r *ScriptWordRule) Name() string  { return "script_word" }
func (r *ScriptWordRule) Priority() int { return 60 }

func (r *ScriptWordRule) Match(src string, pos int, st *State) *MatchResult {
	rest := src[pos:]
	if loc := whitespacePattern.FindStringIndex(rest); loc != nil {
		return single(cfml.Whitespace, pos, loc[1], ModeScript)
	}
	if loc := wordPattern.FindStringIndex(rest); loc != nil {
		return single(cfml.Identifier, pos, loc[1], ModeScript)
	}
	return nil
}

// ScriptOtherRule consumes a single operator character
type ScriptOtherRule struct{}

func (r *ScriptOtherRule) Name() string  { return "script_other" }
func (r *ScriptOtherRule) Priority() int { return 0 }

func (r *ScriptOtherRule) Match(src string, pos int, st *State) *MatchResult {
	return single(cfml.Operator, pos, runeLen(src, pos), ModeScript)
}

// RawTextEndRule leaves raw text mode at the end tag of the raw element
type RawTextEndRule struct{}

func (r *RawTextEndRule) Name() string  { return "raw_text_end" }
func (r *RawTextEndRule) Priority() int { return 100 }

func (r *RawTextEndRule) Match(src string, pos int, st *State) *MatchResult {
	if !isRawEnd(src[pos:], st.Raw) {
		return nil
	}
	return (&EndTagRule{}).Match(src, pos, st)
}

// RawCFTagRule lexes cf tags embedded in a raw text body
type RawCFTagRule struct{}

func (r *RawCFTagRule) Name() string  { return "raw_cf_tag" }
func (r *RawCFTagRule) Priority() int { return 90 }

func (r *RawCFTagRule) Match(src string, pos int, st *State) *MatchResult {
	if !rawCFTagPattern.MatchString(src[pos:]) {
		return nil
	}
	if res := (&EndTagRule{}).Match(src, pos, st); res != nil {
		return res
	}
	return (&StartTagRule{}).Match(src, pos, st)
}

// RawTextRule consumes a raw text body up to its end tag, a cf tag or a cf
// comment
type RawTextRule struct{}

func (r *RawTextRule) Name() string  { return "raw_text" }
func (r *RawTextRule) Priority() int { return 0 }

func (r *RawTextRule) Match(src string, pos int, st *State) *MatchResult {
	end := len(src)
	for i := pos + 1; i < len(src); i++ {
		if src[i] != '<' {
			continue
		}
		rest := src[i:]
		if isRawEnd(rest, st.Raw) || rawCFTagPattern.MatchString(rest) || strings.HasPrefix(rest, "<!---") {
			end = i
			break
		}
	}
	return single(cfml.Text, pos, end-pos, ModeRawText)
}

// isRawEnd reports whether rest starts with </name followed by a non-name
// character
func isRawEnd(rest, name string) bool {
	n := 2 + len(name)
	if name == "" || len(rest) < n || !strings.HasPrefix(rest, "</") || !strings.EqualFold(rest[2:n], name) {
		return false
	}
	if len(rest) == n {
		return true
	}
	c := rest[n]
	return !(c == '_' || c == '-' || c == ':' || c == '.' ||
		(c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'))
}
