package match

import (
	"strings"

	"github.com/jarredhawkins/cfmatch/internal/stream"
	"github.com/jarredhawkins/cfmatch/internal/types"
)

const testLang types.LanguageID = "t"

func tt(name string) types.TokenType { return types.TokenType{Lang: testLang, Name: name} }

var (
	tOpener   = tt("OPENER")
	tEndStart = tt("END_START")
	tName     = tt("NAME")
	tHeadEnd  = tt("HEAD_END")
	tEmptyEnd = tt("EMPTY_END")
	tCloser   = tt("CLOSER")
	tAttr     = tt("ATTR")
	tSpace    = tt("SPACE")
	tText     = tt("TEXT")
	tLBrace   = tt("LBRACE")
	tRBrace   = tt("RBRACE")
	tLBracket = tt("LBRACKET")
	tRBracket = tt("RBRACKET")
	tCallL    = tt("CALL_L")
	tCallR    = tt("CALL_R")
)

var testTags = TagTokens{
	Opener:            tOpener,
	Closer:            tCloser,
	AngleBracketClose: tHeadEnd,
	EmptyTagClose:     tEmptyEnd,
	TagName:           tName,
}

var testPairs = MustPairTable(
	Pair{Open: tLBrace, Close: tRBrace, Structural: true},
	Pair{Open: tLBracket, Close: tRBracket},
)

// voidTags need no end tag; everything else does
var voidTags = NewDictionary(map[string]bool{"br": false, "img": false}, true)

func testLanguage() Language {
	return Language{
		ID:            testLang,
		Pairs:         testPairs,
		Tags:          testTags,
		NonStructural: []types.TokenType{tCallL, tCallR},
		Requirement:   voidTags,
	}
}

func newTestFacade(opts Options) *Facade {
	return New(testLanguage(), opts)
}

// doc assembles a token stream by hand
type doc struct {
	text   strings.Builder
	tokens []types.Token
	lang   types.LanguageID
}

func newDoc() *doc { return &doc{lang: testLang} }

func (d *doc) add(t types.TokenType, s string) *doc {
	start := d.text.Len()
	d.text.WriteString(s)
	lang := d.lang
	if lang == "" {
		lang = t.Lang
	}
	d.tokens = append(d.tokens, types.Token{Type: t, Start: start, End: d.text.Len(), Lang: lang})
	return d
}

// open appends <name>
func (d *doc) open(name string) *doc {
	return d.add(tOpener, "<").add(tName, name).add(tHeadEnd, ">")
}

// openAttr appends <name attr>
func (d *doc) openAttr(name, attr string) *doc {
	return d.add(tOpener, "<").add(tName, name).add(tSpace, " ").add(tAttr, attr).add(tHeadEnd, ">")
}

// empty appends <name/>
func (d *doc) empty(name string) *doc {
	return d.add(tOpener, "<").add(tName, name).add(tEmptyEnd, "/>")
}

// close appends </name>
func (d *doc) close(name string) *doc {
	return d.add(tEndStart, "</").add(tName, name).add(tCloser, ">")
}

func (d *doc) at(i int) *stream.SliceCursor {
	return stream.At(d.text.String(), d.tokens, i)
}

func (d *doc) span(i int) types.Span {
	return types.Span{Start: d.tokens[i].Start, End: d.tokens[i].End}
}
