package cfml

import (
	"github.com/jarredhawkins/cfmatch/internal/match"
	"github.com/jarredhawkins/cfmatch/internal/types"
)

const (
	// LangCFML is the host language
	LangCFML types.LanguageID = "cfml"
	// LangHTML owns markup tags embedded in CFML templates
	LangHTML types.LanguageID = "html"
)

const (
	FileTypeCFML types.FileType = "cfml"
	FileTypeHTML types.FileType = "html"
	FileTypeXML  types.FileType = "xml"
)

func cf(name string) types.TokenType   { return types.TokenType{Lang: LangCFML, Name: name} }
func html(name string) types.TokenType { return types.TokenType{Lang: LangHTML, Name: name} }

// CFML tag tokens
var (
	Opener            = cf("OPENER")              // <  before a cf tag name
	EndTagStart       = cf("LSLASH_ANGLEBRACKET") // </ before a cf tag name
	TagName           = cf("CF_TAG_NAME")
	AngleBracketClose = cf("R_ANGLEBRACKET") // >  ending a start tag head
	EmptyTagClose     = cf("CLOSER")         // /> ending a start tag head
	Closer            = cf("END_TAG_CLOSE")  // >  ending an end tag
	AttrName          = cf("ATTRIBUTE")
	Assign            = cf("ASSIGN")
	String            = cf("STRING")
	ExprLParen        = cf("EXPR_L_PAREN")
	ExprRParen        = cf("EXPR_R_PAREN")
	Whitespace        = cf("WHITE_SPACE")
	Text              = cf("TEXT")
	Comment           = cf("COMMENT")
	Other             = cf("BAD_CHARACTER")
)

// cfscript tokens. Script bodies belong to the host language.
var (
	LBrace        = cf("L_CURLYBRACKET")
	RBrace        = cf("R_CURLYBRACKET")
	LBracket      = cf("L_SQUAREBRACKET")
	RBracket      = cf("R_SQUAREBRACKET")
	LParen        = cf("L_BRACKET")
	RParen        = cf("R_BRACKET")
	Identifier    = cf("IDENTIFIER")
	Operator      = cf("OPERATOR")
	ScriptString  = cf("SCRIPT_STRING")
	ScriptComment = cf("SCRIPT_COMMENT")
)

// Embedded markup tokens
var (
	HTMLOpener            = html("START_TAG_START")
	HTMLEndTagStart       = html("END_TAG_START")
	HTMLTagName           = html("TAG_NAME")
	HTMLAngleBracketClose = html("TAG_END")
	HTMLEmptyTagClose     = html("EMPTY_ELEMENT_END")
	HTMLCloser            = html("END_TAG_END")
	HTMLAttrName          = html("ATTRIBUTE_NAME")
	HTMLAssign            = html("EQ")
	HTMLString            = html("ATTRIBUTE_VALUE")
	HTMLWhitespace        = html("WHITE_SPACE")
	HTMLOther             = html("BAD_CHARACTER")
)

// Tags is the CFML tag token set
var Tags = match.TagTokens{
	Opener:            Opener,
	Closer:            Closer,
	AngleBracketClose: AngleBracketClose,
	EmptyTagClose:     EmptyTagClose,
	TagName:           TagName,
}

// HTMLTags is the embedded markup tag token set
var HTMLTags = match.TagTokens{
	Opener:            HTMLOpener,
	Closer:            HTMLCloser,
	AngleBracketClose: HTMLAngleBracketClose,
	EmptyTagClose:     HTMLEmptyTagClose,
	TagName:           HTMLTagName,
}
