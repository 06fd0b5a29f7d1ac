package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jarredhawkins/cfmatch/internal/cfml"
	"github.com/jarredhawkins/cfmatch/internal/types"
)

type lexed struct {
	Type types.TokenType
	Text string
}

func project(doc *Document) []lexed {
	out := make([]lexed, len(doc.Tokens))
	for i, t := range doc.Tokens {
		out[i] = lexed{t.Type, doc.TokenText(t)}
	}
	return out
}

func TestLex_Tokens(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []lexed
	}{
		{
			name: "cf tag around markup",
			src:  "<cfif x><br></cfif>",
			want: []lexed{
				{cfml.Opener, "<"},
				{cfml.TagName, "cfif"},
				{cfml.Whitespace, " "},
				{cfml.AttrName, "x"},
				{cfml.AngleBracketClose, ">"},
				{cfml.HTMLOpener, "<"},
				{cfml.HTMLTagName, "br"},
				{cfml.HTMLAngleBracketClose, ">"},
				{cfml.EndTagStart, "</"},
				{cfml.TagName, "cfif"},
				{cfml.Closer, ">"},
			},
		},
		{
			name: "empty tag and attribute value",
			src:  `<cfset a="1"/>`,
			want: []lexed{
				{cfml.Opener, "<"},
				{cfml.TagName, "cfset"},
				{cfml.Whitespace, " "},
				{cfml.AttrName, "a"},
				{cfml.Assign, "="},
				{cfml.String, `"1"`},
				{cfml.EmptyTagClose, "/>"},
			},
		},
		{
			name: "expression parentheses",
			src:  "<cfif len(x)>",
			want: []lexed{
				{cfml.Opener, "<"},
				{cfml.TagName, "cfif"},
				{cfml.Whitespace, " "},
				{cfml.AttrName, "len"},
				{cfml.ExprLParen, "("},
				{cfml.AttrName, "x"},
				{cfml.ExprRParen, ")"},
				{cfml.AngleBracketClose, ">"},
			},
		},
		{
			name: "script body",
			src:  "<cfscript>a{b}</cfscript>",
			want: []lexed{
				{cfml.Opener, "<"},
				{cfml.TagName, "cfscript"},
				{cfml.AngleBracketClose, ">"},
				{cfml.Identifier, "a"},
				{cfml.LBrace, "{"},
				{cfml.Identifier, "b"},
				{cfml.RBrace, "}"},
				{cfml.EndTagStart, "</"},
				{cfml.TagName, "cfscript"},
				{cfml.Closer, ">"},
			},
		},
		{
			name: "braces in script strings and comments",
			src:  "<cfscript>'{' // }\n</cfscript>",
			want: []lexed{
				{cfml.Opener, "<"},
				{cfml.TagName, "cfscript"},
				{cfml.AngleBracketClose, ">"},
				{cfml.ScriptString, "'{'"},
				{cfml.Whitespace, " "},
				{cfml.ScriptComment, "// }"},
				{cfml.Whitespace, "\n"},
				{cfml.EndTagStart, "</"},
				{cfml.TagName, "cfscript"},
				{cfml.Closer, ">"},
			},
		},
		{
			name: "cf comment",
			src:  "<!--- <cfif> --->x",
			want: []lexed{
				{cfml.Comment, "<!--- <cfif> --->"},
				{cfml.Text, "x"},
			},
		},
		{
			name: "stray angle bracket",
			src:  "a < b",
			want: []lexed{
				{cfml.Text, "a "},
				{cfml.Text, "<"},
				{cfml.Text, " b"},
			},
		},
		{
			name: "script body is raw text",
			src:  "<script>if (a<b) { x(); }</script>",
			want: []lexed{
				{cfml.HTMLOpener, "<"},
				{cfml.HTMLTagName, "script"},
				{cfml.HTMLAngleBracketClose, ">"},
				{cfml.Text, "if (a<b) { x(); }"},
				{cfml.HTMLEndTagStart, "</"},
				{cfml.HTMLTagName, "script"},
				{cfml.HTMLCloser, ">"},
			},
		},
		{
			name: "cf tags inside a script body",
			src:  "<script>var n = <cfoutput>#n#</cfoutput>;</script>",
			want: []lexed{
				{cfml.HTMLOpener, "<"},
				{cfml.HTMLTagName, "script"},
				{cfml.HTMLAngleBracketClose, ">"},
				{cfml.Text, "var n = "},
				{cfml.Opener, "<"},
				{cfml.TagName, "cfoutput"},
				{cfml.AngleBracketClose, ">"},
				{cfml.Text, "#n#"},
				{cfml.EndTagStart, "</"},
				{cfml.TagName, "cfoutput"},
				{cfml.Closer, ">"},
				{cfml.Text, ";"},
				{cfml.HTMLEndTagStart, "</"},
				{cfml.HTMLTagName, "script"},
				{cfml.HTMLCloser, ">"},
			},
		},
		{
			name: "style body keeps markup comments as text",
			src:  "<style>a>b{}<!-- x --></STYLE>",
			want: []lexed{
				{cfml.HTMLOpener, "<"},
				{cfml.HTMLTagName, "style"},
				{cfml.HTMLAngleBracketClose, ">"},
				{cfml.Text, "a>b{}<!-- x -->"},
				{cfml.HTMLEndTagStart, "</"},
				{cfml.HTMLTagName, "STYLE"},
				{cfml.HTMLCloser, ">"},
			},
		},
		{
			name: "raw text end needs the full element name",
			src:  `<script>"</scripts"</script>`,
			want: []lexed{
				{cfml.HTMLOpener, "<"},
				{cfml.HTMLTagName, "script"},
				{cfml.HTMLAngleBracketClose, ">"},
				{cfml.Text, `"</scripts"`},
				{cfml.HTMLEndTagStart, "</"},
				{cfml.HTMLTagName, "script"},
				{cfml.HTMLCloser, ">"},
			},
		},
		{
			name: "cf comment inside a script body",
			src:  "<script><!--- </script> --->x</script>",
			want: []lexed{
				{cfml.HTMLOpener, "<"},
				{cfml.HTMLTagName, "script"},
				{cfml.HTMLAngleBracketClose, ">"},
				{cfml.Comment, "<!--- </script> --->"},
				{cfml.Text, "x"},
				{cfml.HTMLEndTagStart, "</"},
				{cfml.HTMLTagName, "script"},
				{cfml.HTMLCloser, ">"},
			},
		},
		{
			name: "empty script element stays in content",
			src:  `<script src="a.js"/><b>`,
			want: []lexed{
				{cfml.HTMLOpener, "<"},
				{cfml.HTMLTagName, "script"},
				{cfml.HTMLWhitespace, " "},
				{cfml.HTMLAttrName, "src"},
				{cfml.HTMLAssign, "="},
				{cfml.HTMLString, `"a.js"`},
				{cfml.HTMLEmptyTagClose, "/>"},
				{cfml.HTMLOpener, "<"},
				{cfml.HTMLTagName, "b"},
				{cfml.HTMLAngleBracketClose, ">"},
			},
		},
		{
			name: "end tag with whitespace",
			src:  "</div >",
			want: []lexed{
				{cfml.HTMLEndTagStart, "</"},
				{cfml.HTMLTagName, "div"},
				{cfml.HTMLWhitespace, " "},
				{cfml.HTMLCloser, ">"},
			},
		},
	}

	lx := NewDefault()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := lx.Lex("test.cfm", tc.src)
			assert.Equal(t, tc.want, project(doc))
		})
	}
}

func TestLex_CoversEveryByte(t *testing.T) {
	src := "<cfoutput>\n\t<div class=\"a\">#x#</div>\n<!-- open\n</cfoutput><cfscript>x = [1, (2)]; /* c */"
	doc := NewDefault().Lex("a.cfm", src)

	pos := 0
	for _, tok := range doc.Tokens {
		require.Equal(t, pos, tok.Start)
		require.Greater(t, tok.End, tok.Start)
		require.Equal(t, tok.Type.Lang, tok.Lang)
		pos = tok.End
	}
	assert.Equal(t, len(src), pos)
}

func TestLex_FileType(t *testing.T) {
	lx := NewDefault()

	tests := []struct {
		src  string
		want types.FileType
	}{
		{"<cfset x = 1>", cfml.FileTypeCFML},
		{"<?xml version=\"1.0\"?>\n<a/>", cfml.FileTypeXML},
		{"\ufeff  \n<?xml version=\"1.0\"?><a/>", cfml.FileTypeXML},
		{"text <?xml?>", cfml.FileTypeCFML},
		{"", cfml.FileTypeCFML},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, lx.Lex("x", tc.src).FileType, "%q", tc.src)
	}
}

func TestLex_XMLProlog(t *testing.T) {
	doc := NewDefault().Lex("feed.cfm", "<?xml version=\"1.0\"?>\n<a/>")
	assert.Equal(t, []lexed{
		{cfml.Comment, `<?xml version="1.0"?>`},
		{cfml.Text, "\n"},
		{cfml.HTMLOpener, "<"},
		{cfml.HTMLTagName, "a"},
		{cfml.HTMLEmptyTagClose, "/>"},
	}, project(doc))
}

func TestRegistry_PriorityOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(ModeContent, &TextRule{})
	r.Register(ModeContent, &CommentRule{})
	r.Register(ModeContent, &StartTagRule{})

	var names []string
	for _, rule := range r.Rules(ModeContent) {
		names = append(names, rule.Name())
	}
	assert.Equal(t, []string{"comment", "start_tag", "text"}, names)
	assert.Empty(t, r.Rules(ModeScript))
}

func TestDocument_Positions(t *testing.T) {
	doc := NewDefault().Lex("p.cfm", "ab\ncé😀x")

	tests := []struct {
		offset    int
		line, col int
	}{
		{0, 0, 0},
		{2, 0, 2},
		{3, 1, 0},
		{4, 1, 1},
		{6, 1, 2},
		{10, 1, 4},
		{11, 1, 5},
	}
	for _, tc := range tests {
		line, col := doc.Position(tc.offset)
		assert.Equal(t, tc.line, line, "line of %d", tc.offset)
		assert.Equal(t, tc.col, col, "col of %d", tc.offset)
		assert.Equal(t, tc.offset, doc.Offset(tc.line, tc.col), "offset of %d:%d", tc.line, tc.col)
	}

	assert.Equal(t, 2, doc.Offset(0, 99))
	assert.Equal(t, 11, doc.Offset(7, 0))
	assert.Equal(t, 0, doc.Offset(-1, 3))
}

func TestDocument_CursorAtOffset(t *testing.T) {
	doc := NewDefault().Lex("c.cfm", "<cfif x></cfif>")

	c, ok := doc.CursorAtOffset(2)
	require.True(t, ok)
	assert.Equal(t, cfml.TagName, c.TokenType())

	_, ok = doc.CursorAtOffset(len(doc.Text))
	assert.False(t, ok)
}
