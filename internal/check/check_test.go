package check

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jarredhawkins/cfmatch/internal/cfml"
	"github.com/jarredhawkins/cfmatch/internal/lexer"
)

func TestDocument(t *testing.T) {
	src := "<cfif x>\n" +
		"<cfoutput>\n" +
		"</cfif>\n" +
		"<cfscript>a = {b;x);</cfscript>\n" +
		"<div><br></div></div>"

	m, err := cfml.NewMatcher(cfml.Options{})
	require.NoError(t, err)
	doc := lexer.NewDefault().Lex("a.cfm", src)

	issues := Document(doc, m)

	type brief struct {
		Kind    Kind
		Line    int
		Column  int
		Message string
	}
	var got []brief
	for _, is := range issues {
		assert.Equal(t, "a.cfm", is.Path)
		got = append(got, brief{is.Kind, is.Line, is.Column, is.Message})
	}
	assert.Equal(t, []brief{
		{KindUnclosedTag, 2, 1, "<cfoutput> has no matching end tag"},
		{KindUnclosedBrace, 4, 15, `"{" is never closed`},
		{KindUnmatchedBrace, 4, 19, `")" closes nothing`},
		{KindUnmatchedEndTag, 5, 21, "</div> has no matching start tag"},
	}, got)
}

func TestDocument_Clean(t *testing.T) {
	m, err := cfml.NewMatcher(cfml.Options{})
	require.NoError(t, err)
	doc := lexer.NewDefault().Lex("ok.cfm", `<cfloop from="1" to="3" index="i"><cfset x = f(i)><p>#x#</cfloop>`)

	assert.Empty(t, Document(doc, m))
}

func TestFormat(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	issues := []Issue{{
		Kind:    KindUnclosedTag,
		Path:    "a.cfm",
		Line:    2,
		Column:  3,
		Message: "<cfoutput> has no matching end tag",
	}}
	out := Format(issues, map[string]string{"a.cfm": "x\n\t<cfoutput>\n"})

	assert.Equal(t, "error: unclosed-tag\n"+
		" --> a.cfm:2:3\n"+
		"  |\n"+
		"2 | \t<cfoutput>\n"+
		"  |   ^ <cfoutput> has no matching end tag\n\n", out)
}

func TestCaretColumn(t *testing.T) {
	tests := []struct {
		line   string
		column int
		want   int
	}{
		{"abc", 1, 0},
		{"abc", 3, 2},
		{"ab😀c", 5, 3},
		{"ab", 9, 2},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, caretColumn(tc.line, tc.column), "%q:%d", tc.line, tc.column)
	}
}

func TestDocument_InlineScript(t *testing.T) {
	m, err := cfml.NewMatcher(cfml.Options{})
	require.NoError(t, err)
	doc := lexer.NewDefault().Lex("js.cfm", "<script>if (a<b) { x(); }</script>\n<style>p>a{}</style>")

	assert.Empty(t, Document(doc, m))
}
