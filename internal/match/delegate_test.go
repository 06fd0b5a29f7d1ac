package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jarredhawkins/cfmatch/internal/types"
)

const embedLang types.LanguageID = "embed"

type mockMatcher struct {
	mock.Mock
}

func (m *mockMatcher) IsOpeningDelimiter(c types.Cursor, ft types.FileType) bool {
	return m.Called(c.Start(), ft).Bool(0)
}

func (m *mockMatcher) IsClosingDelimiter(c types.Cursor, ft types.FileType) bool {
	return m.Called(c.Start(), ft).Bool(0)
}

func (m *mockMatcher) ArePaired(left, right types.TokenType) bool {
	return m.Called(left, right).Bool(0)
}

func (m *mockMatcher) IsStructural(c types.Cursor, ft types.FileType) bool {
	return m.Called(c.Start(), ft).Bool(0)
}

func (m *mockMatcher) Opposite(t types.TokenType) (types.TokenType, bool) {
	args := m.Called(t)
	return args.Get(0).(types.TokenType), args.Bool(1)
}

// embedDoc is host text followed by one token owned by the embedded language
func embedDoc() *doc {
	d := newDoc().add(tText, "host ")
	d.lang = embedLang
	return d.add(tLBrace, "{")
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	m := &mockMatcher{}

	require.NoError(t, r.Register("b", m, nil))
	require.NoError(t, r.Register("a", m, nil))

	err := r.Register("a", m, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateLanguage)

	assert.Error(t, r.Register("c", nil, nil))
	assert.Equal(t, []types.LanguageID{"a", "b"}, r.Languages())

	_, ok := r.Lookup("a")
	assert.True(t, ok)
	_, ok = r.Lookup("missing")
	assert.False(t, ok)

	var nilRegistry *Registry
	_, ok = nilRegistry.Lookup("a")
	assert.False(t, ok)
}

func TestFacade_DelegatesForeignTokens(t *testing.T) {
	d := embedDoc()
	m := &mockMatcher{}
	m.On("IsOpeningDelimiter", d.tokens[1].Start, types.FileType("html")).Return(true).Once()
	m.On("IsStructural", d.tokens[1].Start, types.FileType("other")).Return(false).Once()

	r := NewRegistry()
	require.NoError(t, r.Register(embedLang, m, Substitutions{"xml": "html"}))
	f := newTestFacade(Options{Delegates: r})

	// xml is substituted before reaching the delegate; other file types pass through
	assert.True(t, f.IsOpeningDelimiter(d.at(1), "xml"))
	assert.False(t, f.IsStructural(d.at(1), "other"))

	m.AssertExpectations(t)
}

func TestFacade_DelegatesByTokenLanguage(t *testing.T) {
	left := types.TokenType{Lang: embedLang, Name: "L"}
	right := types.TokenType{Lang: embedLang, Name: "R"}

	m := &mockMatcher{}
	m.On("ArePaired", left, right).Return(true).Once()
	m.On("Opposite", left).Return(right, true).Once()

	r := NewRegistry()
	require.NoError(t, r.Register(embedLang, m, nil))
	f := newTestFacade(Options{Delegates: r})

	assert.True(t, f.ArePaired(left, right))
	got, ok := f.Opposite(left)
	assert.True(t, ok)
	assert.Equal(t, right, got)

	// host types never reach the delegate
	assert.True(t, f.ArePaired(tLBrace, tRBrace))

	m.AssertExpectations(t)
}

func TestFacade_HostTokensSkipDelegates(t *testing.T) {
	d := newDoc().add(tLBrace, "{").add(tRBrace, "}")
	m := &mockMatcher{}

	r := NewRegistry()
	require.NoError(t, r.Register(embedLang, m, nil))
	f := newTestFacade(Options{Delegates: r})

	assert.True(t, f.IsOpeningDelimiter(d.at(0), ftTest))
	assert.True(t, f.IsClosingDelimiter(d.at(1), ftTest))
	m.AssertNotCalled(t, "IsOpeningDelimiter", mock.Anything, mock.Anything)
	m.AssertNotCalled(t, "IsClosingDelimiter", mock.Anything, mock.Anything)
}

func TestFacade_UnregisteredLanguageFallsBack(t *testing.T) {
	// identical streams, one tagged with a foreign language that has no delegate
	host := newDoc().open("a").add(tLBrace, "{").add(tRBrace, "}").close("a")
	foreign := newDoc()
	foreign.lang = "foreign"
	foreign.open("a").add(tLBrace, "{").add(tRBrace, "}").close("a")

	f := newTestFacade(Options{Delegates: NewRegistry()})

	for i := range host.tokens {
		assert.Equal(t, f.IsOpeningDelimiter(host.at(i), ftTest), f.IsOpeningDelimiter(foreign.at(i), ftTest), "opening %d", i)
		assert.Equal(t, f.IsClosingDelimiter(host.at(i), ftTest), f.IsClosingDelimiter(foreign.at(i), ftTest), "closing %d", i)
		assert.Equal(t, f.IsStructural(host.at(i), ftTest), f.IsStructural(foreign.at(i), ftTest), "structural %d", i)
	}
}

// counterpartMatcher adds Counterpart to the mock
type counterpartMatcher struct {
	mockMatcher
	span types.Span
}

func (m *counterpartMatcher) Counterpart(c types.Cursor, ft types.FileType) (types.Span, bool) {
	return m.span, ft == "html"
}

func TestFacade_DelegatedCounterpart(t *testing.T) {
	d := embedDoc()

	plain := NewRegistry()
	require.NoError(t, plain.Register(embedLang, &mockMatcher{}, nil))
	_, ok := newTestFacade(Options{Delegates: plain}).Counterpart(d.at(1), "html")
	assert.False(t, ok)

	want := types.Span{Start: 1, End: 2}
	finder := NewRegistry()
	require.NoError(t, finder.Register(embedLang, &counterpartMatcher{span: want}, Substitutions{"xml": "html"}))
	got, ok := newTestFacade(Options{Delegates: finder}).Counterpart(d.at(1), "xml")
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestDictionary(t *testing.T) {
	d := NewDictionary(map[string]bool{"CFIF": true, "cfset": false}, false)

	assert.True(t, d.HasRequiredEndTag("cfif", ""))
	assert.True(t, d.HasRequiredEndTag("CfIf", ""))
	assert.False(t, d.HasRequiredEndTag("cfset", ""))
	assert.False(t, d.HasRequiredEndTag("unknown", ""))
	assert.Equal(t, 2, d.Len())

	o := d.With(map[string]bool{"CFSET": true, "cfmodule": true})
	assert.True(t, o.HasRequiredEndTag("cfset", ""))
	assert.True(t, o.HasRequiredEndTag("cfmodule", ""))
	assert.Equal(t, 3, o.Len())

	// the original is untouched
	required, ok := d.Lookup("cfset")
	assert.True(t, ok)
	assert.False(t, required)
	_, ok = d.Lookup("cfmodule")
	assert.False(t, ok)
}
