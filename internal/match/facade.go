package match

import (
	"go.uber.org/zap"

	"github.com/jarredhawkins/cfmatch/internal/types"
)

// Language describes how the host language spells its delimiters
type Language struct {
	ID    types.LanguageID
	Pairs *PairTable
	Tags  TagTokens
	// NonStructural lists token types outside Pairs that must not be treated
	// as block boundaries. Everything else defaults to structural.
	NonStructural []types.TokenType
	Requirement   TagRequirement
}

// Options configures a Facade
type Options struct {
	// MaxScanSteps bounds a single balance scan; exceeding it is a miss.
	// Zero or negative means unbounded.
	MaxScanSteps int
	Delegates    *Registry
	Logger       *zap.Logger
}

// Facade answers delimiter queries for a host language, handing tokens of
// embedded languages to their registered delegate. It holds no per-query
// state and is safe for concurrent use with distinct cursors.
type Facade struct {
	lang          Language
	scanner       *Scanner
	delegates     *Registry
	nonStructural map[types.TokenType]struct{}
	logger        *zap.Logger
}

// New creates a facade for lang
func New(lang Language, opts Options) *Facade {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if lang.Pairs == nil {
		lang.Pairs = MustPairTable()
	}
	if lang.Requirement == nil {
		lang.Requirement = RequirementFunc(func(string, types.FileType) bool { return true })
	}
	ns := make(map[types.TokenType]struct{}, len(lang.NonStructural))
	for _, t := range lang.NonStructural {
		ns[t] = struct{}{}
	}
	return &Facade{
		lang:          lang,
		scanner:       NewScanner(lang.Tags, opts.MaxScanSteps, logger),
		delegates:     opts.Delegates,
		nonStructural: ns,
		logger:        logger,
	}
}

// Language returns the host language id
func (f *Facade) Language() types.LanguageID {
	return f.lang.ID
}

// delegateFor returns the registered matcher for a foreign language, or nil
// when lang is the host or nothing is registered for it.
func (f *Facade) delegateFor(lang types.LanguageID) BraceMatcher {
	if lang == f.lang.ID {
		return nil
	}
	d, ok := f.delegates.Lookup(lang)
	if !ok {
		return nil
	}
	f.logger.Debug("delegating match query", zap.String("language", string(lang)))
	return d
}

func (f *Facade) requiresEndTag(name string, ft types.FileType) bool {
	return f.lang.Requirement.HasRequiredEndTag(name, ft)
}

// IsOpeningDelimiter reports whether the token under the cursor opens a
// construct. A tag head only counts when its tag needs no end tag, when it is
// an empty element, or when a matching end tag actually exists downstream.
func (f *Facade) IsOpeningDelimiter(c types.Cursor, ft types.FileType) bool {
	if c.AtEnd() {
		return false
	}
	if d := f.delegateFor(c.Language()); d != nil {
		return d.IsOpeningDelimiter(c, ft)
	}
	t := c.TokenType()
	if f.lang.Pairs.IsOpener(t) {
		return true
	}
	if f.lang.Tags.Category(t) != types.CategoryOpener {
		return false
	}
	name, ok := f.lang.Tags.NameAt(c)
	if !ok {
		return false
	}
	if !f.requiresEndTag(name, ft) || f.lang.Tags.emptyElement(c) {
		return true
	}
	return f.scanner.FindMatchingCloser(c)
}

// IsClosingDelimiter reports whether the token under the cursor closes a
// construct. A bare AngleBracketClose only closes tags that need no end tag;
// an EmptyTagClose always closes its own element.
func (f *Facade) IsClosingDelimiter(c types.Cursor, ft types.FileType) bool {
	if c.AtEnd() {
		return false
	}
	if d := f.delegateFor(c.Language()); d != nil {
		return d.IsClosingDelimiter(c, ft)
	}
	t := c.TokenType()
	if f.lang.Pairs.IsCloser(t) {
		return true
	}
	switch f.lang.Tags.Category(t) {
	case types.CategoryCloser:
		name, ok := f.lang.Tags.NameAt(c)
		if !ok {
			return false
		}
		return !f.requiresEndTag(name, ft) || f.scanner.FindMatchingOpener(c)
	case types.CategoryAngleBracketClose:
		name, ok := f.lang.Tags.NameAt(c)
		if !ok {
			return false
		}
		if t == f.lang.Tags.EmptyTagClose {
			return true
		}
		return !f.requiresEndTag(name, ft)
	}
	return false
}

// ArePaired reports whether left opens and right closes the same kind of
// construct. Like PairTable.IsPair the order matters. Tag pairs are judged by
// token type alone.
func (f *Facade) ArePaired(left, right types.TokenType) bool {
	if d := f.delegateFor(left.Lang); d != nil {
		return d.ArePaired(left, right)
	}
	if f.lang.Pairs.IsPair(left, right) {
		return true
	}
	l, r := f.lang.Tags.Category(left), f.lang.Tags.Category(right)
	return l == types.CategoryOpener &&
		(r == types.CategoryCloser || r == types.CategoryAngleBracketClose)
}

// IsStructural reports whether the token under the cursor bounds a block for
// folding and indentation
func (f *Facade) IsStructural(c types.Cursor, ft types.FileType) bool {
	if c.AtEnd() {
		return false
	}
	if d := f.delegateFor(c.Language()); d != nil {
		return d.IsStructural(c, ft)
	}
	t := c.TokenType()
	if structural, known := f.lang.Pairs.IsStructural(t); known {
		return structural
	}
	if _, excluded := f.nonStructural[t]; excluded {
		return false
	}
	return true
}

// Opposite returns the token type that pairs with t
func (f *Facade) Opposite(t types.TokenType) (types.TokenType, bool) {
	if d := f.delegateFor(t.Lang); d != nil {
		return d.Opposite(t)
	}
	if o, ok := f.lang.Pairs.Opposite(t); ok {
		return o, true
	}
	switch f.lang.Tags.Category(t) {
	case types.CategoryOpener:
		return f.lang.Tags.AngleBracketClose, true
	case types.CategoryAngleBracketClose, types.CategoryCloser:
		return f.lang.Tags.Opener, true
	}
	return types.TokenType{}, false
}

// GroupID returns the language owning the token under the cursor. Editors
// only pair tokens that share a group.
func (f *Facade) GroupID(c types.Cursor) types.LanguageID {
	if c.AtEnd() {
		return ""
	}
	return c.Language()
}

// CodeConstructStart returns the start of the parent of the smallest element
// containing offset, or offset itself when there is no such element.
func (f *Facade) CodeConstructStart(loc types.ElementLocator, offset int) int {
	if loc == nil {
		return offset
	}
	el, ok := loc.ElementAt(offset)
	if !ok || el == nil {
		return offset
	}
	if parent, ok := el.Parent(); ok && parent != nil {
		return parent.StartOffset()
	}
	return el.StartOffset()
}

// Counterpart returns the range of the token matching the one under the
// cursor. An end tag is preferred when one exists; for empty elements and
// unclosed tags that need no end tag the counterpart is the other end of the
// tag head.
func (f *Facade) Counterpart(c types.Cursor, ft types.FileType) (types.Span, bool) {
	if c.AtEnd() {
		return types.Span{}, false
	}
	if d := f.delegateFor(c.Language()); d != nil {
		cf, ok := d.(CounterpartFinder)
		if !ok {
			return types.Span{}, false
		}
		return cf.Counterpart(c, ft)
	}
	t := c.TokenType()
	if _, ok := f.lang.Pairs.Opposite(t); ok {
		return f.scanner.pairOf(c, f.lang.Pairs)
	}

	cat := f.lang.Tags.Category(t)
	if cat == types.CategoryNone || cat == types.CategoryTagName {
		return types.Span{}, false
	}
	name, ok := f.lang.Tags.NameAt(c)
	if !ok {
		return types.Span{}, false
	}
	required := f.requiresEndTag(name, ft)

	switch cat {
	case types.CategoryOpener:
		if f.lang.Tags.emptyElement(c) {
			return f.scanner.headEnd(c)
		}
		if span, ok := f.scanner.closerOf(c); ok {
			return span, true
		}
		if !required {
			return f.scanner.headEnd(c)
		}
	case types.CategoryCloser:
		return f.scanner.openerOf(c)
	case types.CategoryAngleBracketClose:
		if t == f.lang.Tags.EmptyTagClose || !required {
			return f.scanner.headStart(c)
		}
	}
	return types.Span{}, false
}
