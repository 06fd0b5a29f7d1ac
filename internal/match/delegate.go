package match

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/jarredhawkins/cfmatch/internal/types"
)

// ErrDuplicateLanguage is returned when a language already has a delegate
var ErrDuplicateLanguage = errors.New("delegate already registered for language")

// BraceMatcher is the query surface shared by the host matcher and every
// embedded-language delegate.
type BraceMatcher interface {
	IsOpeningDelimiter(c types.Cursor, fileType types.FileType) bool
	IsClosingDelimiter(c types.Cursor, fileType types.FileType) bool
	ArePaired(left, right types.TokenType) bool
	IsStructural(c types.Cursor, fileType types.FileType) bool
	Opposite(t types.TokenType) (types.TokenType, bool)
}

// CounterpartFinder is optionally implemented by matchers that can locate the
// token matching the one under the cursor
type CounterpartFinder interface {
	Counterpart(c types.Cursor, fileType types.FileType) (types.Span, bool)
}

// Substitutions maps the nominal file type of an embedded region to the file
// type a delegate expects instead
type Substitutions map[types.FileType]types.FileType

// Registry routes queries for embedded-language tokens to their own matcher.
type Registry struct {
	mu        sync.RWMutex
	delegates map[types.LanguageID]*delegated
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		delegates: make(map[types.LanguageID]*delegated),
	}
}

// Register adds the matcher for lang. subs may be nil.
func (r *Registry) Register(lang types.LanguageID, m BraceMatcher, subs Substitutions) error {
	if m == nil {
		return fmt.Errorf("register %q: nil matcher", lang)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.delegates[lang]; exists {
		return fmt.Errorf("register %q: %w", lang, ErrDuplicateLanguage)
	}
	copied := make(Substitutions, len(subs))
	for from, to := range subs {
		copied[from] = to
	}
	r.delegates[lang] = &delegated{lang: lang, matcher: m, subs: copied}
	return nil
}

// Lookup returns the delegate for lang with file-type substitution applied
func (r *Registry) Lookup(lang types.LanguageID) (BraceMatcher, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.delegates[lang]
	if !ok {
		return nil, false
	}
	return d, true
}

// Languages returns the registered languages in sorted order
func (r *Registry) Languages() []types.LanguageID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	langs := make([]types.LanguageID, 0, len(r.delegates))
	for lang := range r.delegates {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

// delegated forwards to a registered matcher after substituting the file type
type delegated struct {
	lang    types.LanguageID
	matcher BraceMatcher
	subs    Substitutions
}

func (d *delegated) fileType(ft types.FileType) types.FileType {
	if to, ok := d.subs[ft]; ok {
		return to
	}
	return ft
}

func (d *delegated) IsOpeningDelimiter(c types.Cursor, ft types.FileType) bool {
	return d.matcher.IsOpeningDelimiter(c, d.fileType(ft))
}

func (d *delegated) IsClosingDelimiter(c types.Cursor, ft types.FileType) bool {
	return d.matcher.IsClosingDelimiter(c, d.fileType(ft))
}

func (d *delegated) ArePaired(left, right types.TokenType) bool {
	return d.matcher.ArePaired(left, right)
}

func (d *delegated) IsStructural(c types.Cursor, ft types.FileType) bool {
	return d.matcher.IsStructural(c, d.fileType(ft))
}

func (d *delegated) Opposite(t types.TokenType) (types.TokenType, bool) {
	return d.matcher.Opposite(t)
}

func (d *delegated) Counterpart(c types.Cursor, ft types.FileType) (types.Span, bool) {
	f, ok := d.matcher.(CounterpartFinder)
	if !ok {
		return types.Span{}, false
	}
	return f.Counterpart(c, d.fileType(ft))
}
