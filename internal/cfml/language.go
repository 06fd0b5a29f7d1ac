package cfml

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jarredhawkins/cfmatch/internal/match"
	"github.com/jarredhawkins/cfmatch/internal/types"
)

// Pairs is the cfscript punctuation table. Only braces bound blocks.
var Pairs = match.MustPairTable(
	match.Pair{Open: LBrace, Close: RBrace, Structural: true},
	match.Pair{Open: LBracket, Close: RBracket},
	match.Pair{Open: LParen, Close: RParen},
)

// NonStructural lists punctuation outside Pairs that must not drive folding:
// the call parentheses inside tag attribute expressions.
var NonStructural = []types.TokenType{ExprLParen, ExprRParen}

// DefaultSubstitutions makes the markup delegate read XML-flavored templates
// as HTML
func DefaultSubstitutions() map[types.LanguageID]match.Substitutions {
	return map[types.LanguageID]match.Substitutions{
		LangHTML: {FileTypeXML: FileTypeHTML},
	}
}

// Language returns the host language using req for tag requirements
func Language(req match.TagRequirement) match.Language {
	return match.Language{
		ID:            LangCFML,
		Pairs:         Pairs,
		Tags:          Tags,
		NonStructural: NonStructural,
		Requirement:   req,
	}
}

// Options configures NewMatcher
type Options struct {
	MaxScanSteps int
	// TagOverrides is applied on top of the built-in dictionary
	TagOverrides map[string]bool
	// Substitutions per delegate language; nil selects DefaultSubstitutions
	Substitutions map[types.LanguageID]match.Substitutions
	Logger        *zap.Logger
}

// NewMatcher builds the CFML facade with the markup delegate registered
func NewMatcher(opts Options) (*match.Facade, error) {
	subs := opts.Substitutions
	if subs == nil {
		subs = DefaultSubstitutions()
	}

	markup := match.New(HTMLLanguage(), match.Options{
		MaxScanSteps: opts.MaxScanSteps,
		Logger:       opts.Logger,
	})

	registry := match.NewRegistry()
	if err := registry.Register(LangHTML, markup, subs[LangHTML]); err != nil {
		return nil, fmt.Errorf("register markup delegate: %w", err)
	}

	dict := DefaultDictionary()
	if len(opts.TagOverrides) > 0 {
		dict = dict.With(opts.TagOverrides)
	}

	return match.New(Language(dict), match.Options{
		MaxScanSteps: opts.MaxScanSteps,
		Delegates:    registry,
		Logger:       opts.Logger,
	}), nil
}
