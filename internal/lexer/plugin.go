package lexer

import (
	"sort"

	"github.com/jarredhawkins/cfmatch/internal/types"
)

// Mode is the lexer state a rule applies in
type Mode int

const (
	ModeContent Mode = iota // between tags
	ModeTagHead             // inside <name ... >
	ModeScript              // inside a cfscript body
	ModeRawText             // inside a markup script or style body
)

func (m Mode) String() string {
	switch m {
	case ModeContent:
		return "content"
	case ModeTagHead:
		return "tag_head"
	case ModeScript:
		return "script"
	case ModeRawText:
		return "raw_text"
	default:
		return "unknown"
	}
}

// State is the lexer context visible to rules
type State struct {
	Mode Mode
	// Tag is the lower-cased name of the tag whose head is being lexed
	Tag string
	// TagLang owns the tokens of the current tag head
	TagLang types.LanguageID
	// MarkupLang owns non-cf tags
	MarkupLang types.LanguageID
	// Raw is the lower-cased markup element whose body is being lexed as raw
	// text, empty outside one
	Raw string
}

// resume is the mode to return to after a tag or comment ends
func (st *State) resume() Mode {
	if st.Raw != "" {
		return ModeRawText
	}
	return ModeContent
}

// MatchResult is what a rule produced at the current position
type MatchResult struct {
	Tokens []types.Token
	// Len is the number of bytes consumed; it must be > 0 unless Next changes
	// the mode
	Len  int
	Next Mode
}

// Rule recognizes one kind of token sequence
type Rule interface {
	// Name returns the rule identifier
	Name() string

	// Match tests src at pos. Returns nil if no match.
	Match(src string, pos int, st *State) *MatchResult

	// Priority for ordering (higher = earlier)
	Priority() int
}

// Registry holds rules per mode. Registration is not safe for concurrent use;
// lookups are once all rules are registered.
type Registry struct {
	rules map[Mode][]Rule
}

// NewRegistry creates a new empty registry
func NewRegistry() *Registry {
	return &Registry{
		rules: make(map[Mode][]Rule),
	}
}

// Register adds a rule for mode, keeping the mode's rules in priority order
func (r *Registry) Register(mode Mode, rule Rule) {
	rules := append(r.rules[mode], rule)
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority() > rules[j].Priority()
	})
	r.rules[mode] = rules
}

// Rules returns the rules for mode in priority order
func (r *Registry) Rules(mode Mode) []Rule {
	return r.rules[mode]
}

// RegisterDefaults adds the CFML rules to the registry
func RegisterDefaults(r *Registry) {
	r.Register(ModeContent, &CommentRule{})
	r.Register(ModeContent, &ProcessingRule{})
	r.Register(ModeContent, &EndTagRule{})
	r.Register(ModeContent, &StartTagRule{})
	r.Register(ModeContent, &TextRule{})

	r.Register(ModeTagHead, &HeadWhitespaceRule{})
	r.Register(ModeTagHead, &HeadEndRule{})
	r.Register(ModeTagHead, &AttributeValueRule{})
	r.Register(ModeTagHead, &AttributeRule{})
	r.Register(ModeTagHead, &ExprParenRule{})
	r.Register(ModeTagHead, &HeadOtherRule{})

	r.Register(ModeRawText, &RawTextEndRule{})
	r.Register(ModeRawText, &CommentRule{})
	r.Register(ModeRawText, &RawCFTagRule{})
	r.Register(ModeRawText, &RawTextRule{})

	r.Register(ModeScript, &ScriptEndRule{})
	r.Register(ModeScript, &ScriptCommentRule{})
	r.Register(ModeScript, &ScriptStringRule{})
	r.Register(ModeScript, &ScriptPunctRule{})
	r.Register(ModeScript, &ScriptWordRule{})
	r.Register(ModeScript, &ScriptOtherRule{})
}
