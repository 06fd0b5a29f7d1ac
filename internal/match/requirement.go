package match

import (
	"strings"

	"github.com/jarredhawkins/cfmatch/internal/types"
)

// TagRequirement reports whether a tag must be closed by an explicit end tag.
// Implementations must be pure and safe for concurrent use.
type TagRequirement interface {
	HasRequiredEndTag(tagName string, fileType types.FileType) bool
}

// RequirementFunc adapts a function to TagRequirement
type RequirementFunc func(tagName string, fileType types.FileType) bool

func (f RequirementFunc) HasRequiredEndTag(tagName string, fileType types.FileType) bool {
	return f(tagName, fileType)
}

// Dictionary is a case-insensitive table of tag names to their end-tag
// requirement. Names missing from the table get Default.
type Dictionary struct {
	tags    map[string]bool
	Default bool
}

// NewDictionary copies tags into a new dictionary, lower-casing the names
func NewDictionary(tags map[string]bool, def bool) *Dictionary {
	d := &Dictionary{tags: make(map[string]bool, len(tags)), Default: def}
	for name, required := range tags {
		d.tags[strings.ToLower(name)] = required
	}
	return d
}

func (d *Dictionary) HasRequiredEndTag(tagName string, _ types.FileType) bool {
	if required, ok := d.tags[strings.ToLower(tagName)]; ok {
		return required
	}
	return d.Default
}

// Lookup returns the entry for name and whether it exists
func (d *Dictionary) Lookup(name string) (required, ok bool) {
	required, ok = d.tags[strings.ToLower(name)]
	return required, ok
}

// With returns a new dictionary with overrides applied on top of d
func (d *Dictionary) With(overrides map[string]bool) *Dictionary {
	merged := make(map[string]bool, len(d.tags)+len(overrides))
	for name, required := range d.tags {
		merged[name] = required
	}
	for name, required := range overrides {
		merged[strings.ToLower(name)] = required
	}
	return &Dictionary{tags: merged, Default: d.Default}
}

// Len returns the number of entries
func (d *Dictionary) Len() int {
	return len(d.tags)
}
