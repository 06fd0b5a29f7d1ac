package cfml

import (
	"strings"

	"github.com/jarredhawkins/cfmatch/internal/match"
	"github.com/jarredhawkins/cfmatch/internal/types"
)

// Elements that never take an end tag, plus those whose end tag may be
// omitted
var htmlNoEndTag = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {},
	"img": {}, "input": {}, "link": {}, "meta": {}, "param": {}, "source": {},
	"track": {}, "wbr": {},
	"li": {}, "p": {}, "dt": {}, "dd": {}, "option": {}, "tr": {}, "td": {},
	"th": {}, "thead": {}, "tbody": {}, "tfoot": {},
}

// HTMLRequirement answers end-tag requirements for embedded markup. Under
// the xml file type every element needs an explicit end tag.
type HTMLRequirement struct{}

func (HTMLRequirement) HasRequiredEndTag(tagName string, ft types.FileType) bool {
	if ft == FileTypeXML {
		return true
	}
	_, optional := htmlNoEndTag[strings.ToLower(tagName)]
	return !optional
}

// HTMLLanguage describes embedded markup. It has no punctuation pairs.
func HTMLLanguage() match.Language {
	return match.Language{
		ID:          LangHTML,
		Pairs:       match.MustPairTable(),
		Tags:        HTMLTags,
		Requirement: HTMLRequirement{},
	}
}
