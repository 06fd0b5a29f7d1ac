package cfml

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jarredhawkins/cfmatch/internal/match"
)

//go:embed tags.yaml
var defaultTags []byte

// Requirement spellings used in tag files
const (
	Required = "required"
	Optional = "optional"
)

type tagFile struct {
	Tags map[string]string `yaml:"tags"`
}

// ParseTags decodes a YAML tag file into name -> required
func ParseTags(data []byte) (map[string]bool, error) {
	var f tagFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode tag file: %w", err)
	}
	return ToRequirements(f.Tags)
}

// ToRequirements converts required/optional spellings to booleans
func ToRequirements(tags map[string]string) (map[string]bool, error) {
	out := make(map[string]bool, len(tags))
	for name, rule := range tags {
		switch strings.ToLower(strings.TrimSpace(rule)) {
		case Required:
			out[name] = true
		case Optional:
			out[name] = false
		default:
			return nil, fmt.Errorf("tag %q: unknown end tag rule %q (want %s or %s)", name, rule, Required, Optional)
		}
	}
	return out, nil
}

// DefaultDictionary returns the built-in CFML tag dictionary
func DefaultDictionary() *match.Dictionary {
	tags, err := ParseTags(defaultTags)
	if err != nil {
		panic(fmt.Sprintf("embedded tags.yaml: %v", err))
	}
	return match.NewDictionary(tags, false)
}
