package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/cord19/pkg/cord19/ingest"
	"github.com/cognicore/cord19/pkg/cord19/internalerr"
)

// Rules represents the tagging and extraction rules file
type Rules struct {
	Tagging    Tagging    `yaml:"tagging"`
	Extraction Extraction `yaml:"extraction"`
}

// Tagging configures the topic tagger
type Tagging struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Extraction configures body text extraction
type Extraction struct {
	// Boilerplate lists substrings that mark a body text block as a notice.
	Boilerplate []string `yaml:"boilerplate"`
}

// DefaultRules returns the built-in COVID-19 rules
func DefaultRules() *Rules {
	return &Rules{
		Tagging: Tagging{
			Category: ingest.DefaultCategory,
			Keywords: append([]string(nil), ingest.DefaultKeywords...),
		},
		Extraction: Extraction{
			Boilerplate: append([]string(nil), ingest.DefaultBoilerplate...),
		},
	}
}

// LoadRules loads rules from a YAML file. Sections missing from the file
// keep their default values.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	rules := DefaultRules()
	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", internalerr.ErrInvalidConfig, path, err)
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return rules, nil
}

// Validate checks the rules are usable
func (r *Rules) Validate() error {
	if strings.TrimSpace(r.Tagging.Category) == "" {
		return fmt.Errorf("%w: tagging.category is required", internalerr.ErrInvalidConfig)
	}
	for _, kw := range r.Tagging.Keywords {
		if strings.TrimSpace(kw) == "" {
			return fmt.Errorf("%w: tagging.keywords contains a blank keyword", internalerr.ErrInvalidConfig)
		}
	}
	return nil
}
