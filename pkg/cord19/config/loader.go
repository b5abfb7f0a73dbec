package config

import (
	"fmt"

	"github.com/cognicore/cord19/pkg/cord19/ingest"
)

// Loader loads the rules file and constructs components
type Loader struct {
	RulesPath string
}

// Components holds all loaded configuration components
type Components struct {
	Rules     *Rules
	Tagger    *ingest.Tagger
	Extractor *ingest.Extractor
}

// Load reads the rules file, if any, and builds the tagger and an
// extractor rooted at inputDir
func (l *Loader) Load(inputDir string) (*Components, error) {
	rules := DefaultRules()
	if l.RulesPath != "" {
		loaded, err := LoadRules(l.RulesPath)
		if err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
		rules = loaded
	}

	splitter, err := ingest.NewSentenceSplitter()
	if err != nil {
		return nil, err
	}

	return &Components{
		Rules:     rules,
		Tagger:    ingest.NewTagger(rules.Tagging.Category, rules.Tagging.Keywords),
		Extractor: ingest.NewExtractor(inputDir, rules.Extraction.Boilerplate, splitter),
	}, nil
}
