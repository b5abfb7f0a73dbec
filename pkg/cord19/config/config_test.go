package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/cord19/pkg/cord19/ingest"
	"github.com/cognicore/cord19/pkg/cord19/internalerr"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules()
	assert.Equal(t, "COVID-19", rules.Tagging.Category)
	assert.Len(t, rules.Tagging.Keywords, len(ingest.DefaultKeywords))
	assert.Len(t, rules.Extraction.Boilerplate, 1)

	// Mutating the copy must not touch the package defaults
	rules.Tagging.Keywords[0] = "changed"
	assert.NotEqual(t, "changed", ingest.DefaultKeywords[0], "DefaultRules should copy the keyword list")
}

func TestLoadRules(t *testing.T) {
	path := writeRules(t, `tagging:
  category: INFLUENZA
  keywords:
    - influenza
    - h1n1
extraction:
  boilerplate:
    - "All rights reserved"
`)

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, "INFLUENZA", rules.Tagging.Category)
	assert.Equal(t, []string{"influenza", "h1n1"}, rules.Tagging.Keywords)
	assert.Equal(t, []string{"All rights reserved"}, rules.Extraction.Boilerplate)
}

func TestLoadRulesPartialKeepsDefaults(t *testing.T) {
	path := writeRules(t, `extraction:
  boilerplate: []
`)

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, ingest.DefaultCategory, rules.Tagging.Category, "tagging should keep defaults")
	assert.Empty(t, rules.Extraction.Boilerplate, "boilerplate should be overridden to empty")
}

func TestLoadRulesInvalid(t *testing.T) {
	tests := map[string]string{
		"malformed yaml": "tagging: [",
		"blank category": "tagging:\n  category: \"\"\n",
		"blank keyword":  "tagging:\n  keywords: [\"covid\", \" \"]\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadRules(writeRules(t, content))
			assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
		})
	}
}

func TestLoadRulesMissingFile(t *testing.T) {
	_, err := LoadRules("/nonexistent/rules.yaml")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
