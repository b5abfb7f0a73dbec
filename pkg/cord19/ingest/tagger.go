package ingest

import (
	ahocorasick "github.com/cloudflare/ahocorasick"
	"golang.org/x/text/cases"
)

// DefaultCategory is the topic label assigned by the default tagger.
const DefaultCategory = "COVID-19"

// DefaultKeywords mark a document as belonging to DefaultCategory.
var DefaultKeywords = []string{
	"2019-ncov",
	"2019 novel coronavirus",
	"coronavirus 2019",
	"coronavirus disease 19",
	"covid-19",
	"covid 19",
	"ncov-2019",
	"sars-cov-2",
	"wuhan coronavirus",
	"wuhan pneumonia",
	"wuhan virus",
}

// Tagger assigns a single category to documents mentioning any keyword.
// Matching is a case-insensitive substring search.
type Tagger struct {
	category string
	keywords []string
	matcher  *ahocorasick.Matcher
	fold     cases.Caser
}

// NewTagger compiles the keyword list for category.
func NewTagger(category string, keywords []string) *Tagger {
	fold := cases.Fold()

	normalized := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = fold.String(kw); kw != "" {
			normalized = append(normalized, kw)
		}
	}

	t := &Tagger{
		category: category,
		keywords: normalized,
		fold:     fold,
	}
	if len(normalized) > 0 {
		t.matcher = ahocorasick.NewStringMatcher(normalized)
	}
	return t
}

// NewDefaultTagger returns the COVID-19 tagger.
func NewDefaultTagger() *Tagger {
	return NewTagger(DefaultCategory, DefaultKeywords)
}

// Category returns the label this tagger assigns.
func (t *Tagger) Category() string {
	return t.category
}

// Keywords returns the case-folded keyword list.
func (t *Tagger) Keywords() []string {
	return append([]string(nil), t.keywords...)
}

// Tag returns the category if any fragment contains a keyword.
func (t *Tagger) Tag(fragments []string) (string, bool) {
	if t.matcher == nil {
		return "", false
	}
	for _, text := range fragments {
		if len(t.matcher.Match([]byte(t.fold.String(text)))) > 0 {
			return t.category, true
		}
	}
	return "", false
}
