package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/data"
	"github.com/neurosnap/sentences/english"

	"github.com/cognicore/cord19/pkg/cord19/internalerr"
)

// DefaultBoilerplate marks body text blocks that are publisher notices.
var DefaultBoilerplate = []string{
	"COVID-19 resource centre remains active",
}

// SentenceSplitter splits a block of text into sentences.
type SentenceSplitter interface {
	Split(text string) []string
}

// punktSplitter wraps the English punkt sentence tokenizer.
type punktSplitter struct {
	tokenizer interface {
		Tokenize(text string) []*sentences.Sentence
	}
}

// ScholarlyAbbreviations are abbreviations common in papers that the
// English punkt model does not know. They are lower case without the
// trailing period.
var ScholarlyAbbreviations = []string{
	"fig", "figs", "eq", "eqs", "ref", "refs", "al", "approx", "ca", "cf",
	"resp", "vol", "suppl", "e.g", "i.e",
}

// NewSentenceSplitter returns the English punkt splitter extended with
// ScholarlyAbbreviations.
func NewSentenceSplitter() (SentenceSplitter, error) {
	model, err := data.Asset("data/english.json")
	if err != nil {
		return nil, fmt.Errorf("load sentence model: %w", err)
	}
	training, err := sentences.LoadTraining(model)
	if err != nil {
		return nil, fmt.Errorf("load sentence model: %w", err)
	}

	// Tokens are split on whitespace only, so "(Fig." is looked up as "(fig".
	for _, abbr := range ScholarlyAbbreviations {
		for _, prefix := range []string{"", "(", "["} {
			training.AbbrevTypes.Add(prefix + abbr)
		}
	}

	tok, err := english.NewSentenceTokenizer(training)
	if err != nil {
		return nil, fmt.Errorf("load sentence tokenizer: %w", err)
	}
	return &punktSplitter{tokenizer: tok}, nil
}

func (p *punktSplitter) Split(text string) []string {
	var out []string
	for _, s := range p.tokenizer.Tokenize(text) {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// bodyFile is the subset of a per-document JSON file the extractor reads.
type bodyFile struct {
	BodyText *[]bodyBlock `json:"body_text"`
}

type bodyBlock struct {
	Text string `json:"text"`
}

// Extraction holds the body sections of one document and any files that
// could not be read.
type Extraction struct {
	Sections []string
	Failures []*internalerr.DocumentError
}

// Extractor loads body text from the per-document JSON files.
type Extractor struct {
	dir      string
	markers  []string
	splitter SentenceSplitter
}

// NewExtractor creates an extractor rooted at the input directory.
func NewExtractor(dir string, markers []string, splitter SentenceSplitter) *Extractor {
	return &Extractor{
		dir:      dir,
		markers:  markers,
		splitter: splitter,
	}
}

// DocumentPath returns <dir>/<subset>/<subset>/<id>.json. The subset
// directory is nested in itself in the dataset layout.
func (e *Extractor) DocumentPath(subset, id string) string {
	return filepath.Join(e.dir, subset, subset, id+".json")
}

// Extract returns the sentence sections of every document named by ids.
// Without ids or a subset there is no body text. Unreadable documents are
// recorded in Failures and skipped.
func (e *Extractor) Extract(ids []string, subset string) Extraction {
	var out Extraction
	if len(ids) == 0 || subset == "" {
		return out
	}

	for _, id := range ids {
		path := e.DocumentPath(subset, id)
		sections, err := e.read(path)
		if err != nil {
			out.Failures = append(out.Failures, &internalerr.DocumentError{Path: path, Err: err})
			continue
		}
		out.Sections = append(out.Sections, sections...)
	}
	return out
}

func (e *Extractor) read(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc bodyFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrMalformedDocument, err)
	}
	if doc.BodyText == nil {
		return nil, fmt.Errorf("%w: no body_text", internalerr.ErrMalformedDocument)
	}

	var sections []string
	for _, block := range *doc.BodyText {
		if e.isBoilerplate(block.Text) {
			continue
		}
		sections = append(sections, e.splitter.Split(block.Text)...)
	}
	return sections, nil
}

func (e *Extractor) isBoilerplate(text string) bool {
	for _, marker := range e.markers {
		if marker != "" && strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// Sections returns the title followed by the body sections.
func Sections(title string, body []string) []string {
	out := make([]string, 0, len(body)+1)
	out = append(out, title)
	return append(out, body...)
}
