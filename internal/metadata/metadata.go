// Package metadata streams rows of the corpus metadata table.
package metadata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// FileName is the metadata table inside the input directory.
const FileName = "metadata.csv"

// Required columns read by the pipeline.
var Columns = []string{
	"sha",
	"title",
	"publish_time",
	"source_x",
	"journal",
	"authors",
	"doi",
	"full_text_file",
}

// Row is one metadata record.
type Row struct {
	SHA          string
	Title        string
	PublishTime  string
	Source       string
	Journal      string
	Authors      string
	DOI          string
	FullTextFile string
}

// Reader reads Rows from a CSV table with a header row.
type Reader struct {
	csv    *csv.Reader
	closer io.Closer
	index  map[string]int
	line   int
}

// Open opens the metadata table at path.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open metadata %s: %w", path, err)
	}
	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read metadata %s: %w", path, err)
	}
	r.closer = f
	return r, nil
}

// NewReader reads the header from r and checks the required columns.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range Columns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return &Reader{csv: cr, index: index, line: 1}, nil
}

// Next returns the next row, or io.EOF after the last one.
func (r *Reader) Next() (Row, error) {
	record, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Row{}, io.EOF
		}
		return Row{}, fmt.Errorf("read row after line %d: %w", r.line, err)
	}
	r.line++

	return Row{
		SHA:          r.field(record, "sha"),
		Title:        r.field(record, "title"),
		PublishTime:  r.field(record, "publish_time"),
		Source:       r.field(record, "source_x"),
		Journal:      r.field(record, "journal"),
		Authors:      r.field(record, "authors"),
		DOI:          r.field(record, "doi"),
		FullTextFile: r.field(record, "full_text_file"),
	}, nil
}

// Line returns the number of records consumed, header included.
func (r *Reader) Line() int {
	return r.line
}

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// field tolerates short rows: missing cells read as empty.
func (r *Reader) field(record []string, name string) string {
	i := r.index[name]
	if i >= len(record) {
		return ""
	}
	return record[i]
}
