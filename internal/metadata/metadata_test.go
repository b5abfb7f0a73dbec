package metadata

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "cord_uid,sha,source_x,title,doi,pmcid,pubmed_id,license,abstract,publish_time,authors,journal,full_text_file\n"

func TestReaderReadsRowsInOrder(t *testing.T) {
	data := header +
		`u1,abc; def,PMC,First title,10.1/x,,,,,2020-03-01,"Doe, J.; Roe, R.",Lancet,comm_use_subset` + "\n" +
		`u2,,Elsevier,"Second, with comma",,,,,,2019,,,` + "\n"

	r, err := NewReader(strings.NewReader(data))
	require.NoError(t, err)

	first, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, Row{
		SHA:          "abc; def",
		Title:        "First title",
		PublishTime:  "2020-03-01",
		Source:       "PMC",
		Journal:      "Lancet",
		Authors:      "Doe, J.; Roe, R.",
		DOI:          "10.1/x",
		FullTextFile: "comm_use_subset",
	}, first)

	second, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "Second, with comma", second.Title)
	assert.Empty(t, second.SHA)
	assert.Equal(t, "2019", second.PublishTime)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 3, r.Line())
}

func TestReaderShortRow(t *testing.T) {
	data := "sha,title,publish_time,source_x,journal,authors,doi,full_text_file\nabc,T\n"

	r, err := NewReader(strings.NewReader(data))
	require.NoError(t, err)

	row, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, Row{SHA: "abc", Title: "T"}, row)
}

func TestReaderMissingColumns(t *testing.T) {
	_, err := NewReader(strings.NewReader("sha,title\nabc,T\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish_time", "error should name the missing column")
}

func TestReaderEmptyInput(t *testing.T) {
	_, err := NewReader(strings.NewReader(""))
	assert.Error(t, err)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), FileName))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenStripsBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	data := "\ufeffsha,title,publish_time,source_x,journal,authors,doi,full_text_file\nabc,T,,,,,,\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	row, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "abc", row.SHA)
}
