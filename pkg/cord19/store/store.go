package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Column is one column of a table schema.
type Column struct {
	Name string
	Type string
}

// Table is an ordered schema descriptor. Rows passed to a Writer are
// positional and aligned to Columns.
type Table struct {
	Name    string
	Columns []Column
}

// Articles is the schema of the articles table.
var Articles = Table{
	Name: "articles",
	Columns: []Column{
		{Name: "Id", Type: "TEXT PRIMARY KEY"},
		{Name: "Source", Type: "TEXT"},
		{Name: "Published", Type: "DATETIME"},
		{Name: "Publication", Type: "TEXT"},
		{Name: "Authors", Type: "TEXT"},
		{Name: "Title", Type: "TEXT"},
		{Name: "Tags", Type: "TEXT"},
		{Name: "Reference", Type: "TEXT"},
	},
}

// Sections is the schema of the sections table.
var Sections = Table{
	Name: "sections",
	Columns: []Column{
		{Name: "Id", Type: "INTEGER PRIMARY KEY"},
		{Name: "Article", Type: "TEXT"},
		{Name: "Text", Type: "TEXT"},
		{Name: "Tags", Type: "TEXT"},
	},
}

// Tables lists every table of the output store in creation order.
var Tables = []Table{Articles, Sections}

// ColumnNames returns the column names in order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// CreateStatement renders the CREATE TABLE statement.
func (t Table) CreateStatement() string {
	fields := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		fields[i] = c.Name + " " + c.Type
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", t.Name, strings.Join(fields, ", "))
}

// InsertStatement renders the parameterized INSERT statement.
func (t Table) InsertStatement() string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.Columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.Name, strings.Join(t.ColumnNames(), ", "), placeholders)
}

// Writer persists rows for one run. Nothing is durable until Commit.
type Writer interface {
	Insert(ctx context.Context, table Table, row []any) error
	Commit() error
	Close() error
}

// Article is a row of the articles table.
type Article struct {
	ID          string         `db:"Id"`
	Source      sql.NullString `db:"Source"`
	Published   sql.NullTime   `db:"Published"`
	Publication sql.NullString `db:"Publication"`
	Authors     sql.NullString `db:"Authors"`
	Title       string         `db:"Title"`
	Tags        sql.NullString `db:"Tags"`
	Reference   sql.NullString `db:"Reference"`
}

// Section is a row of the sections table.
type Section struct {
	ID      int64          `db:"Id"`
	Article string         `db:"Article"`
	Text    string         `db:"Text"`
	Tags    sql.NullString `db:"Tags"`
}

// Stats summarizes the contents of an output store.
type Stats struct {
	Articles       int64 `db:"articles"`
	TaggedArticles int64 `db:"tagged_articles"`
	Sections       int64 `db:"sections"`
	TaggedSections int64 `db:"tagged_sections"`
}
