package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/cognicore/cord19/pkg/cord19/internalerr"
	"github.com/cognicore/cord19/pkg/cord19/store"
)

// Reader queries a finished output database.
type Reader struct {
	db *sqlx.DB
}

// Open opens an existing database for reading.
func Open(ctx context.Context, path string) (*Reader, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", internalerr.ErrNotFound, path)
		}
		return nil, err
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return &Reader{db: db}, nil
}

// Close closes the database connection
func (r *Reader) Close() error {
	return r.db.Close()
}

const articleColumns = `Id, Source, Published, Publication, Authors, Title, Tags, Reference`

// Articles returns every article in insertion order.
func (r *Reader) Articles(ctx context.Context) ([]store.Article, error) {
	var out []store.Article
	err := r.db.SelectContext(ctx, &out, `SELECT `+articleColumns+` FROM articles ORDER BY rowid`)
	return out, err
}

// Article returns a single article by id.
func (r *Reader) Article(ctx context.Context, id string) (store.Article, error) {
	var a store.Article
	err := r.db.GetContext(ctx, &a, `SELECT `+articleColumns+` FROM articles WHERE Id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Article{}, fmt.Errorf("article %s: %w", id, internalerr.ErrNotFound)
	}
	return a, err
}

// Sections returns the sections of one article ordered by id.
func (r *Reader) Sections(ctx context.Context, article string) ([]store.Section, error) {
	var out []store.Section
	err := r.db.SelectContext(ctx, &out,
		`SELECT Id, Article, Text, Tags FROM sections WHERE Article = ? ORDER BY Id`, article)
	return out, err
}

// AllSections returns every section ordered by id.
func (r *Reader) AllSections(ctx context.Context) ([]store.Section, error) {
	var out []store.Section
	err := r.db.SelectContext(ctx, &out, `SELECT Id, Article, Text, Tags FROM sections ORDER BY Id`)
	return out, err
}

// Stats counts articles and sections, in total and tagged.
func (r *Reader) Stats(ctx context.Context) (store.Stats, error) {
	var s store.Stats
	err := r.db.GetContext(ctx, &s, `
SELECT
	(SELECT COUNT(*) FROM articles) AS articles,
	(SELECT COUNT(*) FROM articles WHERE Tags IS NOT NULL) AS tagged_articles,
	(SELECT COUNT(*) FROM sections) AS sections,
	(SELECT COUNT(*) FROM sections WHERE Tags IS NOT NULL) AS tagged_sections
`)
	return s, err
}
