package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/cognicore/cord19/pkg/cord19/internalerr"
	"github.com/cognicore/cord19/pkg/cord19/store"
)

// FileName is the output database inside the output directory.
const FileName = "articles.sqlite"

// Writer writes one run into a fresh SQLite file. All inserts share a
// single transaction that is committed once by Commit.
type Writer struct {
	db        *sql.DB
	tx        *sql.Tx
	path      string
	stmts     map[string]*sql.Stmt
	committed bool
}

var _ store.Writer = (*Writer)(nil)

// Create deletes any database at path, creates the schema and opens the
// run transaction.
func Create(ctx context.Context, path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	if err := removeDatabase(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection: the run transaction owns it for the whole run.
	db.SetMaxOpenConns(1)

	// The file is rebuilt from scratch on every run, so durability before
	// the final commit buys nothing.
	if _, err := db.ExecContext(ctx, "PRAGMA synchronous=OFF"); err != nil {
		db.Close()
		return nil, err
	}

	w, err := newWriter(ctx, db, path)
	if err != nil {
		db.Close()
		return nil, err
	}
	return w, nil
}

func newWriter(ctx context.Context, db *sql.DB, path string) (*Writer, error) {
	if err := initSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin run transaction: %w", err)
	}

	return &Writer{
		db:    db,
		tx:    tx,
		path:  path,
		stmts: make(map[string]*sql.Stmt),
	}, nil
}

// initSchema creates the output tables
func initSchema(ctx context.Context, db *sql.DB) error {
	for _, t := range store.Tables {
		if _, err := db.ExecContext(ctx, t.CreateStatement()); err != nil {
			return fmt.Errorf("create table %s: %w", t.Name, err)
		}
	}
	return nil
}

// removeDatabase deletes path and the journal files SQLite keeps beside it.
func removeDatabase(path string) error {
	for _, p := range []string{path, path + "-journal", path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove existing database: %w", err)
		}
	}
	return nil
}

// Path returns the database file path.
func (w *Writer) Path() string {
	return w.path
}

// Insert coerces row to the table schema and inserts it. Failures are
// returned as *internalerr.RowError and leave the transaction usable.
func (w *Writer) Insert(ctx context.Context, table store.Table, row []any) error {
	values, err := store.Coerce(table, row)
	if err != nil {
		return &internalerr.RowError{Table: table.Name, Row: row, Err: err}
	}

	stmt, err := w.statement(ctx, table)
	if err != nil {
		return &internalerr.RowError{Table: table.Name, Row: row, Err: err}
	}

	if _, err := stmt.ExecContext(ctx, values...); err != nil {
		return &internalerr.RowError{Table: table.Name, Row: row, Err: err}
	}
	return nil
}

func (w *Writer) statement(ctx context.Context, table store.Table) (*sql.Stmt, error) {
	if stmt, ok := w.stmts[table.Name]; ok {
		return stmt, nil
	}
	stmt, err := w.tx.PrepareContext(ctx, table.InsertStatement())
	if err != nil {
		return nil, err
	}
	w.stmts[table.Name] = stmt
	return stmt, nil
}

// Commit commits the run transaction and closes the database.
func (w *Writer) Commit() error {
	w.closeStatements()
	if err := w.tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	w.committed = true
	return w.db.Close()
}

// Close discards uncommitted work and closes the database. It is a no-op
// after a successful Commit.
func (w *Writer) Close() error {
	if w.committed {
		return nil
	}
	w.closeStatements()
	if err := w.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		w.db.Close()
		return err
	}
	return w.db.Close()
}

func (w *Writer) closeStatements() {
	for name, stmt := range w.stmts {
		stmt.Close()
		delete(w.stmts, name)
	}
}
