package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/cord19/pkg/cord19/internalerr"
	"github.com/cognicore/cord19/pkg/cord19/store"
)

func newMockWriter(t *testing.T) (*Writer, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	for _, table := range store.Tables {
		mock.ExpectExec(table.CreateStatement()).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectBegin()

	w, err := newWriter(context.Background(), db, "mock.sqlite")
	require.NoError(t, err)
	return w, mock
}

func TestWriterInsertCoercesValues(t *testing.T) {
	ctx := context.Background()
	w, mock := newMockWriter(t)

	prep := mock.ExpectPrepare(store.Sections.InsertStatement())
	prep.ExpectExec().
		WithArgs(int64(0), "abc", "T", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WithArgs(int64(1), "abc", "Hello world.", "COVID-19").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectClose()

	require.NoError(t, w.Insert(ctx, store.Sections, []any{"", "abc", "T", nil}))
	require.NoError(t, w.Insert(ctx, store.Sections, []any{1, "abc", "Hello world.", "COVID-19"}))
	require.NoError(t, w.Commit())
	require.NoError(t, w.Close(), "Close after Commit is a no-op")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriterInsertFailureIsIsolated(t *testing.T) {
	ctx := context.Background()
	w, mock := newMockWriter(t)

	boom := errors.New("UNIQUE constraint failed: articles.Id")
	prep := mock.ExpectPrepare(store.Articles.InsertStatement())
	prep.ExpectExec().WillReturnError(boom)
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()
	mock.ExpectClose()

	row := []any{"abc", "PMC", nil, "J", "A", "T", nil, nil}
	err := w.Insert(ctx, store.Articles, row)
	require.Error(t, err)

	var rowErr *internalerr.RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, "articles", rowErr.Table)
	assert.Equal(t, row, rowErr.Row)
	assert.ErrorIs(t, err, boom)

	require.NoError(t, w.Insert(ctx, store.Articles, []any{"def", "PMC", nil, "J", "A", "T2", nil, nil}))
	require.NoError(t, w.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriterCoercionFailureSkipsExec(t *testing.T) {
	ctx := context.Background()
	w, mock := newMockWriter(t)
	mock.ExpectRollback()
	mock.ExpectClose()

	err := w.Insert(ctx, store.Sections, []any{"not-a-number", "abc", "T", nil})
	assert.ErrorIs(t, err, internalerr.ErrCoercion)

	require.NoError(t, w.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewWriterSchemaFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(store.Articles.CreateStatement()).WillReturnError(errors.New("disk full"))

	_, err = newWriter(context.Background(), db, "mock.sqlite")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create table articles")
}
