package internalerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicate         = errors.New("duplicate generated id")
	ErrInputMissing      = errors.New("input missing")
	ErrMalformedDocument = errors.New("malformed document")
	ErrCoercion          = errors.New("value coercion failed")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// RowError reports a single row that could not be written.
type RowError struct {
	Table string
	Row   []any
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("insert into %s %v: %v", e.Table, e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// DocumentError reports a body text file that could not be loaded.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("process text file %s: %v", e.Path, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }
