// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers and services to distinguish between different failure
// scenarios without inspecting driver errors.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ErrWatchNotFound is returned when a referenced watch does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrWatchNotFound = errors.New("watch not found")

// ErrAlertNotFound is returned when an alert does not exist or is not in
// a state the caller can act upon (for example an already resolved
// alert passed to a confirmation).
var ErrAlertNotFound = errors.New("alert not found")

// ErrSnapshotNotFound is returned when a price snapshot does not exist.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ErrTypicalNotFound is returned when no typical price has been cached
// yet for a route and date.
var ErrTypicalNotFound = errors.New("typical price not found")

// ErrConflict is returned when a write cannot be performed because of
// conflicting state. Handlers should translate this into an HTTP 409
// response.
var ErrConflict = errors.New("conflict")

// dbtx is the subset of *sql.DB and *sql.Tx the repositories use, so the
// same query code serves both the plain and the ...Tx variants.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// notFound maps sql.ErrNoRows onto the given sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	return err
}
