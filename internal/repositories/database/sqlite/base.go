// Package sqlite is the single-file storage driver. It keeps one open
// connection, so every transaction is serialized by database/sql itself.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	DB *sql.DB
}

// ApplySchema creates the tables if they do not exist yet.
func ApplySchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply sqlite schema: %w", err)
	}
	return nil
}

// withTx runs fn in one transaction and commits it when fn succeeds.
func (r *BaseRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	// Rollback after a successful commit returns sql.ErrTxDone.
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// constraintError reports which constraint kind failed, and its message so
// callers can tell unique indexes apart.
func constraintError(err error) (code sqlite3.ErrNoExtended, msg string) {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode, sqliteErr.Error()
	}
	return 0, ""
}

func isUnique(code sqlite3.ErrNoExtended) bool {
	return code == sqlite3.ErrConstraintUnique || code == sqlite3.ErrConstraintPrimaryKey
}

func isForeignKey(code sqlite3.ErrNoExtended) bool {
	return code == sqlite3.ErrConstraintForeignKey
}

func mentions(msg, column string) bool {
	return strings.Contains(msg, column)
}

func storageError(msg string, err error) error {
	return apperrors.NewAppError(500, msg, err)
}

func notFound(what string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(what, args...), apperrors.ErrNotFound)
}

// toNanos encodes a time as UTC unix nanoseconds. The zero time is 0.
func toNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UTC().UnixNano()
}

// nanoTime scans a unix-nanosecond column into a time.Time.
type nanoTime struct {
	t *time.Time
}

func (n nanoTime) Scan(src any) error {
	v, ok := src.(int64)
	if !ok {
		return fmt.Errorf("sqlite: cannot scan %T into time", src)
	}
	if v == 0 {
		*n.t = time.Time{}
		return nil
	}
	*n.t = time.Unix(0, v).UTC()
	return nil
}

// placeholders returns "?, ?, ..." for n arguments.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
