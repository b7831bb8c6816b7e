package db

import (
	"context"
	"database/sql"
	"fmt"
)

// UnitOfWork runs fn inside one transaction. Repositories built from the
// tx argument share it; any error from fn rolls everything back.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// SQLiteUnitOfWork runs one transaction at a time, so a section write that
// validates the tree it just read never interleaves with another writer.
// Calls must not nest.
type SQLiteUnitOfWork struct {
	db   *sql.DB
	slot chan struct{}
}

func NewSQLiteUnitOfWork(conn *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: conn, slot: make(chan struct{}, 1)}
}

func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	select {
	case u.slot <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("waiting for transaction: %w", ctx.Err())
	}
	defer func() { <-u.slot }()

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	done := false
	defer func() {
		// Also reached when fn panics.
		if !done {
			_ = tx.Rollback()
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	done = true
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
