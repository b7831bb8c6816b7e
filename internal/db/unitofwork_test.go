package db_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/alexanderramin/testdeck/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func openUoW(t *testing.T, path string) (*db.SQLiteUnitOfWork, *sql.DB) {
	t.Helper()
	conn, err := db.OpenDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return db.NewSQLiteUnitOfWork(conn), conn
}

func insertTeam(ctx context.Context, tx db.DBTX, id, name string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO teams (id, name, created_at, updated_at) VALUES (?, ?, '', '')`, id, name)
	return err
}

func teamCount(t *testing.T, conn *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM teams`).Scan(&n))
	return n
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow, conn := openUoW(t, db.MemoryPath)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertTeam(ctx, tx, "t1", "Payments"); err != nil {
			return err
		}
		return insertTeam(ctx, tx, "t2", "Search")
	})
	require.NoError(t, err)
	assert.Equal(t, 2, teamCount(t, conn))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow, conn := openUoW(t, db.MemoryPath)
	injected := errors.New("second insert rejected")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertTeam(ctx, tx, "t1", "Payments"); err != nil {
			return err
		}
		return injected
	})
	require.ErrorIs(t, err, injected)
	assert.Equal(t, 0, teamCount(t, conn))

	// The slot is free again.
	require.NoError(t, uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertTeam(ctx, tx, "t1", "Payments")
	}))
	assert.Equal(t, 1, teamCount(t, conn))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow, conn := openUoW(t, db.MemoryPath)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertTeam(ctx, tx, "t1", "Payments")
			panic("boom")
		})
	})
	assert.Equal(t, 0, teamCount(t, conn))

	require.NoError(t, uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertTeam(ctx, tx, "t2", "Search")
	}), "a panic releases the slot")
}

func TestWithinTx_SerializesReadModifyWrite(t *testing.T) {
	uow, conn := openUoW(t, filepath.Join(t.TempDir(), "testdeck.db"))
	ctx := context.Background()
	_, err := conn.Exec(`INSERT INTO teams (id, name, description, created_at, updated_at) VALUES ('t1', 'QA', '0', '', '')`)
	require.NoError(t, err)

	const writers = 8
	var g errgroup.Group
	for range writers {
		g.Go(func() error {
			return uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
				var raw string
				if err := tx.QueryRowContext(ctx, `SELECT description FROM teams WHERE id = 't1'`).Scan(&raw); err != nil {
					return err
				}
				n, err := strconv.Atoi(raw)
				if err != nil {
					return err
				}
				_, err = tx.ExecContext(ctx, `UPDATE teams SET description = ? WHERE id = 't1'`, strconv.Itoa(n+1))
				return err
			})
		})
	}
	require.NoError(t, g.Wait())

	var final string
	require.NoError(t, conn.QueryRow(`SELECT description FROM teams WHERE id = 't1'`).Scan(&final))
	assert.Equal(t, strconv.Itoa(writers), final, "no update is lost")
}

func TestWithinTx_WaitHonoursContext(t *testing.T) {
	uow, _ := openUoW(t, db.MemoryPath)

	started := make(chan struct{})
	hold := make(chan struct{})
	finished := make(chan error, 1)
	go func() {
		finished <- uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			close(started)
			<-hold
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	ran := false
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		ran = true
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, ran)

	close(hold)
	require.NoError(t, <-finished)
}
