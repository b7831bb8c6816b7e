package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/alexanderramin/testdeck/internal/db"
)

// FailingUoW runs real transactions against DB but fails one write. Writes
// are matched by their leading SQL words, e.g. "DELETE FROM sections", and
// the Nth match (1 when Nth is zero) returns Err instead of executing.
// Reads always pass through.
type FailingUoW struct {
	DB    *sql.DB
	Match string
	Nth   int
	Err   error

	mu      sync.Mutex
	matched int
}

// Matched is the number of writes seen that matched Match.
func (u *FailingUoW) Matched() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.matched
}

func (u *FailingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(ctx, &failingTx{DBTX: tx, uow: u}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// trip counts query against Match and reports whether it must fail.
func (u *FailingUoW) trip(query string) bool {
	if !statementHasPrefix(query, u.Match) {
		return false
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.matched++
	return u.matched == max(u.Nth, 1)
}

type failingTx struct {
	db.DBTX
	uow *FailingUoW
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.uow.trip(query) {
		return nil, f.uow.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}

// statementHasPrefix compares whole words, ignoring case and layout, so
// "INSERT INTO test_cases" does not match an insert into test_case_sets.
func statementHasPrefix(query, prefix string) bool {
	q := strings.Fields(strings.ToUpper(query))
	p := strings.Fields(strings.ToUpper(prefix))
	if len(p) == 0 || len(q) < len(p) {
		return false
	}
	for i, word := range p {
		got := q[i]
		if i == len(p)-1 {
			got = strings.TrimRight(strings.SplitN(got, "(", 2)[0], ",")
		}
		if got != word {
			return false
		}
	}
	return true
}
