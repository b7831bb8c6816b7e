package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/testdeck/internal/db"
	"github.com/alexanderramin/testdeck/internal/domain"
)

const testCaseColumns = `id, set_id, section_id, number, title, priority, tcg_ticket, created_at, updated_at`

// SQLiteTestCaseRepo implements TestCaseRepo using a SQLite database.
type SQLiteTestCaseRepo struct {
	db db.DBTX
}

func NewSQLiteTestCaseRepo(conn db.DBTX) *SQLiteTestCaseRepo {
	return &SQLiteTestCaseRepo{db: conn}
}

func (r *SQLiteTestCaseRepo) Create(ctx context.Context, c *domain.TestCase) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO test_cases (`+testCaseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.SetID, c.SectionID, c.Number, c.Title, string(c.Priority), c.TCGTicket,
		formatTimestamp(c.CreatedAt), formatTimestamp(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting test case: %w", err)
	}
	return nil
}

func (r *SQLiteTestCaseRepo) GetByID(ctx context.Context, id string) (*domain.TestCase, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+testCaseColumns+` FROM test_cases WHERE id = ?`, id)
	return r.scanTestCase(row)
}

func (r *SQLiteTestCaseRepo) ListBySet(ctx context.Context, setID string) ([]*domain.TestCase, error) {
	return r.list(ctx, `SELECT `+testCaseColumns+` FROM test_cases WHERE set_id = ? ORDER BY created_at, title`, setID)
}

func (r *SQLiteTestCaseRepo) ListBySection(ctx context.Context, sectionID string) ([]*domain.TestCase, error) {
	return r.list(ctx, `SELECT `+testCaseColumns+` FROM test_cases WHERE section_id = ? ORDER BY created_at, title`, sectionID)
}

func (r *SQLiteTestCaseRepo) list(ctx context.Context, query string, args ...any) ([]*domain.TestCase, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing test cases: %w", err)
	}
	defer rows.Close()

	var cases []*domain.TestCase
	for rows.Next() {
		c, err := r.scanTestCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

func (r *SQLiteTestCaseRepo) Update(ctx context.Context, c *domain.TestCase) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE test_cases SET section_id = ?, number = ?, title = ?, priority = ?, tcg_ticket = ?, updated_at = ?
		WHERE id = ?`,
		c.SectionID, c.Number, c.Title, string(c.Priority), c.TCGTicket, formatTimestamp(c.UpdatedAt), c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating test case: %w", err)
	}
	return expectOneRow(res, "test case")
}

func (r *SQLiteTestCaseRepo) MoveToSection(ctx context.Context, fromSectionIDs []string, toSectionID string) (int, error) {
	if len(fromSectionIDs) == 0 {
		return 0, nil
	}
	args := append([]any{toSectionID, nowUTC()}, stringArgs(fromSectionIDs)...)
	res, err := r.db.ExecContext(ctx,
		`UPDATE test_cases SET section_id = ?, updated_at = ? WHERE section_id IN (`+placeholders(len(fromSectionIDs))+`)`,
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("moving test cases: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("moving test cases: %w", err)
	}
	return int(n), nil
}

func (r *SQLiteTestCaseRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM test_cases WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting test case: %w", err)
	}
	return expectOneRow(res, "test case")
}

func (r *SQLiteTestCaseRepo) scanTestCase(s rowScanner) (*domain.TestCase, error) {
	var c domain.TestCase
	var priority, createdAt, updatedAt string
	err := s.Scan(&c.ID, &c.SetID, &c.SectionID, &c.Number, &c.Title, &priority, &c.TCGTicket,
		&createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("test case: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning test case: %w", err)
	}
	c.Priority = domain.Priority(priority)
	c.CreatedAt = parseTimestamp(createdAt)
	c.UpdatedAt = parseTimestamp(updatedAt)
	return &c, nil
}
