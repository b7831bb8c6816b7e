package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/testdeck/internal/db"
	"github.com/alexanderramin/testdeck/internal/domain"
)

const setColumns = `id, team_id, name, description, is_default, created_at, updated_at`

// SQLiteTestCaseSetRepo implements TestCaseSetRepo using a SQLite database.
type SQLiteTestCaseSetRepo struct {
	db db.DBTX
}

func NewSQLiteTestCaseSetRepo(conn db.DBTX) *SQLiteTestCaseSetRepo {
	return &SQLiteTestCaseSetRepo{db: conn}
}

func (r *SQLiteTestCaseSetRepo) Create(ctx context.Context, s *domain.TestCaseSet) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO test_case_sets (`+setColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.TeamID, s.Name, s.Description, boolToInt(s.IsDefault),
		formatTimestamp(s.CreatedAt), formatTimestamp(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting test case set: %w", err)
	}
	return nil
}

func (r *SQLiteTestCaseSetRepo) GetByID(ctx context.Context, id string) (*domain.TestCaseSet, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+setColumns+` FROM test_case_sets WHERE id = ?`, id)
	return r.scanSet(row)
}

func (r *SQLiteTestCaseSetRepo) ListByTeam(ctx context.Context, teamID string) ([]*domain.TestCaseSet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+setColumns+` FROM test_case_sets WHERE team_id = ? ORDER BY is_default DESC, name`, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing test case sets: %w", err)
	}
	defer rows.Close()

	var sets []*domain.TestCaseSet
	for rows.Next() {
		s, err := r.scanSet(rows)
		if err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

func (r *SQLiteTestCaseSetRepo) Update(ctx context.Context, s *domain.TestCaseSet) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE test_case_sets SET name = ?, description = ?, is_default = ?, updated_at = ? WHERE id = ?`,
		s.Name, s.Description, boolToInt(s.IsDefault), formatTimestamp(s.UpdatedAt), s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating test case set: %w", err)
	}
	return expectOneRow(res, "test case set")
}

func (r *SQLiteTestCaseSetRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM test_case_sets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting test case set: %w", err)
	}
	return expectOneRow(res, "test case set")
}

func (r *SQLiteTestCaseSetRepo) scanSet(s rowScanner) (*domain.TestCaseSet, error) {
	var set domain.TestCaseSet
	var isDefault int
	var createdAt, updatedAt string
	err := s.Scan(&set.ID, &set.TeamID, &set.Name, &set.Description, &isDefault, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("test case set: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning test case set: %w", err)
	}
	set.IsDefault = isDefault != 0
	set.CreatedAt = parseTimestamp(createdAt)
	set.UpdatedAt = parseTimestamp(updatedAt)
	return &set, nil
}
