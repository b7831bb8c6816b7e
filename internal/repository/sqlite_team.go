package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/testdeck/internal/db"
	"github.com/alexanderramin/testdeck/internal/domain"
)

const teamColumns = `id, name, description, created_at, updated_at`

// SQLiteTeamRepo implements TeamRepo using a SQLite database.
type SQLiteTeamRepo struct {
	db db.DBTX
}

func NewSQLiteTeamRepo(conn db.DBTX) *SQLiteTeamRepo {
	return &SQLiteTeamRepo{db: conn}
}

func (r *SQLiteTeamRepo) Create(ctx context.Context, t *domain.Team) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO teams (`+teamColumns+`) VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Description,
		formatTimestamp(t.CreatedAt), formatTimestamp(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting team: %w", err)
	}
	return nil
}

func (r *SQLiteTeamRepo) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = ?`, id)
	return r.scanTeam(row)
}

func (r *SQLiteTeamRepo) GetByName(ctx context.Context, name string) (*domain.Team, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE name = ? COLLATE NOCASE`, name)
	return r.scanTeam(row)
}

func (r *SQLiteTeamRepo) List(ctx context.Context) ([]*domain.Team, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+teamColumns+` FROM teams ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	defer rows.Close()

	var teams []*domain.Team
	for rows.Next() {
		t, err := r.scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *SQLiteTeamRepo) Update(ctx context.Context, t *domain.Team) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE teams SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		t.Name, t.Description, formatTimestamp(t.UpdatedAt), t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating team: %w", err)
	}
	return expectOneRow(res, "team")
}

func (r *SQLiteTeamRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting team: %w", err)
	}
	return expectOneRow(res, "team")
}

func (r *SQLiteTeamRepo) scanTeam(s rowScanner) (*domain.Team, error) {
	var t domain.Team
	var createdAt, updatedAt string
	err := s.Scan(&t.ID, &t.Name, &t.Description, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("team: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning team: %w", err)
	}
	t.CreatedAt = parseTimestamp(createdAt)
	t.UpdatedAt = parseTimestamp(updatedAt)
	return &t, nil
}
