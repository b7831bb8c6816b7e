package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/testdeck/internal/db"
	"github.com/alexanderramin/testdeck/internal/domain"
)

// sectionSelect reads sections together with their direct test case count.
const sectionSelect = `SELECT s.id, s.set_id, s.parent_id, s.name, s.sort_order,
		(SELECT COUNT(*) FROM test_cases tc WHERE tc.section_id = s.id),
		s.created_at, s.updated_at
	FROM sections s`

// SQLiteSectionRepo implements SectionRepo using a SQLite database.
type SQLiteSectionRepo struct {
	db db.DBTX
}

func NewSQLiteSectionRepo(conn db.DBTX) *SQLiteSectionRepo {
	return &SQLiteSectionRepo{db: conn}
}

func (r *SQLiteSectionRepo) Create(ctx context.Context, s *domain.Section) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sections (id, set_id, parent_id, name, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.SetID,
		s.ParentID, // *string: nil becomes SQL NULL
		s.Name, s.SortOrder,
		formatTimestamp(s.CreatedAt), formatTimestamp(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting section: %w", err)
	}
	return nil
}

func (r *SQLiteSectionRepo) GetByID(ctx context.Context, id string) (*domain.Section, error) {
	row := r.db.QueryRowContext(ctx, sectionSelect+` WHERE s.id = ?`, id)
	return r.scanSection(row)
}

func (r *SQLiteSectionRepo) ListBySet(ctx context.Context, setID string) ([]*domain.Section, error) {
	rows, err := r.db.QueryContext(ctx, sectionSelect+` WHERE s.set_id = ? ORDER BY s.sort_order, s.name`, setID)
	if err != nil {
		return nil, fmt.Errorf("listing sections: %w", err)
	}
	defer rows.Close()

	var sections []*domain.Section
	for rows.Next() {
		s, err := r.scanSection(rows)
		if err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

func (r *SQLiteSectionRepo) GetUnassigned(ctx context.Context, setID string) (*domain.Section, error) {
	row := r.db.QueryRowContext(ctx, sectionSelect+` WHERE s.set_id = ? AND s.name = ?`,
		setID, domain.UnassignedSectionName)
	return r.scanSection(row)
}

func (r *SQLiteSectionRepo) SubtreeIDs(ctx context.Context, id string) ([]string, error) {
	query := `WITH RECURSIVE subtree(id, depth) AS (
			SELECT id, 0 FROM sections WHERE id = ?
			UNION ALL
			SELECT s.id, subtree.depth + 1 FROM sections s JOIN subtree ON s.parent_id = subtree.id
		)
		SELECT id FROM subtree ORDER BY depth`
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("listing section subtree: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var sid string
		if err := rows.Scan(&sid); err != nil {
			return nil, fmt.Errorf("scanning section subtree: %w", err)
		}
		ids = append(ids, sid)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("section: %w", ErrNotFound)
	}
	return ids, nil
}

func (r *SQLiteSectionRepo) Update(ctx context.Context, s *domain.Section) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sections SET parent_id = ?, name = ?, sort_order = ?, updated_at = ? WHERE id = ?`,
		s.ParentID, s.Name, s.SortOrder, formatTimestamp(s.UpdatedAt), s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating section: %w", err)
	}
	return expectOneRow(res, "section")
}

func (r *SQLiteSectionRepo) ApplyOrder(ctx context.Context, setID string, orders []domain.SectionOrder) error {
	now := nowUTC()
	for _, o := range orders {
		res, err := r.db.ExecContext(ctx,
			`UPDATE sections SET parent_id = ?, sort_order = ?, updated_at = ? WHERE id = ? AND set_id = ?`,
			o.ParentSectionID, o.SortOrder, now, o.ID, setID,
		)
		if err != nil {
			return fmt.Errorf("reordering section %s: %w", o.ID, err)
		}
		if err := expectOneRow(res, "section "+o.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteSectionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting section: %w", err)
	}
	return expectOneRow(res, "section")
}

func (r *SQLiteSectionRepo) scanSection(s rowScanner) (*domain.Section, error) {
	var sec domain.Section
	var parentID sql.NullString
	var createdAt, updatedAt string
	err := s.Scan(&sec.ID, &sec.SetID, &parentID, &sec.Name, &sec.SortOrder,
		&sec.TestCaseCount, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("section: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning section: %w", err)
	}
	sec.ParentID = nullableString(parentID)
	sec.CreatedAt = parseTimestamp(createdAt)
	sec.UpdatedAt = parseTimestamp(updatedAt)
	return &sec, nil
}
