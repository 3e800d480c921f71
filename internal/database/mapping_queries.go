package database

import (
	"context"
	"fmt"

	"github.com/shipnotes/shipnotes/internal/models"
)

// GetMapping returns sql.ErrNoRows when the status is unmapped
func (q *Queries) GetMapping(ctx context.Context, statusID int) (*models.CategoryMapping, error) {
	m := &models.CategoryMapping{}
	err := q.db.QueryRowContext(ctx,
		`SELECT status_id, category_id, exclusive FROM category_mappings WHERE status_id = ?`,
		statusID,
	).Scan(&m.StatusID, &m.CategoryID, &m.Exclusive)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListMappings returns mappings in status display order
func (q *Queries) ListMappings(ctx context.Context) ([]*models.CategoryMapping, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT m.status_id, m.category_id, m.exclusive
		FROM category_mappings m
		JOIN statuses s ON s.id = m.status_id
		ORDER BY s.position`)
	if err != nil {
		return nil, fmt.Errorf("querying mappings: %w", err)
	}
	defer rows.Close()

	mappings := []*models.CategoryMapping{}
	for rows.Next() {
		m := &models.CategoryMapping{}
		if err := rows.Scan(&m.StatusID, &m.CategoryID, &m.Exclusive); err != nil {
			return nil, fmt.Errorf("scanning mapping row: %w", err)
		}
		mappings = append(mappings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating mapping rows: %w", err)
	}
	return mappings, nil
}

// ListCategoryHolders returns the statuses mapped to categoryID, in display order
func (q *Queries) ListCategoryHolders(ctx context.Context, categoryID string) ([]int, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT m.status_id
		FROM category_mappings m
		JOIN statuses s ON s.id = m.status_id
		WHERE m.category_id = ?
		ORDER BY s.position`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("querying category holders: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning category holder: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpsertMapping sets or replaces the mapping of m.StatusID
func (q *Queries) UpsertMapping(ctx context.Context, m models.CategoryMapping) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO category_mappings (status_id, category_id, exclusive)
		VALUES (?, ?, ?)
		ON CONFLICT(status_id) DO UPDATE SET
			category_id = excluded.category_id,
			exclusive = excluded.exclusive`,
		m.StatusID, m.CategoryID, m.Exclusive,
	)
	return err
}

// DeleteMapping reports whether a mapping existed
func (q *Queries) DeleteMapping(ctx context.Context, statusID int) (bool, error) {
	result, err := q.db.ExecContext(ctx,
		`DELETE FROM category_mappings WHERE status_id = ?`, statusID)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
