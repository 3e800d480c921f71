package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shipnotes/shipnotes/internal/models"
)

// ListColumns reads statuses, their mapping and their event counts in a single
// statement so the result is one consistent snapshot.
func (q *Queries) ListColumns(ctx context.Context) ([]*models.Column, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT s.id, s.name, s.position, s.reserved, s.created_at,
		       m.category_id,
		       COALESCE(c.n, 0)
		FROM statuses s
		LEFT JOIN category_mappings m ON m.status_id = s.id
		LEFT JOIN (
			SELECT status_id, COUNT(*) AS n FROM events GROUP BY status_id
		) c ON c.status_id = s.id
		ORDER BY s.position`)
	if err != nil {
		return nil, fmt.Errorf("querying columns: %w", err)
	}
	defer rows.Close()

	columns := []*models.Column{}
	for rows.Next() {
		s := &models.Status{}
		var createdAt sql.NullTime
		var category sql.NullString
		col := &models.Column{Status: s}
		if err := rows.Scan(&s.ID, &s.Name, &s.Position, &s.Reserved, &createdAt, &category, &col.Count); err != nil {
			return nil, fmt.Errorf("scanning column row: %w", err)
		}
		if createdAt.Valid {
			s.CreatedAt = createdAt.Time
		}
		col.Label = s.Name
		col.Category = nullStringToPtr(category)
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating column rows: %w", err)
	}
	return columns, nil
}
