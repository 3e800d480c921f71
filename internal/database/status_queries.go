package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shipnotes/shipnotes/internal/models"
)

const statusColumns = `id, name, position, reserved, created_at`

func scanStatus(row interface{ Scan(...interface{}) error }) (*models.Status, error) {
	s := &models.Status{}
	var createdAt sql.NullTime
	if err := row.Scan(&s.ID, &s.Name, &s.Position, &s.Reserved, &createdAt); err != nil {
		return nil, err
	}
	if createdAt.Valid {
		s.CreatedAt = createdAt.Time
	}
	return s, nil
}

// ListStatuses returns all statuses in display order
func (q *Queries) ListStatuses(ctx context.Context) ([]*models.Status, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+statusColumns+` FROM statuses ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying statuses: %w", err)
	}
	defer rows.Close()

	statuses := []*models.Status{}
	for rows.Next() {
		s, err := scanStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning status row: %w", err)
		}
		statuses = append(statuses, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status rows: %w", err)
	}
	return statuses, nil
}

// GetStatusByID returns sql.ErrNoRows when the status does not exist
func (q *Queries) GetStatusByID(ctx context.Context, id int) (*models.Status, error) {
	return scanStatus(q.db.QueryRowContext(ctx,
		`SELECT `+statusColumns+` FROM statuses WHERE id = ?`, id))
}

// GetStatusByName is an exact, case-sensitive lookup
func (q *Queries) GetStatusByName(ctx context.Context, name string) (*models.Status, error) {
	return scanStatus(q.db.QueryRowContext(ctx,
		`SELECT `+statusColumns+` FROM statuses WHERE name = ?`, name))
}

func (q *Queries) CountStatuses(ctx context.Context) (int, error) {
	var count int
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM statuses`).Scan(&count)
	return count, err
}

// NextStatusPosition returns the position a newly appended status receives
func (q *Queries) NextStatusPosition(ctx context.Context) (int, error) {
	var next int
	err := q.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM statuses`).Scan(&next)
	return next, err
}

// CreateStatusParams holds the columns of a new status row
type CreateStatusParams struct {
	Name     string
	Position int
	Reserved bool
}

func (q *Queries) CreateStatus(ctx context.Context, arg CreateStatusParams) (*models.Status, error) {
	result, err := q.db.ExecContext(ctx,
		`INSERT INTO statuses (name, position, reserved) VALUES (?, ?, ?)`,
		arg.Name, arg.Position, arg.Reserved,
	)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return q.GetStatusByID(ctx, int(id))
}

func (q *Queries) UpdateStatusName(ctx context.Context, id int, name string) error {
	_, err := q.db.ExecContext(ctx, `UPDATE statuses SET name = ? WHERE id = ?`, name, id)
	return err
}

func (q *Queries) UpdateStatusPosition(ctx context.Context, id, position int) error {
	_, err := q.db.ExecContext(ctx, `UPDATE statuses SET position = ? WHERE id = ?`, position, id)
	return err
}

// ParkStatusPositions moves every position into the negative range so a
// subsequent renumbering never collides with the unique position index.
func (q *Queries) ParkStatusPositions(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, `UPDATE statuses SET position = -position - 1`)
	return err
}

func (q *Queries) DeleteStatus(ctx context.Context, id int) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM statuses WHERE id = ?`, id)
	return err
}
