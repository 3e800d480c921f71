package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shipnotes/shipnotes/internal/models"
)

const eventColumns = `id, public_id, title, content, status_id, created_at, updated_at`

func scanEvent(row interface{ Scan(...interface{}) error }) (*models.Event, error) {
	e := &models.Event{}
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(&e.ID, &e.PublicID, &e.Title, &e.Content, &e.StatusID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if createdAt.Valid {
		e.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		e.UpdatedAt = updatedAt.Time
	}
	return e, nil
}

func (q *Queries) queryEvents(ctx context.Context, query string, args ...interface{}) ([]*models.Event, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	events := []*models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating event rows: %w", err)
	}
	return events, nil
}

// CreateEventParams holds the columns of a new event row
type CreateEventParams struct {
	PublicID string
	Title    string
	Content  string
	StatusID int
}

func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (*models.Event, error) {
	result, err := q.db.ExecContext(ctx,
		`INSERT INTO events (public_id, title, content, status_id) VALUES (?, ?, ?, ?)`,
		arg.PublicID, arg.Title, arg.Content, arg.StatusID,
	)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return q.GetEventByID(ctx, int(id))
}

// GetEventByID returns sql.ErrNoRows when the event does not exist
func (q *Queries) GetEventByID(ctx context.Context, id int) (*models.Event, error) {
	return scanEvent(q.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, id))
}

// ListEvents returns all events, newest first
func (q *Queries) ListEvents(ctx context.Context) ([]*models.Event, error) {
	return q.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY created_at DESC, id DESC`)
}

func (q *Queries) ListEventsByStatus(ctx context.Context, statusID int) ([]*models.Event, error) {
	return q.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM events WHERE status_id = ? ORDER BY created_at DESC, id DESC`,
		statusID)
}

// UpdateEventParams holds editable event fields
type UpdateEventParams struct {
	ID      int
	Title   string
	Content string
}

func (q *Queries) UpdateEvent(ctx context.Context, arg UpdateEventParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE events SET title = ?, content = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		arg.Title, arg.Content, arg.ID)
	return err
}

func (q *Queries) UpdateEventStatus(ctx context.Context, id, statusID int) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE events SET status_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		statusID, id)
	return err
}

func (q *Queries) DeleteEvent(ctx context.Context, id int) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	return err
}

func (q *Queries) CountEventsByStatus(ctx context.Context, statusID int) (int, error) {
	var count int
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM events WHERE status_id = ?`, statusID).Scan(&count)
	return count, err
}

// ReassignEvents moves every event of fromStatusID to toStatusID
func (q *Queries) ReassignEvents(ctx context.Context, fromStatusID, toStatusID int) (int64, error) {
	result, err := q.db.ExecContext(ctx,
		`UPDATE events SET status_id = ?, updated_at = CURRENT_TIMESTAMP WHERE status_id = ?`,
		toStatusID, fromStatusID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
