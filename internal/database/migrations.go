package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shipnotes/shipnotes/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS statuses (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	position INTEGER NOT NULL UNIQUE,
	reserved BOOLEAN NOT NULL DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS category_mappings (
	status_id INTEGER PRIMARY KEY,
	category_id TEXT NOT NULL,
	exclusive BOOLEAN NOT NULL DEFAULT 0,
	FOREIGN KEY (status_id) REFERENCES statuses(id) ON DELETE CASCADE
);

-- Only one status may hold a category that does not allow multiple statuses
CREATE UNIQUE INDEX IF NOT EXISTS idx_category_mappings_exclusive
ON category_mappings(category_id) WHERE exclusive = 1;

CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	public_id TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	content TEXT NOT NULL DEFAULT '',
	status_id INTEGER NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (status_id) REFERENCES statuses(id) ON DELETE RESTRICT
);

CREATE INDEX IF NOT EXISTS idx_events_status ON events(status_id);
`

// runMigrations creates the database schema and seeds default data if needed
func runMigrations(ctx context.Context, db *sql.DB, seed []models.SeedStatus) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return err
	}
	return seedStatuses(ctx, db, seed)
}

// seedStatuses inserts the default workflow if the statuses table is empty
func seedStatuses(ctx context.Context, db *sql.DB, seed []models.SeedStatus) error {
	if len(seed) == 0 {
		seed = models.DefaultSeedStatuses()
	}

	return WithTx(ctx, db, func(tx *sql.Tx) error {
		q := New(tx)
		count, err := q.CountStatuses(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		for i, s := range seed {
			if _, err := q.CreateStatus(ctx, CreateStatusParams{
				Name:     s.Name,
				Position: i,
				Reserved: s.Reserved,
			}); err != nil {
				return fmt.Errorf("failed to seed status %q: %w", s.Name, err)
			}
		}
		return nil
	})
}
