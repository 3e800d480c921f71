package database

import (
	"context"
	"database/sql"

	"github.com/shipnotes/shipnotes/internal/models"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so the same queries can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Querier lists every statement the services use.
type Querier interface {
	// Statuses
	ListStatuses(ctx context.Context) ([]*models.Status, error)
	GetStatusByID(ctx context.Context, id int) (*models.Status, error)
	GetStatusByName(ctx context.Context, name string) (*models.Status, error)
	CountStatuses(ctx context.Context) (int, error)
	NextStatusPosition(ctx context.Context) (int, error)
	CreateStatus(ctx context.Context, arg CreateStatusParams) (*models.Status, error)
	UpdateStatusName(ctx context.Context, id int, name string) error
	UpdateStatusPosition(ctx context.Context, id, position int) error
	ParkStatusPositions(ctx context.Context) error
	DeleteStatus(ctx context.Context, id int) error

	// Category mappings
	GetMapping(ctx context.Context, statusID int) (*models.CategoryMapping, error)
	ListMappings(ctx context.Context) ([]*models.CategoryMapping, error)
	ListCategoryHolders(ctx context.Context, categoryID string) ([]int, error)
	UpsertMapping(ctx context.Context, m models.CategoryMapping) error
	DeleteMapping(ctx context.Context, statusID int) (bool, error)

	// Events
	CreateEvent(ctx context.Context, arg CreateEventParams) (*models.Event, error)
	GetEventByID(ctx context.Context, id int) (*models.Event, error)
	ListEvents(ctx context.Context) ([]*models.Event, error)
	ListEventsByStatus(ctx context.Context, statusID int) ([]*models.Event, error)
	UpdateEvent(ctx context.Context, arg UpdateEventParams) error
	UpdateEventStatus(ctx context.Context, id, statusID int) error
	DeleteEvent(ctx context.Context, id int) error
	CountEventsByStatus(ctx context.Context, statusID int) (int, error)
	ReassignEvents(ctx context.Context, fromStatusID, toStatusID int) (int64, error)

	// Columns
	ListColumns(ctx context.Context) ([]*models.Column, error)
}

// Queries runs statements against a DBTX
type Queries struct {
	db DBTX
}

// New creates Queries bound to a connection or transaction
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Compile-time verification that *Queries implements Querier
var _ Querier = (*Queries)(nil)
