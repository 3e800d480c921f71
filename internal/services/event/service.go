package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/shipnotes/shipnotes/internal/database"
	"github.com/shipnotes/shipnotes/internal/models"
	"github.com/shipnotes/shipnotes/internal/notify"
)

// Service defines all event-related business operations
type Service interface {
	// Read operations
	GetEvent(ctx context.Context, id int) (*models.Event, error)
	ListEvents(ctx context.Context, req ListEventsRequest) ([]*models.Event, error)
	CountForStatus(ctx context.Context, statusID int) (int, error)

	// Write operations
	CreateEvent(ctx context.Context, req CreateEventRequest) (*models.Event, error)
	UpdateEvent(ctx context.Context, id int, req UpdateEventRequest) (*models.Event, error)
	MoveEvent(ctx context.Context, id, statusID int) (*models.Event, error)
	DeleteEvent(ctx context.Context, id int) error
}

// CreateEventRequest encapsulates all data needed to create an event
type CreateEventRequest struct {
	Title    string
	Content  string
	StatusID int
}

// UpdateEventRequest holds optional field updates - nil means don't update
type UpdateEventRequest struct {
	Title   *string
	Content *string
}

// ListEventsRequest filters the event listing
type ListEventsRequest struct {
	StatusID *int
}

// Option configures the service
type Option func(*service)

// WithPublisher sets where committed changes are announced
func WithPublisher(p notify.Publisher) Option {
	return func(s *service) { s.publisher = p }
}

// WithLogger sets the service logger
func WithLogger(l log.FieldLogger) Option {
	return func(s *service) {
		if l != nil {
			s.log = l
		}
	}
}

type service struct {
	db        *sql.DB
	queries   database.Querier
	publisher notify.Publisher
	newID     func() string
	log       log.FieldLogger
}

// NewService creates a new event service
func NewService(db *sql.DB, opts ...Option) Service {
	s := &service{
		db:      db,
		queries: database.New(db),
		newID:   uuid.NewString,
		log:     log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("component", "event")
	return s
}

// GetEvent retrieves a single event
func (s *service) GetEvent(ctx context.Context, id int) (*models.Event, error) {
	if id <= 0 {
		return nil, ErrInvalidEventID
	}
	return getEvent(ctx, s.queries, id)
}

// ListEvents returns events newest first, optionally limited to one status
func (s *service) ListEvents(ctx context.Context, req ListEventsRequest) ([]*models.Event, error) {
	if req.StatusID == nil {
		return s.queries.ListEvents(ctx)
	}
	if *req.StatusID <= 0 {
		return nil, ErrInvalidStatusID
	}
	if err := ensureStatus(ctx, s.queries, *req.StatusID); err != nil {
		return nil, err
	}
	return s.queries.ListEventsByStatus(ctx, *req.StatusID)
}

// CountForStatus returns how many events reference a status
func (s *service) CountForStatus(ctx context.Context, statusID int) (int, error) {
	if statusID <= 0 {
		return 0, ErrInvalidStatusID
	}
	if err := ensureStatus(ctx, s.queries, statusID); err != nil {
		return 0, err
	}
	return s.queries.CountEventsByStatus(ctx, statusID)
}

// CreateEvent creates an event in the given status
func (s *service) CreateEvent(ctx context.Context, req CreateEventRequest) (*models.Event, error) {
	title, err := validateTitle(req.Title)
	if err != nil {
		return nil, err
	}
	if req.StatusID <= 0 {
		return nil, ErrInvalidStatusID
	}

	var created *models.Event
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		qtx := database.New(tx)
		if err := ensureStatus(ctx, qtx, req.StatusID); err != nil {
			return err
		}
		created, err = qtx.CreateEvent(ctx, database.CreateEventParams{
			PublicID: s.newID(),
			Title:    title,
			Content:  req.Content,
			StatusID: req.StatusID,
		})
		if err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, created)
	return created, nil
}

// UpdateEvent edits the title and/or content of an event
func (s *service) UpdateEvent(ctx context.Context, id int, req UpdateEventRequest) (*models.Event, error) {
	if id <= 0 {
		return nil, ErrInvalidEventID
	}
	var title string
	if req.Title != nil {
		t, err := validateTitle(*req.Title)
		if err != nil {
			return nil, err
		}
		title = t
	}

	var updated *models.Event
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		qtx := database.New(tx)
		current, err := getEvent(ctx, qtx, id)
		if err != nil {
			return err
		}
		if req.Title != nil {
			current.Title = title
		}
		if req.Content != nil {
			current.Content = *req.Content
		}
		if err := qtx.UpdateEvent(ctx, database.UpdateEventParams{
			ID:      id,
			Title:   current.Title,
			Content: current.Content,
		}); err != nil {
			return fmt.Errorf("failed to update event: %w", err)
		}
		updated, err = getEvent(ctx, qtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, updated)
	return updated, nil
}

// MoveEvent transitions an event to another status. Any status may follow any
// other; moving to the current status is a no-op.
func (s *service) MoveEvent(ctx context.Context, id, statusID int) (*models.Event, error) {
	if id <= 0 {
		return nil, ErrInvalidEventID
	}
	if statusID <= 0 {
		return nil, ErrInvalidStatusID
	}

	var (
		moved   *models.Event
		changed bool
	)
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		qtx := database.New(tx)
		current, err := getEvent(ctx, qtx, id)
		if err != nil {
			return err
		}
		moved = current
		if current.StatusID == statusID {
			return nil
		}
		if err := ensureStatus(ctx, qtx, statusID); err != nil {
			return err
		}
		if err := qtx.UpdateEventStatus(ctx, id, statusID); err != nil {
			return fmt.Errorf("failed to move event: %w", err)
		}
		changed = true
		moved, err = getEvent(ctx, qtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.log.WithFields(log.Fields{"event_id": id, "status_id": statusID}).Debug("event moved")
		s.publish(ctx, moved)
	}
	return moved, nil
}

// DeleteEvent removes an event
func (s *service) DeleteEvent(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrInvalidEventID
	}

	var deleted *models.Event
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		qtx := database.New(tx)
		e, err := getEvent(ctx, qtx, id)
		if err != nil {
			return err
		}
		deleted = e
		if err := qtx.DeleteEvent(ctx, id); err != nil {
			return fmt.Errorf("failed to delete event: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, deleted)
	return nil
}

func (s *service) publish(ctx context.Context, e *models.Event) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	_ = notify.PublishWithRetry(ctx, s.publisher, notify.Change{
		Type:     notify.EventChanged,
		StatusID: e.StatusID,
		EventID:  e.ID,
	}, 3, s.log)
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > models.MaxEventTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}

func getEvent(ctx context.Context, q database.Querier, id int) (*models.Event, error) {
	e, err := q.GetEventByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w (id %d)", ErrEventNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return e, nil
}

func ensureStatus(ctx context.Context, q database.Querier, statusID int) error {
	_, err := q.GetStatusByID(ctx, statusID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w (id %d)", ErrStatusNotFound, statusID)
	}
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}
	return nil
}
