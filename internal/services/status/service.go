package status

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"github.com/shipnotes/shipnotes/internal/database"
	"github.com/shipnotes/shipnotes/internal/models"
	"github.com/shipnotes/shipnotes/internal/notify"
	"github.com/shipnotes/shipnotes/internal/theme"
)

// Service defines all status workflow operations
type Service interface {
	// Read operations
	ListStatuses(ctx context.Context) ([]*models.Status, error)
	GetStatus(ctx context.Context, id int) (*models.Status, error)
	ListColumns(ctx context.Context) ([]*models.Column, error)
	GetCategoryMapping(ctx context.Context, statusID int) (*models.CategoryMapping, error)
	ListCategoryMappings(ctx context.Context) ([]*models.CategoryMapping, error)

	// Write operations
	CreateStatus(ctx context.Context, req CreateStatusRequest) (*models.Status, error)
	RenameStatus(ctx context.Context, id int, name string) (*models.Status, error)
	DeleteStatus(ctx context.Context, id int, req DeleteStatusRequest) error
	ReorderStatus(ctx context.Context, id, targetID int, placement models.Placement) ([]*models.Status, error)
	SetCategoryMapping(ctx context.Context, statusID int, categoryID *string) error
}

// CreateStatusRequest encapsulates data for creating a status
type CreateStatusRequest struct {
	Name       string
	CategoryID *string // Optional: category to map the new status to
}

// DeleteStatusRequest encapsulates options for deleting a status
type DeleteStatusRequest struct {
	ReassignTo *int // Required when the status still has events
}

// publishRetries bounds the attempts made for each change notification
const publishRetries = 3

// Option configures the service
type Option func(*service)

// WithCapacityPolicy sets how single-status categories handle a second mapping
func WithCapacityPolicy(p models.CapacityPolicy) Option {
	return func(s *service) {
		if p.Valid() {
			s.policy = p
		}
	}
}

// WithPublisher sets where committed changes are announced
func WithPublisher(p notify.Publisher) Option {
	return func(s *service) { s.publisher = p }
}

// WithReader serves list queries from a separate read-only pool
func WithReader(db *sql.DB) Option {
	return func(s *service) {
		if db != nil {
			s.reads = database.New(db)
		}
	}
}

// WithLogger sets the service logger
func WithLogger(l log.FieldLogger) Option {
	return func(s *service) {
		if l != nil {
			s.log = l
		}
	}
}

// service implements Service on top of the sqlite query layer
type service struct {
	db        *sql.DB
	queries   database.Querier
	reads     database.Querier // list queries; queries unless WithReader is set
	themes    theme.Provider
	policy    models.CapacityPolicy
	publisher notify.Publisher
	log       log.FieldLogger
}

// NewService creates a new status workflow service
func NewService(db *sql.DB, themes theme.Provider, opts ...Option) Service {
	s := &service{
		db:      db,
		queries: database.New(db),
		themes:  themes,
		policy:  models.CapacityReplace,
		log:     log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reads == nil {
		s.reads = s.queries
	}
	s.log = s.log.WithField("component", "status")
	return s
}

// ListStatuses returns all statuses in display order
func (s *service) ListStatuses(ctx context.Context) ([]*models.Status, error) {
	return s.reads.ListStatuses(ctx)
}

// GetStatus retrieves a single status
func (s *service) GetStatus(ctx context.Context, id int) (*models.Status, error) {
	if id <= 0 {
		return nil, ErrInvalidStatusID
	}
	return getStatus(ctx, s.queries, id)
}

// ListColumns returns every status with its event count and category
func (s *service) ListColumns(ctx context.Context) ([]*models.Column, error) {
	return s.reads.ListColumns(ctx)
}

// GetCategoryMapping returns the mapping of a status
func (s *service) GetCategoryMapping(ctx context.Context, statusID int) (*models.CategoryMapping, error) {
	if statusID <= 0 {
		return nil, ErrInvalidStatusID
	}
	if _, err := getStatus(ctx, s.queries, statusID); err != nil {
		return nil, err
	}
	m, err := s.queries.GetMapping(ctx, statusID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMappingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mapping: %w", err)
	}
	return m, nil
}

// ListCategoryMappings returns all mappings in status order
func (s *service) ListCategoryMappings(ctx context.Context) ([]*models.CategoryMapping, error) {
	return s.queries.ListMappings(ctx)
}

// CreateStatus appends a new status and optionally maps it to a category
func (s *service) CreateStatus(ctx context.Context, req CreateStatusRequest) (*models.Status, error) {
	name, err := validateName(req.Name)
	if err != nil {
		return nil, err
	}

	var category *theme.Category
	if req.CategoryID != nil {
		c, err := s.lookupCategory(*req.CategoryID)
		if err != nil {
			return nil, err
		}
		category = &c
	}

	var created *models.Status
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		qtx := database.New(tx)

		if err := ensureNameFree(ctx, qtx, name, 0); err != nil {
			return err
		}

		position, err := qtx.NextStatusPosition(ctx)
		if err != nil {
			return fmt.Errorf("failed to get next position: %w", err)
		}

		created, err = qtx.CreateStatus(ctx, database.CreateStatusParams{
			Name:     name,
			Position: position,
		})
		if database.IsUniqueViolation(err) {
			return ErrNameConflict
		}
		if err != nil {
			return fmt.Errorf("failed to create status: %w", err)
		}

		if category != nil {
			return s.applyMapping(ctx, qtx, created.ID, *category)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(log.Fields{"status_id": created.ID, "name": created.Name}).Info("status created")
	s.publish(ctx, notify.StatusCreated, created.ID)
	if category != nil {
		s.publish(ctx, notify.MappingChanged, created.ID)
	}
	return created, nil
}

// RenameStatus changes the display name of a status. Reserved statuses may be renamed.
func (s *service) RenameStatus(ctx context.Context, id int, name string) (*models.Status, error) {
	if id <= 0 {
		return nil, ErrInvalidStatusID
	}
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	var (
		renamed *models.Status
		changed bool
	)
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		qtx := database.New(tx)

		current, err := getStatus(ctx, qtx, id)
		if err != nil {
			return err
		}
		renamed = current
		if current.Name == name {
			return nil
		}

		if err := ensureNameFree(ctx, qtx, name, id); err != nil {
			return err
		}
		err = qtx.UpdateStatusName(ctx, id, name)
		if database.IsUniqueViolation(err) {
			return ErrNameConflict
		}
		if err != nil {
			return fmt.Errorf("failed to rename status: %w", err)
		}
		renamed.Name = name
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.publish(ctx, notify.StatusRenamed, id)
	}
	return renamed, nil
}

// DeleteStatus removes a non-reserved status. Its events move to
// req.ReassignTo, its mapping is dropped, and the remaining positions are
// renumbered, all in one transaction.
func (s *service) DeleteStatus(ctx context.Context, id int, req DeleteStatusRequest) error {
	if id <= 0 {
		return ErrInvalidStatusID
	}
	if req.ReassignTo != nil {
		if *req.ReassignTo <= 0 {
			return ErrInvalidStatusID
		}
		if *req.ReassignTo == id {
			return ErrInvalidReassign
		}
	}

	var moved int64
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		qtx := database.New(tx)

		target, err := getStatus(ctx, qtx, id)
		if err != nil {
			return err
		}
		if target.Reserved {
			return ErrReservedStatus
		}

		total, err := qtx.CountStatuses(ctx)
		if err != nil {
			return fmt.Errorf("failed to count statuses: %w", err)
		}
		if total <= 1 {
			return ErrLastStatus
		}

		events, err := qtx.CountEventsByStatus(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to count events: %w", err)
		}
		if events > 0 && req.ReassignTo == nil {
			return ErrReassignRequired
		}
		if req.ReassignTo != nil {
			if _, err := getStatus(ctx, qtx, *req.ReassignTo); err != nil {
				return fmt.Errorf("reassignment target: %w", err)
			}
			if moved, err = qtx.ReassignEvents(ctx, id, *req.ReassignTo); err != nil {
				return fmt.Errorf("failed to reassign events: %w", err)
			}
		}

		if _, err := qtx.DeleteMapping(ctx, id); err != nil {
			return fmt.Errorf("failed to delete mapping: %w", err)
		}
		if err := qtx.DeleteStatus(ctx, id); err != nil {
			return fmt.Errorf("failed to delete status: %w", err)
		}

		remaining, err := qtx.ListStatuses(ctx)
		if err != nil {
			return fmt.Errorf("failed to list statuses: %w", err)
		}
		return renumber(ctx, qtx, remaining)
	})
	if err != nil {
		return err
	}

	entry := s.log.WithField("status_id", id)
	if req.ReassignTo != nil {
		entry = entry.WithFields(log.Fields{"reassigned_to": *req.ReassignTo, "events_moved": moved})
	}
	entry.Info("status deleted")
	s.publish(ctx, notify.StatusDeleted, id)
	return nil
}

// ReorderStatus moves a status directly before or after targetID and returns
// the resulting order.
func (s *service) ReorderStatus(ctx context.Context, id, targetID int, placement models.Placement) ([]*models.Status, error) {
	if id <= 0 || targetID <= 0 {
		return nil, ErrInvalidStatusID
	}
	if placement != models.PlaceBefore && placement != models.PlaceAfter {
		return nil, ErrInvalidPlacement
	}

	var (
		ordered []*models.Status
		changed bool
	)
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		qtx := database.New(tx)

		current, err := qtx.ListStatuses(ctx)
		if err != nil {
			return fmt.Errorf("failed to list statuses: %w", err)
		}
		ordered = current

		if indexOf(current, id) < 0 || indexOf(current, targetID) < 0 {
			return ErrStatusNotFound
		}
		if id == targetID {
			return nil
		}

		next := moveAdjacent(current, id, targetID, placement)
		if sameOrder(current, next) {
			return nil
		}
		if err := renumber(ctx, qtx, next); err != nil {
			return err
		}
		ordered = next
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.log.WithFields(log.Fields{
			"status_id": id,
			"target_id": targetID,
			"placement": placement,
		}).Debug("status reordered")
		s.publish(ctx, notify.StatusReordered, id)
	}
	return ordered, nil
}

// SetCategoryMapping maps a status to a category, or clears the mapping when
// categoryID is nil.
func (s *service) SetCategoryMapping(ctx context.Context, statusID int, categoryID *string) error {
	if statusID <= 0 {
		return ErrInvalidStatusID
	}

	var category *theme.Category
	if categoryID != nil {
		c, err := s.lookupCategory(*categoryID)
		if err != nil {
			return err
		}
		category = &c
	}

	changed := false
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		qtx := database.New(tx)

		if _, err := getStatus(ctx, qtx, statusID); err != nil {
			return err
		}

		if category == nil {
			existed, err := qtx.DeleteMapping(ctx, statusID)
			if err != nil {
				return fmt.Errorf("failed to delete mapping: %w", err)
			}
			changed = existed
			return nil
		}

		changed = true
		return s.applyMapping(ctx, qtx, statusID, *category)
	})
	if err != nil {
		return err
	}

	if changed {
		s.publish(ctx, notify.MappingChanged, statusID)
	}
	return nil
}

// applyMapping upserts statusID's mapping, enforcing the capacity of
// single-status categories under the configured policy.
func (s *service) applyMapping(ctx context.Context, q database.Querier, statusID int, category theme.Category) error {
	if !category.Multiple {
		holders, err := q.ListCategoryHolders(ctx, category.ID)
		if err != nil {
			return fmt.Errorf("failed to list category holders: %w", err)
		}
		for _, holder := range holders {
			if holder == statusID {
				continue
			}
			if s.policy == models.CapacityReject {
				return fmt.Errorf("%w (held by status %d)", ErrCategoryCapacity, holder)
			}
			if _, err := q.DeleteMapping(ctx, holder); err != nil {
				return fmt.Errorf("failed to unmap previous holder: %w", err)
			}
			s.log.WithFields(log.Fields{
				"category_id": category.ID,
				"previous":    holder,
				"status_id":   statusID,
			}).Info("category mapping replaced")
		}
	}

	err := q.UpsertMapping(ctx, models.CategoryMapping{
		StatusID:   statusID,
		CategoryID: category.ID,
		Exclusive:  !category.Multiple,
	})
	if database.IsUniqueViolation(err) {
		return ErrMappingConflict
	}
	if err != nil {
		return fmt.Errorf("failed to save mapping: %w", err)
	}
	return nil
}

// lookupCategory resolves id against the active manifest
func (s *service) lookupCategory(id string) (theme.Category, error) {
	var m *theme.Manifest
	if s.themes != nil {
		m = s.themes.Manifest()
	}
	c, ok := m.Category(strings.TrimSpace(id))
	if !ok {
		return theme.Category{}, fmt.Errorf("%w: %q", ErrUnknownCategory, id)
	}
	return c, nil
}

// publish announces a committed change. Failures are logged, never returned:
// the mutation already succeeded.
func (s *service) publish(ctx context.Context, kind notify.ChangeType, statusID int) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	_ = notify.PublishWithRetry(ctx, s.publisher, notify.Change{
		Type:     kind,
		StatusID: statusID,
	}, publishRetries, s.log)
}

// validateName trims name and checks its length
func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if utf8.RuneCountInString(name) > models.MaxStatusNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}

// ensureNameFree fails when another status (other than exceptID) uses name
func ensureNameFree(ctx context.Context, q database.Querier, name string, exceptID int) error {
	existing, err := q.GetStatusByName(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check status name: %w", err)
	}
	if existing.ID != exceptID {
		return ErrDuplicateName
	}
	return nil
}

func getStatus(ctx context.Context, q database.Querier, id int) (*models.Status, error) {
	st, err := q.GetStatusByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w (id %d)", ErrStatusNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	return st, nil
}
