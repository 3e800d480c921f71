package status

import "github.com/shipnotes/shipnotes/internal/models"

// Status workflow errors
var (
	// Validation errors
	ErrEmptyName        = models.NewError(models.ErrValidation, "name cannot be empty")
	ErrNameTooLong      = models.NewError(models.ErrValidation, "name cannot exceed 50 characters")
	ErrDuplicateName    = models.NewError(models.ErrValidation, "a status with this name already exists")
	ErrInvalidStatusID  = models.NewError(models.ErrValidation, "invalid status ID")
	ErrInvalidPlacement = models.NewError(models.ErrValidation, "placement must be before or after")
	ErrReassignRequired = models.NewError(models.ErrValidation, "status has events; a reassignment target is required")
	ErrInvalidReassign  = models.NewError(models.ErrValidation, "events cannot be reassigned to the status being deleted")

	// Business logic errors
	ErrStatusNotFound   = models.NewError(models.ErrNotFound, "status not found")
	ErrMappingNotFound  = models.NewError(models.ErrNotFound, "status has no category mapping")
	ErrReservedStatus   = models.NewError(models.ErrReserved, "reserved statuses cannot be deleted")
	ErrLastStatus       = models.NewError(models.ErrLast, "the last remaining status cannot be deleted")
	ErrUnknownCategory  = models.NewError(models.ErrUnknownCategory, "category is not defined by the active theme")
	ErrCategoryCapacity = models.NewError(models.ErrCapacity, "category allows a single status and is already taken")
	ErrNameConflict     = models.NewError(models.ErrConflict, "status name was taken concurrently")
	ErrMappingConflict  = models.NewError(models.ErrConflict, "category mapping changed concurrently")
)
