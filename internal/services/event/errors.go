package event

import "github.com/shipnotes/shipnotes/internal/models"

// Event-related errors
var (
	// Validation errors
	ErrEmptyTitle      = models.NewError(models.ErrValidation, "event title cannot be empty")
	ErrTitleTooLong    = models.NewError(models.ErrValidation, "event title cannot exceed 200 characters")
	ErrInvalidEventID  = models.NewError(models.ErrValidation, "invalid event ID")
	ErrInvalidStatusID = models.NewError(models.ErrValidation, "invalid status ID")

	// Business logic errors
	ErrEventNotFound  = models.NewError(models.ErrNotFound, "event not found")
	ErrStatusNotFound = models.NewError(models.ErrNotFound, "status not found")
)
