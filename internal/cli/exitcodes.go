package cli

import (
	"errors"

	"github.com/shipnotes/shipnotes/internal/models"
)

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitFailure indicates a general error occurred.
	// Use for: Database errors, Redis errors, unexpected failures.
	ExitFailure = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Missing required flags, invalid flag combinations.
	ExitUsage = 2

	// ExitNotFound indicates a requested status, event or mapping does not exist.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data.
	// Use for: Unreadable config or theme manifest files.
	ExitDataErr = 4

	// ExitValidation indicates input failed validation rules.
	// Use for: Empty or duplicate names, unknown categories, bad placements.
	ExitValidation = 5

	// ExitConflict indicates the workflow refused the change.
	// Use for: Reserved or last status deletion, category capacity.
	ExitConflict = 6
)

// ExitError carries the process exit code for a failed command
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code for an error returned by a command
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	_, code := Classify(err)
	return code
}

// Classify maps a domain error to an output error code and exit code
func Classify(err error) (string, int) {
	switch models.KindOf(err) {
	case models.ErrValidation:
		return "VALIDATION_ERROR", ExitValidation
	case models.ErrUnknownCategory:
		return "UNKNOWN_CATEGORY", ExitValidation
	case models.ErrNotFound:
		return "NOT_FOUND", ExitNotFound
	case models.ErrReserved:
		return "RESERVED_STATUS", ExitConflict
	case models.ErrLast:
		return "LAST_STATUS", ExitConflict
	case models.ErrCapacity:
		return "CATEGORY_CAPACITY", ExitConflict
	case models.ErrConflict:
		return "CONFLICT", ExitConflict
	}
	return "ERROR", ExitFailure
}
