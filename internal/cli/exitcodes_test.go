package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shipnotes/shipnotes/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		kind error
		code string
		exit int
	}{
		{models.ErrValidation, "VALIDATION_ERROR", ExitValidation},
		{models.ErrUnknownCategory, "UNKNOWN_CATEGORY", ExitValidation},
		{models.ErrNotFound, "NOT_FOUND", ExitNotFound},
		{models.ErrReserved, "RESERVED_STATUS", ExitConflict},
		{models.ErrLast, "LAST_STATUS", ExitConflict},
		{models.ErrCapacity, "CATEGORY_CAPACITY", ExitConflict},
		{models.ErrConflict, "CONFLICT", ExitConflict},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", models.NewError(tt.kind, "msg"))
			code, exit := Classify(err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.exit, exit)
		})
	}

	code, exit := Classify(errors.New("disk full"))
	assert.Equal(t, "ERROR", code)
	assert.Equal(t, ExitFailure, exit)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitDataErr, ExitCode(&ExitError{Code: ExitDataErr, Err: errors.New("bad config")}))
	assert.Equal(t, ExitNotFound, ExitCode(models.NewError(models.ErrNotFound, "gone")))
	assert.Equal(t, ExitUsage, ExitCode(fmt.Errorf("run: %w", &ExitError{Code: ExitUsage, Err: errors.New("x")})))
}

func TestFromContext(t *testing.T) {
	_, err := FromContext(nil)
	assert.ErrorIs(t, err, ErrNoCLI)

	c := New(nil, nil, nil)
	got, err := FromContext(WithCLI(t.Context(), c))
	assert.NoError(t, err)
	assert.Same(t, c, got)
	assert.NoError(t, c.Close())
}
