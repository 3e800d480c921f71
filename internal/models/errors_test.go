package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	capacity := NewError(ErrCapacity, "category allows a single status")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"direct", capacity, ErrCapacity},
		{"wrapped", fmt.Errorf("set mapping: %w", capacity), ErrCapacity},
		{"bare kind", ErrNotFound, ErrNotFound},
		{"unclassified", errors.New("disk full"), nil},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestError_MessageAndUnwrap(t *testing.T) {
	err := NewError(ErrReserved, "reserved statuses cannot be deleted")

	if err.Error() != "reserved statuses cannot be deleted" {
		t.Errorf("Unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrReserved) {
		t.Error("Expected errors.Is to match the kind")
	}
	if errors.Is(err, ErrLast) {
		t.Error("Expected no match for a different kind")
	}
}
