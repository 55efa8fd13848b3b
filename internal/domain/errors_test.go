package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrorsSurviveWrapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{
			name:     "validation from enum parse",
			err:      fmt.Errorf("%w: invalid channel %q", ErrValidation, "fax"),
			sentinel: ErrValidation,
		},
		{
			name:     "not found from repository",
			err:      fmt.Errorf("loading notification 42: %w", ErrNotFound),
			sentinel: ErrNotFound,
		},
		{
			name:     "conflict from state machine",
			err:      fmt.Errorf("%w: cannot mark read notification as sent", ErrConflict),
			sentinel: ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if !errors.Is(tt.err, tt.sentinel) {
				t.Fatalf("errors.Is(%v, %v) = false, want true", tt.err, tt.sentinel)
			}
		})
	}
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	t.Parallel()

	if errors.Is(ErrNotFound, ErrValidation) || errors.Is(ErrValidation, ErrConflict) || errors.Is(ErrConflict, ErrNotFound) {
		t.Fatal("sentinel errors must not match each other")
	}
}
