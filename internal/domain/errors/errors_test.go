package errors

import (
	stdErrors "errors"
	"strings"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"already exists", ErrAlreadyExists},
		{"not found", ErrNotFound},
		{"invalid amount", ErrInvalidAmount},
		{"unknown status", ErrUnknownStatus},
		{"illegal transition", ErrIllegalTransition},
		{"forbidden", ErrForbiddenForRole},
		{"terminal", ErrOrderTerminal},
		{"conflict", ErrConflictingWrite},
		{"not yet accepted", ErrNotYetAccepted},
		{"already paid", ErrAlreadyPaid},
		{"invalid filter", ErrInvalidFilter},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !stdErrors.Is(tc.err, tc.err) {
				t.Fatalf("expected error to match itself: %v", tc.err)
			}
		})
	}
}

func TestTransitionErrorUnwraps(t *testing.T) {
	err := error(&TransitionError{From: "ordered", To: "paid", Role: "owner", Err: ErrForbiddenForRole})
	if !stdErrors.Is(err, ErrForbiddenForRole) {
		t.Fatalf("expected forbidden sentinel, got %v", err)
	}
	if !strings.Contains(err.Error(), "ordered -> paid as owner") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
