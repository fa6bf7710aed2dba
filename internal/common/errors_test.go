package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsFollowsWrappedChain(t *testing.T) {
	t.Parallel()

	base := NewError(CodeConflict, "already applied", nil)
	wrapped := fmt.Errorf("submit: %w", base)

	if !Is(wrapped, CodeConflict) {
		t.Fatalf("expected wrapped error to carry conflict code")
	}
	if Is(wrapped, CodeNotFound) {
		t.Fatalf("did not expect not_found code")
	}
	if CodeOf(errors.New("boom")) != CodeInternal {
		t.Fatalf("foreign errors should map to internal")
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := NewError(CodeDependencyFailure, "failed to send acceptance email", cause)

	if got := err.Error(); got != "failed to send acceptance email: connection refused" {
		t.Fatalf("unexpected message %q", got)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to reach the cause")
	}
}
