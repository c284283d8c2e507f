package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestInvalidTransitionSentinels(t *testing.T) {
	err := NewAlreadyExecuted("execute")
	if !IsInvalidTransition(err) {
		t.Fatal("expected invalid transition kind")
	}
	if !errors.Is(err, ErrAlreadyExecuted) {
		t.Fatal("expected AlreadyExecuted sentinel")
	}
	if errors.Is(err, ErrAlreadyRated) {
		t.Fatal("did not expect AlreadyRated sentinel")
	}

	plain := NewInvalidTransition("confirm", "rejected")
	if errors.Is(plain, ErrAlreadyExecuted) {
		t.Fatal("plain transition error should not match sentinel")
	}
	if plain.Current != "rejected" {
		t.Fatalf("expected current status carried, got %q", plain.Current)
	}
}

func TestExecutionFailureUnwraps(t *testing.T) {
	cause := errors.New("invoice not found")
	err := fmt.Errorf("perform: %w", &ErrExecutionFailure{Cause: cause})
	if !IsExecutionFailure(err) {
		t.Fatal("expected execution failure kind through wrapping")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to unwrap")
	}
}

func TestKindPredicatesAreDisjoint(t *testing.T) {
	auth := &ErrAuthorization{UserID: "u1", ActionID: "a1"}
	if !IsAuthorization(auth) || IsInvalidTransition(auth) || IsValidation(auth) {
		t.Fatalf("unexpected kind match for %v", auth)
	}
	if !IsUnknownActionType(&ErrUnknownActionType{ActionType: "x"}) {
		t.Fatal("expected unknown action type kind")
	}
	if !IsInvalidPayload(&ErrInvalidPayload{Field: "amount", Message: "must be > 0"}) {
		t.Fatal("expected invalid payload kind")
	}
}
