package note

import (
	"errors"
	"testing"
)

func TestCanTransitionFullTable(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusDraft, StatusProcessing}:      true,
		{StatusDraft, StatusError}:           true,
		{StatusProcessing, StatusReady}:      true,
		{StatusProcessing, StatusError}:      true,
		{StatusReady, StatusProcessing}:      true,
		{StatusReady, StatusError}:           true,
		{StatusError, StatusProcessing}:      true,
		{StatusError, StatusDraft}:           true,
	}

	for _, from := range Statuses {
		for _, to := range Statuses {
			want := allowed[[2]Status{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestSelfLoopsAreIllegal(t *testing.T) {
	for _, s := range Statuses {
		if CanTransition(s, s) {
			t.Errorf("self-loop %s -> %s should be illegal", s, s)
		}
	}
}

func TestCheckTransitionError(t *testing.T) {
	err := CheckTransition(StatusReady, StatusDraft)
	if err == nil {
		t.Fatal("expected error for ready -> draft")
	}
	var te *TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransitionError, got %T", err)
	}
	if te.Error() != "cannot transition from ready to draft" {
		t.Fatalf("unexpected message: %q", te.Error())
	}
	if err := CheckTransition(StatusProcessing, StatusReady); err != nil {
		t.Fatalf("processing -> ready should be legal: %v", err)
	}
}

func TestValid(t *testing.T) {
	for _, s := range Statuses {
		if !Valid(s) {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if Valid("archived") {
		t.Error("archived is not a status")
	}
}
