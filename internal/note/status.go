// Package note defines the note lifecycle state machine.
package note

import "fmt"

// Status is the processing state of a note.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusError      Status = "error"
)

// Statuses lists every valid status value.
var Statuses = []Status{StatusDraft, StatusProcessing, StatusReady, StatusError}

// transitions is the full table of legal status changes. Self-loops are not
// legal; a request that omits status skips the transition check entirely.
var transitions = map[Status][]Status{
	StatusDraft:      {StatusProcessing, StatusError},
	StatusProcessing: {StatusReady, StatusError},
	StatusReady:      {StatusProcessing, StatusError},
	StatusError:      {StatusProcessing, StatusDraft},
}

// Valid reports whether s is a recognized status value.
func Valid(s Status) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether from -> to is in the transition table.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TransitionError describes a rejected status change.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}

// CheckTransition returns a *TransitionError when from -> to is illegal.
func CheckTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return &TransitionError{From: from, To: to}
	}
	return nil
}
