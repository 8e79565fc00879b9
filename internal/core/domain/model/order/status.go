package order

import (
	"errors"
	"fmt"
	"strings"

	"restaurant/internal/pkg/errs"
)

// ErrTransitionNotAllowed is returned when a status change leaves the transition graph.
var ErrTransitionNotAllowed = errors.New("order status transition is not allowed")

// Status is the lifecycle state of an order.
//
// State transitions:
//
//	new ──> preparing ──> completed
//	 │          │
//	 └──────────┴──────> cancelled
//
// completed and cancelled are terminal. The persisted form is the lowercase
// name returned by String.
type Status int

const (
	// Unknown is the zero value and is never valid.
	Unknown Status = iota

	// New is the status of an order placed but not yet accepted by staff.
	New

	// Preparing means the kitchen accepted the order.
	Preparing

	// Completed means the order was served. Terminal.
	Completed

	// Cancelled means staff or the customer cancelled the order. Terminal.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		New:       "new",
		Preparing: "preparing",
		Completed: "completed",
		Cancelled: "cancelled",
	}
}

// getTransitions lists the legal target statuses for every non-terminal status.
func getTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal and unknown statuses have no outgoing edges
	return map[Status][]Status{
		New:       {Preparing, Cancelled},
		Preparing: {Completed, Cancelled},
	}
}

// Statuses returns every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{New, Preparing, Completed, Cancelled}
}

// ParseStatus converts the persisted name into a Status. Matching ignores case
// and surrounding spaces.
func ParseStatus(s string) (Status, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, status := range Statuses() {
		if status.String() == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not an order status", s))
}

func (s Status) Validate() error {
	if s < New || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid order status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transition is expected from s.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// Next returns the statuses reachable from s in one step. Terminal statuses
// return an empty slice.
func (s Status) Next() []Status {
	next := getTransitions()[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo checks the edge s -> target without performing it.
//
// Returns:
//   - nil if target is reachable from s in one step
//   - a ValueIsInvalidError if target is not a valid status
//   - an error wrapping ErrTransitionNotAllowed otherwise
func (s Status) CanTransitionTo(target Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	for _, next := range getTransitions()[s] {
		if next == target {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, s, target)
}

// Accept moves a new order into preparation.
func (s Status) Accept() (Status, error) {
	return s.transition(Preparing)
}

// Complete marks a preparing order as served.
func (s Status) Complete() (Status, error) {
	return s.transition(Completed)
}

// Cancel cancels a new or preparing order.
func (s Status) Cancel() (Status, error) {
	return s.transition(Cancelled)
}

// TransitionTo performs the named action leading to target: Accept,
// Complete or Cancel.
func (s Status) TransitionTo(target Status) (Status, error) {
	switch target {
	case Preparing:
		return s.Accept()
	case Completed:
		return s.Complete()
	case Cancelled:
		return s.Cancel()
	case Unknown, New:
	}
	return s.transition(target)
}

func (s Status) transition(target Status) (Status, error) {
	if err := s.CanTransitionTo(target); err != nil {
		return Unknown, err
	}
	return target, nil
}

func (s Status) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(data []byte) error {
	parsed, err := ParseStatus(string(data))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
