package booking

import "fmt"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

var Statuses = []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal states accept no further transition.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// DefaultStatus is applied explicitly when a reservation is built.
func DefaultStatus(s Status) Status {
	if s == "" {
		return StatusPending
	}
	return s
}

type Action string

const (
	ActionConfirm  Action = "confirm"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
)

// ActionFor maps a requested target status to the transition that reaches it.
func ActionFor(target Status) (Action, bool) {
	switch target {
	case StatusConfirmed:
		return ActionConfirm, true
	case StatusCancelled:
		return ActionCancel, true
	case StatusCompleted:
		return ActionComplete, true
	default:
		return "", false
	}
}

// Transition returns the status reached by applying action to from.
// On an illegal move the original status is returned with ErrInvalidStatusTransition.
func Transition(from Status, action Action) (Status, error) {
	switch action {
	case ActionConfirm:
		if from == StatusPending {
			return StatusConfirmed, nil
		}
	case ActionCancel:
		if from == StatusPending || from == StatusConfirmed {
			return StatusCancelled, nil
		}
	case ActionComplete:
		if from == StatusConfirmed {
			return StatusCompleted, nil
		}
	default:
		return from, fmt.Errorf("%w: unknown action %q", ErrInvalidStatusTransition, action)
	}
	return from, fmt.Errorf("%w: cannot %s a %s reservation", ErrInvalidStatusTransition, action, from)
}
