package lifecycle

import "github.com/spec-kit/service-orders/internal/domain"

// Transitions lists the status moves the workflow expects. They are
// suggestions for clients only; any status may be set at any time.
var Transitions = map[domain.Status][]domain.Status{
	domain.StatusQueued:     {domain.StatusWaiting, domain.StatusInProgress, domain.StatusCancelled},
	domain.StatusWaiting:    {domain.StatusInProgress, domain.StatusCancelled, domain.StatusQueued},
	domain.StatusInProgress: {domain.StatusExecuted, domain.StatusWaiting, domain.StatusCancelled},
	domain.StatusExecuted:   {},
	domain.StatusCancelled:  {},
}

// IsSuggestedTransition reports whether next is an expected move from current.
func IsSuggestedTransition(current, next domain.Status) bool {
	for _, candidate := range Transitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
