package core

import "fmt"

// ProcessingStatus is the lifecycle of one order item. All handlers consult
// the same transition table instead of comparing strings locally.
type ProcessingStatus string

const (
	StatusNotStarted       ProcessingStatus = "not_started"
	StatusInProgress       ProcessingStatus = "in_progress"
	StatusContentWriting   ProcessingStatus = "content_writing"
	StatusPendingApproval  ProcessingStatus = "pending_approval"
	StatusApproved         ProcessingStatus = "approved"
	StatusRejected         ProcessingStatus = "rejected"
	StatusPublishing       ProcessingStatus = "publishing"
	StatusPublished        ProcessingStatus = "published"
	StatusPaymentRequested ProcessingStatus = "payment_requested"
	StatusCompleted        ProcessingStatus = "completed"
)

func (s ProcessingStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// transitions lists the allowed next states per current state.
// completed is terminal.
var transitions = map[ProcessingStatus][]ProcessingStatus{
	StatusNotStarted:       {StatusInProgress, StatusContentWriting},
	StatusInProgress:       {StatusContentWriting, StatusPendingApproval},
	StatusContentWriting:   {StatusInProgress, StatusPendingApproval},
	StatusPendingApproval:  {StatusApproved, StatusRejected},
	StatusRejected:         {StatusInProgress, StatusContentWriting, StatusPendingApproval},
	StatusApproved:         {StatusPublishing, StatusPublished},
	StatusPublishing:       {StatusPublished},
	StatusPublished:        {StatusPaymentRequested},
	StatusPaymentRequested: {StatusCompleted},
	StatusCompleted:        {},
}

// CanTransition reports whether from → to is a legal step.
func CanTransition(from, to ProcessingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the legal next states from the given one.
func NextStatuses(from ProcessingStatus) []ProcessingStatus {
	next := transitions[from]
	out := make([]ProcessingStatus, len(next))
	copy(out, next)
	return out
}

// CheckTransition validates a requested status change against the table and
// the target-state preconditions. contentURL and liveURL are the values the
// item would have after the update.
func CheckTransition(from, to ProcessingStatus, contentURL, liveURL string) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, from, to)
	}
	switch to {
	case StatusPendingApproval:
		if contentURL == "" {
			return fmt.Errorf("%w: content_url is required before requesting approval", ErrValidation)
		}
	case StatusPublished:
		if liveURL == "" {
			return fmt.Errorf("%w: live_url is required before marking published", ErrValidation)
		}
	case StatusPaymentRequested:
		return fmt.Errorf("%w: payment_requested is set by request-payment only", ErrInvalidTransition)
	case StatusCompleted:
		return fmt.Errorf("%w: completed is set when the payment request is paid", ErrInvalidTransition)
	}
	return nil
}
