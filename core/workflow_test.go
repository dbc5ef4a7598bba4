package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to ProcessingStatus }{
		{StatusNotStarted, StatusInProgress},
		{StatusNotStarted, StatusContentWriting},
		{StatusInProgress, StatusPendingApproval},
		{StatusContentWriting, StatusPendingApproval},
		{StatusPendingApproval, StatusApproved},
		{StatusPendingApproval, StatusRejected},
		{StatusRejected, StatusPendingApproval},
		{StatusApproved, StatusPublished},
		{StatusPublishing, StatusPublished},
		{StatusPublished, StatusPaymentRequested},
		{StatusPaymentRequested, StatusCompleted},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s → %s should be allowed", tc.from, tc.to)
	}

	denied := []struct{ from, to ProcessingStatus }{
		{StatusNotStarted, StatusPublished},
		{StatusNotStarted, StatusCompleted},
		{StatusInProgress, StatusApproved},
		{StatusApproved, StatusPaymentRequested},
		{StatusPublished, StatusCompleted},
		{StatusCompleted, StatusNotStarted},
		{StatusCompleted, StatusInProgress},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s → %s should be denied", tc.from, tc.to)
	}
}

func TestCheckTransitionPreconditions(t *testing.T) {
	// approval requires a content URL
	err := CheckTransition(StatusInProgress, StatusPendingApproval, "", "")
	assert.True(t, errors.Is(err, ErrValidation))

	err = CheckTransition(StatusInProgress, StatusPendingApproval, "https://docs.example.com/draft", "")
	assert.NoError(t, err)

	// publishing requires a live URL
	err = CheckTransition(StatusApproved, StatusPublished, "https://docs.example.com/draft", "")
	assert.True(t, errors.Is(err, ErrValidation))

	err = CheckTransition(StatusApproved, StatusPublished, "https://docs.example.com/draft", "https://blog.example.com/post")
	assert.NoError(t, err)

	// the money states are reserved for their endpoints
	err = CheckTransition(StatusPublished, StatusPaymentRequested, "x", "y")
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	err = CheckTransition(StatusPaymentRequested, StatusCompleted, "x", "y")
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	// illegal jump
	err = CheckTransition(StatusNotStarted, StatusPublished, "x", "y")
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	// unknown status
	err = CheckTransition(StatusNotStarted, ProcessingStatus("bogus"), "", "")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestTerminalStates(t *testing.T) {
	assert.Empty(t, NextStatuses(StatusCompleted))
	assert.NotEmpty(t, NextStatuses(StatusRejected), "rejected must allow rework")
}

func TestPaymentGuards(t *testing.T) {
	assert.NoError(t, CheckReview(PaymentPending, PaymentApproved))
	assert.NoError(t, CheckReview(PaymentPending, PaymentRejected))

	assert.True(t, errors.Is(CheckReview(PaymentApproved, PaymentApproved), ErrInvalidTransition))
	assert.True(t, errors.Is(CheckReview(PaymentPaid, PaymentRejected), ErrInvalidTransition))
	assert.True(t, errors.Is(CheckReview(PaymentRejected, PaymentApproved), ErrInvalidTransition))
	assert.True(t, errors.Is(CheckReview(PaymentPending, PaymentPaid), ErrValidation))
	assert.True(t, errors.Is(CheckReview(PaymentPending, PaymentPending), ErrValidation))

	assert.NoError(t, CheckPay(PaymentApproved))
	assert.True(t, errors.Is(CheckPay(PaymentPending), ErrInvalidTransition))
	assert.True(t, errors.Is(CheckPay(PaymentPaid), ErrInvalidTransition))
	assert.True(t, errors.Is(CheckPay(PaymentRejected), ErrInvalidTransition))
}
