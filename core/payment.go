package core

import "fmt"

// PaymentStatus is the lifecycle of one processing payment request.
// pending can be reviewed exactly once, approved can be paid exactly once;
// paid and rejected are terminal.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
	PaymentPaid     PaymentStatus = "paid"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentApproved, PaymentRejected, PaymentPaid:
		return true
	}
	return false
}

type PaymentMethod string

const (
	MethodWise         PaymentMethod = "wise"
	MethodPaypal       PaymentMethod = "paypal"
	MethodBankTransfer PaymentMethod = "bank_transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodWise, MethodPaypal, MethodBankTransfer:
		return true
	}
	return false
}

// CheckReview guards the pending → approved|rejected step.
func CheckReview(current, requested PaymentStatus) error {
	if requested != PaymentApproved && requested != PaymentRejected {
		return fmt.Errorf("%w: review status must be approved or rejected", ErrValidation)
	}
	if current != PaymentPending {
		return fmt.Errorf("%w: payment request is %s, only pending requests can be reviewed", ErrInvalidTransition, current)
	}
	return nil
}

// CheckPay guards the approved → paid step.
func CheckPay(current PaymentStatus) error {
	if current != PaymentApproved {
		return fmt.Errorf("%w: payment request is %s, only approved requests can be paid", ErrInvalidTransition, current)
	}
	return nil
}
