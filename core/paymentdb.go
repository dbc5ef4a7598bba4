package core

// PaymentRequest is one request from a processing member to accounts for
// payment of one order item. An item may accumulate several over time.
type PaymentRequest struct {
	ID               int64         `json:"id"`
	ItemID           int64         `json:"itemId"`
	RequestedBy      string        `json:"requestedBy"`
	Amount           float64       `json:"amount"`
	PaymentMethod    PaymentMethod `json:"paymentMethod"`
	Status           PaymentStatus `json:"status"`
	ReviewNotes      string        `json:"reviewNotes,omitempty"`
	ReviewedBy       string        `json:"reviewedBy,omitempty"`
	ReviewedAt       int64         `json:"reviewedAt,omitempty"`
	PaymentReference string        `json:"paymentReference,omitempty"`
	PaidBy           string        `json:"paidBy,omitempty"`
	PaidAt           int64         `json:"paidAt,omitempty"`
	CreatedAt        int64         `json:"createdAt"`
}

type PaymentDB interface {
	GetPaymentRequest(id int64) (*PaymentRequest, error)
	// GetAllPaymentRequests filters by status when status is non-empty and
	// by requester when requestedBy is non-empty.
	GetAllPaymentRequests(status PaymentStatus, requestedBy string, limit, offset int) ([]*PaymentRequest, error)
	// CreatePaymentRequest inserts a pending request and moves the parent
	// item to payment_requested in one transaction.
	CreatePaymentRequest(req *PaymentRequest) (int64, error)
	// ReviewPaymentRequest performs pending → approved|rejected guarded on
	// the current status, so two concurrent reviews cannot both win.
	ReviewPaymentRequest(id int64, status PaymentStatus, notes, reviewedBy string) error
	// PayPaymentRequest performs approved → paid and moves the parent item
	// to completed in one transaction; partial failure rolls back.
	PayPaymentRequest(id int64, reference, paidBy string) error
}
