package core

type OrderStatus string

const (
	OrderActive    OrderStatus = "active"
	OrderOnHold    OrderStatus = "on_hold"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderActive, OrderOnHold, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Order is a client order header. AssignedTo is a display field only;
// authorization always goes through the item assignment.
type Order struct {
	ID          int64       `json:"id"`
	OrderNumber string      `json:"orderNumber"`
	ClientName  string      `json:"clientName"`
	AssignedTo  string      `json:"assignedTo,omitempty"`
	DueDate     string      `json:"dueDate,omitempty"` // YYYY-MM-DD
	Status      OrderStatus `json:"status"`
	CreatedAt   int64       `json:"createdAt"`
	UpdatedAt   int64       `json:"updatedAt"`
}

// OrderItem is one content/link deliverable within an order.
type OrderItem struct {
	ID                  int64            `json:"id"`
	OrderID             int64            `json:"orderId"`
	Website             string           `json:"website"`
	Keyword             string           `json:"keyword,omitempty"`
	ClientURL           string           `json:"clientUrl,omitempty"`
	PublicationID       int64            `json:"publicationId,omitempty"` // website_inventory id, 0 if none
	ProcessingStatus    ProcessingStatus `json:"processingStatus"`
	ContentURL          string           `json:"contentUrl,omitempty"`
	ContentNotes        string           `json:"contentNotes,omitempty"`
	LiveURL             string           `json:"liveUrl,omitempty"`
	LiveDate            string           `json:"liveDate,omitempty"` // YYYY-MM-DD
	ApprovalRequestedAt int64            `json:"approvalRequestedAt,omitempty"`
	LiveSubmittedBy     string           `json:"liveSubmittedBy,omitempty"`
	LiveSubmittedAt     int64            `json:"liveSubmittedAt,omitempty"`
	CreatedAt           int64            `json:"createdAt"`
	UpdatedAt           int64            `json:"updatedAt"`
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Assignment links an order item to the processing member responsible for
// it. This table is the single source of truth for processing
// authorization.
type Assignment struct {
	ItemID     int64    `json:"itemId"`
	AssignedTo string   `json:"assignedTo"`
	Priority   Priority `json:"priority"`
	DueDate    string   `json:"dueDate,omitempty"`
	Notes      string   `json:"notes,omitempty"`
	CreatedAt  int64    `json:"createdAt"`
	UpdatedAt  int64    `json:"updatedAt"`
}

// WorkItem is the processing worklist row: the item joined with its order,
// assignment and the inventory price of its publication target.
type WorkItem struct {
	OrderItem
	OrderNumber string   `json:"orderNumber"`
	ClientName  string   `json:"clientName"`
	AssignedTo  string   `json:"assignedTo,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	DueDate     string   `json:"dueDate,omitempty"`
	BasePrice   float64  `json:"basePrice,omitempty"`
}

// ItemUpdate is the partial update accepted by the generic item endpoint.
// Nil fields are left unchanged.
type ItemUpdate struct {
	ProcessingStatus *ProcessingStatus `json:"processingStatus"`
	ContentURL       *string           `json:"contentUrl"`
	ContentNotes     *string           `json:"contentNotes"`
}

type OrderDB interface {
	GetOrder(id int64) (*Order, error)
	GetAllOrders(status OrderStatus, limit, offset int) ([]*Order, error)
	InsertOrder(o *Order) (int64, error)
	UpdateOrder(o *Order) error
	DeleteOrder(id int64) error
}

type ItemDB interface {
	GetItem(id int64) (*OrderItem, error)
	ItemsForOrder(orderID int64) ([]*OrderItem, error)
	InsertItem(item *OrderItem) (int64, error)
	// Worklist returns items assigned to the given email, or all items when
	// email is empty.
	Worklist(assignedTo string) ([]*WorkItem, error)
	StatusCounts() (map[ProcessingStatus]int, error)
	// UpdateItem applies a validated partial update.
	UpdateItem(id int64, upd ItemUpdate) error
	// SubmitApproval moves the item to pending_approval and stamps
	// approval_requested_at. The write is guarded on the current status.
	SubmitApproval(id int64, from ProcessingStatus) error
	// ReviewContent moves pending_approval → approved|rejected.
	ReviewContent(id int64, to ProcessingStatus) error
	// SubmitLive records the live URL and moves the item to published.
	SubmitLive(id int64, from ProcessingStatus, liveURL, submittedBy string) error
	GetAssignment(itemID int64) (*Assignment, error)
	UpsertAssignment(a *Assignment) error
}
