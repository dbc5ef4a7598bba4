package core

// Expense is a one-off business expense, possibly paid personally by a team
// member and settled later.
type Expense struct {
	ID          int64   `json:"id"`
	Date        string  `json:"date"` // YYYY-MM-DD
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
	Amount      float64 `json:"amount"`
	PaidBy      string  `json:"paidBy,omitempty"` // team member email
	Settled     bool    `json:"settled"`
	CreatedAt   int64   `json:"createdAt"`
	UpdatedAt   int64   `json:"updatedAt"`
}

type UtilityBill struct {
	ID        int64   `json:"id"`
	Provider  string  `json:"provider"`
	BillMonth string  `json:"billMonth"` // YYYY-MM
	Amount    float64 `json:"amount"`
	DueDate   string  `json:"dueDate,omitempty"`
	Paid      bool    `json:"paid"`
	PaidOn    string  `json:"paidOn,omitempty"`
	CreatedAt int64   `json:"createdAt"`
	UpdatedAt int64   `json:"updatedAt"`
}

type Subscription struct {
	ID          int64   `json:"id"`
	Service     string  `json:"service"`
	Plan        string  `json:"plan,omitempty"`
	MonthlyCost float64 `json:"monthlyCost"`
	RenewalDay  int     `json:"renewalDay"` // day of month, 1-31
	Active      bool    `json:"active"`
	CreatedAt   int64   `json:"createdAt"`
	UpdatedAt   int64   `json:"updatedAt"`
}

type SalaryPayment struct {
	ID        int64   `json:"id"`
	Employee  string  `json:"employee"` // email
	Month     string  `json:"month"`    // YYYY-MM
	Amount    float64 `json:"amount"`
	PaidOn    string  `json:"paidOn,omitempty"`
	Notes     string  `json:"notes,omitempty"`
	CreatedAt int64   `json:"createdAt"`
	UpdatedAt int64   `json:"updatedAt"`
}

type FinanceDB interface {
	GetExpense(id int64) (*Expense, error)
	GetAllExpenses(limit, offset int) ([]*Expense, error)
	InsertExpense(e *Expense) (int64, error)
	UpdateExpense(e *Expense) error
	DeleteExpense(id int64) error

	GetUtilityBill(id int64) (*UtilityBill, error)
	GetAllUtilityBills(limit, offset int) ([]*UtilityBill, error)
	InsertUtilityBill(b *UtilityBill) (int64, error)
	UpdateUtilityBill(b *UtilityBill) error
	DeleteUtilityBill(id int64) error

	GetSubscription(id int64) (*Subscription, error)
	GetAllSubscriptions(limit, offset int) ([]*Subscription, error)
	InsertSubscription(s *Subscription) (int64, error)
	UpdateSubscription(s *Subscription) error
	DeleteSubscription(id int64) error

	GetSalaryPayment(id int64) (*SalaryPayment, error)
	GetAllSalaryPayments(limit, offset int) ([]*SalaryPayment, error)
	InsertSalaryPayment(p *SalaryPayment) (int64, error)
	UpdateSalaryPayment(p *SalaryPayment) error
	DeleteSalaryPayment(id int64) error
}
