package core

// InventorySite is one publisher website in the SEO catalog.
type InventorySite struct {
	ID                 int64   `json:"id"`
	Website            string  `json:"website"`
	Niche              string  `json:"niche,omitempty"`
	Language           string  `json:"language,omitempty"`
	Country            string  `json:"country,omitempty"`
	DomainRating       int     `json:"domainRating"`
	DomainAuthority    int     `json:"domainAuthority"`
	OrganicTraffic     int     `json:"organicTraffic"`
	ReferringDomains   int     `json:"referringDomains"`
	SpamScore          int     `json:"spamScore"`
	BasePrice          float64 `json:"basePrice"`
	GuestPostPrice     float64 `json:"guestPostPrice"`
	LinkInsertionPrice float64 `json:"linkInsertionPrice"`
	TurnaroundDays     int     `json:"turnaroundDays"`
	ContactEmail       string  `json:"contactEmail,omitempty"`
	Notes              string  `json:"notes,omitempty"`
	AcceptsCasino      bool    `json:"acceptsCasino"`
	AcceptsCrypto      bool    `json:"acceptsCrypto"`
	AcceptsCBD         bool    `json:"acceptsCbd"`
	AcceptsAdult       bool    `json:"acceptsAdult"`
	Dofollow           bool    `json:"dofollow"`
	Status             string  `json:"status"` // active|paused|blacklisted
	CreatedAt          int64   `json:"createdAt"`
	UpdatedAt          int64   `json:"updatedAt"`
}

// InventoryFilter carries the optional query predicates of the inventory
// list and export endpoints. Nil means "not filtered".
type InventoryFilter struct {
	Search   string // case-insensitive match on website, niche, notes
	Niche    string
	Language string
	Country  string
	Status   string

	MinDomainRating     *int
	MaxDomainRating     *int
	MinDomainAuthority  *int
	MaxDomainAuthority  *int
	MinOrganicTraffic   *int
	MaxOrganicTraffic   *int
	MinReferringDomains *int
	MaxReferringDomains *int
	MinSpamScore        *int
	MaxSpamScore        *int
	MinBasePrice        *float64
	MaxBasePrice        *float64
	MinGuestPostPrice   *float64
	MaxGuestPostPrice   *float64
	MinLinkInsertion    *float64
	MaxLinkInsertion    *float64
	MaxTurnaroundDays   *int

	AcceptsCasino *bool
	AcceptsCrypto *bool
	AcceptsCBD    *bool
	AcceptsAdult  *bool
	Dofollow      *bool

	SortBy   string // whitelisted column name
	SortDesc bool
	Limit    int
	Offset   int
}

type InventoryDB interface {
	GetSite(id int64) (*InventorySite, error)
	// ListSites returns the filtered page and the unpaginated match count.
	ListSites(f InventoryFilter) ([]*InventorySite, int, error)
	InsertSite(s *InventorySite) (int64, error)
	UpdateSite(s *InventorySite) error
	DeleteSite(id int64) error
}
