package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleMarketing  Role = "marketing"
	RoleProcessing Role = "processing"
	RoleMember     Role = "member"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMarketing, RoleProcessing, RoleMember:
		return true
	}
	return false
}

// Capabilities is the fixed permission record derived from a role.
type Capabilities struct {
	CanAccessOrders     bool `json:"canAccessOrders"`
	CanAccessProcessing bool `json:"canAccessProcessing"`
	CanAccessInventory  bool `json:"canAccessInventory"`
	CanAccessAccounts   bool `json:"canAccessAccounts"`
	CanAccessFinance    bool `json:"canAccessFinance"`
	CanManageUsers      bool `json:"canManageUsers"`
}

// roleCapabilities is pure data, consulted through CapabilitiesFor.
var roleCapabilities = map[Role]Capabilities{
	RoleAdmin: {
		CanAccessOrders:     true,
		CanAccessProcessing: true,
		CanAccessInventory:  true,
		CanAccessAccounts:   true,
		CanAccessFinance:    true,
		CanManageUsers:      true,
	},
	RoleMarketing: {
		CanAccessOrders:    true,
		CanAccessInventory: true,
	},
	RoleProcessing: {
		CanAccessProcessing: true,
	},
	RoleMember: {},
}

// CapabilitiesFor returns the capability record for a role. Unknown roles
// get the member record.
func CapabilitiesFor(role Role) Capabilities {
	if caps, ok := roleCapabilities[role]; ok {
		return caps
	}
	return roleCapabilities[RoleMember]
}

// capabilityOverride mirrors Capabilities with optional fields, so a stored
// individual_permissions blob can override single capabilities while absent
// fields keep the role default.
type capabilityOverride struct {
	CanAccessOrders     *bool `json:"canAccessOrders"`
	CanAccessProcessing *bool `json:"canAccessProcessing"`
	CanAccessInventory  *bool `json:"canAccessInventory"`
	CanAccessAccounts   *bool `json:"canAccessAccounts"`
	CanAccessFinance    *bool `json:"canAccessFinance"`
	CanManageUsers      *bool `json:"canManageUsers"`
}

// ApplyOverride merges an individual_permissions JSON blob into a
// role-derived capability record. An empty blob is a no-op.
func ApplyOverride(caps Capabilities, blob string) (Capabilities, error) {
	if strings.TrimSpace(blob) == "" {
		return caps, nil
	}
	var o capabilityOverride
	if err := json.Unmarshal([]byte(blob), &o); err != nil {
		return caps, fmt.Errorf("%w: individual_permissions: %v", ErrValidation, err)
	}
	if o.CanAccessOrders != nil {
		caps.CanAccessOrders = *o.CanAccessOrders
	}
	if o.CanAccessProcessing != nil {
		caps.CanAccessProcessing = *o.CanAccessProcessing
	}
	if o.CanAccessInventory != nil {
		caps.CanAccessInventory = *o.CanAccessInventory
	}
	if o.CanAccessAccounts != nil {
		caps.CanAccessAccounts = *o.CanAccessAccounts
	}
	if o.CanAccessFinance != nil {
		caps.CanAccessFinance = *o.CanAccessFinance
	}
	if o.CanManageUsers != nil {
		caps.CanManageUsers = *o.CanManageUsers
	}
	return caps, nil
}

// Allowlists assigns roles by email membership. Everything else on the
// company domain is a member; foreign domains are rejected at sign-in.
type Allowlists struct {
	CompanyDomain string
	Admins        []string
	Marketing     []string
	Processing    []string
}

func containsFold(list []string, email string) bool {
	for _, e := range list {
		if strings.EqualFold(strings.TrimSpace(e), email) {
			return true
		}
	}
	return false
}

// ResolveRole maps an authenticated email to a role.
// Returns ErrUnauthorized for emails outside the company domain.
func (a Allowlists) ResolveRole(email string) (Role, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	switch {
	case containsFold(a.Admins, email):
		return RoleAdmin, nil
	case containsFold(a.Marketing, email):
		return RoleMarketing, nil
	case containsFold(a.Processing, email):
		return RoleProcessing, nil
	}
	if a.CompanyDomain != "" && strings.HasSuffix(email, "@"+strings.ToLower(a.CompanyDomain)) {
		return RoleMember, nil
	}
	return "", fmt.Errorf("%w: %s is not a company account", ErrUnauthorized, email)
}
