package core

// UserProfile is the identity + role + permission-override record.
// It is upserted on every login so role changes in the allowlist config
// take effect at the next sign-in.
type UserProfile struct {
	ID                    int64  `json:"id"`
	Email                 string `json:"email"`
	Name                  string `json:"name"`
	Role                  Role   `json:"role"`
	IndividualPermissions string `json:"individualPermissions,omitempty"` // JSON blob, may be empty
	CreatedAt             int64  `json:"createdAt"`
	UpdatedAt             int64  `json:"updatedAt"`
}

// Capabilities resolves the effective capability record of the profile.
func (p *UserProfile) Capabilities() (Capabilities, error) {
	return ApplyOverride(CapabilitiesFor(p.Role), p.IndividualPermissions)
}

func (p *UserProfile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type UserDB interface {
	GetProfile(id int64) (*UserProfile, error)
	GetProfileByEmail(email string) (*UserProfile, error)
	GetAllProfiles(limit, offset int) ([]*UserProfile, error)
	// UpsertProfile creates or refreshes the profile row for an email and
	// returns the stored record.
	UpsertProfile(email, name string, role Role) (*UserProfile, error)
	// Login verifies the password hash. Returns ErrUnauthorized on mismatch
	// or unknown email.
	Login(email, password string) (*UserProfile, error)
	SetPassword(id int64, password string) error
	// UpdatePermissions sets the role and the individual_permissions blob.
	UpdatePermissions(id int64, role Role, overrideJSON string) error
}
