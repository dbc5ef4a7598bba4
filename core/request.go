package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// A Request is created by CoreDB.NewRequest. It binds the session-stored
// user to one HTTP request.
type Request struct {
	db      *CoreDB
	User    *UserProfile // nil if not logged in
	writer  http.ResponseWriter
	request *http.Request
}

// NewRequest loads the logged-in user, if any, from the session.
func (c *CoreDB) NewRequest(w http.ResponseWriter, httpreq *http.Request) *Request {
	var req = &Request{
		db:      c,
		writer:  w,
		request: httpreq,
	}
	if uid := c.SessionManager.GetInt64(httpreq.Context(), "uid"); uid != 0 {
		u, err := c.GetProfile(uid)
		if u != nil && err == nil {
			req.User = u
		}
		// a stale session id is the same as not being logged in
	}
	return req
}

func (req *Request) LoggedIn() bool {
	return req.User != nil
}

// Login resolves the role from the allowlists, verifies the password and
// refreshes the profile row. Non-company emails are rejected here
// regardless of credentials.
func (req *Request) Login(email, password string) error {
	if req.LoggedIn() {
		return nil
	}

	email = strings.ToLower(strings.TrimSpace(email))

	role, err := req.db.Allowlists.ResolveRole(email)
	if err != nil {
		return err
	}

	user, err := req.db.UserDB.Login(email, password)
	if err != nil {
		return err
	}

	// refresh the stored role, allowlist edits apply at next sign-in
	if user.Role != role {
		if err := req.db.UpdatePermissions(user.ID, role, user.IndividualPermissions); err != nil {
			return err
		}
		user.Role = role
	}

	req.User = user
	req.db.SessionManager.Put(req.request.Context(), "uid", user.ID)
	return nil
}

// Logout removes the user id from the session.
func (req *Request) Logout() {
	if req.LoggedIn() {
		req.db.SessionManager.Remove(req.request.Context(), "uid")
		req.User = nil
	}
}

// Capabilities resolves the effective capabilities of the current user.
// Not logged in means no capabilities.
func (req *Request) Capabilities() Capabilities {
	if !req.LoggedIn() {
		return Capabilities{}
	}
	caps, err := req.User.Capabilities()
	if err != nil {
		// a malformed override must not widen access
		req.db.Logger.Warnw("malformed individual_permissions", "user", req.User.Email, "err", err)
		return CapabilitiesFor(req.User.Role)
	}
	return caps
}

// RequireItemAssignee returns nil if the current user is the item's
// assigned processing member or an admin, else ErrForbidden.
func (req *Request) RequireItemAssignee(itemID int64) error {
	if !req.LoggedIn() {
		return ErrUnauthorized
	}
	if req.User.IsAdmin() {
		return nil
	}
	assignment, err := req.db.GetAssignment(itemID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: item %d is not assigned to you", ErrForbidden, itemID)
		}
		return err
	}
	if !strings.EqualFold(assignment.AssignedTo, req.User.Email) {
		return fmt.Errorf("%w: item %d is not assigned to you", ErrForbidden, itemID)
	}
	return nil
}
