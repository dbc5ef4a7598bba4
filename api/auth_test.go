package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {

	ts := newTestServer(t)

	// no session
	resp, _ := ts.request(http.DefaultClient, http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// wrong password
	resp, _ = ts.request(http.DefaultClient, http.MethodPost, "/api/login", map[string]interface{}{
		"email":    processingEmail,
		"password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// success carries the role capabilities
	pat := ts.login(processingEmail)
	resp, body := ts.request(pat, http.MethodGet, "/api/me", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, processingEmail, user["email"])
	assert.Equal(t, "processing", user["role"])
	caps := body["capabilities"].(map[string]interface{})
	assert.Equal(t, true, caps["canAccessProcessing"])
	assert.Equal(t, false, caps["canAccessAccounts"])

	// logout drops the session
	resp, _ = ts.request(pat, http.MethodPost, "/api/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = ts.request(pat, http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCapabilityGates(t *testing.T) {

	ts := newTestServer(t)

	denied := []struct {
		email string
		path  string
	}{
		{memberEmail, "/api/orders"},
		{memberEmail, "/api/processing"},
		{memberEmail, "/api/finance/expenses"},
		{marketingEmail, "/api/accounts/payment-requests"},
		{marketingEmail, "/api/processing"},
		{processingEmail, "/api/orders"},
		{processingEmail, "/api/user-permissions"},
	}
	for _, tc := range denied {
		client := ts.login(tc.email)
		resp, _ := ts.request(client, http.MethodGet, tc.path, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, "%s GET %s", tc.email, tc.path)
	}

	mara := ts.login(marketingEmail)
	resp, _ := ts.request(mara, http.MethodGet, "/api/orders", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = ts.request(mara, http.MethodGet, "/api/inventory", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestAssignmentEnforced: processing members can only mutate their own
// items; admins bypass the assignment check.
func TestAssignmentEnforced(t *testing.T) {

	ts := newTestServer(t)
	admin := ts.login(adminEmail)
	sam := ts.login(otherProcessing)

	itemID := ts.createOrderWithItem(admin)
	ts.assign(admin, itemID, processingEmail) // pat's item

	mutations := []struct {
		method string
		path   string
		body   map[string]interface{}
	}{
		{http.MethodPut, fmt.Sprintf("/api/processing/%d", itemID), map[string]interface{}{"contentNotes": "mine now"}},
		{http.MethodPost, fmt.Sprintf("/api/processing/%d/submit-approval", itemID), nil},
		{http.MethodPost, fmt.Sprintf("/api/processing/%d/submit-live", itemID), map[string]interface{}{"liveUrl": "https://x.example"}},
		{http.MethodPost, fmt.Sprintf("/api/processing/%d/request-payment", itemID), map[string]interface{}{"amount": 10.0, "payment_method": "wise"}},
	}
	for _, m := range mutations {
		resp, _ := ts.request(sam, m.method, m.path, m.body)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, "%s %s", m.method, m.path)
	}

	// assigning is admin-only, even for the would-be assignee
	resp, _ := ts.request(sam, http.MethodPost, fmt.Sprintf("/api/processing/%d/assign", itemID), map[string]interface{}{
		"assignedTo": otherProcessing,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// admins may touch any item
	resp, _ = ts.request(admin, http.MethodPut, fmt.Sprintf("/api/processing/%d", itemID), map[string]interface{}{
		"contentNotes": "checked",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestIndividualPermissionOverride grants a member finance access and takes
// it away again.
func TestIndividualPermissionOverride(t *testing.T) {

	ts := newTestServer(t)
	admin := ts.login(adminEmail)
	member := ts.login(memberEmail)

	profile, err := ts.db.GetProfileByEmail(memberEmail)
	require.NoError(t, err)

	resp, _ := ts.request(member, http.MethodGet, "/api/finance/expenses", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := ts.request(admin, http.MethodPut, fmt.Sprintf("/api/user-permissions/%d", profile.ID), map[string]interface{}{
		"individualPermissions": map[string]interface{}{"canAccessFinance": true},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	caps := body["user"].(map[string]interface{})["capabilities"].(map[string]interface{})
	assert.Equal(t, true, caps["canAccessFinance"])

	// takes effect on the next request, no re-login needed
	resp, _ = ts.request(member, http.MethodGet, "/api/finance/expenses", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = ts.request(member, http.MethodGet, "/api/orders", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "override must not widen beyond the granted capability")

	// clearing the override restores the role defaults
	resp, _ = ts.request(admin, http.MethodPut, fmt.Sprintf("/api/user-permissions/%d", profile.ID), map[string]interface{}{
		"individualPermissions": nil,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = ts.request(member, http.MethodGet, "/api/finance/expenses", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// a malformed override is rejected up front
	resp, _ = ts.request(admin, http.MethodPut, fmt.Sprintf("/api/user-permissions/%d", profile.ID), map[string]interface{}{
		"individualPermissions": map[string]interface{}{"canAccessFinance": "yes"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
