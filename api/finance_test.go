package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseCRUD(t *testing.T) {

	ts := newTestServer(t)
	admin := ts.login(adminEmail)

	// missing required fields
	resp, _ := ts.request(admin, http.MethodPost, "/api/finance/expenses", map[string]interface{}{
		"amount": 25.0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := ts.request(admin, http.MethodPost, "/api/finance/expenses", map[string]interface{}{
		"date":        "2026-08-20",
		"category":    "software",
		"description": "Ahrefs one-off report",
		"amount":      25.0,
		"paidBy":      processingEmail,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	expense := body["expense"].(map[string]interface{})
	id := int64(expense["id"].(float64))
	assert.Equal(t, false, expense["settled"])

	// partial update, only the settled flag
	resp, body = ts.request(admin, http.MethodPut, fmt.Sprintf("/api/finance/expenses/%d", id), map[string]interface{}{
		"settled": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	expense = body["expense"].(map[string]interface{})
	assert.Equal(t, true, expense["settled"])
	assert.Equal(t, "software", expense["category"])
	assert.Equal(t, 25.0, expense["amount"])

	resp, body = ts.request(admin, http.MethodGet, "/api/finance/expenses", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body["expenses"], 1)

	resp, _ = ts.request(admin, http.MethodDelete, fmt.Sprintf("/api/finance/expenses/%d", id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = ts.request(admin, http.MethodDelete, fmt.Sprintf("/api/finance/expenses/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSubscriptionValidation(t *testing.T) {

	ts := newTestServer(t)
	admin := ts.login(adminEmail)

	resp, _ := ts.request(admin, http.MethodPost, "/api/finance/subscriptions", map[string]interface{}{
		"service": "Ahrefs", "monthlyCost": 199.0, "renewalDay": 32,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := ts.request(admin, http.MethodPost, "/api/finance/subscriptions", map[string]interface{}{
		"service": "Ahrefs", "plan": "Standard", "monthlyCost": 199.0, "renewalDay": 15, "active": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := int64(body["subscription"].(map[string]interface{})["id"].(float64))

	// an update may not push the renewal day out of range either
	resp, _ = ts.request(admin, http.MethodPut, fmt.Sprintf("/api/finance/subscriptions/%d", id), map[string]interface{}{
		"renewalDay": 0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// TestSalaryPaymentUniqueMonth: one salary row per employee and month.
func TestSalaryPaymentUniqueMonth(t *testing.T) {

	ts := newTestServer(t)
	admin := ts.login(adminEmail)

	payment := map[string]interface{}{
		"employee": processingEmail, "month": "2026-08", "amount": 2400.0,
	}
	resp, _ := ts.request(admin, http.MethodPost, "/api/finance/salaries", payment)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = ts.request(admin, http.MethodPost, "/api/finance/salaries", payment)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// a different month is fine
	payment["month"] = "2026-09"
	resp, _ = ts.request(admin, http.MethodPost, "/api/finance/salaries", payment)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestUtilityBillPaidFlow(t *testing.T) {

	ts := newTestServer(t)
	admin := ts.login(adminEmail)

	resp, body := ts.request(admin, http.MethodPost, "/api/finance/utility-bills", map[string]interface{}{
		"provider": "CityPower", "billMonth": "2026-08", "amount": 120.50, "dueDate": "2026-09-05",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := int64(body["utilityBill"].(map[string]interface{})["id"].(float64))

	resp, body = ts.request(admin, http.MethodPut, fmt.Sprintf("/api/finance/utility-bills/%d", id), map[string]interface{}{
		"paid": true, "paidOn": "2026-08-28",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	bill := body["utilityBill"].(map[string]interface{})
	assert.Equal(t, true, bill["paid"])
	assert.Equal(t, "2026-08-28", bill["paidOn"])
	assert.Equal(t, 120.50, bill["amount"])
}
