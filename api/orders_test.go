package api_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder(t *testing.T) {

	ts := newTestServer(t)
	mara := ts.login(marketingEmail)

	// clientName is required
	resp, _ := ts.request(mara, http.MethodPost, "/api/orders", map[string]interface{}{
		"orderNumber": "ORD-1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// order number is generated when absent
	resp, body := ts.request(mara, http.MethodPost, "/api/orders", map[string]interface{}{
		"clientName": "Acme Outdoor",
		"items": []map[string]interface{}{
			{"website": "hikingdaily.com", "keyword": "best trail shoes"},
			{"website": "trailrunner.org"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	order := body["order"].(map[string]interface{})
	assert.True(t, strings.HasPrefix(order["orderNumber"].(string), "ORD-"))
	assert.Equal(t, "active", order["status"])
	require.Len(t, body["items"], 2)
	for _, it := range body["items"].([]interface{}) {
		assert.Equal(t, "not_started", it.(map[string]interface{})["processingStatus"])
	}

	// order numbers are unique
	resp, _ = ts.request(mara, http.MethodPost, "/api/orders", map[string]interface{}{
		"clientName":  "Copycat Ltd",
		"orderNumber": order["orderNumber"],
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestOrderListAndUpdate(t *testing.T) {

	ts := newTestServer(t)
	mara := ts.login(marketingEmail)

	resp, body := ts.request(mara, http.MethodPost, "/api/orders", map[string]interface{}{
		"clientName": "Acme Outdoor",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := int64(body["order"].(map[string]interface{})["id"].(float64))

	resp, _ = ts.request(mara, http.MethodGet, "/api/orders?status=archived", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = ts.request(mara, http.MethodGet, "/api/orders?status=active", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body["orders"], 1)

	// partial update, absent fields stay
	resp, body = ts.request(mara, http.MethodPut, fmt.Sprintf("/api/orders/%d", id), map[string]interface{}{
		"status": "on_hold",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	order := body["order"].(map[string]interface{})
	assert.Equal(t, "on_hold", order["status"])
	assert.Equal(t, "Acme Outdoor", order["clientName"])

	resp, body = ts.request(mara, http.MethodGet, "/api/orders?status=active", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["orders"], 0)

	// items can be added after the fact
	resp, body = ts.request(mara, http.MethodPost, fmt.Sprintf("/api/orders/%d/items", id), map[string]interface{}{
		"website": "lateaddition.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "not_started", body["item"].(map[string]interface{})["processingStatus"])

	resp, _ = ts.request(mara, http.MethodDelete, fmt.Sprintf("/api/orders/%d", id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = ts.request(mara, http.MethodGet, fmt.Sprintf("/api/orders/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
