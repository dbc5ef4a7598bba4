package api_test

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedInventory(ts *testServer, client *http.Client) {
	ts.t.Helper()
	sites := []map[string]interface{}{
		{"website": "hikingdaily.com", "niche": "Outdoor", "language": "en", "country": "US",
			"domainRating": 72, "organicTraffic": 74000, "basePrice": 180.0, "dofollow": true, "status": "active"},
		{"website": "cryptoherald.io", "niche": "Finance", "language": "en", "country": "UK",
			"domainRating": 55, "organicTraffic": 12000, "basePrice": 90.0, "acceptsCrypto": true, "acceptsCasino": true, "status": "active"},
		{"website": "kochblog.de", "niche": "Food", "language": "de", "country": "DE",
			"domainRating": 38, "organicTraffic": 5400, "basePrice": 45.0, "dofollow": true, "status": "paused"},
	}
	for _, s := range sites {
		resp, body := ts.request(client, http.MethodPost, "/api/inventory", s)
		require.Equal(ts.t, http.StatusCreated, resp.StatusCode, "%v: %v", s["website"], body["error"])
	}
}

func TestInventoryFilters(t *testing.T) {

	ts := newTestServer(t)
	mara := ts.login(marketingEmail)
	seedInventory(ts, mara)

	cases := []struct {
		query string
		want  []string
	}{
		{"", []string{"hikingdaily.com", "cryptoherald.io", "kochblog.de"}},
		{"?minDomainRating=50", []string{"hikingdaily.com", "cryptoherald.io"}},
		{"?minDomainRating=50&maxDomainRating=60", []string{"cryptoherald.io"}},
		{"?niche=Outdoor", []string{"hikingdaily.com"}},
		{"?language=de", []string{"kochblog.de"}},
		{"?acceptsCasino=true", []string{"cryptoherald.io"}},
		{"?acceptsCasino=false", []string{"hikingdaily.com", "kochblog.de"}},
		{"?dofollow=true&status=active", []string{"hikingdaily.com"}},
		{"?search=herald", []string{"cryptoherald.io"}},
		{"?search=HIKING", []string{"hikingdaily.com"}}, // search is case-insensitive
		{"?minBasePrice=50&maxBasePrice=100", []string{"cryptoherald.io"}},
		{"?minTraffic=60000", []string{"hikingdaily.com"}},
		{"?status=paused", []string{"kochblog.de"}},
		{"?minDomainRating=99", nil},
	}
	for _, tc := range cases {
		resp, body := ts.request(mara, http.MethodGet, "/api/inventory"+tc.query, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, tc.query)

		var got []string
		for _, s := range body["sites"].([]interface{}) {
			got = append(got, s.(map[string]interface{})["website"].(string))
		}
		assert.ElementsMatch(t, tc.want, got, tc.query)
		assert.Equal(t, float64(len(tc.want)), body["total"], tc.query)
	}

	// invalid numeric parameter
	resp, _ := ts.request(mara, http.MethodGet, "/api/inventory?minDomainRating=high", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInventorySort(t *testing.T) {

	ts := newTestServer(t)
	mara := ts.login(marketingEmail)
	seedInventory(ts, mara)

	resp, body := ts.request(mara, http.MethodGet, "/api/inventory?sortBy=domainRating&sortDesc=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	sites := body["sites"].([]interface{})
	require.Len(t, sites, 3)
	assert.Equal(t, "hikingdaily.com", sites[0].(map[string]interface{})["website"])
	assert.Equal(t, "kochblog.de", sites[2].(map[string]interface{})["website"])

	// unknown sort columns are rejected, not passed into SQL
	resp, _ = ts.request(mara, http.MethodGet, "/api/inventory?sortBy=website;drop", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// TestInventoryNormalizedDuplicate: urls are normalized to the bare domain,
// so re-adding a known site under a prefixed url is a conflict.
func TestInventoryNormalizedDuplicate(t *testing.T) {

	ts := newTestServer(t)
	mara := ts.login(marketingEmail)
	seedInventory(ts, mara)

	resp, body := ts.request(mara, http.MethodPost, "/api/inventory", map[string]interface{}{
		"website": "https://www.hikingdaily.com/",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestInventoryUpdateAndDelete(t *testing.T) {

	ts := newTestServer(t)
	mara := ts.login(marketingEmail)

	resp, body := ts.request(mara, http.MethodPost, "/api/inventory", map[string]interface{}{
		"website": "slowtravel.net", "basePrice": 60.0, "status": "active",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := int64(body["site"].(map[string]interface{})["id"].(float64))

	// partial update keeps absent fields
	resp, body = ts.request(mara, http.MethodPut, fmt.Sprintf("/api/inventory/%d", id), map[string]interface{}{
		"basePrice": 75.0,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	site := body["site"].(map[string]interface{})
	assert.Equal(t, 75.0, site["basePrice"])
	assert.Equal(t, "slowtravel.net", site["website"])
	assert.Equal(t, "active", site["status"])

	resp, _ = ts.request(mara, http.MethodDelete, fmt.Sprintf("/api/inventory/%d", id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = ts.request(mara, http.MethodGet, fmt.Sprintf("/api/inventory/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInventoryExportCSV(t *testing.T) {

	ts := newTestServer(t)
	mara := ts.login(marketingEmail)
	seedInventory(ts, mara)

	resp, err := mara.Get(ts.srv.URL + "/api/inventory-export?minDomainRating=50")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "inventory.csv")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(string(raw))).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3) // header + 2 matches
	assert.Equal(t, "website", records[0][0])
	var websites []string
	for _, rec := range records[1:] {
		websites = append(websites, rec[0])
	}
	assert.ElementsMatch(t, []string{"hikingdaily.com", "cryptoherald.io"}, websites)
}

func TestInventoryExportJSON(t *testing.T) {

	ts := newTestServer(t)
	mara := ts.login(marketingEmail)
	seedInventory(ts, mara)

	resp, body := ts.request(mara, http.MethodGet, "/api/inventory-export?format=json&niche=Food", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sites := body["sites"].([]interface{})
	require.Len(t, sites, 1)
	assert.Equal(t, "kochblog.de", sites[0].(map[string]interface{})["website"])

	resp, _ = ts.request(mara, http.MethodGet, "/api/inventory-export?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
