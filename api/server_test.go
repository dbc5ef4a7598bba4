package api_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/aggrandize/agencydesk/api"
	"github.com/aggrandize/agencydesk/core"
	"github.com/aggrandize/agencydesk/sqldb"
	"github.com/aggrandize/agencydesk/sqldb/sqlite3"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// seeded accounts, password is the local part + "-pass"
const (
	adminEmail      = "boss@agency.test"
	processingEmail = "pat@agency.test"
	otherProcessing = "sam@agency.test"
	marketingEmail  = "mara@agency.test"
	memberEmail     = "new.hire@agency.test"
)

type testServer struct {
	t     *testing.T
	db    *core.CoreDB
	sqlDB *sql.DB
	srv   *httptest.Server
}

var dbSeq int64

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	// a named shared-cache memory db survives across connections
	dsn := fmt.Sprintf("file:apitest%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	sqlDB, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)

	db := &core.CoreDB{}
	db.Allowlists = core.Allowlists{
		CompanyDomain: "agency.test",
		Admins:        []string{adminEmail},
		Marketing:     []string{marketingEmail},
		Processing:    []string{processingEmail, otherProcessing},
	}
	require.NoError(t, db.Init(sqlite3.NewSessionStore(sqlDB), ""))

	db.UserDB = sqldb.NewUserDB(sqlDB)
	db.OrderDB = sqldb.NewOrderDB(sqlDB)
	db.InventoryDB = sqldb.NewInventoryDB(sqlDB)
	itemDB := sqldb.NewItemDB(sqlDB)
	db.ItemDB = itemDB
	db.PaymentDB = sqldb.NewPaymentDB(sqlDB, itemDB)
	db.FinanceDB = sqldb.NewFinanceDB(sqlDB)
	db.SqlDB = sqlDB

	srv := httptest.NewServer(db.SessionManager.LoadAndSave(api.NewRouter(db)))
	t.Cleanup(func() {
		srv.Close()
		sqlDB.Close()
	})

	ts := &testServer{t: t, db: db, sqlDB: sqlDB, srv: srv}
	for _, email := range []string{adminEmail, processingEmail, otherProcessing, marketingEmail, memberEmail} {
		ts.addUser(email)
	}
	return ts
}

func passwordFor(email string) string {
	for i, r := range email {
		if r == '@' {
			return email[:i] + "-pass"
		}
	}
	return email + "-pass"
}

func (ts *testServer) addUser(email string) {
	ts.t.Helper()
	role, err := ts.db.Allowlists.ResolveRole(email)
	require.NoError(ts.t, err)
	profile, err := ts.db.UpsertProfile(email, "", role)
	require.NoError(ts.t, err)
	require.NoError(ts.t, ts.db.SetPassword(profile.ID, passwordFor(email)))
}

// login returns an http client holding the session cookie of the user.
func (ts *testServer) login(email string) *http.Client {
	ts.t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(ts.t, err)
	client := &http.Client{Jar: jar}

	resp, _ := ts.request(client, http.MethodPost, "/api/login", map[string]interface{}{
		"email":    email,
		"password": passwordFor(email),
	})
	require.Equal(ts.t, http.StatusOK, resp.StatusCode, "login as %s", email)
	return client
}

// request performs a JSON request and decodes the JSON response body.
func (ts *testServer) request(client *http.Client, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	ts.t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		require.NoError(ts.t, json.NewEncoder(&reqBody).Encode(body))
	}

	req, err := http.NewRequest(method, ts.srv.URL+path, &reqBody)
	require.NoError(ts.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(ts.t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded) // some responses are CSV
	return resp, decoded
}

// createOrderWithItem seeds one order with one item and returns the item id.
func (ts *testServer) createOrderWithItem(admin *http.Client) int64 {
	ts.t.Helper()
	resp, body := ts.request(admin, http.MethodPost, "/api/orders", map[string]interface{}{
		"clientName": "Acme Outdoor",
		"items": []map[string]interface{}{
			{"website": "hikingdaily.com", "keyword": "best trail shoes", "clientUrl": "https://acme.example/shoes"},
		},
	})
	require.Equal(ts.t, http.StatusCreated, resp.StatusCode)
	items := body["items"].([]interface{})
	require.Len(ts.t, items, 1)
	return int64(items[0].(map[string]interface{})["id"].(float64))
}

// assign hands the item to a processing member as admin.
func (ts *testServer) assign(admin *http.Client, itemID int64, email string) {
	ts.t.Helper()
	resp, _ := ts.request(admin, http.MethodPost, fmt.Sprintf("/api/processing/%d/assign", itemID), map[string]interface{}{
		"assignedTo": email,
		"priority":   "high",
	})
	require.Equal(ts.t, http.StatusOK, resp.StatusCode)
}

// itemStatus reads the processing status straight from the store.
func (ts *testServer) itemStatus(itemID int64) core.ProcessingStatus {
	ts.t.Helper()
	item, err := ts.db.GetItem(itemID)
	require.NoError(ts.t, err)
	return item.ProcessingStatus
}
