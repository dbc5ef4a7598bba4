package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/aggrandize/agencydesk/core"
	"github.com/julienschmidt/httprouter"
)

// envelope is the response body shape: {"success": true, ...payload} on
// success, {"error": "...", "details": ...} on failure.
type envelope map[string]interface{}

func respond(w http.ResponseWriter, status int, payload envelope) {
	body := envelope{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// respondError renders the taxonomy sentinels with their message and hides
// everything else behind a generic body, so driver errors never leak.
func respondError(w http.ResponseWriter, db *core.CoreDB, err error) {
	status := core.HTTPStatus(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		db.Logger.Errorw("internal error", "err", err)
		message = "internal server error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{"error": message})
}

func decodeBody(req *http.Request, v interface{}) error {
	dec := json.NewDecoder(req.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", core.ErrValidation, err)
	}
	return nil
}

func pathID(params httprouter.Params, name string) (int64, error) {
	id, err := strconv.ParseInt(params.ByName(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", core.ErrValidation, name)
	}
	return id, nil
}

// pagination reads limit/offset query parameters with defaults.
func pagination(req *http.Request) (limit, offset int) {
	limit = 50
	if v, err := strconv.Atoi(req.URL.Query().Get("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	if v, err := strconv.Atoi(req.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
