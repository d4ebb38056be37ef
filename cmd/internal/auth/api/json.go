package authapi

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Error envelope shared by every non-2xx response:
//
//	{"error": {"code": "...", "message": "..."}}
//
// Codes are stable API surface (invalid_json, invalid_request, login_taken,
// invalid_credentials, unauthorized, add_failed, server_error,
// db_unavailable); messages are advisory and may change.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: apiError{Code: code, Message: msg}})
}

// writeUnauthorized emits a 401 with the Bearer challenge header the login
// contract promises. Callers pick the code/message pair; causes are never
// distinguished beyond that.
func writeUnauthorized(w http.ResponseWriter, code, msg string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, code, msg)
}

// decodeJSON reads exactly one JSON value into dst, rejecting unknown fields,
// oversized bodies, and trailing data. Callers collapse any failure into the
// invalid_json error code, so the returned error text stays server-side.
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data after JSON value")
	}
	return nil
}
