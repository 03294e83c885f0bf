package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"samaj_server/services"
)

// Every endpoint answers {"success":true,...} or {"success":false,"error":...}
// so clients never have to guess at an ambient success flag's shape. The one
// exception is /check-match, whose top-level {matched, match_id} shape is
// parsed positionally by existing clients.

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteData answers a successful request carrying a payload.
func WriteData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// WriteOK answers a successful request with no payload.
func WriteOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// WriteError maps service sentinels to HTTP statuses and answers the tagged
// failure shape.
func WriteError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	})
}

// WriteBadRequest rejects a malformed request body or missing parameter.
func WriteBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrNotAuthorized),
		errors.Is(err, services.ErrNotAMatchParticipant):
		return http.StatusForbidden
	case errors.Is(err, services.ErrAlreadyResolved),
		errors.Is(err, services.ErrDuplicateRequest):
		return http.StatusConflict
	case errors.Is(err, services.ErrEmptyMessage),
		errors.Is(err, services.ErrSelfRequest):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
