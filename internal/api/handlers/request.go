package handlers

import (
	"encoding/json"
	"net/http"
)

const maxBodyBytes = 1 << 20

// DecodeJSON reads the request body into v. On failure it writes a
// ValidationError response and returns false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteError(w, http.StatusBadRequest, KindValidation, "Invalid request body")
		return false
	}
	return true
}
