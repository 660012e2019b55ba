package response

import (
	"encoding/json"
	"net/http"
)

// Error is the JSON body returned on every failure path.
type Error struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a failure response with the given user-facing message.
// Messages are chosen at the call site; underlying errors are logged
// server-side and never included here.
func WriteError(w http.ResponseWriter, status int, message string) error {
	return WriteJSON(w, status, Error{Error: message})
}
