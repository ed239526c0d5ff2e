package shared

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// Stable error messages returned at the HTTP boundary.
const (
	ErrMsgNotFound         = "Document not found"
	ErrMsgInternal         = "Internal server error"
	ErrMsgMethodNotAllowed = "Method not allowed"
)

type errorBody struct {
	Error string `json:"error"`
}

// WriteJSONError writes {"error": msg} with the given status and a JSON content type.
func WriteJSONError(w http.ResponseWriter, status int, msg string) {
	body, _ := json.Marshal(errorBody{Error: msg})
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	w.Write(body)
}
