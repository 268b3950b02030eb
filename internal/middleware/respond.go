package middleware

import (
	"encoding/json"
	"net/http"
)

// writeJSONError writes the API's standard error body. Middleware cannot
// import the handlers package, so the shape is duplicated here.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
