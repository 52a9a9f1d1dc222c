package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/rokartur/xcstrings-editor-sub000/pkg/ctxutil"
)

// writeError writes the API error envelope used by the REST handlers.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	body := map[string]string{"code": code, "message": message}
	if id := ctxutil.RequestIDFromCtx(r.Context()); id != "" {
		body["request_id"] = id
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": body})
}
