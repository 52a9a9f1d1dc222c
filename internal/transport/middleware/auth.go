package middleware

import (
	"net/http"
	"strings"

	"github.com/rokartur/xcstrings-editor-sub000/internal/auth"
	"github.com/rokartur/xcstrings-editor-sub000/pkg/ctxutil"
)

type tokenValidator interface {
	ValidateAccessToken(token string) (auth.Identity, error)
}

// Auth requires a valid bearer token on every request except the paths in
// public. Requests that change state also need the write scope.
func Auth(validator tokenValidator, public ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r.URL.Path, public) || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			token := extractBearerToken(r)
			if token == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="catalogs"`)
				writeError(w, r, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}
			id, err := validator.ValidateAccessToken(token)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="catalogs", error="invalid_token"`)
				writeError(w, r, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}
			if !isReadOnly(r.Method) && !id.CanWrite() {
				writeError(w, r, http.StatusForbidden, "forbidden", "token scope does not allow changes")
				return
			}

			ctx := ctxutil.WithSubject(r.Context(), id.Subject, string(id.Scope))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < len("Bearer ") || !strings.EqualFold(h[:len("Bearer ")], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(h[len("Bearer "):])
}

func isPublic(path string, public []string) bool {
	for _, p := range public {
		if path == p {
			return true
		}
	}
	return false
}

func isReadOnly(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
