package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rokartur/xcstrings-editor-sub000/internal/auth"
	"github.com/rokartur/xcstrings-editor-sub000/internal/domain"
	"github.com/rokartur/xcstrings-editor-sub000/pkg/ctxutil"
)

func newValidator() *tokenValidatorMock {
	return &tokenValidatorMock{
		ValidateAccessTokenFunc: func(token string) (auth.Identity, error) {
			switch token {
			case "writer-token":
				return auth.Identity{Subject: "writer", Scope: auth.ScopeWrite}, nil
			case "reader-token":
				return auth.Identity{Subject: "reader", Scope: auth.ScopeRead}, nil
			}
			return auth.Identity{}, domain.ErrUnauthorized
		},
	}
}

func TestAuth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		method      string
		path        string
		header      string
		wantStatus  int
		wantSubject string
		wantCalls   int
	}{
		{name: "valid write token", method: http.MethodPut, path: "/catalogs/x", header: "Bearer writer-token", wantStatus: http.StatusOK, wantSubject: "writer", wantCalls: 1},
		{name: "read token on read", method: http.MethodGet, path: "/catalogs", header: "Bearer reader-token", wantStatus: http.StatusOK, wantSubject: "reader", wantCalls: 1},
		{name: "read token on write", method: http.MethodDelete, path: "/catalogs/x", header: "Bearer reader-token", wantStatus: http.StatusForbidden, wantCalls: 1},
		{name: "invalid token", method: http.MethodGet, path: "/catalogs", header: "Bearer nope", wantStatus: http.StatusUnauthorized, wantCalls: 1},
		{name: "missing header", method: http.MethodGet, path: "/catalogs", wantStatus: http.StatusUnauthorized},
		{name: "basic auth", method: http.MethodGet, path: "/catalogs", header: "Basic dXNlcjpwYXNz", wantStatus: http.StatusUnauthorized},
		{name: "public path", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
		{name: "preflight", method: http.MethodOptions, path: "/catalogs", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			validator := newValidator()

			var gotSubject string
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotSubject, _ = ctxutil.SubjectFromCtx(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			Auth(validator, "/health")(handler).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if gotSubject != tt.wantSubject {
				t.Errorf("subject = %q, want %q", gotSubject, tt.wantSubject)
			}
			if n := len(validator.ValidateAccessTokenCalls()); n != tt.wantCalls {
				t.Errorf("validator calls = %d, want %d", n, tt.wantCalls)
			}
			if rec.Code == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("expected WWW-Authenticate on 401")
			}
		})
	}
}

func TestAuth_ValidatorErrorNotLeaked(t *testing.T) {
	t.Parallel()
	validator := &tokenValidatorMock{
		ValidateAccessTokenFunc: func(string) (auth.Identity, error) {
			return auth.Identity{}, errors.New("signature secret mismatch")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/catalogs", nil)
	req.Header.Set("Authorization", "Bearer x")
	rec := httptest.NewRecorder()
	Auth(validator)(http.NotFoundHandler()).ServeHTTP(rec, req)

	if body := rec.Body.String(); body == "" || strings.Contains(body, "secret") {
		t.Errorf("unexpected body %q", body)
	}
}

func TestExtractBearerToken_Cases(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"empty header", "", ""},
		{"bearer with token", "Bearer valid-token", "valid-token"},
		{"bearer lowercase", "bearer valid-token", "valid-token"},
		{"bearer mixed case", "BEARER valid-token", "valid-token"},
		{"basic auth", "Basic dXNlcjpwYXNz", ""},
		{"bearer no space", "Bearertoken", ""},
		{"bearer empty token", "Bearer ", ""},
		{"just bearer", "Bearer", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if got := extractBearerToken(req); got != tc.want {
				t.Errorf("extractBearerToken(%q) = %q, want %q", tc.header, got, tc.want)
			}
		})
	}
}
