package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rokartur/xcstrings-editor-sub000/internal/adapter/memory"
	"github.com/rokartur/xcstrings-editor-sub000/internal/auth"
	"github.com/rokartur/xcstrings-editor-sub000/internal/config"
	"github.com/rokartur/xcstrings-editor-sub000/internal/service/workspace"
	"github.com/rokartur/xcstrings-editor-sub000/internal/store"
	"github.com/rokartur/xcstrings-editor-sub000/internal/telemetry"
)

const testSecret = "an-api-secret-that-is-long-enough-to-pass"

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{MaxBodyBytes: 1 << 20},
		Storage: config.StorageConfig{Driver: config.DriverMemory},
		CORS:    config.CORSConfig{AllowedOrigins: "*"},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
		Auth:    config.AuthConfig{JWTIssuer: "xcstrings-editor", AccessTokenTTL: time.Hour},
	}
}

func newTestHandler(t *testing.T, cfg *config.Config, clock clockwork.Clock) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.New(logger, memory.NewKVStore(), clock)
	ws := workspace.NewService(logger, st, nil, nil)
	t.Cleanup(ws.Close)

	handler, stop := newHTTPHandler(cfg, logger, ws, st, telemetry.New(), clock)
	t.Cleanup(stop)
	return handler
}

func serve(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHTTPHandler_Open(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t, testConfig(), clockwork.NewFakeClock())

	rec := serve(h, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = serve(h, http.MethodGet, "/catalogs", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = serve(h, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `xcstrings_http_requests_total{method="GET",route="GET /catalogs",status="2xx"} 1`)
}

func TestHTTPHandler_Auth(t *testing.T) {
	t.Parallel()
	clock := clockwork.NewFakeClock()
	cfg := testConfig()
	cfg.Auth.JWTSecret = testSecret
	h := newTestHandler(t, cfg, clock)

	tokens := auth.NewJWTManager(testSecret, cfg.Auth.JWTIssuer, time.Hour, clock)
	reader, err := tokens.GenerateAccessToken("reviewer", auth.ScopeRead)
	require.NoError(t, err)
	writer, err := tokens.GenerateAccessToken("translator", auth.ScopeWrite)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/metrics", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(h, http.MethodGet, "/catalogs", "", "").Code)
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/catalogs", reader, "").Code)

	body := `{"fileName":"L.xcstrings","content":"{\"sourceLanguage\":\"en\",\"strings\":{}}"}`
	assert.Equal(t, http.StatusForbidden, serve(h, http.MethodPost, "/catalogs", reader, body).Code)
	assert.Equal(t, http.StatusCreated, serve(h, http.MethodPost, "/catalogs", writer, body).Code)
}

func TestHTTPHandler_Limits(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.Server.MaxBodyBytes = 64
	cfg.Server.RateLimitPerMinute = 2
	h := newTestHandler(t, cfg, clockwork.NewFakeClock())

	rec := serve(h, http.MethodPost, "/catalogs", "", `{"fileName":"L.xcstrings","content":"`+strings.Repeat("x", 128)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/catalogs", "", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(h, http.MethodGet, "/catalogs", "", "").Code)
}
