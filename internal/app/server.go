package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rokartur/xcstrings-editor-sub000/internal/auth"
	"github.com/rokartur/xcstrings-editor-sub000/internal/config"
	"github.com/rokartur/xcstrings-editor-sub000/internal/service/workspace"
	"github.com/rokartur/xcstrings-editor-sub000/internal/store"
	"github.com/rokartur/xcstrings-editor-sub000/internal/telemetry"
	"github.com/rokartur/xcstrings-editor-sub000/internal/transport/middleware"
	"github.com/rokartur/xcstrings-editor-sub000/internal/transport/rest"
)

const rateLimitCleanup = 10 * time.Minute

// newHTTPHandler builds the routed, middleware-wrapped API handler. The
// returned func stops background middleware work.
func newHTTPHandler(
	cfg *config.Config,
	logger *slog.Logger,
	ws *workspace.Service,
	st *store.Store,
	metrics *telemetry.Metrics,
	clock clockwork.Clock,
) (http.Handler, func()) {
	handlers := rest.Handlers{
		Catalogs: rest.NewCatalogHandler(ws, logger),
		Health:   rest.NewHealthHandler(st, cfg.Storage.Driver, BuildVersion()),
	}
	if cfg.Metrics.Enabled {
		handlers.Metrics = metrics.Handler()
		handlers.MetricsPath = cfg.Metrics.Path
	}
	mux := rest.NewMux(handlers)

	chain := []middleware.Middleware{
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
	}

	stop := func() {}
	if cfg.Server.RateLimitPerMinute > 0 {
		limiter := middleware.NewRateLimiter(clock, rateLimitCleanup)
		chain = append(chain, limiter.Limit(cfg.Server.RateLimitPerMinute))
		stop = limiter.Stop
	}

	if cfg.Auth.Enabled() {
		tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL, clock)
		public := []string{"/health", "/live", "/ready"}
		if cfg.Metrics.Enabled {
			public = append(public, cfg.Metrics.Path)
		}
		chain = append(chain, middleware.Auth(tokens, public...))
	}

	// Metrics wraps the mux directly so the matched route pattern is visible.
	if cfg.Metrics.Enabled {
		chain = append(chain, middleware.Metrics(metrics))
	}

	handler := middleware.Chain(chain...)(mux)
	if cfg.Server.MaxBodyBytes > 0 {
		handler = http.MaxBytesHandler(handler, cfg.Server.MaxBodyBytes)
	}
	return handler, stop
}
