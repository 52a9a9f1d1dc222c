package rest

import (
	"net/http"
)

// Handlers groups the handlers the router mounts.
type Handlers struct {
	Catalogs *CatalogHandler
	Health   *HealthHandler
	// Metrics is mounted at MetricsPath when set.
	Metrics     http.Handler
	MetricsPath string
}

// NewMux registers every route on a new ServeMux.
func NewMux(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	if h.Metrics != nil && h.MetricsPath != "" {
		mux.Handle("GET "+h.MetricsPath, h.Metrics)
	}

	c := h.Catalogs
	mux.HandleFunc("POST /catalogs", c.Import)
	mux.HandleFunc("GET /catalogs", c.List)
	mux.HandleFunc("GET /catalogs/{id}", c.Get)
	mux.HandleFunc("DELETE /catalogs/{id}", c.Delete)
	mux.HandleFunc("POST /catalogs/{id}/select", c.Select)
	mux.HandleFunc("GET /catalogs/{id}/export", c.Export)
	mux.HandleFunc("GET /catalogs/{id}/summary", c.Summary)
	mux.HandleFunc("POST /catalogs/{id}/restore", c.RestoreAll)
	mux.HandleFunc("POST /catalogs/{id}/languages", c.AddLanguage)
	mux.HandleFunc("DELETE /catalogs/{id}/languages/{locale}", c.RemoveLanguage)

	mux.HandleFunc("GET /catalogs/{id}/entries/{key}", c.GetEntry)
	mux.HandleFunc("PATCH /catalogs/{id}/entries/{key}", c.PatchEntry)
	mux.HandleFunc("PUT /catalogs/{id}/entries/{key}/values/{locale}", c.SetValue)
	mux.HandleFunc("PUT /catalogs/{id}/entries/{key}/comment", c.SetComment)
	mux.HandleFunc("PUT /catalogs/{id}/entries/{key}/states/{locale}", c.SetState)
	mux.HandleFunc("PUT /catalogs/{id}/entries/{key}/translatable", c.SetTranslatable)
	mux.HandleFunc("POST /catalogs/{id}/entries/{key}/restore", c.RestoreKey)
	mux.HandleFunc("POST /catalogs/{id}/entries/{key}/locales/{locale}/restore", c.RestoreField)

	return mux
}
