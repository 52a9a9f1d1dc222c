package rest

import (
	"context"
	"log/slog"
	"mime"
	"net/http"

	"github.com/rokartur/xcstrings-editor-sub000/internal/catalog"
	"github.com/rokartur/xcstrings-editor-sub000/internal/domain"
	"github.com/rokartur/xcstrings-editor-sub000/internal/service/workspace"
)

// activeAlias addresses the active catalog in place of an id.
const activeAlias = "active"

// workspaceService defines the minimal interface needed by CatalogHandler.
type workspaceService interface {
	Import(ctx context.Context, in workspace.ImportInput) (*catalog.Session, error)
	Open(ctx context.Context, id string) (*catalog.Session, error)
	Select(ctx context.Context, id string) (*catalog.Session, error)
	Active(ctx context.Context) (*catalog.Session, error)
	List(ctx context.Context) []workspace.CatalogInfo
	Remove(ctx context.Context, id string) error
}

// CatalogHandler serves the catalog and entry endpoints.
type CatalogHandler struct {
	svc workspaceService
	log *slog.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(svc workspaceService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{svc: svc, log: logger.With("handler", "catalog")}
}

// session resolves the {id} path value, accepting "active".
func (h *CatalogHandler) session(w http.ResponseWriter, r *http.Request) (*catalog.Session, bool) {
	id := r.PathValue("id")
	var (
		sess *catalog.Session
		err  error
	)
	if id == activeAlias {
		sess, err = h.svc.Active(r.Context())
	} else {
		sess, err = h.svc.Open(r.Context(), id)
	}
	if err != nil {
		h.handleError(w, r, err)
		return nil, false
	}
	return sess, true
}

func (h *CatalogHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	handleError(h.log, w, r, err)
}

// Import handles POST /catalogs.
func (h *CatalogHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	in := workspace.ImportInput{
		FileName: req.FileName,
		Content:  req.Content,
		Source:   req.Source.toDomain(),
	}
	if req.ProjectFile != nil {
		in.ProjectFile = &domain.ProjectFile{
			Name:            req.ProjectFile.Name,
			Content:         req.ProjectFile.Content,
			OriginalContent: req.ProjectFile.Content,
		}
	}

	sess, err := h.svc.Import(r.Context(), in)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	w.Header().Set("Location", "/catalogs/"+sess.ID())
	writeJSON(w, http.StatusCreated, toCatalogResponse(sess, true))
}

// List handles GET /catalogs.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	infos := h.svc.List(r.Context())
	out := make([]catalogInfoResponse, 0, len(infos))
	for _, info := range infos {
		out = append(out, toCatalogInfo(info))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /catalogs/{id}. ?entries=false omits the entry list.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toCatalogResponse(sess, r.URL.Query().Get("entries") != "false"))
}

// Delete handles DELETE /catalogs/{id}.
func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Remove(r.Context(), r.PathValue("id")); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Select handles POST /catalogs/{id}/select.
func (h *CatalogHandler) Select(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Select(r.Context(), r.PathValue("id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCatalogResponse(sess, false))
}

// Export handles GET /catalogs/{id}/export. The body is the catalog file.
func (h *CatalogHandler) Export(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	out := sess.Export()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if out.FileName != "" {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": out.FileName}))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out.Content))
}

// Summary handles GET /catalogs/{id}/summary.
func (h *CatalogHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toSummaryResponse(sess.Summary()))
}

// RestoreAll handles POST /catalogs/{id}/restore.
func (h *CatalogHandler) RestoreAll(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := sess.RestoreAll(); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCatalogResponse(sess, false))
}

// AddLanguage handles POST /catalogs/{id}/languages.
func (h *CatalogHandler) AddLanguage(w http.ResponseWriter, r *http.Request) {
	var req languageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	added, err := sess.AddLanguage(req.Locale)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, languagesResponse{Changed: added, Languages: nonNil(sess.Languages())})
}

// RemoveLanguage handles DELETE /catalogs/{id}/languages/{locale}.
func (h *CatalogHandler) RemoveLanguage(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	locale := r.PathValue("locale")
	removed, err := sess.RemoveLanguage(locale)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if !removed && domain.EqualLocale(domain.NormalizeLocale(locale), sess.SourceLanguage()) {
		writeError(w, r, http.StatusConflict, "source_language", "the source language cannot be removed")
		return
	}
	writeJSON(w, http.StatusOK, languagesResponse{Changed: removed, Languages: nonNil(sess.Languages())})
}
