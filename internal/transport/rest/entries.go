package rest

import (
	"net/http"

	"github.com/rokartur/xcstrings-editor-sub000/internal/catalog"
	"github.com/rokartur/xcstrings-editor-sub000/internal/domain"
)

// entryMutation resolves the session, applies fn and answers with the
// entry as it is afterwards. An entry that no longer exists yields 204.
func (h *CatalogHandler) entryMutation(w http.ResponseWriter, r *http.Request, fn func(sess *catalog.Session, key string) error) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	key := r.PathValue("key")
	if err := fn(sess, key); err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeEntry(w, sess, key)
}

func (h *CatalogHandler) writeEntry(w http.ResponseWriter, sess *catalog.Session, key string) {
	entry, ok := sess.Entry(key)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(entry, sess.IsDirty(key)))
}

// GetEntry handles GET /catalogs/{id}/entries/{key}.
func (h *CatalogHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	key := r.PathValue("key")
	entry, found := sess.Entry(key)
	if !found {
		writeError(w, r, http.StatusNotFound, "not_found", "entry "+key+" not found")
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(entry, sess.IsDirty(key)))
}

// SetValue handles PUT /catalogs/{id}/entries/{key}/values/{locale}.
func (h *CatalogHandler) SetValue(w http.ResponseWriter, r *http.Request) {
	var req valueRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.entryMutation(w, r, func(sess *catalog.Session, key string) error {
		return sess.SetValue(key, r.PathValue("locale"), req.Value)
	})
}

// SetComment handles PUT /catalogs/{id}/entries/{key}/comment.
func (h *CatalogHandler) SetComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.entryMutation(w, r, func(sess *catalog.Session, key string) error {
		return sess.SetComment(key, req.Comment)
	})
}

// SetState handles PUT /catalogs/{id}/entries/{key}/states/{locale}.
func (h *CatalogHandler) SetState(w http.ResponseWriter, r *http.Request) {
	var req stateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.entryMutation(w, r, func(sess *catalog.Session, key string) error {
		return sess.SetState(key, r.PathValue("locale"), domain.ReviewState(req.State))
	})
}

// SetTranslatable handles PUT /catalogs/{id}/entries/{key}/translatable.
func (h *CatalogHandler) SetTranslatable(w http.ResponseWriter, r *http.Request) {
	var req translatableRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ShouldTranslate == nil {
		h.handleError(w, r, domain.NewValidationError("shouldTranslate", "required"))
		return
	}
	h.entryMutation(w, r, func(sess *catalog.Session, key string) error {
		return sess.SetShouldTranslate(key, *req.ShouldTranslate)
	})
}

// PatchEntry handles PATCH /catalogs/{id}/entries/{key} with an RFC 6902
// document against the file form of the entry.
func (h *CatalogHandler) PatchEntry(w http.ResponseWriter, r *http.Request) {
	patch, ok := readBody(w, r)
	if !ok {
		return
	}
	h.entryMutation(w, r, func(sess *catalog.Session, key string) error {
		return sess.PatchEntry(key, patch)
	})
}

// RestoreKey handles POST /catalogs/{id}/entries/{key}/restore.
func (h *CatalogHandler) RestoreKey(w http.ResponseWriter, r *http.Request) {
	h.entryMutation(w, r, func(sess *catalog.Session, key string) error {
		return sess.RestoreKey(key)
	})
}

// RestoreField handles POST /catalogs/{id}/entries/{key}/locales/{locale}/restore.
func (h *CatalogHandler) RestoreField(w http.ResponseWriter, r *http.Request) {
	h.entryMutation(w, r, func(sess *catalog.Session, key string) error {
		return sess.RestoreField(key, r.PathValue("locale"))
	})
}
