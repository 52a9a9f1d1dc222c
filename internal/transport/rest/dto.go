package rest

import (
	"time"

	"github.com/rokartur/xcstrings-editor-sub000/internal/catalog"
	"github.com/rokartur/xcstrings-editor-sub000/internal/domain"
	"github.com/rokartur/xcstrings-editor-sub000/internal/service/workspace"
)

// ---------------------------------------------------------------------------
// Requests
// ---------------------------------------------------------------------------

type importRequest struct {
	FileName    string              `json:"fileName"`
	Content     string              `json:"content"`
	Source      *sourceBody         `json:"source,omitempty"`
	ProjectFile *projectFileRequest `json:"projectFile,omitempty"`
}

type projectFileRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type valueRequest struct {
	Value string `json:"value"`
}

type commentRequest struct {
	Comment string `json:"comment"`
}

type stateRequest struct {
	State string `json:"state"`
}

type translatableRequest struct {
	ShouldTranslate *bool `json:"shouldTranslate"`
}

type languageRequest struct {
	Locale string `json:"locale"`
}

// ---------------------------------------------------------------------------
// Responses
// ---------------------------------------------------------------------------

type sourceBody struct {
	Kind       string `json:"kind"`
	Path       string `json:"path,omitempty"`
	Repository string `json:"repository,omitempty"`
	Branch     string `json:"branch,omitempty"`
	Revision   string `json:"revision,omitempty"`
}

type projectFileResponse struct {
	Name  string `json:"name"`
	Dirty bool   `json:"dirty"`
}

type catalogInfoResponse struct {
	ID           string      `json:"id"`
	FileName     string      `json:"fileName"`
	CreatedAt    time.Time   `json:"createdAt"`
	LastOpenedAt time.Time   `json:"lastOpenedAt"`
	Source       *sourceBody `json:"source,omitempty"`
	Active       bool        `json:"active"`
	Open         bool        `json:"open"`
	DirtyKeys    int         `json:"dirtyKeys"`
}

type catalogResponse struct {
	ID             string               `json:"id"`
	FileName       string               `json:"fileName"`
	SourceLanguage string               `json:"sourceLanguage,omitempty"`
	Languages      []string             `json:"languages"`
	DirtyKeys      []string             `json:"dirtyKeys"`
	DocumentDirty  bool                 `json:"documentDirty"`
	Source         *sourceBody          `json:"source,omitempty"`
	ProjectFile    *projectFileResponse `json:"projectFile,omitempty"`
	Entries        []entryResponse      `json:"entries,omitempty"`
}

type entryResponse struct {
	Key             string            `json:"key"`
	Comment         string            `json:"comment,omitempty"`
	Values          map[string]string `json:"values"`
	States          map[string]string `json:"states,omitempty"`
	ExtractionState string            `json:"extractionState,omitempty"`
	ShouldTranslate bool              `json:"shouldTranslate"`
	Dirty           bool              `json:"dirty"`
}

type languagesResponse struct {
	Changed   bool     `json:"changed"`
	Languages []string `json:"languages"`
}

type summaryResponse struct {
	ChangedKeys      []string `json:"changedKeys"`
	Added            []string `json:"added"`
	Removed          []string `json:"removed"`
	Modified         []string `json:"modified"`
	Locales          []string `json:"locales"`
	AddedLanguages   []string `json:"addedLanguages"`
	RemovedLanguages []string `json:"removedLanguages"`
	Title            string   `json:"title"`
	Body             string   `json:"body"`
}

// ---------------------------------------------------------------------------
// Converters
// ---------------------------------------------------------------------------

func (b *sourceBody) toDomain() *domain.CatalogSource {
	if b == nil {
		return nil
	}
	return &domain.CatalogSource{
		Kind:       domain.SourceKind(b.Kind),
		Path:       b.Path,
		Repository: b.Repository,
		Branch:     b.Branch,
		Revision:   b.Revision,
	}
}

func toSourceBody(s *domain.CatalogSource) *sourceBody {
	if s == nil {
		return nil
	}
	return &sourceBody{
		Kind:       s.Kind.String(),
		Path:       s.Path,
		Repository: s.Repository,
		Branch:     s.Branch,
		Revision:   s.Revision,
	}
}

func toCatalogInfo(info workspace.CatalogInfo) catalogInfoResponse {
	return catalogInfoResponse{
		ID:           info.ID,
		FileName:     info.FileName,
		CreatedAt:    info.CreatedAt,
		LastOpenedAt: info.LastOpenedAt,
		Source:       toSourceBody(info.Source),
		Active:       info.Active,
		Open:         info.Open,
		DirtyKeys:    info.DirtyKeys,
	}
}

func toCatalogResponse(sess *catalog.Session, withEntries bool) catalogResponse {
	dirty := sess.DirtyKeys()
	resp := catalogResponse{
		ID:             sess.ID(),
		FileName:       sess.FileName(),
		SourceLanguage: sess.SourceLanguage(),
		Languages:      nonNil(sess.Languages()),
		DirtyKeys:      nonNil(dirty),
		DocumentDirty:  sess.DocumentDirty(),
		Source:         toSourceBody(sess.Source()),
	}
	if pf := sess.ProjectFile(); pf != nil {
		resp.ProjectFile = &projectFileResponse{Name: pf.Name, Dirty: pf.Dirty}
	}
	if withEntries {
		dirtySet := make(map[string]bool, len(dirty))
		for _, k := range dirty {
			dirtySet[k] = true
		}
		entries := sess.Entries()
		resp.Entries = make([]entryResponse, 0, len(entries))
		for _, e := range entries {
			resp.Entries = append(resp.Entries, toEntryResponse(e, dirtySet[e.Key]))
		}
	}
	return resp
}

func toEntryResponse(e domain.CatalogEntry, dirty bool) entryResponse {
	resp := entryResponse{
		Key:             e.Key,
		Comment:         e.Comment,
		Values:          e.Values,
		ExtractionState: string(e.ExtractionState),
		ShouldTranslate: e.ShouldTranslate,
		Dirty:           dirty,
	}
	if resp.Values == nil {
		resp.Values = map[string]string{}
	}
	if len(e.States) > 0 {
		resp.States = make(map[string]string, len(e.States))
		for locale, state := range e.States {
			resp.States[locale] = state.String()
		}
	}
	return resp
}

func toSummaryResponse(sum catalog.ChangeSummary) summaryResponse {
	return summaryResponse{
		ChangedKeys:      nonNil(sum.ChangedKeys),
		Added:            nonNil(sum.Added),
		Removed:          nonNil(sum.Removed),
		Modified:         nonNil(sum.Modified),
		Locales:          nonNil(sum.Locales),
		AddedLanguages:   nonNil(sum.AddedLanguages),
		RemovedLanguages: nonNil(sum.RemovedLanguages),
		Title:            sum.Title,
		Body:             sum.Body,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
