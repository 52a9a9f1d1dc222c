package store

import (
	"time"

	"github.com/rokartur/xcstrings-editor-sub000/internal/domain"
)

// Storage keys and schema version of the persisted catalog list.
const (
	StorageKey       = "xcstrings-editor:catalogs"
	LegacyStorageKey = "xcstrings-editor:catalog"
	BackupStorageKey = "xcstrings-editor:catalogs:discarded"
	SchemaVersion    = 2
)

// stateJSON is the persisted form: {version, currentId, catalogs}.
type stateJSON struct {
	Version   int          `json:"version"`
	CurrentID string       `json:"currentId,omitempty"`
	Catalogs  []recordJSON `json:"catalogs"`
}

type recordJSON struct {
	ID              string           `json:"id"`
	FileName        string           `json:"fileName"`
	Content         string           `json:"content"`
	OriginalContent string           `json:"originalContent"`
	CreatedAt       time.Time        `json:"createdAt"`
	LastOpenedAt    time.Time        `json:"lastOpenedAt"`
	Source          *sourceJSON      `json:"source,omitempty"`
	ProjectFile     *projectFileJSON `json:"projectFile,omitempty"`
	DocumentDirty   bool             `json:"documentDirty,omitempty"`
}

type sourceJSON struct {
	Kind       string `json:"kind"`
	Path       string `json:"path,omitempty"`
	Repository string `json:"repository,omitempty"`
	Branch     string `json:"branch,omitempty"`
	Revision   string `json:"revision,omitempty"`
}

type projectFileJSON struct {
	Name            string `json:"name"`
	Content         string `json:"content"`
	OriginalContent string `json:"originalContent"`
	Dirty           bool   `json:"dirty,omitempty"`
}

// legacyJSON is the single-catalog value written before the catalog list
// existed.
type legacyJSON struct {
	FileName        string      `json:"fileName"`
	Content         string      `json:"content"`
	OriginalContent string      `json:"originalContent"`
	Source          *sourceJSON `json:"source,omitempty"`
}

func (r recordJSON) toRecord() Record {
	rec := Record{
		ID:              r.ID,
		FileName:        r.FileName,
		Content:         r.Content,
		OriginalContent: r.OriginalContent,
		CreatedAt:       r.CreatedAt,
		LastOpenedAt:    r.LastOpenedAt,
		DocumentDirty:   r.DocumentDirty,
		Source:          r.Source.toDomain(),
	}
	if r.ProjectFile != nil {
		rec.ProjectFile = &domain.ProjectFile{
			Name:            r.ProjectFile.Name,
			Content:         r.ProjectFile.Content,
			OriginalContent: r.ProjectFile.OriginalContent,
			Dirty:           r.ProjectFile.Dirty,
		}
	}
	return rec
}

func recordToJSON(r Record) recordJSON {
	out := recordJSON{
		ID:              r.ID,
		FileName:        r.FileName,
		Content:         r.Content,
		OriginalContent: r.OriginalContent,
		CreatedAt:       r.CreatedAt,
		LastOpenedAt:    r.LastOpenedAt,
		DocumentDirty:   r.DocumentDirty,
		Source:          sourceToJSON(r.Source),
	}
	if r.ProjectFile != nil {
		out.ProjectFile = &projectFileJSON{
			Name:            r.ProjectFile.Name,
			Content:         r.ProjectFile.Content,
			OriginalContent: r.ProjectFile.OriginalContent,
			Dirty:           r.ProjectFile.Dirty,
		}
	}
	return out
}

func (s *sourceJSON) toDomain() *domain.CatalogSource {
	if s == nil {
		return nil
	}
	return &domain.CatalogSource{
		Kind:       domain.SourceKind(s.Kind),
		Path:       s.Path,
		Repository: s.Repository,
		Branch:     s.Branch,
		Revision:   s.Revision,
	}
}

func sourceToJSON(s *domain.CatalogSource) *sourceJSON {
	if s == nil {
		return nil
	}
	return &sourceJSON{
		Kind:       string(s.Kind),
		Path:       s.Path,
		Repository: s.Repository,
		Branch:     s.Branch,
		Revision:   s.Revision,
	}
}
