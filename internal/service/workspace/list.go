package workspace

import (
	"context"
	"time"

	"github.com/rokartur/xcstrings-editor-sub000/internal/domain"
)

// CatalogInfo describes a stored catalog.
type CatalogInfo struct {
	ID           string
	FileName     string
	CreatedAt    time.Time
	LastOpenedAt time.Time
	Source       *domain.CatalogSource
	Active       bool
	Open         bool
	// DirtyKeys is only known for open sessions.
	DirtyKeys int
}

// List returns every stored catalog, most recently opened first.
func (s *Service) List(ctx context.Context) []CatalogInfo {
	records := s.store.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	activeID := s.activeID
	if activeID == "" {
		activeID = s.store.CurrentID(ctx)
	}

	out := make([]CatalogInfo, 0, len(records))
	for _, rec := range records {
		info := CatalogInfo{
			ID:           rec.ID,
			FileName:     rec.FileName,
			CreatedAt:    rec.CreatedAt,
			LastOpenedAt: rec.LastOpenedAt,
			Source:       rec.Source,
			Active:       rec.ID == activeID,
		}
		if sess, ok := s.sessions[rec.ID]; ok {
			info.Open = true
			info.DirtyKeys = len(sess.DirtyKeys())
		}
		out = append(out, info)
	}
	return out
}
