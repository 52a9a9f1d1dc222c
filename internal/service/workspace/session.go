package workspace

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rokartur/xcstrings-editor-sub000/internal/catalog"
	"github.com/rokartur/xcstrings-editor-sub000/internal/domain"
)

// Open returns the live session of a stored catalog, reloading it from its
// record when it is not open. The reloaded session diffs against the stored
// original text. Open does not change the active catalog.
func (s *Service) Open(ctx context.Context, id string) (*catalog.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openLocked(ctx, id)
}

// Select makes id the active catalog. Switching away from another catalog
// tears its session down, flushing every pending edit first.
func (s *Service) Select(ctx context.Context, id string) (*catalog.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.openLocked(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.activateLocked(ctx, id); err != nil {
		return nil, err
	}
	return sess, nil
}

// Active returns the active session. After a restart the catalog the store
// marks as current is reopened. domain.ErrNotFound means nothing is active.
func (s *Service) Active(ctx context.Context) (*catalog.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[s.activeID]; ok {
		return sess, nil
	}

	id := s.store.CurrentID(ctx)
	if id == "" {
		return nil, fmt.Errorf("active catalog: %w", domain.ErrNotFound)
	}
	sess, err := s.openLocked(ctx, id)
	if err != nil {
		return nil, err
	}
	s.activeID = id
	return sess, nil
}

func (s *Service) openLocked(ctx context.Context, id string) (*catalog.Session, error) {
	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}

	rec, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sess, err := s.newSessionLocked(catalog.SessionInput{
		ID:              rec.ID,
		FileName:        rec.FileName,
		Content:         rec.Content,
		OriginalContent: rec.OriginalContent,
		Source:          rec.Source,
		ProjectFile:     rec.ProjectFile,
	})
	if err != nil {
		return nil, fmt.Errorf("reload catalog %s: %w", id, err)
	}

	s.log.DebugContext(ctx, "session reloaded", slog.String("catalog_id", id))
	return sess, nil
}

func (s *Service) activateLocked(ctx context.Context, id string) error {
	if s.activeID != "" && s.activeID != id {
		s.teardownLocked(s.activeID)
	}
	s.activeID = id

	if err := s.store.SetCurrent(ctx, id); err != nil {
		return fmt.Errorf("select catalog %s: %w", id, err)
	}
	return nil
}
