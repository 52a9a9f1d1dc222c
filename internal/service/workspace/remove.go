package workspace

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rokartur/xcstrings-editor-sub000/internal/domain"
)

// Remove discards a catalog: pending work of its session is dropped, not
// flushed, and the stored record is deleted.
func (s *Service) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.markRemoved(id)

	_, live := s.sessions[id]
	if live {
		if s.tasks != nil {
			s.tasks.CancelSession(id)
		}
		delete(s.sessions, id)
		if s.activeID == id {
			s.activeID = ""
		}
		s.reportOpenLocked()
	}

	if err := s.store.Remove(ctx, id); err != nil {
		if !live || !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	}

	s.log.InfoContext(ctx, "catalog removed", slog.String("catalog_id", id))
	return nil
}

// Close flushes and closes every live session. It is called on shutdown.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.sessions {
		s.teardownLocked(id)
	}
	s.activeID = ""
}
