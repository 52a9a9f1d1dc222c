package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rokartur/xcstrings-editor-sub000/internal/catalog"
	"github.com/rokartur/xcstrings-editor-sub000/internal/store"
)

// Import parses a catalog, stores it and makes it the active session. The
// previously active session is flushed and closed. Text that does not parse
// yields a *domain.ParseError and stores nothing.
func (s *Service) Import(ctx context.Context, in ImportInput) (*catalog.Session, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.newSessionLocked(catalog.SessionInput{
		FileName:    strings.TrimSpace(in.FileName),
		Content:     in.Content,
		Source:      in.Source,
		ProjectFile: in.ProjectFile,
	})
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", in.FileName, err)
	}

	_, err = s.store.UpsertByID(ctx, store.Record{
		ID:              sess.ID(),
		FileName:        sess.FileName(),
		Content:         in.Content,
		OriginalContent: in.Content,
		Source:          in.Source,
		ProjectFile:     in.ProjectFile,
	})
	if err != nil {
		delete(s.sessions, sess.ID())
		s.reportOpenLocked()
		return nil, fmt.Errorf("store catalog: %w", err)
	}

	if err := s.activateLocked(ctx, sess.ID()); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "catalog imported",
		slog.String("catalog_id", sess.ID()),
		slog.String("file_name", sess.FileName()),
		slog.Int("keys", len(sess.Entries())),
		slog.Int("languages", len(sess.Languages())),
	)
	return sess, nil
}
