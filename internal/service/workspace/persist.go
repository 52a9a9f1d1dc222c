package workspace

import (
	"context"
	"fmt"

	"github.com/rokartur/xcstrings-editor-sub000/internal/catalog"
	"github.com/rokartur/xcstrings-editor-sub000/internal/store"
)

// PersistSession writes a session snapshot to the store. Sessions run it as
// their scheduled persist task.
func (s *Service) PersistSession(ctx context.Context, snap catalog.Snapshot) error {
	if s.isRemoved(snap.ID) {
		return nil
	}

	_, err := s.store.UpsertByID(ctx, store.Record{
		ID:              snap.ID,
		FileName:        snap.FileName,
		Content:         snap.Content,
		OriginalContent: snap.OriginalContent,
		Source:          snap.Source,
		ProjectFile:     snap.ProjectFile,
		DocumentDirty:   snap.DocumentDirty,
	})
	if err != nil {
		return fmt.Errorf("persist catalog %s: %w", snap.ID, err)
	}
	return nil
}
