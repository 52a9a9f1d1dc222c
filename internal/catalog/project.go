package catalog

import (
	"log/slog"
)

// editProjectLocked asks the companion project editor to add or remove a
// region. Failures are logged and never fail the catalog mutation; whatever
// content the editor returned is merged so the dirty flag matches it.
func (s *Session) editProjectLocked(locale string, add bool) {
	if s.project == nil || s.projectFile == nil {
		return
	}

	var (
		upd RegionUpdate
		err error
	)
	if add {
		upd, err = s.project.AddKnownRegion(s.projectFile.Content, locale)
	} else {
		upd, err = s.project.RemoveKnownRegion(s.projectFile.Content, locale)
	}
	if err != nil {
		s.log.Warn("update project regions",
			slog.String("locale", locale),
			slog.Bool("add", add),
			slog.String("error", err.Error()),
		)
	}
	if upd.Updated && upd.Content != "" {
		s.projectFile.Content = upd.Content
	}
	s.projectFile.Dirty = s.projectFile.Content != s.projectFile.OriginalContent
}
