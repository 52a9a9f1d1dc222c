package workspace

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rokartur/xcstrings-editor-sub000/internal/catalog"
	"github.com/rokartur/xcstrings-editor-sub000/internal/store"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type catalogStore interface {
	UpsertByID(ctx context.Context, rec store.Record) (store.Record, error)
	List(ctx context.Context) []store.Record
	GetByID(ctx context.Context, id string) (store.Record, error)
	Remove(ctx context.Context, id string) error
	SetCurrent(ctx context.Context, id string) error
	CurrentID(ctx context.Context) string
}

// taskQueue is implemented by *catalog.Scheduler.
type taskQueue interface {
	Submit(session string, kind catalog.TaskKind, target string, lane catalog.Lane, fn func())
	CancelKind(session string, kind catalog.TaskKind) int
	CancelSession(session string) int
	Flush(session string, kinds ...catalog.TaskKind) int
}

type sessionMetrics interface {
	catalog.Metrics
	SessionsOpen(n int)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service owns the live catalog sessions and the single active pointer, and
// keeps the store in step with them.
type Service struct {
	log     *slog.Logger
	store   catalogStore
	tasks   taskQueue
	parser  *catalog.Parser
	metrics sessionMetrics
	project catalog.ProjectEditor

	mu       sync.Mutex
	sessions map[string]*catalog.Session
	activeID string

	// removed holds ids whose records were deleted; a persist task that
	// was already running when they were removed must not bring them back.
	removedMu sync.Mutex
	removed   map[string]struct{}
}

// NewService creates a workspace service. tasks may be nil, in which case
// sessions serialize and persist inline.
func NewService(logger *slog.Logger, catalogs catalogStore, tasks taskQueue, parser *catalog.Parser) *Service {
	if parser == nil {
		parser = catalog.NewParser(defaultCollation)
	}
	return &Service{
		log:      logger.With("service", "workspace"),
		store:    catalogs,
		tasks:    tasks,
		parser:   parser,
		sessions: make(map[string]*catalog.Session),
		removed:  make(map[string]struct{}),
	}
}

// SetMetrics injects the optional metrics sink.
func (s *Service) SetMetrics(m sessionMetrics) {
	s.metrics = m
}

// SetProjectEditor injects the optional companion project file editor.
func (s *Service) SetProjectEditor(e catalog.ProjectEditor) {
	s.project = e
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// newSessionLocked creates and registers a session wired to the service's
// collaborators.
func (s *Service) newSessionLocked(in catalog.SessionInput) (*catalog.Session, error) {
	sess, err := catalog.NewSession(s.log, s.tasks, s.parser, in)
	if err != nil {
		return nil, err
	}
	sess.SetPersister(s)
	if s.metrics != nil {
		sess.SetMetrics(s.metrics)
	}
	if s.project != nil {
		sess.SetProjectEditor(s.project)
	}

	s.sessions[sess.ID()] = sess
	s.reportOpenLocked()
	return sess, nil
}

// teardownLocked flushes pending work of a live session and drops it.
func (s *Service) teardownLocked(id string) {
	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	sess.Close()
	delete(s.sessions, id)
	if s.activeID == id {
		s.activeID = ""
	}
	s.reportOpenLocked()
	s.log.Debug("session closed", slog.String("catalog_id", id))
}

func (s *Service) reportOpenLocked() {
	if s.metrics != nil {
		s.metrics.SessionsOpen(len(s.sessions))
	}
}

func (s *Service) markRemoved(id string) {
	s.removedMu.Lock()
	defer s.removedMu.Unlock()
	s.removed[id] = struct{}{}
}

func (s *Service) isRemoved(id string) bool {
	s.removedMu.Lock()
	defer s.removedMu.Unlock()
	_, ok := s.removed[id]
	return ok
}
