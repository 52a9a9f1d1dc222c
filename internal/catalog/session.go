package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rokartur/xcstrings-editor-sub000/internal/domain"
)

// ---------------------------------------------------------------------------
// Collaborators (consumer-defined)
// ---------------------------------------------------------------------------

// taskQueue is the deferred-work surface a session needs. *Scheduler
// implements it. A nil queue runs every sync inline.
type taskQueue interface {
	Submit(session string, kind TaskKind, target string, lane Lane, fn func())
	CancelKind(session string, kind TaskKind) int
	CancelSession(session string) int
	Flush(session string, kinds ...TaskKind) int
}

// ProjectEditor edits the region list of a companion project file.
type ProjectEditor interface {
	AddKnownRegion(text, locale string) (RegionUpdate, error)
	RemoveKnownRegion(text, locale string) (RegionUpdate, error)
}

// RegionUpdate is the result of a ProjectEditor call.
type RegionUpdate struct {
	Content string
	Updated bool
}

// Metrics receives engine events.
type Metrics interface {
	MutationApplied(op string)
	SyncCompleted(strategy string, d time.Duration)
}

// Persister stores session snapshots.
type Persister interface {
	PersistSession(ctx context.Context, snap Snapshot) error
}

// ---------------------------------------------------------------------------
// Session
// ---------------------------------------------------------------------------

// SessionInput describes the catalog a session is created from.
type SessionInput struct {
	ID       string // generated when empty
	FileName string
	Content  string
	// OriginalContent is the baseline text. Content is used when empty.
	OriginalContent string
	Source          *domain.CatalogSource
	ProjectFile     *domain.ProjectFile
}

// Snapshot is the persistable state of a session.
type Snapshot struct {
	ID              string
	FileName        string
	Content         string
	OriginalContent string
	DocumentDirty   bool
	Source          *domain.CatalogSource
	ProjectFile     *domain.ProjectFile
}

// ExportResult is the file a session exports.
type ExportResult struct {
	FileName string
	Content  string
}

// Session is one open catalog: the live document, its baseline, the derived
// projection and dirty set, and the serialized text kept in step with them.
// All methods are safe for concurrent use; mutations are atomic.
type Session struct {
	log     *slog.Logger
	tasks   taskQueue
	project ProjectEditor
	metrics Metrics
	persist Persister

	mu       sync.Mutex
	id       string
	fileName string
	doc      *domain.LocalizationDocument
	baseline *domain.LocalizationDocument
	sorter   *keySorter

	languages []string
	keys      []string
	entries   map[string]domain.CatalogEntry

	dirty      map[string]struct{}
	dirtyStale bool

	pendingKeys map[string]struct{}
	pendingFull bool

	content         string
	originalContent string
	format          Formatting
	source          *domain.CatalogSource
	projectFile     *domain.ProjectFile
}

// NewSession parses in and returns a session. tasks may be nil, in which
// case serialization happens synchronously inside each operator.
func NewSession(logger *slog.Logger, tasks taskQueue, parser *Parser, in SessionInput) (*Session, error) {
	if parser == nil {
		parser = NewParser(defaultCollation)
	}
	doc, err := decodeDocument(in.Content)
	if err != nil {
		return nil, err
	}

	baseline := doc.ShallowClone()
	original := in.Content
	separateBaseline := in.OriginalContent != "" && in.OriginalContent != in.Content
	if separateBaseline {
		baseline, err = decodeDocument(in.OriginalContent)
		if err != nil {
			return nil, fmt.Errorf("baseline: %w", err)
		}
		original = in.OriginalContent
	}

	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}

	s := &Session{
		log:             logger.With("component", "session", "session_id", id),
		id:              id,
		fileName:        in.FileName,
		doc:             doc,
		baseline:        baseline,
		sorter:          newKeySorter(parser.collation),
		dirty:           make(map[string]struct{}),
		pendingKeys:     make(map[string]struct{}),
		content:         in.Content,
		originalContent: original,
		format:          DetectFormatting(in.Content),
		source:          in.Source.Clone(),
		projectFile:     in.ProjectFile.Clone(),
		tasks:           tasks,
	}
	s.reprojectLocked()

	if separateBaseline {
		s.dirtyStale = true
		s.submit(TaskRecomputeDirty, "", LaneIdle, s.recomputeDirty)
	}
	return s, nil
}

// SetProjectEditor injects the companion project file editor.
func (s *Session) SetProjectEditor(e ProjectEditor) { s.project = e }

// SetMetrics injects the metrics sink.
func (s *Session) SetMetrics(m Metrics) { s.metrics = m }

// SetPersister injects the snapshot store. Every mutation then schedules a
// debounced persist.
func (s *Session) SetPersister(p Persister) { s.persist = p }

// ---------------------------------------------------------------------------
// Read side
// ---------------------------------------------------------------------------

func (s *Session) ID() string { return s.id }

func (s *Session) FileName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fileName
}

// Languages returns the sorted languages of the projection.
func (s *Session) Languages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.languages)
}

// SourceLanguage returns the declared source language of the live document.
func (s *Session) SourceLanguage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.SourceLanguage
}

// Entries returns the projection sorted by key.
func (s *Session) Entries() []domain.CatalogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.CatalogEntry, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, s.entries[k].Clone())
	}
	return out
}

// Entry returns the projection of key.
func (s *Session) Entry(key string) (domain.CatalogEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return domain.CatalogEntry{}, false
	}
	return e.Clone(), true
}

// DirtyKeys returns the sorted keys that differ from the baseline. A pending
// full recomputation is run first.
func (s *Session) DirtyKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureDirtyLocked()
	return slices.Sorted(maps.Keys(s.dirty))
}

// IsDirty reports whether key differs from the baseline.
func (s *Session) IsDirty(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureDirtyLocked()
	_, ok := s.dirty[key]
	return ok
}

// DocumentDirty reports whether the cached text lags behind the document.
func (s *Session) DocumentDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.documentDirtyLocked()
}

// Content returns the cached serialized text as it currently is, which may
// lag behind the document while a sync is pending. Use Export for the
// up-to-date text.
func (s *Session) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

// OriginalContent returns the baseline text.
func (s *Session) OriginalContent() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.originalContent
}

// Document returns a deep copy of the live document.
func (s *Session) Document() *domain.LocalizationDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Baseline returns a deep copy of the baseline document.
func (s *Session) Baseline() *domain.LocalizationDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseline.Clone()
}

func (s *Session) Formatting() Formatting {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.format
}

func (s *Session) Source() *domain.CatalogSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source.Clone()
}

func (s *Session) ProjectFile() *domain.ProjectFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projectFile.Clone()
}

// Export returns the up-to-date file. Pending serialization is canceled and
// replaced by a synchronous full rebuild.
func (s *Session) Export() ExportResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.syncPendingLocked()
	return ExportResult{FileName: s.fileName, Content: s.content}
}

// Snapshot returns the persistable state with the text brought up to date.
// Pending keys are patched in place; a full rebuild runs only when one was
// already pending.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyPendingLocked()
	return Snapshot{
		ID:              s.id,
		FileName:        s.fileName,
		Content:         s.content,
		OriginalContent: s.originalContent,
		DocumentDirty:   s.documentDirtyLocked(),
		Source:          s.source.Clone(),
		ProjectFile:     s.projectFile.Clone(),
	}
}

// Flush runs every pending task of the session synchronously.
func (s *Session) Flush() {
	if s.tasks != nil {
		s.tasks.Flush(s.id)
	}
}

// Close flushes pending work and detaches the session from its queue.
func (s *Session) Close() {
	s.Flush()
	if s.tasks != nil {
		s.tasks.CancelSession(s.id)
	}
}

// ---------------------------------------------------------------------------
// Projection and dirty set
// ---------------------------------------------------------------------------

func (s *Session) reprojectLocked() {
	s.languages = Languages(s.doc)
	s.keys = s.sorter.sorted(slices.Collect(maps.Keys(s.doc.Strings)))
	s.entries = make(map[string]domain.CatalogEntry, len(s.keys))
	for _, k := range s.keys {
		s.entries[k] = domain.ProjectEntry(k, s.doc.Strings[k], s.languages, s.doc.SourceLanguage)
	}
}

// reprojectKeyLocked refreshes a single key. Locales new to the projection
// trigger a full reprojection so every entry gets a value for them.
func (s *Session) reprojectKeyLocked(key string) {
	entry := s.doc.Entry(key)
	if entry == nil {
		delete(s.entries, key)
		s.keys = s.sorter.remove(s.keys, key)
		return
	}
	for locale := range entry.Localizations {
		if _, found := slices.BinarySearch(s.languages, locale); !found {
			s.reprojectLocked()
			return
		}
	}
	if _, ok := s.entries[key]; !ok {
		s.keys = s.sorter.insert(s.keys, key)
	}
	s.entries[key] = domain.ProjectEntry(key, entry, s.languages, s.doc.SourceLanguage)
}

func (s *Session) updateDirtyLocked(key string) {
	if IsEntryDirty(key, s.doc, s.baseline) {
		s.dirty[key] = struct{}{}
	} else {
		delete(s.dirty, key)
	}
}

func (s *Session) ensureDirtyLocked() {
	if !s.dirtyStale {
		return
	}
	if s.tasks != nil {
		s.tasks.CancelKind(s.id, TaskRecomputeDirty)
	}
	s.dirty = DirtyKeys(s.doc, s.baseline)
	s.dirtyStale = false
}

func (s *Session) recomputeDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirtyStale {
		return
	}
	s.dirty = DirtyKeys(s.doc, s.baseline)
	s.dirtyStale = false
}

// ---------------------------------------------------------------------------
// Serialization sync
// ---------------------------------------------------------------------------

func (s *Session) documentDirtyLocked() bool {
	return s.pendingFull || len(s.pendingKeys) > 0
}

// syncPendingLocked brings the text up to date with a full rebuild when
// anything is pending, dropping queued serialization tasks first.
func (s *Session) syncPendingLocked() {
	if !s.documentDirtyLocked() {
		return
	}
	if s.tasks != nil {
		s.tasks.CancelKind(s.id, TaskSerializeKey)
		s.tasks.CancelKind(s.id, TaskSerializeFull)
	}
	s.rebuildLocked("export")
}

// applyPendingLocked runs the pending serialization work now, with the
// strategy the queued tasks would have used.
func (s *Session) applyPendingLocked() {
	if !s.documentDirtyLocked() {
		return
	}
	if s.pendingFull {
		s.syncPendingLocked()
		return
	}
	if s.tasks != nil {
		s.tasks.CancelKind(s.id, TaskSerializeKey)
	}
	for _, key := range slices.Sorted(maps.Keys(s.pendingKeys)) {
		// A failed patch rebuilds the text and clears the pending set.
		if _, ok := s.pendingKeys[key]; !ok {
			continue
		}
		s.syncKeyLocked(key)
	}
}

func (s *Session) rebuildLocked(reason string) {
	start := time.Now()
	s.content = Rebuild(s.doc, s.content, s.format)
	s.pendingFull = false
	clear(s.pendingKeys)
	s.observeSync("full", start)
	s.log.Debug("catalog rebuilt", slog.String("reason", reason), slog.Int("bytes", len(s.content)))
}

func (s *Session) syncKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pendingFull {
		return
	}
	if _, ok := s.pendingKeys[key]; !ok {
		return
	}
	s.syncKeyLocked(key)
}

func (s *Session) syncKeyLocked(key string) {
	start := time.Now()
	out, err := ApplyEntry(s.content, key, s.doc.Entry(key), s.format)
	if err != nil {
		s.log.Warn("targeted patch failed, rebuilding",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		s.rebuildLocked("patch fallback")
		return
	}
	s.content = out
	delete(s.pendingKeys, key)
	s.observeSync("key", start)
}

func (s *Session) syncFull() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pendingFull {
		return
	}
	s.rebuildLocked("bulk mutation")
}

func (s *Session) persistNow() {
	if s.persist == nil {
		return
	}
	snap := s.Snapshot()
	if err := s.persist.PersistSession(context.Background(), snap); err != nil {
		s.log.Error("persist session", slog.String("error", err.Error()))
	}
}

func (s *Session) submit(kind TaskKind, target string, lane Lane, fn func()) {
	if s.tasks == nil {
		fn()
		return
	}
	s.tasks.Submit(s.id, kind, target, lane, fn)
}

func (s *Session) observeSync(strategy string, start time.Time) {
	if s.metrics != nil {
		s.metrics.SyncCompleted(strategy, time.Since(start))
	}
}
