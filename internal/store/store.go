// Package store keeps the list of catalogs a user has opened, with their
// current and baseline text, in a key-value Storage. Storage failures never
// reach callers: the store logs them and keeps working in memory.
package store

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/rokartur/xcstrings-editor-sub000/internal/domain"
)

// ---------------------------------------------------------------------------
// Collaborators (consumer-defined)
// ---------------------------------------------------------------------------

// Storage is a key-value byte store. Get returns domain.ErrNotFound for a
// missing key; Delete of a missing key is not an error.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Metrics counts storage failures by operation (read, write, delete, backup).
type Metrics interface {
	StorageFailed(op string)
}

// ---------------------------------------------------------------------------
// Records
// ---------------------------------------------------------------------------

// Record is one stored catalog.
type Record struct {
	ID              string
	FileName        string
	Content         string
	OriginalContent string
	CreatedAt       time.Time
	LastOpenedAt    time.Time
	Source          *domain.CatalogSource
	ProjectFile     *domain.ProjectFile
	DocumentDirty   bool
}

func (r Record) clone() Record {
	r.Source = r.Source.Clone()
	r.ProjectFile = r.ProjectFile.Clone()
	return r
}

// NewRecord is the input of Create.
type NewRecord struct {
	FileName        string
	Content         string
	OriginalContent string
	Source          *domain.CatalogSource
	ProjectFile     *domain.ProjectFile
}

// ---------------------------------------------------------------------------
// Store
// ---------------------------------------------------------------------------

// Store is the multi-catalog store. The persisted state is read lazily on
// first use, migrating a legacy single-catalog value when that is all there
// is. Every mutation writes the whole state back.
type Store struct {
	log     *slog.Logger
	storage Storage
	clock   clockwork.Clock
	metrics Metrics

	mu        sync.Mutex
	loaded    bool
	degraded  bool
	currentID string
	records   map[string]Record
}

// New creates a store over storage.
func New(logger *slog.Logger, storage Storage, clock clockwork.Clock) *Store {
	return &Store{
		log:     logger.With("component", "store"),
		storage: storage,
		clock:   clock,
		records: make(map[string]Record),
	}
}

// SetMetrics injects the failure counter.
func (s *Store) SetMetrics(m Metrics) { s.metrics = m }

// Degraded reports whether the store gave up on its storage and only keeps
// state in memory.
func (s *Store) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// Create stores a new catalog under a generated id and makes it current.
func (s *Store) Create(ctx context.Context, in NewRecord) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	now := s.clock.Now().UTC()
	rec := Record{
		ID:              uuid.NewString(),
		FileName:        in.FileName,
		Content:         in.Content,
		OriginalContent: in.OriginalContent,
		CreatedAt:       now,
		LastOpenedAt:    now,
		Source:          in.Source.Clone(),
		ProjectFile:     in.ProjectFile.Clone(),
	}
	if rec.OriginalContent == "" {
		rec.OriginalContent = rec.Content
	}
	s.records[rec.ID] = rec
	s.currentID = rec.ID
	s.saveLocked(ctx)

	return rec.clone(), nil
}

// UpsertByID inserts rec or replaces the stored record with the same id.
// Zero timestamps are filled in: CreatedAt keeps the stored value, and
// LastOpenedAt keeps the stored value or becomes now for a new record.
func (s *Store) UpsertByID(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		return Record{}, domain.NewValidationError("id", "required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	now := s.clock.Now().UTC()
	existing, ok := s.records[rec.ID]
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
		if ok {
			rec.CreatedAt = existing.CreatedAt
		}
	}
	if rec.LastOpenedAt.IsZero() {
		rec.LastOpenedAt = now
		if ok {
			rec.LastOpenedAt = existing.LastOpenedAt
		}
	}
	rec = rec.clone()
	s.records[rec.ID] = rec
	s.saveLocked(ctx)

	return rec.clone(), nil
}

// List returns every record, most recently opened first.
func (s *Store) List(ctx context.Context) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.clone())
	}
	slices.SortFunc(out, byRecency)
	return out
}

// GetByID returns the record stored under id.
func (s *Store) GetByID(ctx context.Context, id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	rec, ok := s.records[id]
	if !ok {
		return Record{}, fmt.Errorf("catalog %s: %w", id, domain.ErrNotFound)
	}
	return rec.clone(), nil
}

// Remove deletes the record stored under id, clearing the current pointer
// when it referenced it.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("catalog %s: %w", id, domain.ErrNotFound)
	}
	delete(s.records, id)
	if s.currentID == id {
		s.currentID = ""
	}
	s.saveLocked(ctx)
	return nil
}

// SetCurrent marks id as the current catalog and bumps its last-opened time.
func (s *Store) SetCurrent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	rec, ok := s.records[id]
	if !ok {
		return fmt.Errorf("catalog %s: %w", id, domain.ErrNotFound)
	}
	rec.LastOpenedAt = s.clock.Now().UTC()
	s.records[id] = rec
	s.currentID = id
	s.saveLocked(ctx)
	return nil
}

// CurrentID returns the id of the current catalog, or "".
func (s *Store) CurrentID(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)
	return s.currentID
}

// Touch bumps the last-opened time of id.
func (s *Store) Touch(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	rec, ok := s.records[id]
	if !ok {
		return fmt.Errorf("catalog %s: %w", id, domain.ErrNotFound)
	}
	rec.LastOpenedAt = s.clock.Now().UTC()
	s.records[id] = rec
	s.saveLocked(ctx)
	return nil
}

func byRecency(a, b Record) int {
	if c := b.LastOpenedAt.Compare(a.LastOpenedAt); c != 0 {
		return c
	}
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// ---------------------------------------------------------------------------
// Persistence
// ---------------------------------------------------------------------------

func (s *Store) loadLocked(ctx context.Context) {
	if s.loaded {
		return
	}
	s.loaded = true

	raw, err := s.storage.Get(ctx, StorageKey)
	switch {
	case err == nil:
		s.decodeLocked(ctx, raw)
	case errors.Is(err, domain.ErrNotFound):
		s.migrateLegacyLocked(ctx)
	default:
		s.failLocked("read", err)
	}
}

func (s *Store) decodeLocked(ctx context.Context, raw []byte) {
	var st stateJSON
	if err := json.Unmarshal(raw, &st); err != nil {
		s.log.Warn("discarding unreadable catalog state", slog.String("error", err.Error()))
		s.backupLocked(ctx, raw)
		return
	}
	if st.Version != SchemaVersion {
		s.log.Warn("discarding catalog state with unknown schema",
			slog.Int("version", st.Version),
			slog.Int("want", SchemaVersion),
		)
		s.backupLocked(ctx, raw)
		return
	}
	for _, r := range st.Catalogs {
		if r.ID == "" {
			continue
		}
		s.records[r.ID] = r.toRecord()
	}
	if _, ok := s.records[st.CurrentID]; ok {
		s.currentID = st.CurrentID
	}
	s.log.Debug("catalog state loaded", slog.Int("catalogs", len(s.records)))
}

// backupLocked copies state the store cannot use to BackupStorageKey before
// the next save overwrites it. When the copy fails the store degrades, so
// the original value is left in place.
func (s *Store) backupLocked(ctx context.Context, raw []byte) {
	if err := s.storage.Set(ctx, BackupStorageKey, raw); err != nil {
		s.failLocked("backup", err)
		return
	}
	s.log.Info("catalog state backed up", slog.String("key", BackupStorageKey), slog.Int("bytes", len(raw)))
}

// migrateLegacyLocked moves a single-catalog value into the list schema and
// clears the legacy key once the new state is written.
func (s *Store) migrateLegacyLocked(ctx context.Context) {
	raw, err := s.storage.Get(ctx, LegacyStorageKey)
	if errors.Is(err, domain.ErrNotFound) {
		return
	}
	if err != nil {
		s.failLocked("read", err)
		return
	}

	var legacy legacyJSON
	if err := json.Unmarshal(raw, &legacy); err != nil || legacy.Content == "" {
		s.log.Warn("dropping unreadable legacy catalog")
	} else {
		now := s.clock.Now().UTC()
		rec := Record{
			ID:              uuid.NewString(),
			FileName:        legacy.FileName,
			Content:         legacy.Content,
			OriginalContent: legacy.OriginalContent,
			CreatedAt:       now,
			LastOpenedAt:    now,
			Source:          legacy.Source.toDomain(),
		}
		if rec.OriginalContent == "" {
			rec.OriginalContent = rec.Content
		}
		s.records[rec.ID] = rec
		s.currentID = rec.ID
		s.saveLocked(ctx)
		s.log.Info("migrated legacy catalog", slog.String("id", rec.ID), slog.String("file", rec.FileName))
	}

	if s.degraded {
		return
	}
	if err := s.storage.Delete(ctx, LegacyStorageKey); err != nil {
		s.failLocked("delete", err)
	}
}

func (s *Store) saveLocked(ctx context.Context) {
	if s.degraded {
		return
	}
	st := stateJSON{Version: SchemaVersion, CurrentID: s.currentID}
	recs := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		recs = append(recs, r)
	}
	slices.SortFunc(recs, byRecency)
	st.Catalogs = make([]recordJSON, 0, len(recs))
	for _, r := range recs {
		st.Catalogs = append(st.Catalogs, recordToJSON(r))
	}

	raw, err := json.Marshal(st)
	if err != nil {
		s.failLocked("encode", err)
		return
	}
	if err := s.storage.Set(ctx, StorageKey, raw); err != nil {
		s.failLocked("write", err)
	}
}

func (s *Store) failLocked(op string, err error) {
	s.log.Error("catalog storage failed, continuing in memory",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
	if s.metrics != nil {
		s.metrics.StorageFailed(op)
	}
	s.degraded = true
}
