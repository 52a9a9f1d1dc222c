package workspace

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rokartur/xcstrings-editor-sub000/internal/domain"
	"github.com/rokartur/xcstrings-editor-sub000/internal/store"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockCatalogStore struct {
	UpsertByIDFunc func(ctx context.Context, rec store.Record) (store.Record, error)
	ListFunc       func(ctx context.Context) []store.Record
	GetByIDFunc    func(ctx context.Context, id string) (store.Record, error)
	RemoveFunc     func(ctx context.Context, id string) error
	SetCurrentFunc func(ctx context.Context, id string) error
	CurrentIDFunc  func(ctx context.Context) string

	mu       sync.Mutex
	upserts  []store.Record
	removes  []string
	currents []string
}

func (m *mockCatalogStore) UpsertByID(ctx context.Context, rec store.Record) (store.Record, error) {
	m.mu.Lock()
	m.upserts = append(m.upserts, rec)
	m.mu.Unlock()
	if m.UpsertByIDFunc != nil {
		return m.UpsertByIDFunc(ctx, rec)
	}
	return rec, nil
}

func (m *mockCatalogStore) List(ctx context.Context) []store.Record {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil
}

func (m *mockCatalogStore) GetByID(ctx context.Context, id string) (store.Record, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return store.Record{}, fmt.Errorf("catalog %s: %w", id, domain.ErrNotFound)
}

func (m *mockCatalogStore) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	m.removes = append(m.removes, id)
	m.mu.Unlock()
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, id)
	}
	return nil
}

func (m *mockCatalogStore) SetCurrent(ctx context.Context, id string) error {
	m.mu.Lock()
	m.currents = append(m.currents, id)
	m.mu.Unlock()
	if m.SetCurrentFunc != nil {
		return m.SetCurrentFunc(ctx, id)
	}
	return nil
}

func (m *mockCatalogStore) CurrentID(ctx context.Context) string {
	if m.CurrentIDFunc != nil {
		return m.CurrentIDFunc(ctx)
	}
	return ""
}

// upsertsFor returns the records upserted for id, in call order.
func (m *mockCatalogStore) upsertsFor(id string) []store.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.Record
	for _, r := range m.upserts {
		if r.ID == id {
			out = append(out, r)
		}
	}
	return out
}

type mockMetrics struct {
	mu        sync.Mutex
	mutations []string
	open      []int
}

func (m *mockMetrics) MutationApplied(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutations = append(m.mutations, op)
}

func (m *mockMetrics) SyncCompleted(string, time.Duration) {}

func (m *mockMetrics) SessionsOpen(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = append(m.open, n)
}

func (m *mockMetrics) lastOpen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.open) == 0 {
		return -1
	}
	return m.open[len(m.open)-1]
}
