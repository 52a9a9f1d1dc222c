package catalog

import (
	"context"
	"sync"
	"time"
)

var (
	_ ProjectEditor = &projectEditorMock{}
	_ Persister     = &persisterMock{}
	_ Metrics       = &metricsMock{}
)

type projectEditorMock struct {
	AddKnownRegionFunc    func(text, locale string) (RegionUpdate, error)
	RemoveKnownRegionFunc func(text, locale string) (RegionUpdate, error)

	calls struct {
		AddKnownRegion []struct {
			Text   string
			Locale string
		}
		RemoveKnownRegion []struct {
			Text   string
			Locale string
		}
	}
	lockAddKnownRegion    sync.RWMutex
	lockRemoveKnownRegion sync.RWMutex
}

func (mock *projectEditorMock) AddKnownRegion(text, locale string) (RegionUpdate, error) {
	if mock.AddKnownRegionFunc == nil {
		panic("projectEditorMock.AddKnownRegionFunc: method is nil but ProjectEditor.AddKnownRegion was just called")
	}
	callInfo := struct {
		Text   string
		Locale string
	}{Text: text, Locale: locale}
	mock.lockAddKnownRegion.Lock()
	mock.calls.AddKnownRegion = append(mock.calls.AddKnownRegion, callInfo)
	mock.lockAddKnownRegion.Unlock()
	return mock.AddKnownRegionFunc(text, locale)
}

func (mock *projectEditorMock) AddKnownRegionCalls() []struct {
	Text   string
	Locale string
} {
	mock.lockAddKnownRegion.RLock()
	calls := mock.calls.AddKnownRegion
	mock.lockAddKnownRegion.RUnlock()
	return calls
}

func (mock *projectEditorMock) RemoveKnownRegion(text, locale string) (RegionUpdate, error) {
	if mock.RemoveKnownRegionFunc == nil {
		panic("projectEditorMock.RemoveKnownRegionFunc: method is nil but ProjectEditor.RemoveKnownRegion was just called")
	}
	callInfo := struct {
		Text   string
		Locale string
	}{Text: text, Locale: locale}
	mock.lockRemoveKnownRegion.Lock()
	mock.calls.RemoveKnownRegion = append(mock.calls.RemoveKnownRegion, callInfo)
	mock.lockRemoveKnownRegion.Unlock()
	return mock.RemoveKnownRegionFunc(text, locale)
}

func (mock *projectEditorMock) RemoveKnownRegionCalls() []struct {
	Text   string
	Locale string
} {
	mock.lockRemoveKnownRegion.RLock()
	calls := mock.calls.RemoveKnownRegion
	mock.lockRemoveKnownRegion.RUnlock()
	return calls
}

type persisterMock struct {
	PersistSessionFunc func(ctx context.Context, snap Snapshot) error

	calls struct {
		PersistSession []struct {
			Ctx  context.Context
			Snap Snapshot
		}
	}
	lockPersistSession sync.RWMutex
}

func (mock *persisterMock) PersistSession(ctx context.Context, snap Snapshot) error {
	if mock.PersistSessionFunc == nil {
		panic("persisterMock.PersistSessionFunc: method is nil but Persister.PersistSession was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Snap Snapshot
	}{Ctx: ctx, Snap: snap}
	mock.lockPersistSession.Lock()
	mock.calls.PersistSession = append(mock.calls.PersistSession, callInfo)
	mock.lockPersistSession.Unlock()
	return mock.PersistSessionFunc(ctx, snap)
}

func (mock *persisterMock) PersistSessionCalls() []struct {
	Ctx  context.Context
	Snap Snapshot
} {
	mock.lockPersistSession.RLock()
	calls := mock.calls.PersistSession
	mock.lockPersistSession.RUnlock()
	return calls
}

// metricsMock counts events instead of recording every call.
type metricsMock struct {
	mu         sync.Mutex
	mutations  map[string]int
	strategies map[string]int
}

func (m *metricsMock) MutationApplied(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mutations == nil {
		m.mutations = make(map[string]int)
	}
	m.mutations[op]++
}

func (m *metricsMock) SyncCompleted(strategy string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.strategies == nil {
		m.strategies = make(map[string]int)
	}
	m.strategies[strategy]++
}

func (m *metricsMock) counts() (map[string]int, map[string]int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mut := make(map[string]int, len(m.mutations))
	for k, v := range m.mutations {
		mut[k] = v
	}
	st := make(map[string]int, len(m.strategies))
	for k, v := range m.strategies {
		st[k] = v
	}
	return mut, st
}
