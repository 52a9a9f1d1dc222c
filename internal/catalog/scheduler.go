package catalog

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// TaskKind identifies the kind of deferred work queued for a session.
type TaskKind string

const (
	TaskSerializeKey   TaskKind = "serialize-key"
	TaskSerializeFull  TaskKind = "serialize-full"
	TaskRecomputeDirty TaskKind = "recompute-dirty"
	TaskPersist        TaskKind = "persist"
)

// Lane selects the delay a task waits before it runs.
type Lane int

const (
	LaneDebounce Lane = iota
	LaneIdle
)

type taskKey struct {
	session string
	kind    TaskKind
	target  string
}

type task struct {
	key   taskKey
	seq   uint64
	fn    func()
	timer clockwork.Timer
}

// Scheduler is a per-session task queue with debounce and idle lanes.
//
// A task is identified by (session, kind, target). Submitting a task with an
// identity that is already pending cancels the pending one, so only the
// latest submission runs. Queuing a full serialization drops the pending
// single-key serializations of the same session, and single-key
// serializations are ignored while a full one is pending.
//
// Tasks run outside the scheduler lock. Flush runs the pending tasks of a
// session synchronously in submission order.
type Scheduler struct {
	log      *slog.Logger
	clock    clockwork.Clock
	debounce time.Duration
	idle     time.Duration

	mu      sync.Mutex
	tasks   map[taskKey]*task
	seq     uint64
	stopped bool
	running sync.WaitGroup
}

// NewScheduler creates a scheduler using clock for its timers.
func NewScheduler(logger *slog.Logger, clock clockwork.Clock, debounce, idle time.Duration) *Scheduler {
	return &Scheduler{
		log:      logger.With("component", "scheduler"),
		clock:    clock,
		debounce: debounce,
		idle:     idle,
		tasks:    make(map[taskKey]*task),
	}
}

// Submit queues fn on the given lane. After Stop, fn runs immediately.
func (s *Scheduler) Submit(session string, kind TaskKind, target string, lane Lane, fn func()) {
	key := taskKey{session: session, kind: kind, target: target}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		fn()
		return
	}
	switch kind {
	case TaskSerializeKey:
		if s.pendingLocked(session, TaskSerializeFull) {
			s.mu.Unlock()
			return
		}
	case TaskSerializeFull:
		s.cancelKindLocked(session, TaskSerializeKey)
	}
	if old, ok := s.tasks[key]; ok {
		old.timer.Stop()
	}
	s.seq++
	t := &task{key: key, seq: s.seq, fn: fn}
	delay := s.debounce
	if lane == LaneIdle {
		delay = s.idle
	}
	t.timer = s.clock.AfterFunc(delay, func() { s.fire(t) })
	s.tasks[key] = t
	s.mu.Unlock()
}

func (s *Scheduler) fire(t *task) {
	s.mu.Lock()
	cur, ok := s.tasks[t.key]
	if !ok || cur.seq != t.seq {
		s.mu.Unlock()
		return
	}
	delete(s.tasks, t.key)
	s.running.Add(1)
	s.mu.Unlock()

	defer s.running.Done()
	s.run(t)
}

func (s *Scheduler) run(t *task) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("task panicked",
				slog.String("session", t.key.session),
				slog.String("kind", string(t.key.kind)),
				slog.Any("panic", r),
			)
		}
	}()
	t.fn()
}

// Cancel drops a pending task. It reports whether one was pending.
func (s *Scheduler) Cancel(session string, kind TaskKind, target string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := taskKey{session: session, kind: kind, target: target}
	t, ok := s.tasks[key]
	if !ok {
		return false
	}
	t.timer.Stop()
	delete(s.tasks, key)
	return true
}

// CancelKind drops every pending task of kind for session.
func (s *Scheduler) CancelKind(session string, kind TaskKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelKindLocked(session, kind)
}

func (s *Scheduler) cancelKindLocked(session string, kind TaskKind) int {
	n := 0
	for key, t := range s.tasks {
		if key.session == session && key.kind == kind {
			t.timer.Stop()
			delete(s.tasks, key)
			n++
		}
	}
	return n
}

// CancelSession drops every pending task of session.
func (s *Scheduler) CancelSession(session string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for key, t := range s.tasks {
		if key.session == session {
			t.timer.Stop()
			delete(s.tasks, key)
			n++
		}
	}
	return n
}

// Pending reports whether session has pending tasks of any of kinds, or of
// any kind when none are given.
func (s *Scheduler) Pending(session string, kinds ...TaskKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(kinds) == 0 {
		for key := range s.tasks {
			if key.session == session {
				return true
			}
		}
		return false
	}
	for _, k := range kinds {
		if s.pendingLocked(session, k) {
			return true
		}
	}
	return false
}

func (s *Scheduler) pendingLocked(session string, kind TaskKind) bool {
	for key := range s.tasks {
		if key.session == session && key.kind == kind {
			return true
		}
	}
	return false
}

// Flush runs the pending tasks of session now, in submission order, and
// returns how many ran. With kinds given only those kinds are flushed.
func (s *Scheduler) Flush(session string, kinds ...TaskKind) int {
	return s.flush(func(k taskKey) bool {
		return k.session == session && (len(kinds) == 0 || slices.Contains(kinds, k.kind))
	})
}

// FlushAll runs every pending task now.
func (s *Scheduler) FlushAll() int {
	return s.flush(func(taskKey) bool { return true })
}

func (s *Scheduler) flush(match func(taskKey) bool) int {
	s.mu.Lock()
	var due []*task
	for key, t := range s.tasks {
		if match(key) {
			t.timer.Stop()
			delete(s.tasks, key)
			due = append(due, t)
		}
	}
	s.running.Add(1)
	s.mu.Unlock()
	defer s.running.Done()

	slices.SortFunc(due, func(a, b *task) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})
	for _, t := range due {
		s.run(t)
	}
	return len(due)
}

// Stop flushes all pending work and waits for running tasks. Tasks submitted
// afterwards run synchronously.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.FlushAll()
	s.running.Wait()
}
