// Package scheduler drives regeneration of a room's shared board and its
// members' personal boards: a debounced transcript trigger fans out to a
// per-room main queue and one per-(room,member) personal queue, each a
// single-flight FIFO pump so at most one generation is in flight at a time
// per target.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/PiyushDatta/senseboard/internal/aiengine"
	"github.com/PiyushDatta/senseboard/internal/room"
)

const (
	// DefaultMinInterval is MIN_INTERVAL_MS: the minimum spacing between
	// two generations against the same target.
	DefaultMinInterval = 2 * time.Second

	// DefaultMainQueueWaitTimeout is MAIN_QUEUE_WAIT_TIMEOUT_MS: how long a
	// personalized tick waits for the main queue to go idle before
	// mirroring the shared board anyway.
	DefaultMainQueueWaitTimeout = 6 * time.Second

	// DefaultDebounce is the per-room transcript-trigger debounce window.
	DefaultDebounce = 500 * time.Millisecond

	mainQueuePollInterval = 80 * time.Millisecond
)

// Scheduler owns every room's and member's regeneration pump.
type Scheduler struct {
	store  *room.Store
	engine *aiengine.Engine

	minInterval          time.Duration
	mainQueueWaitTimeout time.Duration
	debounce             time.Duration
	windowSeconds        int

	mu              sync.Mutex
	mainWorkers     map[room.ID]*worker
	personalWorkers map[string]*worker
	debounceTimers  map[room.ID]*time.Timer
	lastRunAt       map[string]time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a Scheduler and wires its debounce trigger into store's
// OnTranscriptAccepted/OnRoomRemoved hooks. Zero-value duration args fall
// back to the package defaults.
func New(store *room.Store, engine *aiengine.Engine, minInterval, mainQueueWaitTimeout, debounce time.Duration, windowSeconds int) *Scheduler {
	if minInterval <= 0 {
		minInterval = DefaultMinInterval
	}
	if mainQueueWaitTimeout <= 0 {
		mainQueueWaitTimeout = DefaultMainQueueWaitTimeout
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if windowSeconds <= 0 {
		windowSeconds = aiengine.DefaultWindowSeconds
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		store:                store,
		engine:               engine,
		minInterval:          minInterval,
		mainQueueWaitTimeout: mainQueueWaitTimeout,
		debounce:             debounce,
		windowSeconds:        windowSeconds,
		mainWorkers:          map[room.ID]*worker{},
		personalWorkers:      map[string]*worker{},
		debounceTimers:       map[room.ID]*time.Timer{},
		lastRunAt:            map[string]time.Time{},
		ctx:                  ctx,
		cancel:               cancel,
	}

	store.OnTranscriptAccepted = s.onTranscriptAccepted
	store.OnRoomRemoved = s.onRoomRemoved
	return s
}

// Stop cancels every worker pump and waits for them to exit.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func personalKey(id room.ID, nameKey string) string {
	return string(id) + "|" + nameKey
}

// onTranscriptAccepted resets the per-room debounce timer; when it fires, a
// main tick and one personalized tick per currently connected member name
// are enqueued.
func (s *Scheduler) onTranscriptAccepted(id room.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.debounceTimers[id]; ok {
		t.Stop()
	}
	s.debounceTimers[id] = time.AfterFunc(s.debounce, func() {
		s.fireDebounced(id)
	})
}

func (s *Scheduler) fireDebounced(id room.ID) {
	s.TriggerMainTick(id)
	r, ok := s.store.Get(string(id))
	if !ok {
		return
	}
	for _, name := range r.PersonalMemberNames() {
		s.TriggerPersonalTick(id, name)
	}
}

func (s *Scheduler) onRoomRemoved(id room.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.mainWorkers, id)
	delete(s.lastRunAt, string(id))
	prefix := string(id) + "|"
	for k := range s.personalWorkers {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			delete(s.personalWorkers, k)
			delete(s.lastRunAt, k)
		}
	}
	if t, ok := s.debounceTimers[id]; ok {
		t.Stop()
		delete(s.debounceTimers, id)
	}
}

func (s *Scheduler) mainWorker(id room.ID) *worker {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.mainWorkers[id]
	if ok {
		return w
	}
	w = newWorker(func(ctx context.Context, trigger triggerKind, regenerate bool) Result {
		return s.runMainTick(ctx, id, trigger, regenerate)
	})
	s.mainWorkers[id] = w
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		w.pump(s.ctx)
	}()
	return w
}

func (s *Scheduler) personalWorker(id room.ID, nameKey string) *worker {
	key := personalKey(id, nameKey)
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.personalWorkers[key]
	if ok {
		return w
	}
	w = newWorker(func(ctx context.Context, trigger triggerKind, regenerate bool) Result {
		return s.runPersonalTick(ctx, id, nameKey, trigger, regenerate)
	})
	s.personalWorkers[key] = w
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		w.pump(s.ctx)
	}()
	return w
}

// TriggerMainTick enqueues a coalesced regeneration tick for a room's
// shared board.
func (s *Scheduler) TriggerMainTick(id room.ID) {
	s.mainWorker(id).enqueue(&job{trigger: triggerTick})
}

// TriggerPersonalTick enqueues a coalesced regeneration tick for one
// member's personal board.
func (s *Scheduler) TriggerPersonalTick(id room.ID, nameKey string) {
	s.personalWorker(id, nameKey).enqueue(&job{trigger: triggerTick})
}

// RequestMainPatch enqueues an explicit (non-tick) main regeneration and
// blocks for its result or ctx's deadline, whichever comes first. regenerate
// bypasses both the room's freeze flag and the MIN_INTERVAL_MS throttle for
// this request only.
func (s *Scheduler) RequestMainPatch(ctx context.Context, id room.ID, regenerate bool) Result {
	reply := make(chan Result, 1)
	s.mainWorker(id).enqueue(&job{trigger: triggerRequest, regenerate: regenerate, reply: reply})
	select {
	case r := <-reply:
		return r
	case <-ctx.Done():
		return Result{Reason: "timeout"}
	}
}

// RequestPersonalPatch is RequestMainPatch's personal-board counterpart.
func (s *Scheduler) RequestPersonalPatch(ctx context.Context, id room.ID, nameKey string, regenerate bool) Result {
	reply := make(chan Result, 1)
	s.personalWorker(id, nameKey).enqueue(&job{trigger: triggerRequest, regenerate: regenerate, reply: reply})
	select {
	case r := <-reply:
		return r
	case <-ctx.Done():
		return Result{Reason: "timeout"}
	}
}

func (s *Scheduler) throttle(key string) {
	s.mu.Lock()
	last, ok := s.lastRunAt[key]
	s.mu.Unlock()
	if !ok {
		return
	}
	if wait := s.minInterval - time.Since(last); wait > 0 {
		time.Sleep(wait)
	}
}

func (s *Scheduler) markRun(key string, at time.Time) {
	s.mu.Lock()
	s.lastRunAt[key] = at
	s.mu.Unlock()
}
