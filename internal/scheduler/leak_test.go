package scheduler

import (
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/PiyushDatta/senseboard/internal/aiengine"
	"github.com/PiyushDatta/senseboard/internal/room"
)

// TestSchedulerStopLeavesNoGoroutines exercises the full worker-pump
// lifecycle (main + personal, several rooms) and asserts Stop() tears down
// every pump goroutine it started.
func TestSchedulerStopLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := room.NewStore(time.Second)
	engine := aiengine.NewEngine(nil, 1, 0.5)
	s := New(store, engine, 5*time.Millisecond, 50*time.Millisecond, 5*time.Millisecond, 30)

	now := time.Now()
	for _, id := range []string{"L1", "L2", "L3"} {
		store.GetOrCreate(id, now)
		s.TriggerMainTick(room.ID(id))
		s.TriggerPersonalTick(room.ID(id), "alex")
	}
	time.Sleep(100 * time.Millisecond)

	s.Stop()
}

// TestOnRoomRemovedFreesWorkers ensures a room's eventual removal frees its
// scheduler-side maps, so a long-lived process doesn't accumulate a worker
// per room that ever existed.
func TestOnRoomRemovedFreesWorkers(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := room.NewStore(10 * time.Millisecond)
	engine := aiengine.NewEngine(nil, 1, 0.5)
	s := New(store, engine, 5*time.Millisecond, 50*time.Millisecond, 5*time.Millisecond, 30)
	defer s.Stop()

	now := time.Now()
	r := store.GetOrCreate("L4", now)
	sender := &fakeSender{id: "sess"}
	store.Attach(r, "m1", "Alex", "sess", sender, now)
	s.TriggerMainTick("L4")
	time.Sleep(20 * time.Millisecond)

	store.Detach(r, "m1", "sess")
	time.Sleep(50 * time.Millisecond)

	s.mu.Lock()
	_, stillThere := s.mainWorkers["L4"]
	s.mu.Unlock()
	if stillThere {
		t.Fatalf("expected scheduler to free L4's main worker after room removal")
	}
}
