package scheduler

import (
	"context"
	"time"

	"github.com/PiyushDatta/senseboard/internal/aiengine"
	"github.com/PiyushDatta/senseboard/internal/room"
)

// runPersonalTick mirrors runMainTick against one member's personal board.
// It first waits (bounded by mainQueueWaitTimeout, polling every
// mainQueuePollInterval) for that room's main queue to drain, so a
// personalized regeneration never races the shared board it seeds from.
func (s *Scheduler) runPersonalTick(ctx context.Context, id room.ID, nameKey string, trigger triggerKind, regenerate bool) Result {
	r, ok := s.store.Get(string(id))
	if !ok {
		return Result{Reason: "room_not_found"}
	}
	if r.Frozen() && !regenerate {
		return frozenResult()
	}

	s.waitForMainQueueIdle(ctx, id)

	key := personalKey(id, nameKey)
	if !regenerate {
		s.throttle(key)
	}
	now := time.Now()

	if trigger == triggerTick && !aiengine.HasAiSignal(r, s.windowSeconds, now) {
		return noSignalResult()
	}

	input := aiengine.CollectAiInput(r, s.windowSeconds, now)
	pb := r.PersonalBoardSnapshot(nameKey)
	input.ActiveBoard = pb.Board
	fp := aiengine.Fingerprint(input)
	if trigger == triggerTick && pb.Fingerprint != 0 && pb.Fingerprint == fp {
		return noChangeResult()
	}

	result := s.engine.Generate(ctx, input, now)
	applied := r.RecordPersonalAIPatch(nameKey, result.Ops, fp, now)
	s.markRun(key, now)

	if !applied {
		return noChangeResult()
	}
	s.store.BroadcastPersonalBoard(r, nameKey)
	return Result{Applied: true, Ops: result.Ops}
}

func (s *Scheduler) waitForMainQueueIdle(ctx context.Context, id room.ID) {
	deadline := time.Now().Add(s.mainQueueWaitTimeout)
	for {
		w := s.mainWorker(id)
		if w.idle() || time.Now().After(deadline) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(mainQueuePollInterval):
		}
	}
}
