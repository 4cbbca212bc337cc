package scheduler

import (
	"context"
	"time"

	"github.com/PiyushDatta/senseboard/internal/aiengine"
	"github.com/PiyushDatta/senseboard/internal/room"
)

// runMainTick is the main worker's single unit of work: check freeze, throttle
// to minInterval, gate on AI signal (ticks only — explicit requests always
// run), suppress a tick whose input fingerprint matches the last applied
// patch's (before the engine is called; the generated ops are not
// fingerprinted), generate, apply, and broadcast. regenerate bypasses both
// the freeze check and the throttle.
func (s *Scheduler) runMainTick(ctx context.Context, id room.ID, trigger triggerKind, regenerate bool) Result {
	r, ok := s.store.Get(string(id))
	if !ok {
		return Result{Reason: "room_not_found"}
	}
	if r.Frozen() && !regenerate {
		return frozenResult()
	}

	if !regenerate {
		s.throttle(string(id))
	}
	now := time.Now()

	if trigger == triggerTick && !aiengine.HasAiSignal(r, s.windowSeconds, now) {
		return noSignalResult()
	}

	input := aiengine.CollectAiInput(r, s.windowSeconds, now)
	fp := aiengine.Fingerprint(input)
	if trigger == triggerTick {
		if snap := r.Snapshot(); snap.LastAiFingerprint != 0 && snap.LastAiFingerprint == fp {
			return noChangeResult()
		}
	}

	r.SetAIStatus(room.StatusUpdating, now)
	result := s.engine.Generate(ctx, input, now)
	applied := r.RecordAIPatch(result.Ops, fp, string(trigger), now)
	idle := room.StatusListening
	if len(input.TranscriptWindow) == 0 {
		idle = room.StatusIdle
	}
	r.SetAIStatus(idle, time.Now())
	s.markRun(string(id), now)

	if !applied {
		return noChangeResult()
	}
	s.store.Broadcast(r)
	return Result{Applied: true, Ops: result.Ops}
}
