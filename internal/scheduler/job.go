package scheduler

import (
	"github.com/PiyushDatta/senseboard/internal/board"
)

// triggerKind distinguishes a self-scheduled regeneration tick (coalesced,
// never queued more than one deep) from an explicit caller request (queued
// up to maxQueueDepth, oldest pending job dropped on overflow).
type triggerKind string

const (
	triggerTick    triggerKind = "tick"
	triggerRequest triggerKind = "request"
)

// maxQueueDepth bounds how many pending jobs (ticks and requests) a single
// queue holds before the oldest is dropped with reason "queue_overflow".
const maxQueueDepth = 120

// job is one unit of scheduler work: regenerate (main or personal) board
// content for a room, optionally reporting back to a waiting caller.
// regenerate, when true, bypasses both the freeze gate and the
// MIN_INTERVAL_MS throttle for this job only.
type job struct {
	trigger    triggerKind
	regenerate bool
	reply      chan Result
}

// Result is what a job produced, or why it produced nothing.
type Result struct {
	Applied bool
	Reason  string
	Ops     []board.Op
}

func (j *job) resolve(r Result) {
	if j.reply != nil {
		j.reply <- r
	}
}

// noSignalResult and friends are the canned outcomes named in §4.5/§6.
func frozenResult() Result   { return Result{Reason: "frozen"} }
func noSignalResult() Result { return Result{Reason: "no_signal"} }
func noChangeResult() Result { return Result{Reason: "no_change"} }
func overflowResult() Result { return Result{Reason: "queue_overflow"} }
