package room

import (
	"time"

	"github.com/PiyushDatta/senseboard/internal/board"
)

// PersonalBoardSnapshot returns a self-contained copy of one member's
// private board, creating an empty one (seeded from the shared board) on
// first access.
func (r *Room) PersonalBoardSnapshot(nameKey string) PersonalBoard {
	r.mu.Lock()
	defer r.mu.Unlock()
	pb := r.personalBoardLocked(nameKey)
	return PersonalBoard{
		Board:       pb.Board.Clone(),
		UpdatedAt:   pb.UpdatedAt,
		Fingerprint: pb.Fingerprint,
	}
}

func (r *Room) personalBoardLocked(nameKey string) *PersonalBoard {
	pb, ok := r.PersonalBoards[nameKey]
	if !ok {
		pb = &PersonalBoard{Board: r.Board.Clone()}
		r.PersonalBoards[nameKey] = pb
	}
	return pb
}

// RecordPersonalAIPatch applies ops to one member's personal board. Unlike
// RecordAIPatch, no undo history is kept for personal boards — they are a
// lagging, disposable mirror per §5's personalization design note.
func (r *Room) RecordPersonalAIPatch(nameKey string, ops []board.Op, fingerprint uint64, now time.Time) (applied bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pb := r.personalBoardLocked(nameKey)
	next := board.ApplyBatch(pb.Board, ops, now)
	applied = next.Revision != pb.Board.Revision
	if applied {
		pb.Board = next
		pb.UpdatedAt = now
		pb.Fingerprint = fingerprint
	}
	return applied
}
