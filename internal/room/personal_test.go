package room

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PiyushDatta/senseboard/internal/board"
)

func TestPersonalBoardSnapshotSeedsFromSharedBoard(t *testing.T) {
	now := time.Now()
	r := New("R", now)
	r.Board = board.Apply(r.Board, board.Op{Kind: board.OpUpsertElement, Element: board.Element{ID: "a", Kind: board.KindRect}}, now)

	pb := r.PersonalBoardSnapshot("alex")
	assert.Contains(t, pb.Board.Elements, "a")
}

func TestRecordPersonalAIPatchAppliesOnlyToThatMembersBoard(t *testing.T) {
	now := time.Now()
	r := New("R", now)
	ops := []board.Op{{Kind: board.OpUpsertElement, Element: board.Element{ID: "p1", Kind: board.KindRect}}}

	applied := r.RecordPersonalAIPatch("alex", ops, 42, now)
	require.True(t, applied)

	alexBoard := r.PersonalBoardSnapshot("alex")
	assert.Contains(t, alexBoard.Board.Elements, "p1")
	assert.NotContains(t, r.Board.Elements, "p1")

	samBoard := r.PersonalBoardSnapshot("sam")
	assert.NotContains(t, samBoard.Board.Elements, "p1")
}

func TestRecordPersonalAIPatchNoOpWhenUnchanged(t *testing.T) {
	now := time.Now()
	r := New("R", now)
	applied := r.RecordPersonalAIPatch("alex", nil, 1, now)
	assert.False(t, applied)
}

func TestSetAIStatusSkippedWhenFrozen(t *testing.T) {
	now := time.Now()
	r := New("R", now)
	r.AIConfig.Frozen = true
	r.AIConfig.Status = StatusFrozen

	r.SetAIStatus(StatusUpdating, now)
	assert.Equal(t, StatusFrozen, r.AIConfig.Status)
}

func TestSetAIStatusTransitionsWhenNotFrozen(t *testing.T) {
	now := time.Now()
	r := New("R", now)
	r.SetAIStatus(StatusUpdating, now)
	assert.Equal(t, StatusUpdating, r.AIConfig.Status)
}
