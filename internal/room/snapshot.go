package room

import (
	"time"

	"github.com/PiyushDatta/senseboard/internal/board"
)

// State is the wire/REST representation of a Room: a fully self-contained
// value safe to marshal and hand to a caller without holding the room's
// lock any longer than the copy takes.
type State struct {
	RoomID            ID                `json:"roomId"`
	CreatedAt         time.Time         `json:"createdAt"`
	Members           []Member          `json:"members"`
	Chat              []ChatMessage     `json:"chat"`
	Context           []ContextItem     `json:"context"`
	Transcript        []TranscriptChunk `json:"transcript"`
	VisualHint        string            `json:"visualHint"`
	AIConfig          AIConfig          `json:"aiConfig"`
	DiagramGroups     []DiagramGroup    `json:"diagramGroups"`
	ActiveGroupID     string            `json:"activeGroupId"`
	LastAiPatchAt     time.Time         `json:"lastAiPatchAt"`
	LastAiFingerprint uint64            `json:"lastAiFingerprint"`
	Board             boardState        `json:"board"`
}

// boardState is the JSON view of board.State embedded in a room snapshot.
type boardState struct {
	Elements      map[string]board.Element `json:"elements"`
	Order         []string                 `json:"order"`
	Revision      uint64                   `json:"revision"`
	LastUpdatedAt time.Time                `json:"lastUpdatedAt"`
}

// Snapshot builds a self-contained State value under a read lock.
func (r *Room) Snapshot() State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	groups := make([]DiagramGroup, 0, len(r.DiagramGroups))
	for _, g := range r.DiagramGroups {
		groups = append(groups, *g)
	}

	elements := make(map[string]board.Element, len(r.Board.Elements))
	for id, el := range r.Board.Elements {
		elements[id] = el
	}

	return State{
		RoomID:            r.ID,
		CreatedAt:         r.CreatedAt,
		Members:           r.membersLocked(),
		Chat:              append([]ChatMessage(nil), r.Chat...),
		Context:           append([]ContextItem(nil), r.Context...),
		Transcript:        append([]TranscriptChunk(nil), r.Transcript...),
		VisualHint:        r.VisualHint,
		AIConfig:          r.AIConfig,
		DiagramGroups:     groups,
		ActiveGroupID:     r.ActiveGroupID,
		LastAiPatchAt:     r.LastAiPatchAt,
		LastAiFingerprint: r.LastAiFingerprint,
		Board: boardState{
			Elements:      elements,
			Order:         append([]string(nil), r.Board.Order...),
			Revision:      r.Board.Revision,
			LastUpdatedAt: r.Board.LastUpdatedAt,
		},
	}
}
