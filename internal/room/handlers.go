package room

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PiyushDatta/senseboard/internal/board"
)

// HandleChatAdd appends a chat message. Empty/whitespace-only text is
// dropped per §4.2 and reported as not-ok.
func (r *Room) HandleChatAdd(senderID MemberID, senderName string, p chatAddPayload, now time.Time) bool {
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Chat = append(r.Chat, ChatMessage{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		SenderName: senderName,
		Text:       text,
		Kind:       p.Kind,
		CreatedAt:  now,
	})
	if len(r.Chat) > ChatCap {
		r.Chat = r.Chat[len(r.Chat)-ChatCap:]
	}
	return true
}

// HandleContextAdd appends a context item, defaulting an empty title to
// "Untitled context" per §4.2.
func (r *Room) HandleContextAdd(p contextAddPayload, now time.Time) bool {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = "Untitled context"
	}
	priority := ContextPriority(p.Priority)
	switch priority {
	case PriorityPinned, PriorityHigh, PriorityNormal:
	default:
		priority = PriorityNormal
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Context = append(r.Context, ContextItem{
		ID:        uuid.NewString(),
		Title:     title,
		Text:      strings.TrimSpace(p.Text),
		Priority:  priority,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if len(r.Context) > ContextCap {
		r.Context = r.Context[len(r.Context)-ContextCap:]
	}
	return true
}

// HandleContextUpdate patches an existing context item in place.
func (r *Room) HandleContextUpdate(p contextUpdatePayload, now time.Time) bool {
	if p.ID == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Context {
		if r.Context[i].ID != p.ID {
			continue
		}
		if p.Title != nil {
			if t := strings.TrimSpace(*p.Title); t != "" {
				r.Context[i].Title = t
			}
		}
		if p.Text != nil {
			r.Context[i].Text = strings.TrimSpace(*p.Text)
		}
		if p.Priority != nil {
			pr := ContextPriority(*p.Priority)
			switch pr {
			case PriorityPinned, PriorityHigh, PriorityNormal:
				r.Context[i].Priority = pr
			}
		}
		r.Context[i].UpdatedAt = now
		return true
	}
	return false
}

// HandleContextDelete removes a context item by id.
func (r *Room) HandleContextDelete(p contextDeletePayload) bool {
	if p.ID == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Context {
		if r.Context[i].ID == p.ID {
			r.Context = append(r.Context[:i], r.Context[i+1:]...)
			return true
		}
	}
	return false
}

// HandleTranscriptAdd appends a transcript chunk, rejecting empty text and
// text below the minimum informational length per §4.2/§4.5.
func (r *Room) HandleTranscriptAdd(p transcriptAddPayload, now time.Time) (ok bool, reason string) {
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return false, "empty_transcript"
	}
	if len([]rune(text)) < MinTranscriptChars {
		return false, "empty_transcript"
	}
	source := TranscriptSource(p.Source)
	if source != SourceMic {
		source = SourceWire
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Transcript = append(r.Transcript, TranscriptChunk{
		ID:        uuid.NewString(),
		Speaker:   strings.TrimSpace(p.Speaker),
		Text:      text,
		Source:    source,
		CreatedAt: now,
	})
	if len(r.Transcript) > TranscriptCap {
		r.Transcript = r.Transcript[len(r.Transcript)-TranscriptCap:]
	}
	return true, ""
}

// HandleVisualHintSet replaces the room's free-text visual hint.
func (r *Room) HandleVisualHintSet(p visualHintSetPayload) bool {
	hint := strings.TrimSpace(p.Hint)
	if hint == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.VisualHint = hint
	return true
}

// HandleAIConfigUpdate applies a partial AIConfig patch, enforcing the
// freeze/focus coupling invariants from §4.2: a focusMode transition to
// false clears focusBox; frozen forces status=frozen and vice versa
// (status returns to idle on unfreeze unless a generation is mid-flight).
func (r *Room) HandleAIConfigUpdate(p aiConfigUpdatePayload) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfg := r.AIConfig
	changed := false

	if p.FocusMode != nil && *p.FocusMode != cfg.FocusMode {
		cfg.FocusMode = *p.FocusMode
		if !cfg.FocusMode {
			cfg.FocusBox = nil
		}
		changed = true
	}
	if p.FocusBox != nil {
		cfg.FocusBox = p.FocusBox
		changed = true
	}
	if p.PinnedGroupIDs != nil {
		cfg.PinnedGroupIDs = *p.PinnedGroupIDs
		changed = true
	}
	if p.Frozen != nil && *p.Frozen != cfg.Frozen {
		cfg.Frozen = *p.Frozen
		if cfg.Frozen {
			cfg.Status = StatusFrozen
		} else if cfg.Status == StatusFrozen {
			cfg.Status = StatusIdle
		}
		changed = true
	}

	if !changed {
		return false
	}
	r.AIConfig = cfg
	return true
}

// HandleDiagramPinCurrent captures every AI-created element currently on
// the board as a new named, active DiagramGroup.
func (r *Room) HandleDiagramPinCurrent(p diagramPinCurrentPayload, now time.Time) bool {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = "Untitled diagram"
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0)
	for _, id := range r.Board.Order {
		if el, ok := r.Board.Elements[id]; ok && el.Creator == board.CreatorAI {
			ids = append(ids, id)
		}
	}
	group := &DiagramGroup{
		ID:         uuid.NewString(),
		Title:      title,
		ElementIDs: ids,
		CreatedAt:  now,
	}
	r.DiagramGroups[group.ID] = group
	r.ActiveGroupID = group.ID
	return true
}

// HandleDiagramUndoAI restores the board to its state immediately before
// the most recent applied AI patch.
func (r *Room) HandleDiagramUndoAI() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.AIHistory) - 1; i >= 0; i-- {
		if !r.AIHistory[i].Applied {
			continue
		}
		r.Board = r.AIHistory[i].preBoard
		r.AIHistory = r.AIHistory[:i]
		return true
	}
	return false
}

// HandleDiagramRestoreArchived un-archives a previously archived group and
// makes it active.
func (r *Room) HandleDiagramRestoreArchived(p diagramRestoreArchivedPayload) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.DiagramGroups[p.GroupID]
	if !ok || !g.Archived {
		return false
	}
	g.Archived = false
	r.ActiveGroupID = g.ID
	return true
}

// HandleDiagramClearBoard clears the board and archives the active group.
func (r *Room) HandleDiagramClearBoard(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Board.Elements) == 0 {
		return false
	}
	if g, ok := r.DiagramGroups[r.ActiveGroupID]; ok {
		g.Archived = true
	}
	r.ActiveGroupID = ""
	r.Board = board.Apply(r.Board, board.Op{Kind: board.OpClearBoard}, now)
	return true
}

// SetAIStatus transitions aiConfig.status directly, bypassing the frozen/
// focus invariants HandleAIConfigUpdate enforces — used by the scheduler to
// report listening/updating/idle transitions around a generation cycle. A
// frozen room's status is left untouched; only the scheduler's own
// freeze check should have kept it from reaching this call in the first
// place, but this guards against a race between a freeze toggle and an
// in-flight tick.
func (r *Room) SetAIStatus(status AIStatus, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.AIConfig.Frozen {
		return
	}
	r.AIConfig.Status = status
}

// RecordAIPatch applies ops to the shared board, tracks undo history, and
// updates the fingerprint/timestamp bookkeeping the scheduler relies on to
// suppress idempotent ticks.
func (r *Room) RecordAIPatch(ops []board.Op, fingerprint uint64, reason string, now time.Time) (applied bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pre := r.Board
	next := board.ApplyBatch(r.Board, ops, now)
	applied = next.Revision != pre.Revision
	r.AIHistory = append(r.AIHistory, AIHistoryEntry{At: now, Reason: reason, Applied: applied, preBoard: pre})
	if len(r.AIHistory) > AIHistoryCap {
		r.AIHistory = r.AIHistory[len(r.AIHistory)-AIHistoryCap:]
	}
	if applied {
		r.Board = next
		r.LastAiPatchAt = now
		r.LastAiFingerprint = fingerprint
	}
	return applied
}
