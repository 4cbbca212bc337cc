// Package aiengine assembles prompt input from a room, drives the
// provider revision loop, and falls back to a deterministic offline
// generator when no hosted provider is configured or every provider call
// fails.
package aiengine

import (
	"sort"
	"strings"
	"time"

	"github.com/PiyushDatta/senseboard/internal/board"
	"github.com/PiyushDatta/senseboard/internal/room"
)

// DefaultWindowSeconds is collectAiInput's default transcript lookback.
const DefaultWindowSeconds = 30

// MinLineChars below which a transcript line is considered low-signal
// unless it also carries a correction cue.
const MinLineChars = 8

var informationalKeywords = []string{
	"tree", "root", "child", "children", "node", "edge", "flow", "step",
	"architecture", "service", "cache", "database", "queue", "api",
	"system", "process", "diagram", "block", "component",
}

var correctionCues = []string{
	"actually", "instead", "correction", "i meant", "scratch that",
	"let me redo", "undo that",
}

// maxContextItems caps how many context items are folded into a prompt.
const maxContextItems = 20

// Input is the structured envelope the user prompt is built from.
type Input struct {
	TranscriptWindow     []room.TranscriptChunk `json:"transcriptWindow"`
	Corrections          []string               `json:"corrections"`
	ContextItems         []room.ContextItem     `json:"contextItems"`
	ModalityPriority     []string               `json:"modalityPriority"`
	CorrectionDirectives []string               `json:"correctionDirectives"`
	ActiveBoard          board.State            `json:"activeBoard"`
	AIConfig             room.AIConfig          `json:"aiConfig"`
	VisualHint           string                 `json:"visualHint"`
}

// CollectAiInput gathers the last windowSeconds of transcript (filtering
// low-signal lines while always preserving correction cues), the top
// context items (pinned first, then high, then normal, capped), the visual
// hint, the AI config, and the active board. Chat messages are not part of
// the input.
func CollectAiInput(r *room.Room, windowSeconds int, now time.Time) Input {
	if windowSeconds <= 0 {
		windowSeconds = DefaultWindowSeconds
	}
	snap := r.Snapshot()
	cutoff := now.Add(-time.Duration(windowSeconds) * time.Second)

	var window []room.TranscriptChunk
	var corrections []string
	for _, chunk := range snap.Transcript {
		if chunk.CreatedAt.Before(cutoff) {
			continue
		}
		isCorrection := hasCue(chunk.Text, correctionCues)
		if isCorrection {
			corrections = append(corrections, chunk.Text)
		}
		if isCorrection || isInformational(chunk.Text) {
			window = append(window, chunk)
		}
	}

	items := make([]room.ContextItem, len(snap.Context))
	copy(items, snap.Context)
	sort.SliceStable(items, func(i, j int) bool {
		return priorityRank(items[i].Priority) < priorityRank(items[j].Priority)
	})
	if len(items) > maxContextItems {
		items = items[:maxContextItems]
	}

	return Input{
		TranscriptWindow:     window,
		Corrections:          corrections,
		ContextItems:         items,
		ModalityPriority:     []string{"correction", "context", "transcript"},
		CorrectionDirectives: corrections,
		ActiveBoard:          board.State{Elements: cloneElements(snap.Board.Elements), Order: append([]string(nil), snap.Board.Order...), Revision: snap.Board.Revision, LastUpdatedAt: snap.Board.LastUpdatedAt},
		AIConfig:             snap.AIConfig,
		VisualHint:           snap.VisualHint,
	}
}

// HasAiSignal reports whether there is anything worth regenerating over:
// a non-empty filtered transcript window, or any context/chat activity
// since the room's last applied AI patch.
func HasAiSignal(r *room.Room, windowSeconds int, now time.Time) bool {
	input := CollectAiInput(r, windowSeconds, now)
	if len(input.TranscriptWindow) > 0 {
		return true
	}
	snap := r.Snapshot()
	for _, c := range snap.Context {
		if c.CreatedAt.After(snap.LastAiPatchAt) || c.UpdatedAt.After(snap.LastAiPatchAt) {
			return true
		}
	}
	for _, c := range snap.Chat {
		if c.CreatedAt.After(snap.LastAiPatchAt) {
			return true
		}
	}
	return false
}

func isInformational(text string) bool {
	if len([]rune(strings.TrimSpace(text))) < MinLineChars {
		return false
	}
	return hasCue(text, informationalKeywords)
}

func hasCue(text string, cues []string) bool {
	lower := strings.ToLower(text)
	for _, cue := range cues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}

func priorityRank(p room.ContextPriority) int {
	switch p {
	case room.PriorityPinned:
		return 0
	case room.PriorityHigh:
		return 1
	default:
		return 2
	}
}

func cloneElements(in map[string]board.Element) map[string]board.Element {
	out := make(map[string]board.Element, len(in))
	for id, el := range in {
		out[id] = el
	}
	return out
}
