// Package room owns the in-memory Room/Store domain: membership, bounded
// conversational history, AI configuration, and diagram groups. A Room's
// fields are mutated only through Room and Store methods, which serialize
// access with a per-room mutex — methods take the lock on entry, and only
// helpers with a Locked suffix assume it is already held.
package room

import (
	"time"

	"github.com/PiyushDatta/senseboard/internal/board"
)

const (
	ChatCap       = 300
	ContextCap    = 200
	TranscriptCap = 500
	AIHistoryCap  = 20

	// MinTranscriptChars is the §4.2 intake precondition: transcript
	// chunks shorter than this (after trim) are rejected before they
	// ever reach a room's history.
	MinTranscriptChars = 3
)

// ID is a normalized (trim+uppercase) room identifier.
type ID string

// MemberID is a stable per-participant identifier, independent of how many
// sessions (tabs/reconnects) that participant currently has open.
type MemberID string

// Member is one connected participant.
type Member struct {
	ID          MemberID  `json:"id"`
	DisplayName string    `json:"displayName"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// ChatMessage is one bounded chat history entry.
type ChatMessage struct {
	ID         string    `json:"id"`
	SenderID   MemberID  `json:"senderId"`
	SenderName string    `json:"senderName"`
	Text       string    `json:"text"`
	Kind       string    `json:"kind,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ContextPriority orders context items for AI input assembly: pinned first,
// then high, then normal.
type ContextPriority string

const (
	PriorityPinned ContextPriority = "pinned"
	PriorityHigh   ContextPriority = "high"
	PriorityNormal ContextPriority = "normal"
)

// ContextItem is a bounded piece of background material supplied by a
// participant (a note, a link, a reminder) that the AI engine may fold
// into its prompt.
type ContextItem struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Text      string          `json:"text"`
	Priority  ContextPriority `json:"priority"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// TranscriptSource distinguishes a chunk delivered over the websocket from
// one produced by server-side audio transcription.
type TranscriptSource string

const (
	SourceWire TranscriptSource = "wire"
	SourceMic  TranscriptSource = "mic"
)

// TranscriptChunk is one bounded transcript history entry.
type TranscriptChunk struct {
	ID        string           `json:"id"`
	Speaker   string           `json:"speaker"`
	Text      string           `json:"text"`
	Source    TranscriptSource `json:"source"`
	CreatedAt time.Time        `json:"createdAt"`
}

// AIStatus is the closed set of aiConfig.status values.
type AIStatus string

const (
	StatusIdle      AIStatus = "idle"
	StatusListening AIStatus = "listening"
	StatusUpdating  AIStatus = "updating"
	StatusFrozen    AIStatus = "frozen"
)

// Box is an optional focus rectangle that narrows the AI engine's
// attention to a sub-region of the board.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// AIConfig is the room's AI-steering configuration.
type AIConfig struct {
	Frozen         bool     `json:"frozen"`
	FocusMode      bool     `json:"focusMode"`
	FocusBox       *Box     `json:"focusBox,omitempty"`
	PinnedGroupIDs []string `json:"pinnedGroupIds"`
	Status         AIStatus `json:"status"`
}

// DiagramGroup is a named, archivable subset of board element ids.
type DiagramGroup struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	ElementIDs []string  `json:"elementIds"`
	Archived   bool      `json:"archived"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AIHistoryEntry records one applied (or attempted) AI patch for undo and
// for observability; preBoard is the board state immediately before the
// patch was applied, enabling diagram:undoAi to restore it.
type AIHistoryEntry struct {
	At       time.Time   `json:"at"`
	Reason   string      `json:"reason"`
	Applied  bool        `json:"applied"`
	preBoard board.State `json:"-"`
}
