package room

import (
	"sync"
	"time"

	"github.com/PiyushDatta/senseboard/internal/board"
)

// Sender is the minimal write handle a transport session exposes to the
// room layer. Room never holds a websocket connection directly — only this
// send-only handle — so there is no cycle between room and transport.
type Sender interface {
	// Send enqueues a frame for delivery; implementations must never
	// block the caller (a full/slow session drops the frame).
	Send(frame []byte)
	ID() string
}

// PersonalBoard is one member's private AI-regenerated canvas, mirrored
// against the room's shared board but lagging behind it per the scheduler's
// drain-wait rule.
type PersonalBoard struct {
	Board       board.State
	UpdatedAt   time.Time
	Fingerprint uint64
}

// Room is one whiteboard session. All fields below mu are mutated only
// while mu is held; Room methods take the lock on entry, and helpers with
// a Locked suffix assume it is already held.
type Room struct {
	mu sync.RWMutex

	ID        ID
	CreatedAt time.Time

	members  map[MemberID]*Member
	sessions map[MemberID]map[string]Sender

	Chat       []ChatMessage
	Context    []ContextItem
	Transcript []TranscriptChunk
	VisualHint string

	AIConfig          AIConfig
	DiagramGroups     map[string]*DiagramGroup
	ActiveGroupID     string
	AIHistory         []AIHistoryEntry
	LastAiPatchAt     time.Time
	LastAiFingerprint uint64

	Board          board.State
	PersonalBoards map[string]*PersonalBoard // keyed by normalized member name
}

// New constructs an empty room with idle defaults.
func New(id ID, now time.Time) *Room {
	return &Room{
		ID:        id,
		CreatedAt: now,
		members:   map[MemberID]*Member{},
		sessions:  map[MemberID]map[string]Sender{},
		AIConfig: AIConfig{
			Status:         StatusIdle,
			PinnedGroupIDs: []string{},
		},
		DiagramGroups:  map[string]*DiagramGroup{},
		Board:          board.New(),
		PersonalBoards: map[string]*PersonalBoard{},
	}
}

// Members returns a snapshot slice of currently connected members, ordered
// by join time.
func (r *Room) Members() []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.membersLocked()
}

func (r *Room) membersLocked() []Member {
	out := make([]Member, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, *m)
	}
	sortMembersByJoin(out)
	return out
}

func sortMembersByJoin(members []Member) {
	for i := 1; i < len(members); i++ {
		for j := i; j > 0 && members[j].JoinedAt.Before(members[j-1].JoinedAt); j-- {
			members[j], members[j-1] = members[j-1], members[j]
		}
	}
}

// IsEmpty reports whether the room currently has zero connected members.
func (r *Room) IsEmpty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members) == 0
}

// Frozen reports the current freeze state (read without a full snapshot).
func (r *Room) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.AIConfig.Frozen
}

// PersonalMemberNames returns the normalized name keys of every distinct
// member currently connected, used to fan out personalized scheduler ticks.
func (r *Room) PersonalMemberNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[string]bool{}
	out := make([]string, 0, len(r.members))
	for _, m := range r.members {
		key := NormalizeName(m.DisplayName)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}
