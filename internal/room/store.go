package room

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the process-wide room registry: the only place that creates,
// looks up, or removes Room values, with a grace period before an empty
// room is actually removed.
type Store struct {
	mu            sync.Mutex
	rooms         map[ID]*Room
	cleanupTimers map[ID]*time.Timer
	gracePeriod   time.Duration

	// OnTranscriptAccepted, when set, is invoked after a transcript chunk
	// is accepted into a room (from either the websocket or the REST
	// transcribe endpoint), wired by main to the scheduler's debounce.
	OnTranscriptAccepted func(roomID ID)

	// OnRoomRemoved, when set, is invoked after a room is actually dropped
	// at the end of its grace period, wired by main to let the scheduler
	// free its per-room queues.
	OnRoomRemoved func(roomID ID)
}

// NewStore constructs an empty Store. gracePeriod is how long an emptied
// room is kept around before being dropped, to absorb reconnect races.
func NewStore(gracePeriod time.Duration) *Store {
	return &Store{
		rooms:         map[ID]*Room{},
		cleanupTimers: map[ID]*time.Timer{},
		gracePeriod:   gracePeriod,
	}
}

// GetOrCreate normalizes id (trim+uppercase) and returns its Room, creating
// one if absent.
func (s *Store) GetOrCreate(raw string, now time.Time) *Room {
	id := NormalizeID(raw)
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[id]; ok {
		return r
	}
	r := New(id, now)
	s.rooms[id] = r
	return r
}

// Get looks up an existing room without creating one.
func (s *Store) Get(raw string) (*Room, bool) {
	id := NormalizeID(raw)
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	return r, ok
}

// Attach adds sessionID/sender as a session of memberID in room, creating
// a Member entry on first session. Cancels any pending grace-period
// removal for the room.
func (s *Store) Attach(r *Room, memberID MemberID, displayName, sessionID string, sender Sender, now time.Time) {
	r.AttachSession(memberID, displayName, sessionID, sender, now)
	s.cancelRemoval(r.ID)
}

// Detach removes a session; if the room becomes empty, schedules its
// grace-period removal.
func (s *Store) Detach(r *Room, memberID MemberID, sessionID string) {
	r.DetachSession(memberID, sessionID)
	if r.IsEmpty() {
		s.scheduleRemoval(r.ID)
	}
}

func (s *Store) scheduleRemoval(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.cleanupTimers[id]; ok {
		t.Stop()
	}
	s.cleanupTimers[id] = time.AfterFunc(s.gracePeriod, func() {
		s.mu.Lock()
		r, ok := s.rooms[id]
		removed := ok && r.IsEmpty()
		if removed {
			delete(s.rooms, id)
		}
		delete(s.cleanupTimers, id)
		s.mu.Unlock()
		if removed && s.OnRoomRemoved != nil {
			s.OnRoomRemoved(id)
		}
	})
}

func (s *Store) cancelRemoval(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.cleanupTimers[id]; ok {
		t.Stop()
		delete(s.cleanupTimers, id)
	}
}

// Broadcast serializes room's full State as a room:snapshot frame and
// writes it to every open session. A single session's failure to accept
// the frame never aborts the loop. No-op if the room no longer exists.
func (s *Store) Broadcast(r *Room) {
	if r == nil {
		return
	}
	frame, err := json.Marshal(ServerFrame{Type: MsgRoomSnapshot, Payload: r.Snapshot()})
	if err != nil {
		return
	}
	for _, sender := range r.senders() {
		sender.Send(frame)
	}
}

// BroadcastPersonalBoard sends a targeted personalBoard:update frame to
// every session belonging to members named nameKey (normalized). No-op if
// r is nil or nobody by that name is currently connected.
func (s *Store) BroadcastPersonalBoard(r *Room, nameKey string) {
	if r == nil {
		return
	}
	pb := r.PersonalBoardSnapshot(nameKey)
	payload := PersonalBoardUpdatePayload{
		Board: boardState{
			Elements:      pb.Board.Elements,
			Order:         pb.Board.Order,
			Revision:      pb.Board.Revision,
			LastUpdatedAt: pb.Board.LastUpdatedAt,
		},
		UpdatedAt: pb.UpdatedAt.UnixMilli(),
	}
	frame, err := json.Marshal(ServerFrame{Type: MsgPersonalBoardUpdate, Payload: payload})
	if err != nil {
		return
	}
	for _, sender := range r.sendersForName(nameKey) {
		sender.Send(frame)
	}
}

// SendError writes a room:error frame to a single sender.
func SendError(sender Sender, message string) {
	frame, err := json.Marshal(ServerFrame{Type: MsgRoomError, Payload: RoomErrorPayload{Message: message}})
	if err != nil {
		return
	}
	sender.Send(frame)
}

// Apply dispatches a ClientMessage against room on behalf of senderID, and
// broadcasts a fresh snapshot if the message mutated state. It returns
// false with a human-readable reason when the message was rejected.
func (s *Store) Apply(r *Room, senderID MemberID, senderName string, msg ClientMessage, now time.Time) (ok bool, reason string) {
	switch msg.Type {
	case MsgChatAdd:
		p, valid := assertPayload[chatAddPayload](msg.Payload)
		if !valid {
			return false, "invalid payload"
		}
		ok = r.HandleChatAdd(senderID, senderName, p, now)

	case MsgContextAdd:
		p, valid := assertPayload[contextAddPayload](msg.Payload)
		if !valid {
			return false, "invalid payload"
		}
		ok = r.HandleContextAdd(p, now)

	case MsgContextUpdate:
		p, valid := assertPayload[contextUpdatePayload](msg.Payload)
		if !valid {
			return false, "invalid payload"
		}
		ok = r.HandleContextUpdate(p, now)

	case MsgContextDelete:
		p, valid := assertPayload[contextDeletePayload](msg.Payload)
		if !valid {
			return false, "invalid payload"
		}
		ok = r.HandleContextDelete(p)

	case MsgTranscriptAdd:
		p, valid := assertPayload[transcriptAddPayload](msg.Payload)
		if !valid {
			return false, "invalid payload"
		}
		var tReason string
		ok, tReason = r.HandleTranscriptAdd(p, now)
		if ok && s.OnTranscriptAccepted != nil {
			s.OnTranscriptAccepted(r.ID)
		}
		if !ok {
			return false, tReason
		}

	case MsgVisualHintSet:
		p, valid := assertPayload[visualHintSetPayload](msg.Payload)
		if !valid {
			return false, "invalid payload"
		}
		ok = r.HandleVisualHintSet(p)

	case MsgAIConfigUpdate:
		p, valid := assertPayload[aiConfigUpdatePayload](msg.Payload)
		if !valid {
			return false, "invalid payload"
		}
		ok = r.HandleAIConfigUpdate(p)

	case MsgDiagramPinCurrent:
		p, valid := assertPayload[diagramPinCurrentPayload](msg.Payload)
		if !valid {
			return false, "invalid payload"
		}
		ok = r.HandleDiagramPinCurrent(p, now)

	case MsgDiagramUndoAI:
		ok = r.HandleDiagramUndoAI()

	case MsgDiagramRestoreArchived:
		p, valid := assertPayload[diagramRestoreArchivedPayload](msg.Payload)
		if !valid {
			return false, "invalid payload"
		}
		ok = r.HandleDiagramRestoreArchived(p)

	case MsgDiagramClearBoard:
		ok = r.HandleDiagramClearBoard(now)

	case MsgClientAck:
		return false, "already acknowledged"

	default:
		return false, "unknown message type"
	}

	if ok {
		s.Broadcast(r)
		return true, ""
	}
	return false, "rejected"
}

// NewSessionID mints a random session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// NewMemberID mints a random member identifier for a freshly attached
// participant.
func NewMemberID() MemberID {
	return MemberID(uuid.NewString())
}
