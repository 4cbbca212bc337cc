package room

import "time"

// AttachSession idempotently adds a session for memberID; if this is the
// first open session for that member, a Member entry is appended.
func (r *Room) AttachSession(memberID MemberID, displayName, sessionID string, sender Sender, now time.Time) (firstSession bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sessions[memberID] == nil {
		r.sessions[memberID] = map[string]Sender{}
	}
	_, hadMember := r.members[memberID]
	r.sessions[memberID][sessionID] = sender

	if !hadMember {
		r.members[memberID] = &Member{
			ID:          memberID,
			DisplayName: displayName,
			JoinedAt:    now,
		}
		return true
	}
	return false
}

// DetachSession removes one session; when a member's last session closes,
// the Member entry itself is removed. Returns true when the member was
// removed (room membership changed).
func (r *Room) DetachSession(memberID MemberID, sessionID string) (memberRemoved bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessSet := r.sessions[memberID]
	if sessSet == nil {
		return false
	}
	delete(sessSet, sessionID)
	if len(sessSet) > 0 {
		return false
	}
	delete(r.sessions, memberID)
	delete(r.members, memberID)
	return true
}

// senders returns every open send handle in the room, for broadcast.
func (r *Room) senders() []Sender {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Sender, 0)
	for _, set := range r.sessions {
		for _, s := range set {
			out = append(out, s)
		}
	}
	return out
}

// sendersForName returns every open send handle belonging to members whose
// normalized display name matches nameKey, for a personal board's targeted
// update frame.
func (r *Room) sendersForName(nameKey string) []Sender {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Sender, 0)
	for id, m := range r.members {
		if NormalizeName(m.DisplayName) != nameKey {
			continue
		}
		for _, s := range r.sessions[id] {
			out = append(out, s)
		}
	}
	return out
}
