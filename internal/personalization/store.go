// Package personalization provides the opaque member-profile store
// SenseBoard treats as an external collaborator (§6): a key→profile lookup
// keyed by a normalized display name, holding a bounded list of free-text
// context lines accumulated across sessions.
package personalization

import (
	"context"
	"time"
)

// MaxContextLines bounds how many accumulated context lines a profile
// keeps; older lines are dropped from the head.
const MaxContextLines = 50

// Profile is one member's personalization record.
type Profile struct {
	NameKey      string    `json:"nameKey"`
	DisplayName  string    `json:"displayName"`
	ContextLines []string  `json:"contextLines"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Store is the personalization profile interface; SenseBoard never
// inspects a profile's semantics beyond this contract.
type Store interface {
	Get(ctx context.Context, nameKey string) (Profile, error)
	Append(ctx context.Context, nameKey, displayName, line string) (Profile, error)
	Close() error
}
