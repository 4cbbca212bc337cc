package personalization

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process, map-backed Store used in tests and as a
// fallback when no sqlite path is configured.
type MemoryStore struct {
	mu       sync.Mutex
	profiles map[string]Profile
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: map[string]Profile{}}
}

func (m *MemoryStore) Get(_ context.Context, nameKey string) (Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.profiles[nameKey]; ok {
		return p, nil
	}
	return Profile{NameKey: nameKey}, nil
}

func (m *MemoryStore) Append(_ context.Context, nameKey, displayName, line string) (Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.profiles[nameKey]
	p.NameKey = nameKey
	if displayName != "" {
		p.DisplayName = displayName
	}
	if line != "" {
		p.ContextLines = append(p.ContextLines, line)
		if len(p.ContextLines) > MaxContextLines {
			p.ContextLines = p.ContextLines[len(p.ContextLines)-MaxContextLines:]
		}
	}
	p.UpdatedAt = time.Now()
	m.profiles[nameKey] = p
	return p, nil
}

func (m *MemoryStore) Close() error { return nil }
