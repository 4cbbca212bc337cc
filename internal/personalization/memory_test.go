package personalization

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetMissingReturnsEmptyProfile(t *testing.T) {
	s := NewMemoryStore()
	p, err := s.Get(context.Background(), "alex")
	require.NoError(t, err)
	assert.Equal(t, "alex", p.NameKey)
	assert.Empty(t, p.ContextLines)
}

func TestMemoryStoreAppendAccumulates(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_, err := s.Append(ctx, "alex", "Alex", "likes trees")
	require.NoError(t, err)
	p, err := s.Append(ctx, "alex", "Alex", "prefers flowcharts")
	require.NoError(t, err)
	assert.Equal(t, []string{"likes trees", "prefers flowcharts"}, p.ContextLines)
}

func TestMemoryStoreAppendCapsContextLines(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for i := 0; i < MaxContextLines+5; i++ {
		_, _ = s.Append(ctx, "alex", "Alex", "line")
	}
	p, err := s.Get(ctx, "alex")
	require.NoError(t, err)
	assert.Len(t, p.ContextLines, MaxContextLines)
}
