package aiengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/PiyushDatta/senseboard/internal/board"
	"github.com/PiyushDatta/senseboard/internal/room"
)

func TestFingerprintStableForIdenticalInput(t *testing.T) {
	now := time.Now()
	input := Input{
		TranscriptWindow: []room.TranscriptChunk{{Text: "hello world", CreatedAt: now}},
		ContextItems:     []room.ContextItem{{ID: "c1", Title: "t", Text: "x"}},
		ActiveBoard:      board.State{Revision: 3},
	}
	assert.Equal(t, Fingerprint(input), Fingerprint(input))
}

func TestFingerprintChangesWithTranscript(t *testing.T) {
	now := time.Now()
	a := Input{TranscriptWindow: []room.TranscriptChunk{{Text: "hello", CreatedAt: now}}}
	b := Input{TranscriptWindow: []room.TranscriptChunk{{Text: "goodbye", CreatedAt: now}}}
	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
}

func TestFingerprintOpsDetectsChange(t *testing.T) {
	opsA := []board.Op{{Kind: board.OpSetElementText, ID: "e1", Text: "hello"}}
	opsB := []board.Op{{Kind: board.OpSetElementText, ID: "e1", Text: "world"}}
	assert.NotEqual(t, FingerprintOps(opsA), FingerprintOps(opsB))
	assert.Equal(t, FingerprintOps(opsA), FingerprintOps(opsA))
}
