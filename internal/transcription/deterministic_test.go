package transcription

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAudioRejectsTooSmall(t *testing.T) {
	ok, reason := ValidateAudio(make([]byte, 200))
	assert.False(t, ok)
	assert.Equal(t, "audio_too_small", reason)
}

func TestValidateAudioAcceptsNonWavAboveThreshold(t *testing.T) {
	ok, _ := ValidateAudio(make([]byte, MinAudioBytes+1))
	assert.True(t, ok)
}

func TestDeterministicTranscribeRejectsTooSmall(t *testing.T) {
	d := Deterministic{}
	res, err := d.Transcribe(context.Background(), make([]byte, 10), "audio/wav")
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "audio_too_small", res.Error)
}

func TestDeterministicTranscribeAcceptsLargeEnough(t *testing.T) {
	d := Deterministic{}
	res, err := d.Transcribe(context.Background(), make([]byte, MinAudioBytes+10), "audio/wav")
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.NotEmpty(t, res.Text)
}
