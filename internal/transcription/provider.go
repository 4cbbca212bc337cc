// Package transcription implements the pluggable audio→text layer:
// TranscriptionProvider.transcribe(audio, mime) -> {ok, text, provider?,
// error?} per §6, plus WAV framing/size validation run before any provider
// is invoked.
package transcription

import "context"

// MinAudioBytes is the §8 scenario-7 size gate: anything smaller is
// rejected as audio_too_small without ever reaching a provider.
const MinAudioBytes = 2048

// Result is a provider's transcription outcome.
type Result struct {
	OK       bool   `json:"ok"`
	Text     string `json:"text"`
	Provider string `json:"provider,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Provider transcribes a raw audio blob into text.
type Provider interface {
	Transcribe(ctx context.Context, audio []byte, mime string) (Result, error)
	Name() string
}
