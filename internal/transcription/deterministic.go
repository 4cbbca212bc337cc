package transcription

import "context"

// Deterministic is an offline stub transcriber: it never calls out to a
// network service. Audio that ValidateAudio rejects fails with its reason;
// any other audio succeeds with a fixed placeholder transcript. Used for
// ai.provider=deterministic and in tests that must
// not depend on network state.
type Deterministic struct{}

func (Deterministic) Name() string { return "deterministic" }

func (Deterministic) Transcribe(_ context.Context, audio []byte, _ string) (Result, error) {
	if ok, reason := ValidateAudio(audio); !ok {
		return Result{OK: false, Error: reason}, nil
	}
	return Result{OK: true, Text: "(deterministic placeholder transcript)", Provider: "deterministic"}, nil
}
