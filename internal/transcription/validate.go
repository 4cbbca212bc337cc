package transcription

import (
	"bytes"

	"github.com/go-audio/wav"
)

// ValidateAudio rejects obviously-too-small or malformed audio before a
// provider is ever called. A non-WAV payload is accepted as-is (the
// provider may support other containers); a WAV payload is additionally
// sanity-checked via its header.
func ValidateAudio(audio []byte) (ok bool, reason string) {
	if len(audio) < MinAudioBytes {
		return false, "audio_too_small"
	}
	if !looksLikeWav(audio) {
		return true, ""
	}
	decoder := wav.NewDecoder(bytes.NewReader(audio))
	if !decoder.IsValidFile() {
		return false, "audio_too_small"
	}
	decoder.ReadInfo()
	if decoder.SampleRate == 0 || decoder.NumChans == 0 {
		return false, "audio_too_small"
	}
	return true, ""
}

func looksLikeWav(audio []byte) bool {
	return len(audio) >= 12 && string(audio[0:4]) == "RIFF" && string(audio[8:12]) == "WAVE"
}
