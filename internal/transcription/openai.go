package transcription

import (
	"bytes"
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI calls a Whisper-compatible hosted transcription endpoint.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI constructs a hosted transcription provider.
func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = openai.Whisper1
	}
	return &OpenAI{client: openai.NewClient(apiKey), model: model}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Transcribe(ctx context.Context, audio []byte, mime string) (Result, error) {
	if ok, reason := ValidateAudio(audio); !ok {
		return Result{OK: false, Error: reason}, nil
	}
	req := openai.AudioRequest{
		Model:    o.model,
		Reader:   bytes.NewReader(audio),
		FilePath: "chunk" + extensionForMime(mime),
	}
	resp, err := o.client.CreateTranscription(ctx, req)
	if err != nil {
		return Result{OK: false, Error: fmt.Sprintf("openai transcription: %v", err)}, err
	}
	return Result{OK: true, Text: resp.Text, Provider: "openai"}, nil
}

func extensionForMime(mime string) string {
	switch mime {
	case "audio/wav", "audio/x-wav":
		return ".wav"
	case "audio/mpeg":
		return ".mp3"
	case "audio/webm":
		return ".webm"
	default:
		return ".wav"
	}
}
