package aiengine

import (
	"context"
	"encoding/json"
	"time"

	"github.com/PiyushDatta/senseboard/internal/aiprovider"
	"github.com/PiyushDatta/senseboard/internal/board"
	"github.com/PiyushDatta/senseboard/internal/diagram"
)

// DefaultMaxRevisions and DefaultConfidenceThreshold back ai.review.* when
// a config value isn't supplied.
const (
	DefaultMaxRevisions        = 20
	DefaultConfidenceThreshold = 0.98
)

// Engine ties a hosted provider to the deterministic offline generator and
// drives the bounded sequential revision loop described by §4.5: a single
// in-flight call at a time, never fanned out concurrently, terminating on
// confidence threshold, revision budget, or provider error.
type Engine struct {
	Provider            aiprovider.Provider
	MaxRevisions        int
	ConfidenceThreshold float64
}

// NewEngine builds an engine. Provider may be nil, in which case Generate
// always falls back to the deterministic generator.
func NewEngine(provider aiprovider.Provider, maxRevisions int, confidenceThreshold float64) *Engine {
	if maxRevisions <= 0 {
		maxRevisions = DefaultMaxRevisions
	}
	if confidenceThreshold <= 0 {
		confidenceThreshold = DefaultConfidenceThreshold
	}
	return &Engine{Provider: provider, MaxRevisions: maxRevisions, ConfidenceThreshold: confidenceThreshold}
}

// Result is one Generate outcome.
type Result struct {
	Ops        []board.Op
	Confidence float64
	Source     string // "provider" or "deterministic"
	Revisions  int
}

// providerReply is the envelope a hosted provider is instructed to return:
// either a direct op batch, or a DiagramPatch when the provider can't
// produce ops directly.
type providerReply struct {
	Ops        []board.Op `json:"ops"`
	Confidence float64    `json:"confidence"`

	Topic       string           `json:"topic"`
	DiagramType diagram.Kind     `json:"diagramType"`
	Actions     []diagram.Action `json:"actions"`
}

// Generate runs the revision loop against input.ActiveBoard and returns a
// board.Op batch ready for room.RecordAIPatch. It never returns an error:
// any provider failure or budget exhaustion falls back to the deterministic
// generator so a tick always produces something to apply (even if that
// something is an empty batch).
func (e *Engine) Generate(ctx context.Context, input Input, now time.Time) Result {
	if e.Provider == nil {
		return e.deterministicResult(input, now, 0)
	}

	var lastOps []board.Op
	var lastConfidence float64
	var lastReplyText string
	revision := 0

	referenceHint, err := json.Marshal(DeterministicGenerate(input))
	if err != nil {
		return e.deterministicResult(input, now, revision)
	}

	for revision <= e.MaxRevisions {
		userPrompt, err := BuildUserPrompt(input)
		if err != nil {
			return e.deterministicResult(input, now, revision)
		}
		systemPrompt := SystemPrompt
		if revision > 0 {
			userPrompt = BuildRevisionDirective(lastReplyText, string(referenceHint))
		}

		reply, err := e.Provider.Generate(ctx, systemPrompt, userPrompt)
		if err != nil {
			if lastOps != nil {
				return Result{Ops: lastOps, Confidence: lastConfidence, Source: "provider", Revisions: revision}
			}
			return e.deterministicResult(input, now, revision)
		}
		lastReplyText = reply

		var parsed providerReply
		if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
			revision++
			continue
		}

		var ops []board.Op
		switch {
		case len(parsed.Ops) > 0:
			ops = parsed.Ops
		case len(parsed.Actions) > 0:
			patch := diagram.Patch{
				Topic:       parsed.Topic,
				DiagramType: parsed.DiagramType,
				Confidence:  parsed.Confidence,
				Actions:     parsed.Actions,
			}
			ops = diagram.Adapt(patch, input.ActiveBoard, now)
		default:
			revision++
			continue
		}

		lastOps = ops
		lastConfidence = parsed.Confidence
		if parsed.Confidence >= e.ConfidenceThreshold {
			return Result{Ops: ops, Confidence: parsed.Confidence, Source: "provider", Revisions: revision}
		}
		revision++
	}

	if lastOps != nil {
		return Result{Ops: lastOps, Confidence: lastConfidence, Source: "provider", Revisions: revision}
	}
	return e.deterministicResult(input, now, revision)
}

func (e *Engine) deterministicResult(input Input, now time.Time, revisions int) Result {
	patch := DeterministicGenerate(input)
	ops := diagram.Adapt(patch, input.ActiveBoard, now)
	return Result{Ops: ops, Confidence: patch.Confidence, Source: "deterministic", Revisions: revisions}
}
