// Package aiprovider implements the hosted/local diagram-generation
// backends the AI engine drives through its revision loop. Each provider
// is a thin, stateless HTTP (or subprocess) client: DiagramProvider.generate
// (prompt) -> JSON reply per §6.
package aiprovider

import "context"

// Provider generates a raw JSON reply (either {ops[],confidence} or a
// DiagramPatch) from a fully-assembled prompt string.
type Provider interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Name() string
}
