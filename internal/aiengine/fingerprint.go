package aiengine

import (
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/PiyushDatta/senseboard/internal/board"
)

// Fingerprint hashes the normalized input that would drive a regeneration,
// so a tick whose inputs haven't meaningfully changed since the last
// applied patch can be suppressed instead of re-invoking a provider.
func Fingerprint(input Input) uint64 {
	var sb strings.Builder
	for _, c := range input.TranscriptWindow {
		sb.WriteString("t:")
		sb.WriteString(strings.TrimSpace(c.Text))
		sb.WriteByte('\n')
	}

	corrections := append([]string(nil), input.Corrections...)
	sort.Strings(corrections)
	for _, c := range corrections {
		sb.WriteString("c:")
		sb.WriteString(strings.TrimSpace(c))
		sb.WriteByte('\n')
	}

	type key struct{ id, title, text string }
	keys := make([]key, 0, len(input.ContextItems))
	for _, it := range input.ContextItems {
		keys = append(keys, key{it.ID, it.Title, it.Text})
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].id < keys[j].id })
	for _, k := range keys {
		sb.WriteString("i:")
		sb.WriteString(k.id)
		sb.WriteString(k.title)
		sb.WriteString(k.text)
		sb.WriteByte('\n')
	}

	sb.WriteString("v:")
	sb.WriteString(input.VisualHint)
	return xxhash.Sum64String(sb.String())
}

// FingerprintOps hashes an emitted op batch, used to detect that a provider
// reply would produce no actual change against the board it was applied to.
func FingerprintOps(ops []board.Op) uint64 {
	var sb strings.Builder
	for _, op := range ops {
		sb.WriteString(string(op.Kind))
		sb.WriteByte('|')
		sb.WriteString(op.ID)
		sb.WriteByte('|')
		sb.WriteString(op.Text)
		sb.WriteByte('\n')
	}
	return xxhash.Sum64String(sb.String())
}
