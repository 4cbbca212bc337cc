package aiengine

import "encoding/json"

// SystemPrompt enumerates the allowed BoardOp variants and the modality
// priority policy, per §4.5.
const SystemPrompt = `You regenerate a collaborative whiteboard from a live conversation.
Reply with strict JSON: {"ops": [...], "confidence": 0.0-1.0}.
Allowed op kinds: upsertElement, deleteElement, appendStrokePoints, offsetElement,
setElementGeometry, setElementStyle, setElementText, duplicateElement,
setElementZIndex, alignElements, distributeElements, clearBoard, batch.
Policy: keep element identities stable across revisions; delete stale elements
that no longer reflect the conversation; honor correction directives over
context, and context over raw transcript, when they conflict.
If you cannot produce ops directly, reply with a DiagramPatch instead:
{"topic": "...", "diagramType": "flowchart|system_blocks|tree", "confidence": 0.0-1.0, "actions": [...]}.`

// BuildUserPrompt packages input as the structured JSON envelope §4.5
// requires.
func BuildUserPrompt(input Input) (string, error) {
	b, err := json.Marshal(input)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// BuildRevisionDirective appends the previous attempt and an improvement
// directive derived from the deterministic reference heuristic, used when
// a reply's confidence falls short of threshold.
func BuildRevisionDirective(previousReply string, referenceHint string) string {
	return "Previous attempt:\n" + previousReply +
		"\n\nImprove alignment with this reference heuristic, keeping element identities stable:\n" + referenceHint
}
