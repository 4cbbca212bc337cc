package aiengine

import (
	"regexp"
	"strings"

	"github.com/PiyushDatta/senseboard/internal/diagram"
)

var rootRe = regexp.MustCompile(`(?i)root\s+(?:is\s+|node\s+)?([A-Za-z0-9_]+)`)
var childrenRe = regexp.MustCompile(`(?i)child(?:ren)?\s+(?:are\s+|of\s+[A-Za-z0-9_]+\s+)?(?:is\s+|are\s+)?([A-Za-z0-9_ ,and]+)`)
var chainSplitRe = regexp.MustCompile(`\s*->\s*`)
var thenSplitRe = regexp.MustCompile(`(?i)\s+then\s+`)
var treeKeywords = []string{"tree", "root", "child", "children"}
var systemKeywords = []string{"service", "database", "cache", "queue", "->", "api", "system"}

// DeterministicGenerate classifies the given input lexically and produces a
// diagram.Patch without calling any hosted provider. It backs both the
// ai.provider=deterministic path and the universal fallback invoked when
// every hosted provider call fails.
func DeterministicGenerate(input Input) diagram.Patch {
	lines := collectLines(input)
	switch classify(lines) {
	case diagram.KindTree:
		if p, ok := buildTree(lines); ok {
			return p
		}
		return buildChain(lines, diagram.KindFlowchart, thenSplitRe)
	case diagram.KindSystemBlocks:
		return buildChain(lines, diagram.KindSystemBlocks, chainSplitRe)
	default:
		return buildChain(lines, diagram.KindFlowchart, thenSplitRe)
	}
}

func collectLines(input Input) []string {
	var lines []string
	for _, c := range input.TranscriptWindow {
		if strings.TrimSpace(c.Text) != "" {
			lines = append(lines, c.Text)
		}
	}
	for _, c := range input.Corrections {
		if strings.TrimSpace(c) != "" {
			lines = append(lines, c)
		}
	}
	for _, it := range input.ContextItems {
		if strings.TrimSpace(it.Text) != "" {
			lines = append(lines, it.Text)
		}
		if strings.TrimSpace(it.Title) != "" {
			lines = append(lines, it.Title)
		}
	}
	return lines
}

func classify(lines []string) diagram.Kind {
	joined := strings.ToLower(strings.Join(lines, " \n "))
	treeScore, systemScore := 0, 0
	for _, k := range treeKeywords {
		if strings.Contains(joined, k) {
			treeScore++
		}
	}
	for _, k := range systemKeywords {
		if strings.Contains(joined, k) {
			systemScore++
		}
	}
	if treeScore >= systemScore && treeScore > 0 {
		return diagram.KindTree
	}
	if systemScore > 0 {
		return diagram.KindSystemBlocks
	}
	return diagram.KindFlowchart
}

// buildTree looks for a "root X" line and a "children ... of X" line and
// emits a root node, one node per child, and an edge from root to each
// child.
func buildTree(lines []string) (diagram.Patch, bool) {
	joined := strings.Join(lines, "\n")
	rootMatch := rootRe.FindStringSubmatch(joined)
	childMatch := childrenRe.FindStringSubmatch(joined)
	if rootMatch == nil || childMatch == nil {
		return diagram.Patch{}, false
	}
	root := rootMatch[1]
	children := splitNames(childMatch[1])
	if len(children) == 0 {
		return diagram.Patch{}, false
	}

	actions := []diagram.Action{
		{Kind: diagram.ActionUpsertNode, NodeID: slug(root), Label: root},
	}
	var ordered []string
	ordered = append(ordered, slug(root))
	for _, child := range children {
		actions = append(actions, diagram.Action{Kind: diagram.ActionUpsertNode, NodeID: slug(child), Label: child})
		actions = append(actions, diagram.Action{Kind: diagram.ActionUpsertEdge, FromID: slug(root), ToID: slug(child)})
		ordered = append(ordered, slug(child))
	}
	actions = append(actions, diagram.Action{Kind: diagram.ActionLayoutHint, Layout: diagram.LayoutTree})
	actions = append(actions, diagram.Action{Kind: diagram.ActionHighlightOrder, OrderedIDs: ordered})

	return diagram.Patch{
		Topic:       root,
		DiagramType: diagram.KindTree,
		Confidence:  0.75,
		Actions:     actions,
	}, true
}

// buildChain splits each line on sep and threads the resulting tokens into
// a sequential node chain, deduplicating repeated tokens by id.
func buildChain(lines []string, kind diagram.Kind, sep *regexp.Regexp) diagram.Patch {
	var actions []diagram.Action
	seen := map[string]bool{}
	var prevID string
	var topic string

	for _, line := range lines {
		tokens := sep.Split(line, -1)
		if len(tokens) < 2 {
			continue
		}
		if topic == "" {
			topic = strings.TrimSpace(tokens[0])
		}
		prevID = ""
		for _, tok := range tokens {
			name := strings.TrimSpace(tok)
			if name == "" {
				continue
			}
			id := slug(name)
			if !seen[id] {
				seen[id] = true
				actions = append(actions, diagram.Action{Kind: diagram.ActionUpsertNode, NodeID: id, Label: name})
			}
			if prevID != "" {
				actions = append(actions, diagram.Action{Kind: diagram.ActionUpsertEdge, FromID: prevID, ToID: id})
			}
			prevID = id
		}
	}
	if topic == "" {
		topic = "diagram"
	}
	if len(actions) > 0 {
		layout := diagram.LayoutLeftToRight
		if kind == diagram.KindFlowchart {
			layout = diagram.LayoutTopDown
		}
		actions = append(actions, diagram.Action{Kind: diagram.ActionLayoutHint, Layout: layout})
	}

	return diagram.Patch{
		Topic:       topic,
		DiagramType: kind,
		Confidence:  0.6,
		Actions:     actions,
	}
}

func splitNames(raw string) []string {
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, " and ", ",")
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		name := strings.TrimSpace(p)
		name = strings.TrimRight(name, ".")
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

func slug(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
