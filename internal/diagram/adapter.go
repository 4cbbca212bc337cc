package diagram

import (
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/PiyushDatta/senseboard/internal/board"
)

const (
	defaultNodeWidth  = 160
	defaultNodeHeight = 72
	levelGap          = 150
	siblingGap        = 220
	accentStrokeColor = "#fbbf24"
)

type rect struct {
	x, y, w, h float64
}

func center(r rect) (float64, float64) {
	return r.x + r.w/2, r.y + r.h/2
}

// StableID translates an upstream node/shape identifier into a collision-
// resistant board element id, namespaced so the same raw id used for a
// node vs. a title vs. a notes block never collides with itself.
func StableID(namespace, raw string) string {
	h := xxhash.Sum64String(namespace + ":" + raw)
	return fmt.Sprintf("sense-%s-%016x", namespace, h)
}

// Adapt converts a DiagramPatch into a batch of board.Op so legacy patches
// flow through the same reducer as direct BoardOp generation. active is the
// board the patch will be applied to; it is used only to find stale
// AI-created elements to delete, never mutated.
func Adapt(patch Patch, active board.State, now time.Time) []board.Op {
	nodeOrder := make([]string, 0, len(patch.Actions))
	nodeLabel := map[string]string{}
	nodeShape := map[string]string{}
	nodePos := map[string]rect{}
	children := map[string][]string{}
	hasIncoming := map[string]bool{}
	var layout LayoutKind

	for _, a := range patch.Actions {
		switch a.Kind {
		case ActionUpsertNode:
			if _, seen := nodePos[a.NodeID]; !seen {
				nodeOrder = append(nodeOrder, a.NodeID)
			}
			nodeLabel[a.NodeID] = a.Label
			nodeShape[a.NodeID] = a.Shape
			nodePos[a.NodeID] = rect{x: a.X, y: a.Y, w: defaultNodeWidth, h: defaultNodeHeight}
		case ActionUpsertEdge:
			children[a.FromID] = append(children[a.FromID], a.ToID)
			hasIncoming[a.ToID] = true
		case ActionLayoutHint:
			layout = a.Layout
		}
	}

	if layout != "" && len(nodeOrder) > 0 {
		nodePos = computeLayout(layout, nodeOrder, children, hasIncoming)
	}

	var ops []board.Op
	newIDs := map[string]bool{}

	emitNode := func(nodeID string) {
		id := StableID("node", nodeID)
		newIDs[id] = true
		kind := board.KindRect
		if nodeShape[nodeID] == "diamond" {
			kind = board.KindEllipse
		}
		pos := nodePos[nodeID]
		ops = append(ops, board.Op{
			Kind: board.OpUpsertElement,
			Element: board.Element{
				ID:      id,
				Kind:    kind,
				X:       pos.x,
				Y:       pos.y,
				Width:   pos.w,
				Height:  pos.h,
				Text:    nodeLabel[nodeID],
				Creator: board.CreatorAI,
			},
		})
	}

	for _, a := range patch.Actions {
		switch a.Kind {
		case ActionUpsertNode:
			emitNode(a.NodeID)

		case ActionUpsertEdge:
			fromID := StableID("node", a.FromID)
			toID := StableID("node", a.ToID)
			newIDs[fromID] = true
			newIDs[toID] = true
			fx, fy := center(nodePos[a.FromID])
			tx, ty := center(nodePos[a.ToID])
			edgeID := StableID("edge", a.FromID+">"+a.ToID)
			newIDs[edgeID] = true
			ops = append(ops, board.Op{
				Kind: board.OpUpsertElement,
				Element: board.Element{
					ID:      edgeID,
					Kind:    board.KindArrow,
					Points:  []board.Point{{X: fx, Y: fy}, {X: tx, Y: ty}},
					Creator: board.CreatorAI,
				},
			})

		case ActionDeleteShape:
			ops = append(ops, board.Op{Kind: board.OpDeleteElement, ID: StableID("node", a.ShapeID)})

		case ActionSetTitle:
			id := StableID("title", patch.TargetGroupID+patch.Topic)
			newIDs[id] = true
			ops = append(ops, board.Op{
				Kind: board.OpUpsertElement,
				Element: board.Element{
					ID:      id,
					Kind:    board.KindFrame,
					Title:   a.Text,
					Width:   defaultNodeWidth * 2,
					Height:  defaultNodeHeight,
					Creator: board.CreatorAI,
				},
			})

		case ActionSetNotes:
			id := StableID("notes", patch.TargetGroupID+patch.Topic)
			newIDs[id] = true
			ops = append(ops, board.Op{
				Kind: board.OpUpsertElement,
				Element: board.Element{
					ID:      id,
					Kind:    board.KindText,
					Text:    a.Text,
					Creator: board.CreatorAI,
				},
			})

		case ActionHighlightOrder:
			labels := make([]string, 0, len(a.OrderedIDs))
			for _, nodeID := range a.OrderedIDs {
				id := StableID("node", nodeID)
				newIDs[id] = true
				ops = append(ops, board.Op{
					Kind:  board.OpSetElementStyle,
					ID:    id,
					Style: board.Style{StrokeColor: accentStrokeColor},
				})
				if lbl, ok := nodeLabel[nodeID]; ok && lbl != "" {
					labels = append(labels, lbl)
				} else {
					labels = append(labels, nodeID)
				}
			}
			orderID := StableID("order", patch.TargetGroupID+patch.Topic)
			newIDs[orderID] = true
			ops = append(ops, board.Op{
				Kind: board.OpUpsertElement,
				Element: board.Element{
					ID:      orderID,
					Kind:    board.KindText,
					Text:    "Order: " + strings.Join(labels, " → "),
					Creator: board.CreatorAI,
				},
			})

		case ActionLayoutHint:
			// positions already folded into nodePos above.
		}
	}

	for id, el := range active.Elements {
		if el.Creator == board.CreatorAI && !newIDs[id] {
			ops = append(ops, board.Op{Kind: board.OpDeleteElement, ID: id})
		}
	}

	return ops
}

func computeLayout(layout LayoutKind, order []string, children map[string][]string, hasIncoming map[string]bool) map[string]rect {
	pos := map[string]rect{}
	switch layout {
	case LayoutTree:
		roots := make([]string, 0)
		for _, id := range order {
			if !hasIncoming[id] {
				roots = append(roots, id)
			}
		}
		if len(roots) == 0 {
			roots = order[:1]
		}
		x := 0.0
		var place func(id string, depth int)
		visited := map[string]bool{}
		place = func(id string, depth int) {
			if visited[id] {
				return
			}
			visited[id] = true
			pos[id] = rect{x: x, y: float64(depth) * levelGap, w: defaultNodeWidth, h: defaultNodeHeight}
			x += siblingGap
			for _, c := range children[id] {
				place(c, depth+1)
			}
		}
		for _, r := range roots {
			place(r, 0)
		}
		for _, id := range order {
			if !visited[id] {
				place(id, 0)
			}
		}
	case LayoutLeftToRight:
		for i, id := range order {
			pos[id] = rect{x: float64(i) * siblingGap, y: 0, w: defaultNodeWidth, h: defaultNodeHeight}
		}
	case LayoutTopDown:
		fallthrough
	default:
		for i, id := range order {
			pos[id] = rect{x: 0, y: float64(i) * levelGap, w: defaultNodeWidth, h: defaultNodeHeight}
		}
	}
	return pos
}
