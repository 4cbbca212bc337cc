package board

import (
	"sort"
	"strings"
	"time"
)

// Apply reduces a single Op against state, returning the (possibly
// unchanged) next state. It never panics and never returns an error: an
// invalid or unknown op is a no-op, identifiable because Revision and
// LastUpdatedAt are left untouched.
func Apply(s State, op Op, now time.Time) State {
	switch op.Kind {
	case OpBatch:
		return applyBatch(s, op.Ops, now)
	case OpUpsertElement:
		return applyUpsert(s, op.Element, now)
	case OpDeleteElement:
		return applyDelete(s, op.ID, now)
	case OpAppendStrokePoints:
		return applyAppendStrokePoints(s, op.ID, op.Points, now)
	case OpOffsetElement:
		return applyOffset(s, op.ID, op.DX, op.DY, now)
	case OpSetElementGeometry:
		return applySetGeometry(s, op, now)
	case OpSetElementStyle:
		return applySetStyle(s, op.ID, op.Style, now)
	case OpSetElementText:
		return applySetText(s, op.ID, op.Text, now)
	case OpDuplicateElement:
		return applyDuplicate(s, op.ID, op.NewID, op.DX, op.DY, now)
	case OpSetElementZIndex:
		return applySetZIndex(s, op.ID, op.ZIndex, now)
	case OpAlignElements:
		return AlignElements(s, op.IDs, op.Axis, op.Target, now)
	case OpDistributeElements:
		return DistributeElements(s, op.IDs, op.Axis, op.Gap, now)
	case OpClearBoard:
		return applyClear(s, now)
	case OpSetViewport:
		return s
	default:
		return s
	}
}

// ApplyBatch reduces a sequence of ops in order, returning the final state.
func ApplyBatch(s State, ops []Op, now time.Time) State {
	return applyBatch(s, ops, now)
}

func applyBatch(s State, ops []Op, now time.Time) State {
	for _, op := range ops {
		s = Apply(s, op, now)
	}
	return s
}

func touch(s State, now time.Time) State {
	s.Revision++
	s.LastUpdatedAt = now
	return s
}

func applyUpsert(s State, el Element, now time.Time) State {
	if !el.Kind.valid() || strings.TrimSpace(el.ID) == "" {
		return s
	}
	_, exists := s.Elements[el.ID]
	if !exists && len(s.Elements) >= MaxElements {
		return s
	}
	el = sanitizeElement(el, now)
	s = s.clone()
	if !exists {
		s.Order = append(s.Order, el.ID)
	}
	s.Elements[el.ID] = el
	return touch(s, now)
}

func applyDelete(s State, id string, now time.Time) State {
	if _, ok := s.Elements[id]; !ok {
		return s
	}
	s = s.clone()
	delete(s.Elements, id)
	s.Order = removeID(s.Order, id)
	return touch(s, now)
}

func applyClear(s State, now time.Time) State {
	if len(s.Elements) == 0 {
		return s
	}
	next := New()
	return touch(next, now)
}

func applyAppendStrokePoints(s State, id string, pts []Point, now time.Time) State {
	el, ok := s.Elements[id]
	if !ok || el.Kind != KindStroke || len(pts) == 0 {
		return s
	}
	if len(pts) > MaxAppendPoints {
		pts = pts[:MaxAppendPoints]
	}
	s = s.clone()
	el = s.Elements[id]
	el.Points = append(el.Points, pts...)
	if len(el.Points) > MaxPoints {
		el.Points = el.Points[len(el.Points)-MaxPoints:]
	}
	s.Elements[id] = el
	return touch(s, now)
}

func applyOffset(s State, id string, dx, dy float64, now time.Time) State {
	el, ok := s.Elements[id]
	if !ok {
		return s
	}
	s = s.clone()
	el = s.Elements[id]
	el.X = clampFloat(el.X+dx, -MaxCoord, MaxCoord)
	el.Y = clampFloat(el.Y+dy, -MaxCoord, MaxCoord)
	if el.Kind.isPolyline() {
		for i := range el.Points {
			el.Points[i].X = clampFloat(el.Points[i].X+dx, -MaxCoord, MaxCoord)
			el.Points[i].Y = clampFloat(el.Points[i].Y+dy, -MaxCoord, MaxCoord)
		}
	}
	s.Elements[id] = el
	return touch(s, now)
}

func applySetGeometry(s State, op Op, now time.Time) State {
	el, ok := s.Elements[op.ID]
	if !ok {
		return s
	}
	s = s.clone()
	el = s.Elements[op.ID]
	if op.X != nil {
		el.X = clampFloat(*op.X, -MaxCoord, MaxCoord)
	}
	if op.Y != nil {
		el.Y = clampFloat(*op.Y, -MaxCoord, MaxCoord)
	}
	if op.Width != nil {
		el.Width = clampFloat(*op.Width, 1, MaxCoord)
	}
	if op.Height != nil {
		el.Height = clampFloat(*op.Height, 1, MaxCoord)
	}
	s.Elements[op.ID] = el
	return touch(s, now)
}

func applySetStyle(s State, id string, style Style, now time.Time) State {
	if _, ok := s.Elements[id]; !ok {
		return s
	}
	s = s.clone()
	el := s.Elements[id]
	el.Style = style.clamp()
	s.Elements[id] = el
	return touch(s, now)
}

func applySetText(s State, id, text string, now time.Time) State {
	if _, ok := s.Elements[id]; !ok {
		return s
	}
	s = s.clone()
	el := s.Elements[id]
	el.Text = collapseAndTruncate(text)
	s.Elements[id] = el
	return touch(s, now)
}

func applySetZIndex(s State, id string, z int, now time.Time) State {
	if _, ok := s.Elements[id]; !ok {
		return s
	}
	s = s.clone()
	el := s.Elements[id]
	el.ZIndex = z
	s.Elements[id] = el
	return touch(s, now)
}

func applyDuplicate(s State, id, newID string, dx, dy float64, now time.Time) State {
	src, ok := s.Elements[id]
	if !ok {
		return s
	}
	if newID == "" {
		return s
	}
	if _, collide := s.Elements[newID]; collide {
		return s
	}
	dup := src.clone()
	dup.ID = newID
	dup.X = clampFloat(src.X+dx, -MaxCoord, MaxCoord)
	dup.Y = clampFloat(src.Y+dy, -MaxCoord, MaxCoord)
	if dup.Kind.isPolyline() {
		for i := range dup.Points {
			dup.Points[i].X = clampFloat(dup.Points[i].X+dx, -MaxCoord, MaxCoord)
			dup.Points[i].Y = clampFloat(dup.Points[i].Y+dy, -MaxCoord, MaxCoord)
		}
	}
	dup.CreatedAt = now
	return applyUpsert(s, dup, now)
}

// AlignElements translates every element in ids so its anchor (top-left for
// rect-like kinds, first point for polylines) lands on target along axis.
// Requires at least two renderable elements; a missing id is skipped.
func AlignElements(s State, ids []string, axis Axis, target *float64, now time.Time) State {
	els := resolveElements(s, ids)
	if len(els) < 2 {
		return s
	}
	anchor := elementAnchor(els[0], axis)
	wantTarget := anchor
	if target != nil {
		wantTarget = *target
	}
	s = s.clone()
	for _, el := range els {
		a := elementAnchor(el, axis)
		delta := wantTarget - a
		if delta == 0 {
			continue
		}
		cur := s.Elements[el.ID]
		if axis == AxisX {
			cur.X = clampFloat(cur.X+delta, -MaxCoord, MaxCoord)
		} else {
			cur.Y = clampFloat(cur.Y+delta, -MaxCoord, MaxCoord)
		}
		if cur.Kind.isPolyline() {
			for i := range cur.Points {
				if axis == AxisX {
					cur.Points[i].X = clampFloat(cur.Points[i].X+delta, -MaxCoord, MaxCoord)
				} else {
					cur.Points[i].Y = clampFloat(cur.Points[i].Y+delta, -MaxCoord, MaxCoord)
				}
			}
		}
		s.Elements[el.ID] = cur
	}
	return touch(s, now)
}

// DistributeElements orders ids by their centroid on axis, fixes the two
// endpoints, and spaces interior elements at equal intervals (gap if given,
// else (last-first)/(n-1)).
func DistributeElements(s State, ids []string, axis Axis, gap *float64, now time.Time) State {
	els := resolveElements(s, ids)
	if len(els) < 3 {
		return s
	}
	sort.Slice(els, func(i, j int) bool {
		return elementCentroid(els[i], axis) < elementCentroid(els[j], axis)
	})
	first := elementCentroid(els[0], axis)
	last := elementCentroid(els[len(els)-1], axis)
	step := (last - first) / float64(len(els)-1)
	if gap != nil {
		step = *gap
	}
	s = s.clone()
	for i, el := range els {
		if i == 0 || i == len(els)-1 {
			continue
		}
		wantCentroid := first + step*float64(i)
		delta := wantCentroid - elementCentroid(el, axis)
		cur := s.Elements[el.ID]
		if axis == AxisX {
			cur.X = clampFloat(cur.X+delta, -MaxCoord, MaxCoord)
		} else {
			cur.Y = clampFloat(cur.Y+delta, -MaxCoord, MaxCoord)
		}
		s.Elements[el.ID] = cur
	}
	return touch(s, now)
}

func resolveElements(s State, ids []string) []Element {
	out := make([]Element, 0, len(ids))
	for _, id := range ids {
		if el, ok := s.Elements[id]; ok {
			out = append(out, el)
		}
	}
	return out
}

func elementAnchor(el Element, axis Axis) float64 {
	if el.Kind.isPolyline() && len(el.Points) > 0 {
		if axis == AxisX {
			return el.Points[0].X
		}
		return el.Points[0].Y
	}
	if axis == AxisX {
		return el.X
	}
	return el.Y
}

func elementCentroid(el Element, axis Axis) float64 {
	if el.Kind.isPolyline() && len(el.Points) > 0 {
		var sum float64
		for _, p := range el.Points {
			if axis == AxisX {
				sum += p.X
			} else {
				sum += p.Y
			}
		}
		return sum / float64(len(el.Points))
	}
	w, h := el.Width/2, el.Height/2
	if axis == AxisX {
		return el.X + w
	}
	return el.Y + h
}

func removeID(order []string, id string) []string {
	out := order[:0:0]
	for _, v := range order {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func sanitizeElement(el Element, now time.Time) Element {
	el.X = clampFloat(el.X, -MaxCoord, MaxCoord)
	el.Y = clampFloat(el.Y, -MaxCoord, MaxCoord)
	if el.Width != 0 {
		el.Width = clampFloat(el.Width, 1, MaxCoord)
	}
	if el.Height != 0 {
		el.Height = clampFloat(el.Height, 1, MaxCoord)
	}
	el.Text = collapseAndTruncate(el.Text)
	el.Title = collapseAndTruncate(el.Title)
	el.Style = el.Style.clamp()
	if el.Kind.isPolyline() && len(el.Points) > MaxPoints {
		el.Points = el.Points[:MaxPoints]
	}
	if el.CreatedAt.IsZero() {
		el.CreatedAt = now
	}
	if el.Creator == "" {
		el.Creator = CreatorSystem
	}
	return el
}

func collapseAndTruncate(text string) string {
	fields := strings.Fields(text)
	collapsed := strings.Join(fields, " ")
	if len([]rune(collapsed)) <= MaxTextLen {
		return collapsed
	}
	r := []rune(collapsed)
	return string(r[:MaxTextLen])
}
