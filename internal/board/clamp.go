package board

import "time"

// Canvas describes the logical drawing surface that clampToCanvas enforces.
// The AI-content lane is a narrower rectangle inside the full canvas;
// clampToCanvas moves every out-of-lane element back into it, whoever
// created the element.
type Canvas struct {
	Width   float64
	Height  float64
	Padding float64
	// LaneWidth/LaneHeight bound the inner lane AI elements are kept
	// inside; zero means "same as the full canvas".
	LaneWidth  float64
	LaneHeight float64
	// MaxElementWidth/MaxElementHeight cap individual element sizes;
	// zero means unbounded (still subject to board.MaxCoord).
	MaxElementWidth  float64
	MaxElementHeight float64
}

// DefaultCanvas matches the reference client's fixed whiteboard surface.
var DefaultCanvas = Canvas{
	Width:            3200,
	Height:           1800,
	Padding:          24,
	LaneWidth:        2400,
	LaneHeight:       1400,
	MaxElementWidth:  1600,
	MaxElementHeight: 1200,
}

func (c Canvas) laneBounds() (minX, minY, maxX, maxY float64) {
	lw, lh := c.LaneWidth, c.LaneHeight
	if lw == 0 {
		lw = c.Width
	}
	if lh == 0 {
		lh = c.Height
	}
	minX, minY = c.Padding, c.Padding
	maxX = minX + lw
	maxY = minY + lh
	return
}

// ClampToCanvas relocates out-of-lane elements back into the AI-content
// lane and clips polyline points into it, preserving widths/heights up to
// the configured element-size ceilings. It mutates by producing a new
// State, increments Revision only if at least one element actually
// changed, and returns the adjustment count alongside the (possibly
// unchanged) state.
func ClampToCanvas(s State, c Canvas, now time.Time) (State, int) {
	minX, minY, maxX, maxY := c.laneBounds()
	adjusted := 0
	next := s.clone()
	for id, el := range next.Elements {
		changed := false

		if c.MaxElementWidth > 0 && el.Width > c.MaxElementWidth {
			el.Width = c.MaxElementWidth
			changed = true
		}
		if c.MaxElementHeight > 0 && el.Height > c.MaxElementHeight {
			el.Height = c.MaxElementHeight
			changed = true
		}

		if el.Kind.isPolyline() && len(el.Points) > 0 {
			for i, p := range el.Points {
				clampedX := clampFloat(p.X, minX, maxX)
				clampedY := clampFloat(p.Y, minY, maxY)
				if clampedX != p.X || clampedY != p.Y {
					el.Points[i] = Point{X: clampedX, Y: clampedY}
					changed = true
				}
			}
		} else {
			right := el.X + el.Width
			bottom := el.Y + el.Height
			newX, newY := el.X, el.Y
			if el.X < minX {
				newX = minX
			} else if right > maxX {
				newX = maxX - el.Width
			}
			if el.Y < minY {
				newY = minY
			} else if bottom > maxY {
				newY = maxY - el.Height
			}
			if newX != el.X || newY != el.Y {
				el.X, el.Y = newX, newY
				changed = true
			}
		}

		if changed {
			next.Elements[id] = el
			adjusted++
		}
	}
	if adjusted == 0 {
		return s, 0
	}
	return touch(next, now), adjusted
}
