package engine

import (
	"github.com/inamate/canvas-go/internal/geom"
)

// Segment is a directed edge from O to D.
type Segment struct {
	O geom.Point
	D geom.Point
}

// ImageLines returns the edges of a quadrilateral clockwise: top, right,
// bottom, left.
func ImageLines(c Corner) [4]Segment {
	return [4]Segment{
		{O: c.TL, D: c.TR},
		{O: c.TR, D: c.BR},
		{O: c.BR, D: c.BL},
		{O: c.BL, D: c.TL},
	}
}

// FindCrossPoints counts how many edges a horizontal ray cast from p towards
// +x crosses. A convex quadrilateral is crossed at most twice, so counting
// stops there.
func FindCrossPoints(p geom.Point, lines [4]Segment) int {
	count := 0
	for _, line := range lines {
		o, d := line.O, line.D

		// Edge entirely above or below the ray.
		if (o.Y < p.Y && d.Y < p.Y) || (o.Y > p.Y && d.Y > p.Y) {
			continue
		}

		var xi float64
		if o.X == d.X && o.X >= p.X {
			xi = o.X
		} else {
			b1 := 0.0
			b2 := (d.Y - o.Y) / (d.X - o.X)
			a1 := p.Y - b1*p.X
			a2 := o.Y - b2*o.X
			xi = -(a1 - a2) / (b1 - b2)
		}

		// NaN from a degenerate edge never satisfies this.
		if xi >= p.X {
			count++
		}
		if count == 2 {
			break
		}
	}
	return count
}

// ContainsPoint reports whether p, in scene coordinates, falls inside the
// shape's oriented bounding quadrilateral.
func (s *Shape) ContainsPoint(p geom.Point) bool {
	if s.degenerate() {
		return false
	}
	lines := ImageLines(s.Coords.Quad())
	return FindCrossPoints(p, lines)%2 == 1
}

// FindTargetCorner returns the control whose grab square contains p. Only
// active shapes with controls have grabbable corners.
func (s *Shape) FindTargetCorner(p geom.Point) (ControlName, bool) {
	if !s.HasControls || !s.Active || s.degenerate() {
		return "", false
	}
	for _, name := range Controls {
		if name == ControlMTR && !s.HasRotatingPoint {
			continue
		}
		cp := s.Coords.Control(name)
		if FindCrossPoints(p, ImageLines(cp.Corner))%2 == 1 {
			return name, true
		}
	}
	return "", false
}

var controlCursors = map[ControlName]string{
	ControlTL: "nw-resize",
	ControlTR: "ne-resize",
	ControlBR: "se-resize",
	ControlBL: "sw-resize",
	ControlML: "w-resize",
	ControlMT: "n-resize",
	ControlMR: "e-resize",
	ControlMB: "s-resize",
}

// ControlCursor returns the CSS cursor for hovering a control.
func ControlCursor(name ControlName, rotationCursor string) string {
	if name == ControlMTR {
		return rotationCursor
	}
	if c, ok := controlCursors[name]; ok {
		return c
	}
	return "default"
}
