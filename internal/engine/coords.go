package engine

import (
	"math"

	"github.com/inamate/canvas-go/internal/geom"
)

// ControlName identifies one of the nine control anchors of a shape.
type ControlName string

const (
	ControlTL  ControlName = "tl"
	ControlTR  ControlName = "tr"
	ControlBR  ControlName = "br"
	ControlBL  ControlName = "bl"
	ControlML  ControlName = "ml"
	ControlMT  ControlName = "mt"
	ControlMR  ControlName = "mr"
	ControlMB  ControlName = "mb"
	ControlMTR ControlName = "mtr"
)

// Controls lists the anchors in the order they are laid out and tested.
var Controls = []ControlName{
	ControlTL, ControlTR, ControlBR, ControlBL,
	ControlML, ControlMT, ControlMR, ControlMB, ControlMTR,
}

// Corner is a four-point quadrilateral.
type Corner struct {
	TL geom.Point `json:"tl"`
	TR geom.Point `json:"tr"`
	BL geom.Point `json:"bl"`
	BR geom.Point `json:"br"`
}

// ControlPoint is an anchor position and the square around it that can be
// grabbed.
type ControlPoint struct {
	geom.Point
	Corner Corner `json:"corner"`
}

// Coords are a shape's anchors in scene coordinates. TL, TR, BR and BL are
// the oriented bounding quadrilateral; the rest are edge midpoints and the
// rotation handle.
type Coords struct {
	TL  ControlPoint `json:"tl"`
	TR  ControlPoint `json:"tr"`
	BR  ControlPoint `json:"br"`
	BL  ControlPoint `json:"bl"`
	ML  ControlPoint `json:"ml"`
	MT  ControlPoint `json:"mt"`
	MR  ControlPoint `json:"mr"`
	MB  ControlPoint `json:"mb"`
	MTR ControlPoint `json:"mtr"`
}

// Control returns a pointer to the named anchor, or nil.
func (c *Coords) Control(name ControlName) *ControlPoint {
	switch name {
	case ControlTL:
		return &c.TL
	case ControlTR:
		return &c.TR
	case ControlBR:
		return &c.BR
	case ControlBL:
		return &c.BL
	case ControlML:
		return &c.ML
	case ControlMT:
		return &c.MT
	case ControlMR:
		return &c.MR
	case ControlMB:
		return &c.MB
	case ControlMTR:
		return &c.MTR
	}
	return nil
}

// Quad returns the oriented bounding quadrilateral.
func (c Coords) Quad() Corner {
	return Corner{TL: c.TL.Point, TR: c.TR.Point, BL: c.BL.Point, BR: c.BR.Point}
}

// SetCoords recomputes CurrentWidth, CurrentHeight and Coords from the
// current options. It must be called after any geometric change; the Set*
// helpers do so.
func (s *Shape) SetCoords() *Shape {
	// A hairline stroke does not grow the box.
	strokeWidth := 0.0
	if s.StrokeWidth > 1 {
		strokeWidth = s.StrokeWidth
	}
	theta := geom.DegreesToRadians(s.Angle)
	sin, cos := math.Sincos(theta)

	s.CurrentWidth = (s.Width+strokeWidth)*s.ScaleX + s.Padding*2
	s.CurrentHeight = (s.Height+strokeWidth)*s.ScaleY + s.Padding*2
	cw, ch := s.CurrentWidth, s.CurrentHeight

	hypotenuse := math.Sqrt(math.Pow(cw/2, 2) + math.Pow(ch/2, 2))
	angle0 := math.Atan(ch / cw)
	if math.IsNaN(angle0) {
		angle0 = 0
	}
	offsetX := math.Cos(angle0+theta) * hypotenuse
	offsetY := math.Sin(angle0+theta) * hypotenuse

	across := geom.Pt(cos, sin)
	down := geom.Pt(-sin, cos)

	center := s.CenterPoint()
	tl := geom.Pt(center.X-offsetX, center.Y-offsetY)
	tr := tl.Add(across.Mul(cw))
	br := tr.Add(down.Mul(ch))
	bl := tl.Add(down.Mul(ch))
	ml := tl.Add(down.Mul(ch / 2))
	mt := tl.Add(across.Mul(cw / 2))
	mr := tr.Add(down.Mul(ch / 2))
	mb := bl.Add(across.Mul(cw / 2))

	s.Coords = Coords{
		TL:  ControlPoint{Point: tl},
		TR:  ControlPoint{Point: tr},
		BR:  ControlPoint{Point: br},
		BL:  ControlPoint{Point: bl},
		ML:  ControlPoint{Point: ml},
		MT:  ControlPoint{Point: mt},
		MR:  ControlPoint{Point: mr},
		MB:  ControlPoint{Point: mb},
		MTR: ControlPoint{Point: mt},
	}
	s.setCornerCoords()
	return s
}

// setCornerCoords builds the grab square around every anchor: a square of
// side CornerSize whose diagonal follows the shape's local axes.
func (s *Shape) setCornerCoords() {
	coords := &s.Coords
	newTheta := geom.DegreesToRadians(45 - s.Angle)
	cornerHypotenuse := math.Sqrt(2*math.Pow(s.CornerSize, 2)) / 2
	cosHalfOffset := cornerHypotenuse * math.Cos(newTheta)
	sinHalfOffset := cornerHypotenuse * math.Sin(newTheta)
	sinTh, cosTh := math.Sincos(geom.DegreesToRadians(s.Angle))

	for _, name := range Controls {
		cp := coords.Control(name)
		x, y := cp.X, cp.Y
		if name == ControlMTR {
			x += sinTh * s.RotatingPointOffset
			y -= cosTh * s.RotatingPointOffset
		}
		cp.Corner = Corner{
			TL: geom.Pt(x-sinHalfOffset, y-cosHalfOffset),
			TR: geom.Pt(x+cosHalfOffset, y-sinHalfOffset),
			BL: geom.Pt(x-cosHalfOffset, y+sinHalfOffset),
			BR: geom.Pt(x+sinHalfOffset, y+cosHalfOffset),
		}
	}
}
