package engine

import (
	"strconv"

	"github.com/inamate/canvas-go/internal/geom"
)

// originOffset maps an origin to its offset from the box center, in units of
// the box size: left/top are -0.5, center is 0, right/bottom are 0.5, and a
// fraction f maps to f-0.5.
func originOffset(o Origin, horizontal bool) (float64, bool) {
	switch o {
	case OriginCenter:
		return 0, true
	case OriginLeft:
		return -0.5, horizontal
	case OriginRight:
		return 0.5, horizontal
	case OriginTop:
		return -0.5, !horizontal
	case OriginBottom:
		return 0.5, !horizontal
	}

	f, err := strconv.ParseFloat(string(o), 64)
	if err != nil || f < 0 || f > 1 {
		return 0, false
	}
	return f - 0.5, true
}

func originXOffset(o Origin) float64 {
	v, _ := originOffset(o, true)
	return v
}

func originYOffset(o Origin) float64 {
	v, _ := originOffset(o, false)
	return v
}

// TranslateToGivenOrigin converts a point expressed relative to one origin of
// the shape into the same position expressed relative to another origin.
func (s *Shape) TranslateToGivenOrigin(p geom.Point, fromX, fromY, toX, toY Origin) geom.Point {
	offsetX := originXOffset(toX) - originXOffset(fromX)
	offsetY := originYOffset(toY) - originYOffset(fromY)

	if offsetX != 0 || offsetY != 0 {
		dim := s.TransformedDimensions()
		p.X += offsetX * dim.X
		p.Y += offsetY * dim.Y
	}
	return p
}

// CenterPoint returns the shape's center in scene coordinates. Every render
// and hit-test computation starts from this point.
func (s *Shape) CenterPoint() geom.Point {
	anchor := geom.Pt(s.Left, s.Top)
	center := s.TranslateToGivenOrigin(anchor, s.OriginX, s.OriginY, OriginCenter, OriginCenter)
	if s.Angle != 0 {
		return geom.RotatePoint(center, anchor, geom.DegreesToRadians(s.Angle))
	}
	return center
}

// PointByOrigin returns the scene position of the given origin of the shape.
func (s *Shape) PointByOrigin(originX, originY Origin) geom.Point {
	center := s.CenterPoint()
	p := s.TranslateToGivenOrigin(center, OriginCenter, OriginCenter, originX, originY)
	if s.Angle != 0 {
		return geom.RotatePoint(p, center, geom.DegreesToRadians(s.Angle))
	}
	return p
}

// SetPositionByOrigin moves the shape so that its origin (originX, originY)
// lands on pos.
func (s *Shape) SetPositionByOrigin(pos geom.Point, originX, originY Origin) {
	center := s.TranslateToGivenOrigin(pos, originX, originY, OriginCenter, OriginCenter)
	if s.Angle != 0 {
		center = geom.RotatePoint(center, pos, geom.DegreesToRadians(s.Angle))
	}

	anchor := s.TranslateToGivenOrigin(center, OriginCenter, OriginCenter, s.OriginX, s.OriginY)
	if s.Angle != 0 {
		anchor = geom.RotatePoint(anchor, center, geom.DegreesToRadians(s.Angle))
	}
	s.SetPosition(anchor.X, anchor.Y)
}

// TransformedDimensions returns the rendered width and height of the shape,
// including stroke, scale and the envelope of any skew.
func (s *Shape) TransformedDimensions() geom.Point {
	var dimX, dimY float64
	if s.StrokeUniform {
		dimX, dimY = s.Width, s.Height
	} else {
		dimX, dimY = s.Width+s.StrokeWidth, s.Height+s.StrokeWidth
	}

	var dim geom.Point
	if s.SkewX == 0 && s.SkewY == 0 {
		dim = geom.Pt(dimX*s.ScaleX, dimY*s.ScaleY)
	} else {
		dim = geom.SizeAfterTransform(dimX, dimY, geom.DimensionsOptions{
			ScaleX: s.ScaleX,
			ScaleY: s.ScaleY,
			SkewX:  s.SkewX,
			SkewY:  s.SkewY,
		})
	}

	if s.StrokeUniform {
		dim.X += s.StrokeWidth
		dim.Y += s.StrokeWidth
	}
	return dim
}
