package engine

import (
	"math"

	"github.com/inamate/canvas-go/internal/geom"
	"github.com/inamate/canvas-go/internal/surface"
)

// kappa is the bezier handle length that approximates a quarter circle.
const kappa = 0.5522847498

// Render draws the shape onto ctx. An invisible or zero-sized shape does not
// touch the surface at all; otherwise every state change is bracketed by a
// save/restore pair.
func (s *Shape) Render(ctx surface.Context) {
	if s.degenerate() {
		return
	}
	ctx.Save()
	defer ctx.Restore()

	s.transform(ctx)

	if s.Stroke != "" {
		lineWidth := s.StrokeWidth
		if s.StrokeUniform {
			lineWidth /= math.Max(math.Abs(s.ScaleX), math.Abs(s.ScaleY))
		}
		ctx.SetLineWidth(lineWidth)
		ctx.SetStrokeStyle(s.Stroke)
	}
	if s.Fill != "" {
		ctx.SetFillStyle(s.Fill)
	}

	if s.SkewX != 0 || s.SkewY != 0 {
		ctx.Save()
		m := geom.SkewX(s.SkewX).Multiply(geom.SkewY(s.SkewY))
		ctx.Transform(m[0], m[1], m[2], m[3], m[4], m[5])
		s.renderPrimitive(ctx)
		ctx.Restore()
	} else {
		s.renderPrimitive(ctx)
	}

	if s.Active {
		s.drawBorders(ctx)
		s.drawControls(ctx)
	}
}

// transform moves the surface origin to the shape's center, then rotates and
// scales it. Local drawing happens around (0, 0). Skew applies to the body
// only, so borders and controls stay on the unsheared box.
func (s *Shape) transform(ctx surface.Context) {
	center := s.CenterPoint()
	ctx.Translate(center.X, center.Y)
	ctx.Rotate(geom.DegreesToRadians(s.Angle))
	sx, sy := s.signedScale()
	ctx.Scale(sx, sy)
}

func (s *Shape) signedScale() (float64, float64) {
	sx, sy := s.ScaleX, s.ScaleY
	if s.FlipX {
		sx = -sx
	}
	if s.FlipY {
		sy = -sy
	}
	return sx, sy
}

func (s *Shape) paint(ctx surface.Context) {
	if s.Fill != "" {
		ctx.Fill()
	}
	if s.Stroke != "" && s.StrokeWidth > 0 {
		ctx.Stroke()
	}
}

func (s *Shape) renderPrimitive(ctx surface.Context) {
	switch s.Kind {
	case KindEllipse:
		s.renderEllipse(ctx)
	case KindTriangle:
		s.renderTriangle(ctx)
	case KindPath:
		s.renderPath(ctx)
	case KindImage:
		s.renderImage(ctx)
	default:
		s.renderRect(ctx)
	}
}

func (s *Shape) rectPath(ctx surface.Context) {
	w, h := s.Width, s.Height
	x, y := -w/2, -h/2
	rx := math.Min(s.RX, w/2)
	ry := math.Min(s.RY, h/2)
	rounded := rx != 0 || ry != 0
	k := 1 - kappa

	ctx.BeginPath()
	ctx.MoveTo(x+rx, y)
	ctx.LineTo(x+w-rx, y)
	if rounded {
		ctx.BezierCurveTo(x+w-k*rx, y, x+w, y+k*ry, x+w, y+ry)
	}
	ctx.LineTo(x+w, y+h-ry)
	if rounded {
		ctx.BezierCurveTo(x+w, y+h-k*ry, x+w-k*rx, y+h, x+w-rx, y+h)
	}
	ctx.LineTo(x+rx, y+h)
	if rounded {
		ctx.BezierCurveTo(x+k*rx, y+h, x, y+h-k*ry, x, y+h-ry)
	}
	ctx.LineTo(x, y+ry)
	if rounded {
		ctx.BezierCurveTo(x, y+k*ry, x+k*rx, y, x+rx, y)
	}
	ctx.ClosePath()
}

func (s *Shape) renderRect(ctx surface.Context) {
	s.rectPath(ctx)
	s.paint(ctx)
}

func (s *Shape) renderEllipse(ctx surface.Context) {
	rx, ry := s.Width/2, s.Height/2
	ox, oy := rx*kappa, ry*kappa

	ctx.BeginPath()
	ctx.MoveTo(-rx, 0)
	ctx.BezierCurveTo(-rx, -oy, -ox, -ry, 0, -ry)
	ctx.BezierCurveTo(ox, -ry, rx, -oy, rx, 0)
	ctx.BezierCurveTo(rx, oy, ox, ry, 0, ry)
	ctx.BezierCurveTo(-ox, ry, -rx, oy, -rx, 0)
	ctx.ClosePath()
	s.paint(ctx)
}

func (s *Shape) renderTriangle(ctx surface.Context) {
	w2, h2 := s.Width/2, s.Height/2

	ctx.BeginPath()
	ctx.MoveTo(-w2, h2)
	ctx.LineTo(0, -h2)
	ctx.LineTo(w2, h2)
	ctx.ClosePath()
	s.paint(ctx)
}

// renderPath draws the free-hand points, which are stored relative to the
// box's top-left corner.
func (s *Shape) renderPath(ctx surface.Context) {
	if len(s.Points) < 2 {
		return
	}
	w2, h2 := s.Width/2, s.Height/2

	ctx.BeginPath()
	ctx.MoveTo(s.Points[0].X-w2, s.Points[0].Y-h2)
	for _, p := range s.Points[1:] {
		ctx.LineTo(p.X-w2, p.Y-h2)
	}
	s.paint(ctx)
}

// renderImage paints the bitmap when the surface supports it. Without a
// bitmap the box itself is drawn so the shape stays visible.
func (s *Shape) renderImage(ctx surface.Context) {
	drawer, ok := ctx.(surface.ImageDrawer)
	if !ok || s.Image == nil {
		s.renderRect(ctx)
		return
	}
	w, h := s.Width, s.Height
	drawer.DrawImage(s.Image, -w/2, -h/2, w, h)
	if s.Stroke != "" && s.StrokeWidth > 0 {
		s.rectPath(ctx)
		ctx.Stroke()
	}
}

// drawBorders outlines the selected shape. The scale is undone first so the
// outline keeps a one pixel width at any zoom of the shape.
func (s *Shape) drawBorders(ctx surface.Context) {
	const (
		padding     = 2.0
		strokeWidth = 1.0
	)

	ctx.Save()
	defer ctx.Restore()

	ctx.SetGlobalAlpha(s.borderAlpha())
	ctx.SetStrokeStyle(s.BorderColor)
	ctx.SetLineWidth(strokeWidth)

	sx, sy := s.signedScale()
	ctx.Scale(1/sx, 1/sy)

	w := s.Width * s.ScaleX
	h := s.Height * s.ScaleY
	ctx.StrokeRect(
		-(w/2)-padding-strokeWidth/2,
		-(h/2)-padding-strokeWidth/2,
		w+padding*2+strokeWidth,
		h+padding*2+strokeWidth,
	)

	if s.HasRotatingPoint && s.HasControls {
		rotateHeight := (-h - strokeWidth - padding*2) / 2
		ctx.BeginPath()
		ctx.MoveTo(0, rotateHeight)
		ctx.LineTo(0, rotateHeight-s.RotatingPointOffset)
		ctx.ClosePath()
		ctx.Stroke()
	}
}

func (s *Shape) borderAlpha() float64 {
	if s.IsMoving {
		return s.BorderOpacityWhenMoving
	}
	return 1
}

// drawControls paints the nine grab squares. Sizes are divided by the scale
// so the squares stay CornerSize pixels wide on screen.
func (s *Shape) drawControls(ctx surface.Context) {
	if !s.HasControls {
		return
	}

	var (
		size             = s.CornerSize
		size2            = size / 2
		strokeWidth2     = s.StrokeWidth / 2
		left             = -(s.Width / 2)
		top              = -(s.Height / 2)
		width            = s.Width
		height           = s.Height
		sizeX            = size / s.ScaleX
		sizeY            = size / s.ScaleY
		paddingX         = s.Padding / s.ScaleX
		paddingY         = s.Padding / s.ScaleY
		scaleOffsetX     = size2 / s.ScaleX
		scaleOffsetY     = size2 / s.ScaleY
		scaleOffsetSizeX = (size2 - size) / s.ScaleX
		scaleOffsetSizeY = (size2 - size) / s.ScaleY
	)

	draw := ctx.FillRect
	if s.TransparentCorners {
		draw = ctx.StrokeRect
	}
	control := func(x, y float64) {
		ctx.ClearRect(x, y, sizeX, sizeY)
		draw(x, y, sizeX, sizeY)
	}

	ctx.Save()
	defer ctx.Restore()

	ctx.SetLineWidth(s.BorderWidth / math.Max(s.ScaleX, s.ScaleY))
	ctx.SetGlobalAlpha(s.borderAlpha())
	ctx.SetStrokeStyle(s.CornerColor)
	ctx.SetFillStyle(s.CornerColor)

	// tl, tr, bl, br
	control(left-scaleOffsetX-strokeWidth2-paddingX, top-scaleOffsetY-strokeWidth2-paddingY)
	control(left+width-scaleOffsetX+strokeWidth2+paddingX, top-scaleOffsetY-strokeWidth2-paddingY)
	control(left-scaleOffsetX-strokeWidth2-paddingX, top+height+scaleOffsetSizeY+strokeWidth2+paddingY)
	control(left+width+scaleOffsetSizeX+strokeWidth2+paddingX, top+height+scaleOffsetSizeY+strokeWidth2+paddingY)

	// mt, mb, mr, ml
	control(left+width/2-scaleOffsetX, top-scaleOffsetY-strokeWidth2-paddingY)
	control(left+width/2-scaleOffsetX, top+height+scaleOffsetSizeY+strokeWidth2+paddingY)
	control(left+width+scaleOffsetSizeX+strokeWidth2+paddingX, top+height/2-scaleOffsetY)
	control(left-scaleOffsetX-strokeWidth2-paddingX, top+height/2-scaleOffsetY)

	if s.HasRotatingPoint {
		control(
			left+width/2-scaleOffsetX,
			top-s.RotatingPointOffset/s.ScaleY-sizeY/2-strokeWidth2-paddingY,
		)
	}
}
