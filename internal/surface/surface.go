// Package surface defines the immediate-mode 2D drawing context the scene
// engine renders onto. The engine never creates a surface; callers hand it one
// that is already attached to a pixel buffer or a browser canvas.
package surface

import "image"

// Context is the subset of a Canvas2D rendering context the engine uses.
// Transform calls compose with the current transform, and Save/Restore push
// and pop the transform together with every paint property.
type Context interface {
	Save()
	Restore()

	Translate(x, y float64)
	Rotate(radians float64)
	Scale(sx, sy float64)
	// Transform multiplies the current transform by [a b c d e f].
	Transform(a, b, c, d, e, f float64)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64)
	ClosePath()
	Fill()
	Stroke()

	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)
	ClearRect(x, y, w, h float64)

	SetFillStyle(style string)
	SetStrokeStyle(style string)
	SetLineWidth(width float64)
	SetGlobalAlpha(alpha float64)
	SetLineDash(segments []float64)
}

// ImageDrawer is implemented by surfaces that can paint decoded bitmaps.
// The image is scaled into the rectangle (x, y, w, h) in the current
// coordinate system.
type ImageDrawer interface {
	DrawImage(img image.Image, x, y, w, h float64)
}
