// Package raster provides an in-memory pixel surface for the scene engine.
// It implements the same drawing context a browser canvas exposes, so the
// server and CLI can render boards without a browser.
package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/inamate/canvas-go/internal/geom"
	"github.com/inamate/canvas-go/internal/surface"
)

// miterLimit is the Canvas2D default.
const miterLimit = 10

type state struct {
	ctm       geom.Matrix2D
	fill      color.NRGBA
	stroke    color.NRGBA
	lineWidth float64
	alpha     float64
	dash      []float64
}

// Surface draws onto an *image.RGBA.
type Surface struct {
	img   *image.RGBA
	st    state
	stack []state

	path  []segment
	start geom.Point
	open  bool

	r       vector.Rasterizer
	stroker *rasterx.Dasher
	mask    *image.Alpha
}

var (
	_ surface.Context     = (*Surface)(nil)
	_ surface.ImageDrawer = (*Surface)(nil)
)

// New creates a transparent surface of the given size.
func New(width, height int) *Surface {
	return NewFromImage(image.NewRGBA(image.Rect(0, 0, width, height)))
}

// NewFromImage draws onto an existing image. The image origin must be (0, 0).
func NewFromImage(img *image.RGBA) *Surface {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	return &Surface{
		img:     img,
		st:      defaultState(),
		stroker: rasterx.NewDasher(w, h, rasterx.NewScannerGV(w, h, img, img.Bounds())),
	}
}

func defaultState() state {
	return state{
		ctm:       geom.Identity(),
		fill:      color.NRGBA{A: 0xff},
		stroke:    color.NRGBA{A: 0xff},
		lineWidth: 1,
		alpha:     1,
	}
}

// Image returns the backing image.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

func (s *Surface) Width() int  { return s.img.Bounds().Dx() }
func (s *Surface) Height() int { return s.img.Bounds().Dy() }

// Reset clears every pixel and drops the state stack and current path.
func (s *Surface) Reset() {
	draw.Draw(s.img, s.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
	s.st = defaultState()
	s.stack = s.stack[:0]
	s.path = nil
	s.open = false
}

// Background paints the whole surface with a CSS colour, ignoring the
// current transform. Invalid colours leave the surface untouched.
func (s *Surface) Background(css string) {
	c, ok := ParseColor(css)
	if !ok {
		return
	}
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// Flatten returns a copy of the surface composited over a solid css
// background. The surface itself keeps its transparency.
func (s *Surface) Flatten(background string) *image.RGBA {
	out := New(s.Width(), s.Height())
	out.Background(background)
	draw.Draw(out.img, out.img.Bounds(), s.img, s.img.Bounds().Min, draw.Over)
	return out.img
}

// CTM returns the current transform.
func (s *Surface) CTM() geom.Matrix2D {
	return s.st.ctm
}

func (s *Surface) Save() {
	saved := s.st
	saved.dash = append([]float64(nil), s.st.dash...)
	s.stack = append(s.stack, saved)
}

// Restore pops the last saved state. An unbalanced Restore is ignored.
func (s *Surface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.st = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *Surface) Translate(x, y float64) { s.st.ctm = s.st.ctm.Multiply(geom.Translate(x, y)) }
func (s *Surface) Rotate(radians float64) { s.st.ctm = s.st.ctm.Multiply(geom.Rotate(radians)) }
func (s *Surface) Scale(sx, sy float64)   { s.st.ctm = s.st.ctm.Multiply(geom.Scale(sx, sy)) }

func (s *Surface) Transform(a, b, c, d, e, f float64) {
	s.st.ctm = s.st.ctm.Multiply(geom.Matrix2D{a, b, c, d, e, f})
}

func (s *Surface) SetFillStyle(style string) {
	if c, ok := ParseColor(style); ok {
		s.st.fill = c
	}
}

func (s *Surface) SetStrokeStyle(style string) {
	if c, ok := ParseColor(style); ok {
		s.st.stroke = c
	}
}

// SetLineWidth ignores zero, negative and non-finite widths.
func (s *Surface) SetLineWidth(width float64) {
	if width > 0 && !math.IsInf(width, 0) {
		s.st.lineWidth = width
	}
}

func (s *Surface) SetGlobalAlpha(alpha float64) {
	if alpha >= 0 && alpha <= 1 {
		s.st.alpha = alpha
	}
}

// SetLineDash sets the dash pattern. Odd-length lists are repeated once,
// and lists holding a negative or non-finite entry are ignored.
func (s *Surface) SetLineDash(segments []float64) {
	for _, v := range segments {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return
		}
	}
	dash := append([]float64(nil), segments...)
	if len(dash)%2 == 1 {
		dash = append(dash, dash...)
	}
	s.st.dash = dash
}

func (s *Surface) device(x, y float64) geom.Point {
	dx, dy := s.st.ctm.TransformPoint(x, y)
	return geom.Pt(dx, dy)
}

func (s *Surface) BeginPath() {
	s.path = s.path[:0]
	s.open = false
}

func (s *Surface) MoveTo(x, y float64) {
	p := s.device(x, y)
	s.path = append(s.path, segment{op: segMove, p: [3]geom.Point{p}})
	s.start = p
	s.open = true
}

func (s *Surface) LineTo(x, y float64) {
	if !s.open {
		s.MoveTo(x, y)
		return
	}
	s.path = append(s.path, segment{op: segLine, p: [3]geom.Point{s.device(x, y)}})
}

func (s *Surface) BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64) {
	if !s.open {
		s.MoveTo(cp1x, cp1y)
	}
	s.path = append(s.path, segment{op: segCubic, p: [3]geom.Point{
		s.device(cp1x, cp1y), s.device(cp2x, cp2y), s.device(x, y),
	}})
}

// ClosePath closes the current contour and starts a new one at its first
// point.
func (s *Surface) ClosePath() {
	if !s.open {
		return
	}
	s.path = append(s.path,
		segment{op: segClose},
		segment{op: segMove, p: [3]geom.Point{s.start}},
	)
}

// trace replays the current path into an adder. Contours without a single
// drawing segment are skipped. It reports whether anything was added.
func (s *Surface) trace(a pathAdder) bool {
	var (
		pending geom.Point
		started bool
		drawn   bool
	)
	begin := func() {
		if !started {
			a.start(pending)
			started = true
		}
	}
	for _, seg := range s.path {
		switch seg.op {
		case segMove:
			if started {
				a.stop(false)
				started = false
			}
			pending = seg.p[0]
		case segLine:
			begin()
			a.line(seg.p[0])
			drawn = true
		case segCubic:
			begin()
			a.cubic(seg.p[0], seg.p[1], seg.p[2])
			drawn = true
		case segClose:
			if started {
				a.stop(true)
				started = false
			}
		}
	}
	if started {
		a.stop(false)
	}
	return drawn
}

// Fill paints the current path with the fill colour using the nonzero rule.
func (s *Surface) Fill() {
	s.r.Reset(s.Width(), s.Height())
	if s.trace(fillAdder{&s.r}) {
		s.paint(s.st.fill)
	}
}

// Stroke outlines the current path with the stroke colour, using miter
// joins and butt caps. Under a non-uniform transform the line width and
// dashes follow the mean axis scale.
func (s *Surface) Stroke() {
	scale := s.lineScale()
	if scale == 0 {
		return
	}
	c := withAlpha(s.st.stroke, s.st.alpha)
	if c.A == 0 {
		return
	}

	var dashes []float64
	total := 0.0
	for _, d := range s.st.dash {
		dashes = append(dashes, d*scale)
		total += d
	}
	if total == 0 {
		dashes = nil
	}

	s.stroker.SetStroke(
		toFixed(s.st.lineWidth*scale), fixed.I(miterLimit),
		rasterx.ButtCap, rasterx.ButtCap, nil, rasterx.Miter,
		dashes, 0)
	if s.trace(strokeAdder{s.stroker}) {
		s.stroker.SetColor(c)
		s.stroker.Draw()
	}
	s.stroker.Clear()
}

// lineScale is the mean scale of the two transformed axes.
func (s *Surface) lineScale() float64 {
	m := s.st.ctm
	if m.Determinant() == 0 {
		return 0
	}
	return 0.5 * (geom.Pt(m[0], m[1]).Len() + geom.Pt(m[2], m[3]).Len())
}

func (s *Surface) paint(c color.NRGBA) {
	c = withAlpha(c, s.st.alpha)
	if c.A == 0 {
		return
	}
	s.r.DrawOp = draw.Over
	s.r.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{})
}

// rect runs fn with a temporary rectangle path, leaving the current path
// untouched.
func (s *Surface) rect(x, y, w, h float64, fn func()) {
	saved, savedStart, savedOpen := s.path, s.start, s.open
	s.path, s.open = nil, false
	s.MoveTo(x, y)
	s.LineTo(x+w, y)
	s.LineTo(x+w, y+h)
	s.LineTo(x, y+h)
	s.ClosePath()
	fn()
	s.path, s.start, s.open = saved, savedStart, savedOpen
}

func (s *Surface) FillRect(x, y, w, h float64) {
	s.rect(x, y, w, h, s.Fill)
}

func (s *Surface) StrokeRect(x, y, w, h float64) {
	s.rect(x, y, w, h, s.Stroke)
}

// ClearRect erases the covered pixels to transparent black, keeping
// partial coverage at the edges. Pixels outside the rectangle are left as
// they are. Global alpha does not apply.
func (s *Surface) ClearRect(x, y, w, h float64) {
	s.rect(x, y, w, h, func() {
		s.r.Reset(s.Width(), s.Height())
		if !s.trace(fillAdder{&s.r}) {
			return
		}
		if s.mask == nil || s.mask.Bounds() != s.img.Bounds() {
			s.mask = image.NewAlpha(s.img.Bounds())
		} else {
			clear(s.mask.Pix)
		}
		s.r.DrawOp = draw.Src
		s.r.Draw(s.mask, s.mask.Bounds(), image.Opaque, image.Point{})
		s.erase(s.mask)
	})
}

// erase scales every pixel by the inverse of its mask coverage.
func (s *Surface) erase(mask *image.Alpha) {
	b := s.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			m := uint32(mask.AlphaAt(x, y).A)
			if m == 0 {
				continue
			}
			keep := 0xff - m
			i := s.img.PixOffset(x, y)
			for k := 0; k < 4; k++ {
				s.img.Pix[i+k] = uint8(uint32(s.img.Pix[i+k]) * keep / 0xff)
			}
		}
	}
}

// DrawImage scales img into (x, y, w, h) under the current transform with
// bilinear filtering.
func (s *Surface) DrawImage(img image.Image, x, y, w, h float64) {
	b := img.Bounds()
	if b.Empty() || w == 0 || h == 0 {
		return
	}
	m := s.st.ctm.
		Multiply(geom.Translate(x, y)).
		Multiply(geom.Scale(w/float64(b.Dx()), h/float64(b.Dy()))).
		Multiply(geom.Translate(-float64(b.Min.X), -float64(b.Min.Y)))
	if m.Determinant() == 0 {
		return
	}
	aff := f64.Aff3{m[0], m[2], m[4], m[1], m[3], m[5]}

	var opts *draw.Options
	if s.st.alpha < 1 {
		opts = &draw.Options{SrcMask: image.NewUniform(color.Alpha{A: uint8(math.Round(s.st.alpha * 255))})}
	}
	draw.BiLinear.Transform(s.img, aff, img, b, draw.Over, opts)
}

type segOp uint8

const (
	segMove segOp = iota
	segLine
	segCubic
	segClose
)

// segment is one path command in device space.
type segment struct {
	op segOp
	p  [3]geom.Point
}

type pathAdder interface {
	start(p geom.Point)
	line(p geom.Point)
	cubic(b, c, d geom.Point)
	stop(closed bool)
}

// fillAdder feeds a vector.Rasterizer. Every contour is closed, as
// filling implies.
type fillAdder struct {
	r *vector.Rasterizer
}

func (a fillAdder) start(p geom.Point) { a.r.MoveTo(float32(p.X), float32(p.Y)) }
func (a fillAdder) line(p geom.Point)  { a.r.LineTo(float32(p.X), float32(p.Y)) }
func (a fillAdder) stop(bool)          { a.r.ClosePath() }

func (a fillAdder) cubic(b, c, d geom.Point) {
	a.r.CubeTo(float32(b.X), float32(b.Y), float32(c.X), float32(c.Y), float32(d.X), float32(d.Y))
}

// strokeAdder feeds a rasterx dasher.
type strokeAdder struct {
	d *rasterx.Dasher
}

func (a strokeAdder) start(p geom.Point)       { a.d.Start(toPoint(p)) }
func (a strokeAdder) line(p geom.Point)        { a.d.Line(toPoint(p)) }
func (a strokeAdder) cubic(b, c, d geom.Point) { a.d.CubeBezier(toPoint(b), toPoint(c), toPoint(d)) }
func (a strokeAdder) stop(closed bool)         { a.d.Stop(closed) }

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

func toPoint(p geom.Point) fixed.Point26_6 {
	return fixed.Point26_6{X: toFixed(p.X), Y: toFixed(p.Y)}
}
