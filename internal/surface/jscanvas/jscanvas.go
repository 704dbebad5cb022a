//go:build js && wasm

// Package jscanvas drives a browser CanvasRenderingContext2D through
// syscall/js so the scene engine can paint straight into a page canvas.
package jscanvas

import (
	"image"
	"syscall/js"

	"golang.org/x/image/draw"
)

// Context wraps a CanvasRenderingContext2D value.
type Context struct {
	ctx js.Value
}

// New returns a Context for the 2D context of the canvas element with the
// given DOM id. ok is false when no such canvas exists.
func New(canvasID string) (c *Context, ok bool) {
	el := js.Global().Get("document").Call("getElementById", canvasID)
	if el.IsNull() || el.IsUndefined() {
		return nil, false
	}
	ctx := el.Call("getContext", "2d")
	if ctx.IsNull() {
		return nil, false
	}
	return &Context{ctx: ctx}, true
}

// Wrap adapts an existing rendering context value.
func Wrap(ctx js.Value) *Context {
	return &Context{ctx: ctx}
}

func (c *Context) Save()    { c.ctx.Call("save") }
func (c *Context) Restore() { c.ctx.Call("restore") }

func (c *Context) Translate(x, y float64) { c.ctx.Call("translate", x, y) }
func (c *Context) Rotate(radians float64) { c.ctx.Call("rotate", radians) }
func (c *Context) Scale(sx, sy float64)   { c.ctx.Call("scale", sx, sy) }

func (c *Context) Transform(m11, m12, m21, m22, dx, dy float64) {
	c.ctx.Call("transform", m11, m12, m21, m22, dx, dy)
}

func (c *Context) BeginPath()          { c.ctx.Call("beginPath") }
func (c *Context) MoveTo(x, y float64) { c.ctx.Call("moveTo", x, y) }
func (c *Context) LineTo(x, y float64) { c.ctx.Call("lineTo", x, y) }
func (c *Context) ClosePath()          { c.ctx.Call("closePath") }
func (c *Context) Fill()               { c.ctx.Call("fill") }
func (c *Context) Stroke()             { c.ctx.Call("stroke") }

func (c *Context) BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64) {
	c.ctx.Call("bezierCurveTo", cp1x, cp1y, cp2x, cp2y, x, y)
}

func (c *Context) FillRect(x, y, w, h float64)   { c.ctx.Call("fillRect", x, y, w, h) }
func (c *Context) StrokeRect(x, y, w, h float64) { c.ctx.Call("strokeRect", x, y, w, h) }
func (c *Context) ClearRect(x, y, w, h float64)  { c.ctx.Call("clearRect", x, y, w, h) }

func (c *Context) SetFillStyle(style string)    { c.ctx.Set("fillStyle", style) }
func (c *Context) SetStrokeStyle(style string)  { c.ctx.Set("strokeStyle", style) }
func (c *Context) SetLineWidth(width float64)   { c.ctx.Set("lineWidth", width) }
func (c *Context) SetGlobalAlpha(alpha float64) { c.ctx.Set("globalAlpha", alpha) }

func (c *Context) SetLineDash(segments []float64) {
	arr := make([]any, len(segments))
	for i, s := range segments {
		arr[i] = s
	}
	c.ctx.Call("setLineDash", arr)
}

// DrawImage copies img into an offscreen canvas and draws that, so the
// current transform applies the same way it does for paths.
func (c *Context) DrawImage(img image.Image, x, y, w, h float64) {
	b := img.Bounds()
	if b.Empty() {
		return
	}

	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)

	pixels := js.Global().Get("Uint8ClampedArray").New(len(nrgba.Pix))
	js.CopyBytesToJS(pixels, nrgba.Pix)
	data := js.Global().Get("ImageData").New(pixels, b.Dx(), b.Dy())

	off := js.Global().Get("OffscreenCanvas").New(b.Dx(), b.Dy())
	off.Call("getContext", "2d").Call("putImageData", data, 0, 0)
	c.ctx.Call("drawImage", off, x, y, w, h)
}
