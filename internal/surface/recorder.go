package surface

import (
	"encoding/json"
	"image"
)

// DrawCommand represents a single drawing operation for a frontend to execute.
// A browser replays the list in order on a Canvas2D context.
type DrawCommand struct {
	Op    string    `json:"op"`              // Method name, e.g. "save", "moveTo", "fillRect"
	Args  []float64 `json:"args,omitempty"`  // Numeric arguments in call order
	Style string    `json:"style,omitempty"` // For fillStyle/strokeStyle
}

// Recorder is a Context that records every call instead of drawing.
// It is both the draw-command buffer sent to browser frontends and a test
// double for asserting what the engine did to a surface.
type Recorder struct {
	commands []DrawCommand
	depth    int
	maxDepth int
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

var (
	_ Context     = (*Recorder)(nil)
	_ ImageDrawer = (*Recorder)(nil)
)

func (r *Recorder) record(op string, args ...float64) {
	r.commands = append(r.commands, DrawCommand{Op: op, Args: args})
}

func (r *Recorder) Save() {
	r.depth++
	if r.depth > r.maxDepth {
		r.maxDepth = r.depth
	}
	r.record("save")
}

func (r *Recorder) Restore() {
	r.depth--
	r.record("restore")
}

func (r *Recorder) Translate(x, y float64) { r.record("translate", x, y) }
func (r *Recorder) Rotate(radians float64) { r.record("rotate", radians) }
func (r *Recorder) Scale(sx, sy float64)   { r.record("scale", sx, sy) }

func (r *Recorder) Transform(a, b, c, d, e, f float64) { r.record("transform", a, b, c, d, e, f) }

func (r *Recorder) BeginPath()             { r.record("beginPath") }
func (r *Recorder) MoveTo(x, y float64)    { r.record("moveTo", x, y) }
func (r *Recorder) LineTo(x, y float64)    { r.record("lineTo", x, y) }
func (r *Recorder) ClosePath()             { r.record("closePath") }
func (r *Recorder) Fill()                  { r.record("fill") }
func (r *Recorder) Stroke()                { r.record("stroke") }

func (r *Recorder) BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64) {
	r.record("bezierCurveTo", cp1x, cp1y, cp2x, cp2y, x, y)
}

func (r *Recorder) FillRect(x, y, w, h float64)   { r.record("fillRect", x, y, w, h) }
func (r *Recorder) StrokeRect(x, y, w, h float64) { r.record("strokeRect", x, y, w, h) }
func (r *Recorder) ClearRect(x, y, w, h float64)  { r.record("clearRect", x, y, w, h) }

func (r *Recorder) SetFillStyle(style string) {
	r.commands = append(r.commands, DrawCommand{Op: "fillStyle", Style: style})
}

func (r *Recorder) SetStrokeStyle(style string) {
	r.commands = append(r.commands, DrawCommand{Op: "strokeStyle", Style: style})
}

func (r *Recorder) SetLineWidth(width float64) { r.record("lineWidth", width) }
func (r *Recorder) SetGlobalAlpha(a float64)   { r.record("globalAlpha", a) }

func (r *Recorder) SetLineDash(segments []float64) {
	r.record("setLineDash", append([]float64(nil), segments...)...)
}

// DrawImage records the destination rectangle only; the bitmap itself is
// resolved by the frontend.
func (r *Recorder) DrawImage(_ image.Image, x, y, w, h float64) {
	r.record("drawImage", x, y, w, h)
}

// Commands returns the recorded commands in call order.
func (r *Recorder) Commands() []DrawCommand {
	return r.commands
}

// Count returns how many times op was called.
func (r *Recorder) Count(op string) int {
	n := 0
	for _, c := range r.commands {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Len returns the number of recorded commands.
func (r *Recorder) Len() int {
	return len(r.commands)
}

// Depth returns the current save/restore nesting; a balanced recording is 0.
func (r *Recorder) Depth() int {
	return r.depth
}

// MaxDepth returns the deepest save nesting seen.
func (r *Recorder) MaxDepth() int {
	return r.maxDepth
}

// Reset drops all recorded commands.
func (r *Recorder) Reset() {
	r.commands = nil
	r.depth = 0
	r.maxDepth = 0
}

// MarshalJSON serializes the command buffer.
func (r *Recorder) MarshalJSON() ([]byte, error) {
	if r.commands == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.commands)
}
