package engine

import (
	"slices"

	"github.com/inamate/canvas-go/internal/geom"
	"github.com/inamate/canvas-go/internal/surface"
)

// Element is a node of the page layout that hosts the drawing surface.
type Element interface {
	// LocalOffset is the element's position inside its offset parent.
	LocalOffset() geom.Point
	// OffsetParent returns the containing element, or nil at the root.
	OffsetParent() Element
}

// Box is a plain Element.
type Box struct {
	X, Y   float64
	Parent Element
}

func (b *Box) LocalOffset() geom.Point { return geom.Pt(b.X, b.Y) }

func (b *Box) OffsetParent() Element {
	if b.Parent == nil {
		return nil
	}
	return b.Parent
}

// PointerEvent is a pointer position in page coordinates.
type PointerEvent struct {
	PageX float64 `json:"pageX"`
	PageY float64 `json:"pageY"`
}

// Scene is a drawing surface holding an ordered list of shapes. Later shapes
// are drawn on top of earlier ones. A Scene is not safe for concurrent use.
type Scene struct {
	Width  float64
	Height float64

	// Element is the host of the surface on the page, used by CalcOffset.
	Element Element

	// Viewport applied to every shape. Zoom 1 and no pan is the identity.
	Zoom float64
	PanX float64
	PanY float64

	DefaultCursor  string
	HoverCursor    string
	MoveCursor     string
	RotationCursor string

	ctx     surface.Context
	objects []*Shape
	offset  geom.Point
	active  *Shape
}

// NewScene creates an empty scene drawing onto ctx. A nil ctx gives a scene
// that only answers geometric queries.
func NewScene(ctx surface.Context, width, height float64) *Scene {
	return &Scene{
		Width:          width,
		Height:         height,
		Zoom:           1,
		DefaultCursor:  "default",
		HoverCursor:    "move",
		MoveCursor:     "move",
		RotationCursor: "crosshair",
		ctx:            ctx,
	}
}

// Context returns the surface the scene draws onto.
func (c *Scene) Context() surface.Context {
	return c.ctx
}

// SetContext replaces the drawing surface.
func (c *Scene) SetContext(ctx surface.Context) *Scene {
	c.ctx = ctx
	return c
}

// Add appends shapes on top of the scene and redraws. Shapes already in the
// scene are ignored.
func (c *Scene) Add(shapes ...*Shape) *Scene {
	for _, s := range shapes {
		if s == nil || c.Contains(s) {
			continue
		}
		c.objects = append(c.objects, s)
		s.SaveState()
		s.SetCoords()
		s.scene = c
		if s.Active {
			c.setActive(s)
		}
	}
	return c.RenderAll()
}

// Remove takes shapes out of the scene and redraws.
func (c *Scene) Remove(shapes ...*Shape) *Scene {
	for _, s := range shapes {
		i := slices.Index(c.objects, s)
		if i < 0 {
			continue
		}
		c.objects = slices.Delete(c.objects, i, i+1)
		s.scene = nil
		if c.active == s {
			c.active = nil
		}
	}
	return c.RenderAll()
}

// Objects returns the shapes bottom to top.
func (c *Scene) Objects() []*Shape {
	return slices.Clone(c.objects)
}

// Len returns the number of shapes.
func (c *Scene) Len() int {
	return len(c.objects)
}

// Contains reports whether s is in the scene.
func (c *Scene) Contains(s *Shape) bool {
	return slices.Contains(c.objects, s)
}

// ShapeByID returns the shape with the given ID, or nil.
func (c *Scene) ShapeByID(id string) *Shape {
	for _, s := range c.objects {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// BringToFront moves s to the top of the stack.
func (c *Scene) BringToFront(s *Shape) *Scene {
	i := slices.Index(c.objects, s)
	if i < 0 {
		return c
	}
	c.objects = append(slices.Delete(c.objects, i, i+1), s)
	return c.RenderAll()
}

// SendToBack moves s to the bottom of the stack.
func (c *Scene) SendToBack(s *Shape) *Scene {
	i := slices.Index(c.objects, s)
	if i < 0 {
		return c
	}
	c.objects = slices.Insert(slices.Delete(c.objects, i, i+1), 0, s)
	return c.RenderAll()
}

// SetActiveObject selects s, deselecting the previous selection, and redraws.
func (c *Scene) SetActiveObject(s *Shape) *Scene {
	if s == nil || !c.Contains(s) {
		return c
	}
	c.setActive(s)
	return c.RenderAll()
}

func (c *Scene) setActive(s *Shape) {
	if c.active != nil && c.active != s {
		c.active.Active = false
	}
	s.Active = true
	c.active = s
}

// ActiveObject returns the selected shape, or nil.
func (c *Scene) ActiveObject() *Shape {
	return c.active
}

// DiscardActiveObject clears the selection and redraws.
func (c *Scene) DiscardActiveObject() *Scene {
	if c.active != nil {
		c.active.Active = false
		c.active.IsMoving = false
		c.active = nil
	}
	return c.RenderAll()
}

func (c *Scene) viewport() geom.Matrix2D {
	zoom := c.Zoom
	if zoom == 0 {
		zoom = 1
	}
	return geom.Translate(c.PanX, c.PanY).Multiply(geom.Scale(zoom, zoom))
}

// RenderAll clears the surface and draws every shape bottom to top.
func (c *Scene) RenderAll() *Scene {
	if c.ctx == nil {
		return c
	}
	c.ctx.ClearRect(0, 0, c.Width, c.Height)

	vpt := c.viewport()
	if !vpt.IsIdentity() {
		c.ctx.Save()
		defer c.ctx.Restore()
		c.ctx.Translate(vpt[4], vpt[5])
		c.ctx.Scale(vpt[0], vpt[3])
	}

	for _, s := range c.objects {
		s.Render(c.ctx)
	}
	return c
}

// CalcOffset recomputes the page offset of the surface by walking the
// element chain. Call it again after the surface moves on the page.
func (c *Scene) CalcOffset() *Scene {
	var offset geom.Point
	for el := c.Element; el != nil; el = el.OffsetParent() {
		offset = offset.Add(el.LocalOffset())
	}
	c.offset = offset
	return c
}

// Offset returns the page offset cached by CalcOffset.
func (c *Scene) Offset() geom.Point {
	return c.offset
}

// GetPointer converts a page position to surface coordinates.
func (c *Scene) GetPointer(e PointerEvent) geom.Point {
	return geom.Pt(e.PageX-c.offset.X, e.PageY-c.offset.Y)
}

// ScenePoint converts a page position to scene coordinates, undoing the
// viewport.
func (c *Scene) ScenePoint(e PointerEvent) geom.Point {
	p := c.GetPointer(e)
	vpt := c.viewport()
	if vpt.IsIdentity() {
		return p
	}
	return geom.TransformPoint(p, vpt.Invert(), false)
}

// FindTarget returns the topmost shape under the pointer, or nil.
func (c *Scene) FindTarget(e PointerEvent) *Shape {
	return c.FindTargetAt(c.ScenePoint(e))
}

// FindTargetAt is FindTarget for a point already in scene coordinates.
func (c *Scene) FindTargetAt(p geom.Point) *Shape {
	for i := len(c.objects) - 1; i >= 0; i-- {
		if c.objects[i].ContainsPoint(p) {
			return c.objects[i]
		}
	}
	return nil
}

// CursorFor returns the CSS cursor for the pointer position: a resize or
// rotation cursor over a control of the selection, the hover cursor over a
// shape, otherwise the default.
func (c *Scene) CursorFor(e PointerEvent) string {
	return c.CursorAt(c.ScenePoint(e))
}

// CursorAt is CursorFor for a point in scene coordinates.
func (c *Scene) CursorAt(p geom.Point) string {
	if c.active != nil {
		if name, ok := c.active.FindTargetCorner(p); ok {
			return ControlCursor(name, c.RotationCursor)
		}
		if c.active.IsMoving && c.active.ContainsPoint(p) {
			return c.MoveCursor
		}
	}
	if c.FindTargetAt(p) != nil {
		return c.HoverCursor
	}
	return c.DefaultCursor
}

// SelectionBounds returns the axis-aligned box around the oriented corners
// of the shapes with the given IDs.
func (c *Scene) SelectionBounds(ids []string) geom.Rect {
	var points []geom.Point
	for _, s := range c.objects {
		if !slices.Contains(ids, s.ID) || s.degenerate() {
			continue
		}
		q := s.Coords.Quad()
		points = append(points, q.TL, q.TR, q.BR, q.BL)
	}
	return geom.BoundingBoxFromPoints(points, nil)
}
