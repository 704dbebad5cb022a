package engine

import (
	"image"
)

// Shape is a positioned, scalable, rotatable object in a Scene.
type Shape struct {
	Options

	ID   string
	Kind Kind

	// Decoded bitmap of an image shape. Nil until resolved by a loader.
	Image image.Image

	// IsMoving dims the selection border while a drag is in progress.
	IsMoving bool

	// Derived by SetCoords.
	CurrentWidth  float64
	CurrentHeight float64
	Coords        Coords

	scene    *Scene
	original map[string]any
}

// New creates a shape of the given kind from the defaults and opts. The
// coordinates are computed before New returns.
func New(kind Kind, opts ...Option) *Shape {
	s := &Shape{
		Options: DefaultOptions(),
		Kind:    kind,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.SetCoords()
	return s
}

// NewFromJSON creates a shape from its plain-object form. See DecodeOptions.
func NewFromJSON(id string, kind Kind, data []byte) (*Shape, error) {
	opts, err := DecodeOptions(kind, data)
	if err != nil {
		return nil, err
	}
	return New(kind, WithID(id), WithOptions(opts)), nil
}

// Scene returns the scene the shape was added to, or nil.
func (s *Shape) Scene() *Scene {
	return s.scene
}

// degenerate reports whether the shape can neither be drawn nor picked.
// Zero scale is treated like zero size.
func (s *Shape) degenerate() bool {
	return !s.Visible || s.Width == 0 || s.Height == 0 || s.ScaleX == 0 || s.ScaleY == 0
}

// SetPosition moves the shape's origin point and refreshes its coordinates.
func (s *Shape) SetPosition(left, top float64) *Shape {
	s.Left, s.Top = left, top
	s.SetCoords()
	return s
}

// SetAngle sets the rotation in degrees and refreshes the coordinates.
func (s *Shape) SetAngle(degrees float64) *Shape {
	s.Angle = degrees
	s.SetCoords()
	return s
}

// SetScale sets both scale factors and refreshes the coordinates.
func (s *Shape) SetScale(sx, sy float64) *Shape {
	s.ScaleX, s.ScaleY = sx, sy
	s.SetCoords()
	return s
}

// SetSize sets the unscaled size and refreshes the coordinates.
func (s *Shape) SetSize(width, height float64) *Shape {
	s.Width, s.Height = width, height
	s.SetCoords()
	return s
}
