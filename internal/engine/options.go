package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"math"
	"strconv"

	"github.com/inamate/canvas-go/internal/geom"
)

// ErrInvalidOptions is returned when shape options fail validation.
var ErrInvalidOptions = errors.New("invalid shape options")

// Kind is the closed set of shape variants.
type Kind string

const (
	KindRect     Kind = "rect"
	KindEllipse  Kind = "ellipse"
	KindTriangle Kind = "triangle"
	KindPath     Kind = "path"
	KindImage    Kind = "image"
)

// Valid reports whether k is a known shape kind.
func (k Kind) Valid() bool {
	switch k {
	case KindRect, KindEllipse, KindTriangle, KindPath, KindImage:
		return true
	}
	return false
}

// Origin names the point of a shape's bounding box that Left/Top refer to.
// Besides the named constants an origin may be a fraction of the box in
// [0,1], built with OriginAt.
type Origin string

const (
	OriginLeft   Origin = "left"
	OriginCenter Origin = "center"
	OriginRight  Origin = "right"
	OriginTop    Origin = "top"
	OriginBottom Origin = "bottom"
)

// OriginAt returns a fractional origin; 0 is the left/top edge and 1 the
// right/bottom edge.
func OriginAt(f float64) Origin {
	return Origin(strconv.FormatFloat(f, 'f', -1, 64))
}

// UnmarshalJSON accepts either a name or a bare number.
func (o *Origin) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*o = Origin(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("origin must be a name or a number: %w", err)
	}
	*o = OriginAt(f)
	return nil
}

// Options is the configurable state of a shape. Field names and JSON keys
// follow the plain-object export format.
type Options struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	ScaleX float64 `json:"scaleX"`
	ScaleY float64 `json:"scaleY"`
	Angle  float64 `json:"angle"` // degrees, clockwise
	SkewX  float64 `json:"skewX"`
	SkewY  float64 `json:"skewY"`
	FlipX  bool    `json:"flipX"`
	FlipY  bool    `json:"flipY"`

	OriginX Origin `json:"originX"`
	OriginY Origin `json:"originY"`

	Fill          string  `json:"fill"`
	Stroke        string  `json:"stroke"`
	StrokeWidth   float64 `json:"strokeWidth"`
	StrokeUniform bool    `json:"strokeUniform"`
	Padding       float64 `json:"padding"`

	Visible bool `json:"visible"`
	Active  bool `json:"active"`

	CornerSize              float64 `json:"cornerSize"`
	CornerColor             string  `json:"cornerColor"`
	TransparentCorners      bool    `json:"transparentCorners"`
	HasControls             bool    `json:"hasControls"`
	HasRotatingPoint        bool    `json:"hasRotatingPoint"`
	RotatingPointOffset     float64 `json:"rotatingPointOffset"`
	BorderColor             string  `json:"borderColor"`
	BorderWidth             float64 `json:"borderWidth"`
	BorderOpacityWhenMoving float64 `json:"borderOpacityWhenMoving"`

	// Rounded corner radii, rect only.
	RX float64 `json:"rx"`
	RY float64 `json:"ry"`

	// Local points of a free-hand path, relative to the box's top-left.
	Points []geom.Point `json:"points,omitempty"`

	// Asset reference of an image shape.
	Src string `json:"src,omitempty"`
}

// DefaultOptions returns the options every new shape starts from.
func DefaultOptions() Options {
	return Options{
		ScaleX:                  1,
		ScaleY:                  1,
		OriginX:                 OriginLeft,
		OriginY:                 OriginTop,
		Fill:                    "rgb(0,0,0)",
		StrokeWidth:             1,
		Visible:                 true,
		CornerSize:              12,
		CornerColor:             "red",
		HasControls:             true,
		HasRotatingPoint:        true,
		RotatingPointOffset:     40,
		BorderColor:             "rgba(102,153,255,0.75)",
		BorderWidth:             1,
		BorderOpacityWhenMoving: 0.4,
	}
}

// Validate checks the invariants a shape relies on.
func (o Options) Validate() error {
	for name, v := range map[string]float64{
		"left": o.Left, "top": o.Top, "width": o.Width, "height": o.Height,
		"scaleX": o.ScaleX, "scaleY": o.ScaleY, "angle": o.Angle,
		"skewX": o.SkewX, "skewY": o.SkewY, "strokeWidth": o.StrokeWidth,
		"padding": o.Padding, "cornerSize": o.CornerSize,
		"rotatingPointOffset": o.RotatingPointOffset, "rx": o.RX, "ry": o.RY,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidOptions, name)
		}
	}

	if o.Width < 0 || o.Height < 0 {
		return fmt.Errorf("%w: negative size %gx%g", ErrInvalidOptions, o.Width, o.Height)
	}
	if o.StrokeWidth < 0 {
		return fmt.Errorf("%w: negative strokeWidth", ErrInvalidOptions)
	}
	if o.CornerSize < 0 {
		return fmt.Errorf("%w: negative cornerSize", ErrInvalidOptions)
	}
	if o.RX < 0 || o.RY < 0 {
		return fmt.Errorf("%w: negative corner radius", ErrInvalidOptions)
	}
	if _, ok := originOffset(o.OriginX, true); !ok {
		return fmt.Errorf("%w: originX %q", ErrInvalidOptions, o.OriginX)
	}
	if _, ok := originOffset(o.OriginY, false); !ok {
		return fmt.Errorf("%w: originY %q", ErrInvalidOptions, o.OriginY)
	}
	return nil
}

// DecodeOptions overlays a JSON object on the defaults. Unknown keys are
// rejected rather than silently dropped.
func DecodeOptions(kind Kind, data []byte) (Options, error) {
	if !kind.Valid() {
		return Options{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidOptions, kind)
	}

	opts := DefaultOptions()
	if len(bytes.TrimSpace(data)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&opts); err != nil {
			return Options{}, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
		}
	}

	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Option configures a shape in New.
type Option func(*Shape)

func WithID(id string) Option {
	return func(s *Shape) { s.ID = id }
}

func WithOptions(o Options) Option {
	return func(s *Shape) { s.Options = o }
}

func WithPosition(left, top float64) Option {
	return func(s *Shape) { s.Left, s.Top = left, top }
}

func WithSize(width, height float64) Option {
	return func(s *Shape) { s.Width, s.Height = width, height }
}

func WithScale(sx, sy float64) Option {
	return func(s *Shape) { s.ScaleX, s.ScaleY = sx, sy }
}

// WithAngle sets the rotation in degrees.
func WithAngle(degrees float64) Option {
	return func(s *Shape) { s.Angle = degrees }
}

func WithOrigin(x, y Origin) Option {
	return func(s *Shape) { s.OriginX, s.OriginY = x, y }
}

func WithFill(fill string) Option {
	return func(s *Shape) { s.Fill = fill }
}

func WithStroke(stroke string, width float64) Option {
	return func(s *Shape) { s.Stroke, s.StrokeWidth = stroke, width }
}

func WithStrokeUniform(uniform bool) Option {
	return func(s *Shape) { s.StrokeUniform = uniform }
}

func WithSkew(skewX, skewY float64) Option {
	return func(s *Shape) { s.SkewX, s.SkewY = skewX, skewY }
}

func WithFlip(flipX, flipY bool) Option {
	return func(s *Shape) { s.FlipX, s.FlipY = flipX, flipY }
}

func WithCornerRadius(rx, ry float64) Option {
	return func(s *Shape) { s.RX, s.RY = rx, ry }
}

func WithPoints(points ...geom.Point) Option {
	return func(s *Shape) { s.Points = points }
}

// WithImage attaches a decoded bitmap and the asset reference it came from.
func WithImage(src string, img image.Image) Option {
	return func(s *Shape) { s.Src, s.Image = src, img }
}

func WithPadding(padding float64) Option {
	return func(s *Shape) { s.Padding = padding }
}

func WithActive(active bool) Option {
	return func(s *Shape) { s.Active = active }
}

func WithVisible(visible bool) Option {
	return func(s *Shape) { s.Visible = visible }
}

func WithControls(hasControls, hasRotatingPoint bool) Option {
	return func(s *Shape) { s.HasControls, s.HasRotatingPoint = hasControls, hasRotatingPoint }
}
