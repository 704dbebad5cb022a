package engine

import (
	"fmt"
)

type property struct {
	get func(o *Options) any
	set func(o *Options, v any) bool
}

func floatProp(field func(o *Options) *float64) property {
	return property{
		get: func(o *Options) any { return *field(o) },
		set: func(o *Options, v any) bool {
			f, ok := v.(float64)
			if ok {
				*field(o) = f
			}
			return ok
		},
	}
}

func boolProp(field func(o *Options) *bool) property {
	return property{
		get: func(o *Options) any { return *field(o) },
		set: func(o *Options, v any) bool {
			b, ok := v.(bool)
			if ok {
				*field(o) = b
			}
			return ok
		},
	}
}

func stringProp(field func(o *Options) *string) property {
	return property{
		get: func(o *Options) any { return *field(o) },
		set: func(o *Options, v any) bool {
			s, ok := v.(string)
			if ok {
				*field(o) = s
			}
			return ok
		},
	}
}

func originProp(field func(o *Options) *Origin) property {
	return property{
		get: func(o *Options) any { return string(*field(o)) },
		set: func(o *Options, v any) bool {
			switch x := v.(type) {
			case string:
				*field(o) = Origin(x)
			case Origin:
				*field(o) = x
			case float64:
				*field(o) = OriginAt(x)
			default:
				return false
			}
			return true
		},
	}
}

// properties maps plain-object keys to option fields.
var properties = map[string]property{
	"left":                    floatProp(func(o *Options) *float64 { return &o.Left }),
	"top":                     floatProp(func(o *Options) *float64 { return &o.Top }),
	"width":                   floatProp(func(o *Options) *float64 { return &o.Width }),
	"height":                  floatProp(func(o *Options) *float64 { return &o.Height }),
	"scaleX":                  floatProp(func(o *Options) *float64 { return &o.ScaleX }),
	"scaleY":                  floatProp(func(o *Options) *float64 { return &o.ScaleY }),
	"angle":                   floatProp(func(o *Options) *float64 { return &o.Angle }),
	"skewX":                   floatProp(func(o *Options) *float64 { return &o.SkewX }),
	"skewY":                   floatProp(func(o *Options) *float64 { return &o.SkewY }),
	"flipX":                   boolProp(func(o *Options) *bool { return &o.FlipX }),
	"flipY":                   boolProp(func(o *Options) *bool { return &o.FlipY }),
	"originX":                 originProp(func(o *Options) *Origin { return &o.OriginX }),
	"originY":                 originProp(func(o *Options) *Origin { return &o.OriginY }),
	"fill":                    stringProp(func(o *Options) *string { return &o.Fill }),
	"stroke":                  stringProp(func(o *Options) *string { return &o.Stroke }),
	"strokeWidth":             floatProp(func(o *Options) *float64 { return &o.StrokeWidth }),
	"strokeUniform":           boolProp(func(o *Options) *bool { return &o.StrokeUniform }),
	"padding":                 floatProp(func(o *Options) *float64 { return &o.Padding }),
	"visible":                 boolProp(func(o *Options) *bool { return &o.Visible }),
	"active":                  boolProp(func(o *Options) *bool { return &o.Active }),
	"cornerSize":              floatProp(func(o *Options) *float64 { return &o.CornerSize }),
	"cornerColor":             stringProp(func(o *Options) *string { return &o.CornerColor }),
	"transparentCorners":      boolProp(func(o *Options) *bool { return &o.TransparentCorners }),
	"hasControls":             boolProp(func(o *Options) *bool { return &o.HasControls }),
	"hasRotatingPoint":        boolProp(func(o *Options) *bool { return &o.HasRotatingPoint }),
	"rotatingPointOffset":     floatProp(func(o *Options) *float64 { return &o.RotatingPointOffset }),
	"borderColor":             stringProp(func(o *Options) *string { return &o.BorderColor }),
	"borderWidth":             floatProp(func(o *Options) *float64 { return &o.BorderWidth }),
	"borderOpacityWhenMoving": floatProp(func(o *Options) *float64 { return &o.BorderOpacityWhenMoving }),
	"rx":                      floatProp(func(o *Options) *float64 { return &o.RX }),
	"ry":                      floatProp(func(o *Options) *float64 { return &o.RY }),
	"src":                     stringProp(func(o *Options) *string { return &o.Src }),
}

// stateProperties are compared by HasStateChanged.
var stateProperties = []string{
	"top", "left", "width", "height", "scaleX", "scaleY", "flipX", "flipY",
	"angle", "cornerSize", "fill", "originX", "originY", "stroke",
	"strokeWidth", "borderWidth", "visible",
}

func (s *Shape) stateProperties() []string {
	if s.Kind == KindRect {
		return append(stateProperties[:len(stateProperties):len(stateProperties)], "rx", "ry")
	}
	return stateProperties
}

// Get returns an option by its plain-object key.
func (s *Shape) Get(key string) (any, bool) {
	p, ok := properties[key]
	if !ok {
		return nil, false
	}
	return p.get(&s.Options), true
}

// Set assigns an option by its plain-object key and refreshes the
// coordinates. Numbers must be float64, as produced by encoding/json.
// The result is validated; on error the shape is left unchanged.
func (s *Shape) Set(key string, value any) error {
	return s.SetAll(map[string]any{key: value})
}

// SetAll assigns several options at once. Either all of them are applied or,
// on error, none.
func (s *Shape) SetAll(values map[string]any) error {
	next := s.Options
	for key, value := range values {
		p, ok := properties[key]
		if !ok {
			return fmt.Errorf("%w: unknown property %q", ErrInvalidOptions, key)
		}
		if !p.set(&next, value) {
			return fmt.Errorf("%w: property %q cannot be %T", ErrInvalidOptions, key, value)
		}
	}
	if err := next.Validate(); err != nil {
		return err
	}
	s.Options = next
	s.SetCoords()
	return nil
}

// SaveState records the current values of the state properties.
func (s *Shape) SaveState() *Shape {
	s.original = make(map[string]any, len(stateProperties)+2)
	for _, key := range s.stateProperties() {
		s.original[key], _ = s.Get(key)
	}
	return s
}

// HasStateChanged reports whether any state property differs from the last
// SaveState.
func (s *Shape) HasStateChanged() bool {
	for _, key := range s.stateProperties() {
		v, _ := s.Get(key)
		if s.original[key] != v {
			return true
		}
	}
	return false
}

// RestoreState resets the state properties to the last SaveState.
func (s *Shape) RestoreState() *Shape {
	for key, v := range s.original {
		properties[key].set(&s.Options, v)
	}
	s.SetCoords()
	return s
}
