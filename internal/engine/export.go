package engine

import (
	"math"

	"github.com/inamate/canvas-go/internal/document"
)

// numFractionDigits is the precision of exported numbers.
const numFractionDigits = 2

func toFixed(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}

// ToObject returns the shape as a flat record of primitives suitable for
// serialization. Numbers are rounded to two decimals. extraKeys names
// additional option keys to include; unknown keys are skipped.
func (s *Shape) ToObject(extraKeys ...string) document.Record {
	obj := document.Record{
		"type":               string(s.Kind),
		"originX":            string(s.OriginX),
		"originY":            string(s.OriginY),
		"left":               toFixed(s.Left, numFractionDigits),
		"top":                toFixed(s.Top, numFractionDigits),
		"width":              toFixed(s.Width, numFractionDigits),
		"height":             toFixed(s.Height, numFractionDigits),
		"fill":               s.Fill,
		"stroke":             s.Stroke,
		"strokeWidth":        toFixed(s.StrokeWidth, numFractionDigits),
		"scaleX":             toFixed(s.ScaleX, numFractionDigits),
		"scaleY":             toFixed(s.ScaleY, numFractionDigits),
		"angle":              toFixed(s.Angle, numFractionDigits),
		"flipX":              s.FlipX,
		"flipY":              s.FlipY,
		"visible":            s.Visible,
		"hasControls":        s.HasControls,
		"hasRotatingPoint":   s.HasRotatingPoint,
		"transparentCorners": s.TransparentCorners,
	}

	for _, key := range extraKeys {
		v, ok := s.Get(key)
		if !ok {
			continue
		}
		if f, isFloat := v.(float64); isFloat {
			v = toFixed(f, numFractionDigits)
		}
		obj[key] = v
	}

	if s.Kind == KindRect {
		obj["rx"] = toFixed(s.RX, numFractionDigits)
		obj["ry"] = toFixed(s.RY, numFractionDigits)
	}
	return obj
}
