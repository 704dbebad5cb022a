package raster

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor converts a CSS colour string into a non-premultiplied colour.
// It understands hex notation (#rgb, #rgba, #rrggbb, #rrggbbaa), rgb(),
// rgba(), "transparent" and the SVG named colours. The second result is
// false when the string is not a colour, in which case callers keep their
// previous paint, like a browser does.
func ParseColor(s string) (color.NRGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return color.NRGBA{}, false
	case s == "transparent":
		return color.NRGBA{}, true
	case strings.HasPrefix(s, "#"):
		return parseHex(s[1:])
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		return parseFunc(s[5:len(s)-1], true)
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseFunc(s[4:len(s)-1], false)
	}
	if c, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, true
	}
	return color.NRGBA{}, false
}

func parseHex(h string) (color.NRGBA, bool) {
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	nib := func(shift uint) uint8 { return uint8((v>>shift)&0xf) * 0x11 }
	byt := func(shift uint) uint8 { return uint8(v >> shift) }

	switch len(h) {
	case 3:
		return color.NRGBA{R: nib(8), G: nib(4), B: nib(0), A: 0xff}, true
	case 4:
		return color.NRGBA{R: nib(12), G: nib(8), B: nib(4), A: nib(0)}, true
	case 6:
		return color.NRGBA{R: byt(16), G: byt(8), B: byt(0), A: 0xff}, true
	case 8:
		return color.NRGBA{R: byt(24), G: byt(16), B: byt(8), A: byt(0)}, true
	}
	return color.NRGBA{}, false
}

func parseFunc(body string, withAlpha bool) (color.NRGBA, bool) {
	parts := strings.Split(body, ",")
	want := 3
	if withAlpha {
		want = 4
	}
	if len(parts) != want {
		return color.NRGBA{}, false
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		p := strings.TrimSpace(parts[i])
		scale := 1.0
		if strings.HasSuffix(p, "%") {
			p = strings.TrimSuffix(p, "%")
			scale = 255.0 / 100
		}
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return color.NRGBA{}, false
		}
		ch[i] = uint8(math.Round(clamp(f*scale, 0, 255)))
	}

	alpha := uint8(0xff)
	if withAlpha {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return color.NRGBA{}, false
		}
		alpha = uint8(math.Round(clamp(f, 0, 1) * 255))
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: alpha}, true
}

// withAlpha scales c's alpha by a global alpha in [0, 1].
func withAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	c.A = uint8(math.Round(float64(c.A) * clamp(alpha, 0, 1)))
	return c
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
