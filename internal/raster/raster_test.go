package raster

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/canvas-go/internal/engine"
)

func TestParseColor(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#f00", color.NRGBA{R: 0xff, A: 0xff}, true},
		{"#0f08", color.NRGBA{G: 0xff, A: 0x88}, true},
		{"#336699", color.NRGBA{R: 0x33, G: 0x66, B: 0x99, A: 0xff}, true},
		{"#33669980", color.NRGBA{R: 0x33, G: 0x66, B: 0x99, A: 0x80}, true},
		{"rgb(0,0,0)", color.NRGBA{A: 0xff}, true},
		{"rgb( 10, 20 , 30 )", color.NRGBA{R: 10, G: 20, B: 30, A: 0xff}, true},
		{"rgb(100%,0%,0%)", color.NRGBA{R: 0xff, A: 0xff}, true},
		{"rgba(102,153,255,0.75)", color.NRGBA{R: 102, G: 153, B: 255, A: 191}, true},
		{"RED", color.NRGBA{R: 0xff, A: 0xff}, true},
		{"transparent", color.NRGBA{}, true},
		{"", color.NRGBA{}, false},
		{"#12", color.NRGBA{}, false},
		{"#ggg", color.NRGBA{}, false},
		{"rgb(1,2)", color.NRGBA{}, false},
		{"rgba(1,2,3)", color.NRGBA{}, false},
		{"notacolour", color.NRGBA{}, false},
	} {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseColor(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func opaque(t *testing.T, s *Surface, x, y int) color.RGBA {
	t.Helper()
	c := s.Image().RGBAAt(x, y)
	assert.Greater(t, c.A, uint8(250), "pixel (%d,%d) should be painted", x, y)
	return c
}

func empty(t *testing.T, s *Surface, x, y int) {
	t.Helper()
	assert.Zero(t, s.Image().RGBAAt(x, y).A, "pixel (%d,%d) should be empty", x, y)
}

func TestFillRect(t *testing.T) {
	s := New(50, 50)
	s.SetFillStyle("red")
	s.FillRect(10, 10, 20, 20)

	c := opaque(t, s, 20, 20)
	assert.Greater(t, c.R, uint8(250))
	assert.Zero(t, c.G)
	empty(t, s, 5, 5)
	empty(t, s, 35, 35)
}

func TestTransformAndRestore(t *testing.T) {
	s := New(50, 50)
	s.Save()
	s.Translate(25, 25)
	s.Scale(2, 2)
	s.FillRect(0, 0, 5, 5)
	s.Restore()
	s.FillRect(0, 0, 5, 5)

	opaque(t, s, 30, 30)
	opaque(t, s, 2, 2)
	empty(t, s, 20, 20)
	assert.Equal(t, [6]float64{1, 0, 0, 1, 0, 0}, [6]float64(s.CTM()))

	// An extra Restore is harmless.
	s.Restore()
	assert.Equal(t, [6]float64{1, 0, 0, 1, 0, 0}, [6]float64(s.CTM()))
}

func TestRotatedFill(t *testing.T) {
	s := New(60, 60)
	s.Translate(30, 30)
	s.Rotate(math.Pi / 4)
	s.FillRect(-10, -10, 20, 20)

	opaque(t, s, 30, 30)
	// The diamond reaches ~14px along the axes but not into the corners.
	opaque(t, s, 30, 18)
	empty(t, s, 19, 19)
}

func TestStrokeRect(t *testing.T) {
	s := New(50, 50)
	s.SetStrokeStyle("#00f")
	s.SetLineWidth(2)
	s.StrokeRect(10, 10, 20, 20)

	assert.Greater(t, opaque(t, s, 10, 20).B, uint8(250))
	opaque(t, s, 9, 20)
	opaque(t, s, 29, 15)
	empty(t, s, 20, 20)
	empty(t, s, 5, 20)
}

func TestPathFillAndCurrentPathSurvivesRects(t *testing.T) {
	s := New(50, 50)
	s.BeginPath()
	s.MoveTo(0, 0)
	s.LineTo(40, 0)
	s.LineTo(0, 40)
	s.ClosePath()
	s.FillRect(45, 45, 5, 5)
	s.Fill()

	opaque(t, s, 5, 5)
	opaque(t, s, 47, 47)
	empty(t, s, 35, 35)
}

func TestBezierFill(t *testing.T) {
	s := New(40, 40)
	s.Translate(20, 20)
	s.BeginPath()
	s.MoveTo(-10, 0)
	s.BezierCurveTo(-10, -14, 10, -14, 10, 0)
	s.BezierCurveTo(10, 14, -10, 14, -10, 0)
	s.ClosePath()
	s.Fill()

	opaque(t, s, 20, 20)
	empty(t, s, 2, 2)
}

func TestClearRect(t *testing.T) {
	s := New(20, 20)
	s.Background("white")
	opaque(t, s, 10, 10)

	s.SetGlobalAlpha(0.1)
	s.ClearRect(5, 5, 10, 10)
	empty(t, s, 10, 10)
	opaque(t, s, 2, 2)
}

func TestClearRectKeepsPixelsOutside(t *testing.T) {
	s := New(20, 20)
	s.Background("white")

	s.ClearRect(5, 5, 2, 2)
	empty(t, s, 6, 6)
	for _, p := range []image.Point{{15, 15}, {0, 0}, {19, 19}, {8, 6}, {6, 8}} {
		assert.Equal(t, uint8(0xff), s.Image().RGBAAt(p.X, p.Y).A, "pixel %v", p)
	}

	// a half-covered column keeps half of its alpha
	s.ClearRect(10.5, 0, 5, 5)
	assert.InDelta(t, 128, int(s.Image().RGBAAt(10, 2).A), 2)
}

func TestClearRectTransformed(t *testing.T) {
	s := New(40, 40)
	s.Background("white")
	s.Translate(20, 0)
	s.Scale(2, 2)
	s.ClearRect(0, 0, 5, 5)

	empty(t, s, 25, 5)
	opaque(t, s, 5, 5)
	opaque(t, s, 35, 5)
}

func TestGlobalAlpha(t *testing.T) {
	s := New(10, 10)
	s.SetGlobalAlpha(0.5)
	s.FillRect(0, 0, 10, 10)
	assert.InDelta(t, 128, int(s.Image().RGBAAt(5, 5).A), 2)

	s.SetGlobalAlpha(7)
	s.Reset()
	s.FillRect(0, 0, 10, 10)
	opaque(t, s, 5, 5)
}

func TestInvalidStylesKeepPrevious(t *testing.T) {
	s := New(10, 10)
	s.SetFillStyle("lime")
	s.SetFillStyle("bogus")
	s.SetLineWidth(-1)
	s.SetLineWidth(math.Inf(1))
	s.FillRect(0, 0, 10, 10)
	assert.Greater(t, opaque(t, s, 5, 5).G, uint8(250))
}

func TestTransformShears(t *testing.T) {
	s := New(30, 20)
	s.Transform(1, 0, 1, 1, 0, 0)
	s.FillRect(0, 0, 10, 10)

	opaque(t, s, 14, 8)
	empty(t, s, 3, 8)
	opaque(t, s, 3, 1)
}

func TestStrokeFollowsTransform(t *testing.T) {
	s := New(60, 60)
	s.Scale(2, 2)
	s.SetLineWidth(2)
	s.BeginPath()
	s.MoveTo(5, 15)
	s.BezierCurveTo(5, 5, 25, 5, 25, 15)
	s.Stroke()

	// the curve leaves device (10, 30) upwards with a 4px wide line
	opaque(t, s, 9, 27)
	opaque(t, s, 11, 27)
	empty(t, s, 5, 27)
	empty(t, s, 30, 27)
	empty(t, s, 10, 32)
}

func TestLineDash(t *testing.T) {
	s := New(100, 10)
	s.SetLineWidth(4)
	s.SetLineDash([]float64{10})
	s.BeginPath()
	s.MoveTo(0, 5)
	s.LineTo(100, 5)
	s.Stroke()

	opaque(t, s, 5, 5)
	empty(t, s, 15, 5)
	opaque(t, s, 25, 5)

	s.SetLineDash(nil)
	s.BeginPath()
	s.MoveTo(0, 5)
	s.LineTo(100, 5)
	s.Stroke()
	opaque(t, s, 15, 5)

	// Negative entries are ignored and the earlier pattern stays.
	s.SetLineDash([]float64{-1, 2})
	assert.Equal(t, []float64{10, 10}, s.st.dash)
}

func TestDrawImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for _, p := range []image.Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		src.SetRGBA(p.X, p.Y, color.RGBA{R: 0xff, A: 0xff})
	}

	s := New(40, 40)
	s.Translate(20, 20)
	s.DrawImage(src, -5, -5, 10, 10)

	assert.Greater(t, opaque(t, s, 20, 20).R, uint8(250))
	empty(t, s, 5, 5)

	s.DrawImage(image.NewRGBA(image.Rectangle{}), 0, 0, 10, 10)
}

func TestRendersScene(t *testing.T) {
	s := New(120, 120)
	sc := engine.NewScene(s, 120, 120)
	sc.Add(
		engine.New(engine.KindRect, engine.WithPosition(10, 10), engine.WithSize(40, 40), engine.WithFill("#ff0000")),
		engine.New(engine.KindEllipse, engine.WithPosition(60, 60), engine.WithSize(40, 40), engine.WithFill("#0000ff"), engine.WithActive(true)),
	)

	assert.Greater(t, opaque(t, s, 30, 30).R, uint8(250))
	assert.Greater(t, opaque(t, s, 80, 80).B, uint8(250))
	empty(t, s, 100, 20)
	assert.Empty(t, s.stack, "rendering leaves the state stack balanced")
}

func TestActiveShapeKeepsEarlierShapes(t *testing.T) {
	s := New(120, 120)
	sc := engine.NewScene(s, 120, 120)
	sc.Add(
		engine.New(engine.KindRect, engine.WithPosition(10, 10), engine.WithSize(40, 40), engine.WithFill("#ff0000"), engine.WithActive(true)),
		engine.New(engine.KindRect, engine.WithPosition(70, 70), engine.WithSize(30, 30), engine.WithFill("#0000ff")),
	)
	sc.SetActiveObject(sc.Objects()[1])

	assert.Greater(t, opaque(t, s, 30, 30).R, uint8(250))
	assert.Greater(t, opaque(t, s, 85, 85).B, uint8(250))
	empty(t, s, 110, 20)
}

func TestEncode(t *testing.T) {
	s := New(8, 6)
	s.FillRect(0, 0, 4, 4)

	for _, f := range []Format{FormatPNG, FormatWebP} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, s.Image(), f))

			img, name, err := image.Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, string(f), name)
			assert.Equal(t, image.Rect(0, 0, 8, 6), img.Bounds())
		})
	}

	assert.ErrorIs(t, Encode(&bytes.Buffer{}, s.Image(), "gif"), ErrUnsupportedFormat)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(".WEBP")
	require.NoError(t, err)
	assert.Equal(t, FormatWebP, f)
	assert.Equal(t, "image/webp", f.ContentType())

	f, err = ParseFormat("png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.ContentType())

	_, err = ParseFormat("bmp")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFlatten(t *testing.T) {
	s := New(10, 10)
	s.SetFillStyle("#000")
	s.FillRect(0, 0, 5, 10)

	img := s.Flatten("white")
	assert.Equal(t, color.RGBA{A: 0xff}, img.RGBAAt(2, 5))
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, img.RGBAAt(8, 5))
	empty(t, s, 8, 5)
}
