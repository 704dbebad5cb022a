package engine

import (
	"image"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/canvas-go/internal/geom"
	"github.com/inamate/canvas-go/internal/surface"
)

func TestRenderNoOp(t *testing.T) {
	for _, tc := range []struct {
		name string
		s    *Shape
	}{
		{"invisible", square(WithVisible(false))},
		{"zero width", square(WithSize(0, 100))},
		{"zero height", square(WithSize(100, 0))},
		{"zero scale", square(WithScale(1, 0))},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := surface.NewRecorder()
			tc.s.Render(rec)
			assert.Zero(t, rec.Len())
			assert.Zero(t, rec.Count("save"))
		})
	}
}

func TestRenderTransformOrder(t *testing.T) {
	rec := surface.NewRecorder()
	square(WithAngle(90), WithScale(2, 3)).Render(rec)

	cmds := rec.Commands()
	require.GreaterOrEqual(t, len(cmds), 4)
	assert.Equal(t, "save", cmds[0].Op)
	assert.Equal(t, "translate", cmds[1].Op)
	assert.Equal(t, "rotate", cmds[2].Op)
	assert.InDelta(t, 1.5707963267948966, cmds[2].Args[0], 1e-12)
	assert.Equal(t, "scale", cmds[3].Op)
	assert.Equal(t, []float64{2, 3}, cmds[3].Args)
	assert.Equal(t, "restore", cmds[len(cmds)-1].Op)
	assert.Zero(t, rec.Depth())
}

func TestRenderSkewsBodyOnly(t *testing.T) {
	rec := surface.NewRecorder()
	square().Render(rec)
	assert.Zero(t, rec.Count("transform"))

	rec.Reset()
	square(WithSkew(45, 0), WithActive(true)).Render(rec)
	require.Equal(t, 1, rec.Count("transform"))

	cmds := rec.Commands()
	i := slices.IndexFunc(cmds, func(c surface.DrawCommand) bool { return c.Op == "transform" })
	assert.Equal(t, "save", cmds[i-1].Op)
	assert.InDeltaSlice(t, []float64{1, 0, 1, 1, 0, 0}, cmds[i].Args, 1e-9)

	// the body is drawn and restored before the borders and controls
	fill := slices.IndexFunc(cmds, func(c surface.DrawCommand) bool { return c.Op == "fill" })
	border := slices.IndexFunc(cmds, func(c surface.DrawCommand) bool { return c.Op == "strokeRect" })
	assert.Greater(t, fill, i)
	assert.Equal(t, "restore", cmds[fill+1].Op)
	assert.Greater(t, border, fill)
	assert.Zero(t, rec.Depth())
}

func TestRenderFlipMirrorsScale(t *testing.T) {
	rec := surface.NewRecorder()
	square(WithFlip(true, false), WithScale(2, 2)).Render(rec)
	assert.Equal(t, []float64{-2, 2}, rec.Commands()[3].Args)
}

func TestRenderPaints(t *testing.T) {
	rec := surface.NewRecorder()
	square().Render(rec)
	assert.Equal(t, 1, rec.Count("fillStyle"))
	assert.Equal(t, 1, rec.Count("fill"))
	assert.Zero(t, rec.Count("stroke"), "no stroke colour configured")

	rec.Reset()
	square(WithFill(""), WithStroke("blue", 3)).Render(rec)
	assert.Zero(t, rec.Count("fill"))
	assert.Equal(t, 1, rec.Count("stroke"))
	assert.Equal(t, 1, rec.Count("lineWidth"))
}

func TestRenderActive(t *testing.T) {
	rec := surface.NewRecorder()
	New(KindRect, WithSize(200, 100), WithActive(true)).Render(rec)

	assert.Equal(t, 3, rec.Count("save"))
	assert.Equal(t, 3, rec.Count("restore"))
	assert.Zero(t, rec.Depth())
	assert.Equal(t, 9, rec.Count("fillRect"))
	assert.Equal(t, 9, rec.Count("clearRect"))
	assert.Equal(t, 1, rec.Count("strokeRect"))
	assert.Equal(t, 1, rec.Count("stroke"), "rotating handle stem")

	for _, c := range rec.Commands() {
		if c.Op == "strokeRect" {
			assert.Equal(t, []float64{-102.5, -52.5, 205, 105}, c.Args)
		}
	}
}

func TestRenderActiveVariants(t *testing.T) {
	rec := surface.NewRecorder()
	New(KindRect, WithSize(200, 100), WithActive(true), WithControls(true, false)).Render(rec)
	assert.Equal(t, 8, rec.Count("fillRect"))
	assert.Zero(t, rec.Count("stroke"))

	rec.Reset()
	s := New(KindRect, WithSize(200, 100), WithActive(true))
	s.TransparentCorners = true
	s.Render(rec)
	assert.Zero(t, rec.Count("fillRect"))
	assert.Equal(t, 10, rec.Count("strokeRect"))

	rec.Reset()
	New(KindRect, WithSize(200, 100), WithActive(true), WithControls(false, true)).Render(rec)
	assert.Zero(t, rec.Count("fillRect"))
	assert.Equal(t, 1, rec.Count("strokeRect"))
}

func TestRenderMovingDimsControls(t *testing.T) {
	rec := surface.NewRecorder()
	s := New(KindRect, WithSize(20, 20), WithActive(true))
	s.IsMoving = true
	s.Render(rec)

	for _, c := range rec.Commands() {
		if c.Op == "globalAlpha" {
			assert.Equal(t, []float64{0.4}, c.Args)
		}
	}
}

func TestRenderRoundedRect(t *testing.T) {
	rec := surface.NewRecorder()
	New(KindRect, WithSize(100, 50), WithCornerRadius(500, 10)).Render(rec)
	assert.Equal(t, 4, rec.Count("bezierCurveTo"))

	for _, c := range rec.Commands() {
		if c.Op == "moveTo" {
			// rx is clamped to half the width.
			assert.Equal(t, []float64{0, -25}, c.Args)
		}
	}

	rec.Reset()
	New(KindRect, WithSize(100, 50)).Render(rec)
	assert.Zero(t, rec.Count("bezierCurveTo"))
	assert.Equal(t, 4, rec.Count("lineTo"))
}

func TestRenderKinds(t *testing.T) {
	for _, tc := range []struct {
		kind    Kind
		opts    []Option
		op      string
		count   int
		painted bool
	}{
		{KindEllipse, nil, "bezierCurveTo", 4, true},
		{KindTriangle, nil, "lineTo", 2, true},
		{KindPath, []Option{WithFill(""), WithStroke("black", 2), WithPoints(geom.Pt(0, 0), geom.Pt(10, 10), geom.Pt(20, 0))}, "lineTo", 2, true},
		{KindPath, []Option{WithPoints(geom.Pt(0, 0))}, "lineTo", 0, false},
	} {
		t.Run(string(tc.kind), func(t *testing.T) {
			rec := surface.NewRecorder()
			New(tc.kind, append([]Option{WithSize(40, 30)}, tc.opts...)...).Render(rec)
			assert.Equal(t, tc.count, rec.Count(tc.op))
			assert.Equal(t, tc.painted, rec.Count("fill")+rec.Count("stroke") > 0)
			assert.Zero(t, rec.Depth())
		})
	}
}

func TestRenderImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	rec := surface.NewRecorder()
	New(KindImage, WithSize(40, 30), WithImage("asset_1", img)).Render(rec)
	require.Equal(t, 1, rec.Count("drawImage"))
	for _, c := range rec.Commands() {
		if c.Op == "drawImage" {
			assert.Equal(t, []float64{-20, -15, 40, 30}, c.Args)
		}
	}

	// Without a bitmap the box is drawn instead.
	rec.Reset()
	New(KindImage, WithSize(40, 30)).Render(rec)
	assert.Zero(t, rec.Count("drawImage"))
	assert.Equal(t, 1, rec.Count("fill"))
}
