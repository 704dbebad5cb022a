package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/canvas-go/internal/geom"
	"github.com/inamate/canvas-go/internal/surface"
)

func TestSceneAdd(t *testing.T) {
	rec := surface.NewRecorder()
	sc := NewScene(rec, 400, 300)
	a := square()

	sc.Add(a, a)
	assert.Equal(t, 1, sc.Len())
	assert.Same(t, sc, a.Scene())

	cmds := rec.Commands()
	require.NotEmpty(t, cmds)
	assert.Equal(t, "clearRect", cmds[0].Op)
	assert.Equal(t, []float64{0, 0, 400, 300}, cmds[0].Args)

	sc.Add(a)
	assert.Equal(t, 1, sc.Len(), "adding a shape twice is ignored")
	assert.False(t, a.HasStateChanged())
}

func TestSceneRenderAllBalanced(t *testing.T) {
	rec := surface.NewRecorder()
	sc := NewScene(rec, 400, 300)
	sc.Add(
		square(),
		square(WithVisible(false)),
		New(KindEllipse, WithSize(50, 50), WithAngle(30), WithActive(true)),
	)

	rec.Reset()
	sc.RenderAll()
	assert.Zero(t, rec.Depth())
	assert.Equal(t, rec.Count("save"), rec.Count("restore"))
	// One save for the plain square, three for the selected ellipse.
	assert.Equal(t, 4, rec.Count("save"))
}

func TestSceneFindTargetTopmostWins(t *testing.T) {
	sc := NewScene(nil, 400, 400)
	a := square(WithID("a"))
	b := New(KindRect, WithID("b"), WithPosition(100, 100), WithSize(200, 200))
	sc.Add(a, b)

	assert.Same(t, b, sc.FindTarget(PointerEvent{PageX: 150, PageY: 150}))
	assert.Same(t, a, sc.FindTarget(PointerEvent{PageX: 50, PageY: 50}))
	assert.Nil(t, sc.FindTarget(PointerEvent{PageX: 350, PageY: 350}))

	sc.SendToBack(b)
	assert.Same(t, a, sc.FindTarget(PointerEvent{PageX: 150, PageY: 150}))
	sc.BringToFront(b)
	assert.Same(t, b, sc.FindTarget(PointerEvent{PageX: 150, PageY: 150}))

	assert.Same(t, b, sc.ShapeByID("b"))
	assert.Nil(t, sc.ShapeByID("c"))
}

func TestSceneFindTargetSkipsHidden(t *testing.T) {
	sc := NewScene(nil, 400, 400)
	a := square()
	b := square(WithVisible(false))
	sc.Add(a, b)

	assert.Same(t, a, sc.FindTarget(PointerEvent{PageX: 100, PageY: 100}))
}

func TestSceneCalcOffset(t *testing.T) {
	sc := NewScene(nil, 400, 400)
	a := square()
	sc.Add(a)

	sc.Element = &Box{X: 10, Y: 20, Parent: &Box{X: 5, Y: 5}}
	assert.Equal(t, geom.Point{}, sc.Offset(), "offset is only refreshed on demand")

	sc.CalcOffset()
	assert.Equal(t, geom.Pt(15, 25), sc.Offset())
	assert.Equal(t, geom.Pt(100, 100), sc.GetPointer(PointerEvent{PageX: 115, PageY: 125}))
	assert.Same(t, a, sc.FindTarget(PointerEvent{PageX: 115, PageY: 125}))
	assert.Nil(t, sc.FindTarget(PointerEvent{PageX: 10, PageY: 10}))
}

func TestSceneViewport(t *testing.T) {
	rec := surface.NewRecorder()
	sc := NewScene(rec, 400, 400)
	a := square()
	sc.Add(a)

	sc.Zoom = 2
	sc.PanX = 10
	assert.Same(t, a, sc.FindTarget(PointerEvent{PageX: 390, PageY: 390}))
	assert.Nil(t, sc.FindTarget(PointerEvent{PageX: 5, PageY: 5}))

	rec.Reset()
	sc.RenderAll()
	cmds := rec.Commands()
	require.GreaterOrEqual(t, len(cmds), 4)
	assert.Equal(t, "save", cmds[1].Op)
	assert.Equal(t, []float64{10, 0}, cmds[2].Args)
	assert.Equal(t, []float64{2, 2}, cmds[3].Args)
	assert.Zero(t, rec.Depth())
}

func TestSceneCursor(t *testing.T) {
	sc := NewScene(nil, 400, 400)
	a := square()
	sc.Add(a)

	assert.Equal(t, "move", sc.CursorFor(PointerEvent{PageX: 100, PageY: 100}))
	assert.Equal(t, "default", sc.CursorFor(PointerEvent{PageX: 350, PageY: 350}))

	sc.SetActiveObject(a)
	assert.Equal(t, "nw-resize", sc.CursorFor(PointerEvent{PageX: 0.5, PageY: 0.5}))
	assert.Equal(t, "e-resize", sc.CursorFor(PointerEvent{PageX: 200.5, PageY: 100.5}))
	assert.Equal(t, "crosshair", sc.CursorFor(PointerEvent{PageX: 100.5, PageY: -39.5}))
}

func TestSceneActiveObject(t *testing.T) {
	sc := NewScene(nil, 400, 400)
	a, b := square(), square()
	sc.Add(a, b)

	sc.SetActiveObject(a)
	assert.True(t, a.Active)

	sc.SetActiveObject(b)
	assert.False(t, a.Active)
	assert.Same(t, b, sc.ActiveObject())

	sc.Remove(b)
	assert.Nil(t, sc.ActiveObject())
	assert.Nil(t, b.Scene())
	assert.Equal(t, 1, sc.Len())

	sc.SetActiveObject(a).DiscardActiveObject()
	assert.False(t, a.Active)
	assert.Nil(t, sc.ActiveObject())

	sc.SetActiveObject(b)
	assert.Nil(t, sc.ActiveObject(), "shapes outside the scene cannot be selected")
}

func TestSceneSelectionBounds(t *testing.T) {
	sc := NewScene(nil, 400, 400)
	sc.Add(square(WithID("a")), New(KindRect, WithID("b"), WithPosition(300, 300), WithSize(50, 50), WithStroke("", 0)))

	if diff := cmp.Diff(geom.Rect{X: 0.5, Y: 0.5, Width: 200, Height: 200}, sc.SelectionBounds([]string{"a"}), approx); diff != "" {
		t.Errorf("bounds mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(geom.Rect{X: 0.5, Y: 0.5, Width: 349.5, Height: 349.5}, sc.SelectionBounds([]string{"a", "b"}), approx); diff != "" {
		t.Errorf("bounds mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, geom.Rect{}, sc.SelectionBounds([]string{"missing"}))
}
