package board

import (
	"context"
	"encoding/json"
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/canvas-go/internal/document"
	"github.com/inamate/canvas-go/internal/engine"
	"github.com/inamate/canvas-go/internal/store"
)

func newTestService() (*Service, *store.Memory) {
	st := store.NewMemory()
	return NewService(st, nil, 400, 300), st
}

func TestCreate(t *testing.T) {
	s, st := newTestService()
	ctx := context.Background()

	b, err := s.Create(ctx, CreateParams{Name: "Plan"})
	require.NoError(t, err)
	assert.Equal(t, "Plan", b.Name)
	assert.Equal(t, 400, b.Width)
	assert.Equal(t, 1, b.Version)
	assert.NotEmpty(t, b.CreatedAt)

	snap, err := st.LatestSnapshot(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Version)

	_, err = s.Create(ctx, CreateParams{Width: -1, Height: 10})
	assert.ErrorIs(t, err, ErrInvalidSize)
	_, err = s.Create(ctx, CreateParams{Width: MaxSize + 1, Height: 10})
	assert.ErrorIs(t, err, ErrInvalidSize)
}

// failingStore refuses every write.
type failingStore struct {
	*store.Memory
}

var errDiskFull = errors.New("disk full")

func (failingStore) SaveSnapshot(context.Context, string, json.RawMessage) (*store.Snapshot, error) {
	return nil, errDiskFull
}

func TestCreateFailedSaveLeavesNoBoard(t *testing.T) {
	s := NewService(failingStore{store.NewMemory()}, nil, 400, 300)
	ctx := context.Background()

	b, err := s.Create(ctx, CreateParams{Sample: true})
	assert.ErrorIs(t, err, errDiskFull)
	assert.Nil(t, b)
	assert.Empty(t, s.boards)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestApplyAndPick(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	b, err := s.Create(ctx, CreateParams{})
	require.NoError(t, err)

	node, err := s.AddShape(ctx, b.ID, document.ShapeNode{
		Type:  document.ShapeRect,
		Props: json.RawMessage(`{"width":200,"height":200}`),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, node.ID)

	hit, err := s.Pick(ctx, b.ID, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, node.ID, hit.Target)
	assert.Equal(t, "move", hit.Cursor)

	hit, err = s.Pick(ctx, b.ID, 300, 250)
	require.NoError(t, err)
	assert.Empty(t, hit.Target)
	assert.Equal(t, "default", hit.Cursor)

	seq, err := s.Apply(ctx, b.ID, document.Operation{
		Type:      document.OpShapeTransform,
		ShapeID:   node.ID,
		Transform: json.RawMessage(`{"left":250}`),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), seq)

	hit, err = s.Pick(ctx, b.ID, 100, 100)
	require.NoError(t, err)
	assert.Empty(t, hit.Target, "the shape moved away")

	seq, err = s.Apply(ctx, b.ID, document.Operation{Type: document.OpBoardRename, Name: "Moved"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), seq)

	_, err = s.Apply(ctx, b.ID, document.Operation{Type: document.OpBoardRename})
	assert.ErrorIs(t, err, engine.ErrInvalidOperation)

	assert.ErrorIs(t, s.RemoveShape(ctx, b.ID, "shape_nope"), engine.ErrShapeNotFound)
	require.NoError(t, s.RemoveShape(ctx, b.ID, node.ID))

	doc, err := s.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Moved", doc.Board.Name)
	assert.Empty(t, doc.Shapes)

	_, err = s.Pick(ctx, "board_missing", 0, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReloadFromStore(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()

	first := NewService(st, nil, 400, 300)
	b, err := first.Create(ctx, CreateParams{Sample: true})
	require.NoError(t, err)
	_, err = first.Apply(ctx, b.ID, document.Operation{Type: document.OpBoardRename, Name: "Saved"})
	require.NoError(t, err)
	require.NoError(t, first.SaveAll(ctx))

	second := NewService(st, nil, 400, 300)
	require.True(t, second.Exists(ctx, b.ID))
	doc, err := second.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Saved", doc.Board.Name)
	assert.Equal(t, 2, doc.Board.Version)
	assert.Len(t, doc.Shapes, 5)

	// Nothing changed since, so nothing is written.
	require.NoError(t, first.SaveAll(ctx))
	snap, err := st.LatestSnapshot(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Version)

	list, err := second.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Saved", list[0].Name)

	require.NoError(t, second.Delete(ctx, b.ID))
	assert.False(t, second.Exists(ctx, b.ID))
	assert.ErrorIs(t, second.Delete(ctx, b.ID), ErrNotFound)
}

func TestRender(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	b, err := s.Create(ctx, CreateParams{Sample: true, Width: 800, Height: 600})
	require.NoError(t, err)

	img, err := s.Render(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())

	r, g, _, a := img.At(100, 100).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	assert.Greater(t, r>>8, uint32(0xd0), "inside the first sample rect")
	assert.Less(t, g>>8, uint32(0x60))

	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, color.RGBAModel.Convert(img.At(790, 590)))

	// A second render starts from a clean surface.
	img2, err := s.Render(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, img.At(100, 100), img2.At(100, 100))
}

func TestRenderWithSelection(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	b, err := s.Create(ctx, CreateParams{Sample: true, Width: 800, Height: 600})
	require.NoError(t, err)
	doc, err := s.Get(ctx, b.ID)
	require.NoError(t, err)

	before, err := s.Render(ctx, b.ID)
	require.NoError(t, err)

	_, err = s.Apply(ctx, b.ID, document.Operation{Type: document.OpShapeSelect, ShapeID: doc.Shapes[4].ID})
	require.NoError(t, err)
	after, err := s.Render(ctx, b.ID)
	require.NoError(t, err)

	// every shape body, the selected one included, survives the controls
	for _, p := range [][2]int{{100, 100}, {400, 140}, {620, 140}, {160, 400}, {440, 420}} {
		assert.Equal(t, before.At(p[0], p[1]), after.At(p[0], p[1]), "pixel %v", p)
	}
	_, _, _, a := after.At(100, 100).RGBA()
	assert.Equal(t, uint32(0xffff), a)
}

func TestCommandsAndExport(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	b, err := s.Create(ctx, CreateParams{Sample: true})
	require.NoError(t, err)

	cmds, err := s.Commands(ctx, b.ID)
	require.NoError(t, err)
	require.NotEmpty(t, cmds)
	assert.Equal(t, "clearRect", cmds[0].Op)

	objects, err := s.Export(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, objects, 5)
	assert.Equal(t, "rect", objects[0]["type"])
	assert.NotEmpty(t, objects[0]["id"])
	assert.Equal(t, 30.0, objects[4]["angle"])
}
