package engine

import (
	"encoding/json"
	"log/slog"

	"github.com/inamate/canvas-go/internal/document"
	"github.com/inamate/canvas-go/internal/geom"
	"github.com/inamate/canvas-go/internal/surface"
)

// Engine owns a board document and its scene for a single frontend.
// It processes commands from the frontend and returns query results as JSON.
type Engine struct {
	board  document.Board
	scene  *Scene
	ctx    surface.Context
	loader ImageLoader

	// Page offset of the frontend canvas, reapplied on every load.
	element Element
}

// NewEngine creates an engine drawing onto ctx. ctx may be nil, in which case
// only Render's draw commands are produced.
func NewEngine(ctx surface.Context, loader ImageLoader) *Engine {
	return &Engine{
		ctx:    ctx,
		loader: loader,
		scene:  NewScene(ctx, 0, 0),
	}
}

// --- Commands (frontend → backend) ---

// LoadDocument loads a document from JSON.
func (e *Engine) LoadDocument(jsonData string) error {
	var doc document.Document
	if err := json.Unmarshal([]byte(jsonData), &doc); err != nil {
		return err
	}
	return e.load(&doc)
}

// LoadSampleDocument loads the built-in sample document.
func (e *Engine) LoadSampleDocument(boardID string) error {
	return e.load(document.NewSampleDocument(boardID))
}

func (e *Engine) load(doc *document.Document) error {
	scene, err := BuildScene(doc, e.ctx, e.loader)
	if err != nil {
		return err
	}
	scene.Element = e.element
	scene.CalcOffset()

	e.board = doc.Board
	e.scene = scene
	return nil
}

// AddShape adds a shape node given as JSON.
func (e *Engine) AddShape(jsonData string) error {
	var node document.ShapeNode
	if err := json.Unmarshal([]byte(jsonData), &node); err != nil {
		return err
	}
	return ApplyOperation(e.scene, document.Operation{Type: document.OpShapeAdd, Shape: &node}, e.loader)
}

// ApplyOperation applies an operation given as JSON.
func (e *Engine) ApplyOperation(jsonData string) error {
	var op document.Operation
	if err := json.Unmarshal([]byte(jsonData), &op); err != nil {
		return err
	}
	if op.Type == document.OpBoardRename {
		e.board.Name = op.Name
		return nil
	}
	return ApplyOperation(e.scene, op, e.loader)
}

// SetSelection selects the first of ids, or clears the selection.
func (e *Engine) SetSelection(ids []string) {
	if len(ids) == 0 {
		e.scene.DiscardActiveObject()
		return
	}
	if s := e.scene.ShapeByID(ids[0]); s != nil {
		e.scene.SetActiveObject(s)
	}
}

// Attach switches drawing to ctx for this and every later scene.
func (e *Engine) Attach(ctx surface.Context) {
	e.ctx = ctx
	e.scene.SetContext(ctx)
}

// SetOffset places the canvas at (x, y) on the page.
func (e *Engine) SetOffset(x, y float64) {
	e.element = &Box{X: x, Y: y}
	e.scene.Element = e.element
	e.scene.CalcOffset()
}

// Draw redraws the scene onto the attached surface.
func (e *Engine) Draw() {
	e.scene.RenderAll()
}

// --- Queries (frontend ← backend) ---

// Render returns the draw commands for the current scene as JSON.
func (e *Engine) Render() string {
	rec := surface.NewRecorder()
	ctx := e.scene.Context()
	e.scene.SetContext(rec).RenderAll()
	e.scene.SetContext(ctx)

	result, err := rec.MarshalJSON()
	if err != nil {
		return "[]"
	}
	return string(result)
}

// HitTest returns the ID of the topmost shape under the page position, or
// an empty string.
func (e *Engine) HitTest(pageX, pageY float64) string {
	if s := e.scene.FindTarget(PointerEvent{PageX: pageX, PageY: pageY}); s != nil {
		return s.ID
	}
	return ""
}

// CursorAt returns the CSS cursor for the page position.
func (e *Engine) CursorAt(pageX, pageY float64) string {
	return e.scene.CursorFor(PointerEvent{PageX: pageX, PageY: pageY})
}

// GetSelectionBounds returns the bounding box of the current selection as
// JSON, or "{}" when the box cannot be encoded.
func (e *Engine) GetSelectionBounds() string {
	var bounds geom.Rect
	if active := e.scene.ActiveObject(); active != nil {
		bounds = e.scene.SelectionBounds([]string{active.ID})
	}
	data, err := json.Marshal(bounds)
	if err != nil {
		slog.Error("marshal selection bounds", "error", err)
		return "{}"
	}
	return string(data)
}

// GetDocument returns the full document as JSON, or "{}" on failure.
func (e *Engine) GetDocument() string {
	doc, err := SnapshotScene(e.scene, e.board)
	if err != nil {
		slog.Error("snapshot scene", "error", err, "board", e.board.ID)
		return "{}"
	}
	data, err := json.Marshal(doc)
	if err != nil {
		slog.Error("marshal document", "error", err, "board", e.board.ID)
		return "{}"
	}
	return string(data)
}

// Scene returns the engine's scene.
func (e *Engine) Scene() *Scene {
	return e.scene
}
