package engine

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/inamate/canvas-go/internal/document"
	"github.com/inamate/canvas-go/internal/surface"
)

// ImageLoader resolves the Src of image shapes to decoded bitmaps.
type ImageLoader interface {
	LoadImage(src string) (image.Image, error)
}

// BuildScene builds a render-ready scene from a document. Shapes keep the
// document order, so the last node ends up on top. The scene is drawn once
// onto ctx when ctx is non-nil.
func BuildScene(doc *document.Document, ctx surface.Context, loader ImageLoader) (*Scene, error) {
	scene := NewScene(ctx, float64(doc.Board.Width), float64(doc.Board.Height))

	shapes := make([]*Shape, 0, len(doc.Shapes))
	for _, node := range doc.Shapes {
		s, err := NewShape(node, loader)
		if err != nil {
			return nil, err
		}
		// Selection comes from the document, not from stored flags.
		s.Active = false
		shapes = append(shapes, s)
	}
	scene.Add(shapes...)

	if len(doc.Selection) > 0 {
		if s := scene.ShapeByID(doc.Selection[0]); s != nil {
			scene.SetActiveObject(s)
		}
	}
	return scene, nil
}

// NewShape creates a shape from a document node and resolves its image.
// A bitmap that fails to load leaves the shape drawn as a plain box.
func NewShape(node document.ShapeNode, loader ImageLoader) (*Shape, error) {
	if node.ID == "" {
		return nil, fmt.Errorf("%w: shape without id", ErrInvalidOptions)
	}
	s, err := NewFromJSON(node.ID, Kind(node.Type), node.Props)
	if err != nil {
		return nil, fmt.Errorf("shape %s: %w", node.ID, err)
	}
	if s.Kind == KindImage && s.Src != "" && loader != nil {
		if img, err := loader.LoadImage(s.Src); err == nil {
			s.Image = img
		}
	}
	return s, nil
}

// SnapshotScene captures the scene as a document for the given board.
func SnapshotScene(scene *Scene, board document.Board) (*document.Document, error) {
	doc := &document.Document{
		Board:  board,
		Shapes: make([]document.ShapeNode, 0, scene.Len()),
	}

	for _, s := range scene.objects {
		opts := s.Options
		opts.Active = false
		props, err := json.Marshal(opts)
		if err != nil {
			return nil, fmt.Errorf("marshal shape %s: %w", s.ID, err)
		}
		doc.Shapes = append(doc.Shapes, document.ShapeNode{
			ID:    s.ID,
			Type:  document.ShapeType(s.Kind),
			Props: props,
		})
	}

	if active := scene.ActiveObject(); active != nil {
		doc.Selection = []string{active.ID}
	}
	return doc, nil
}
