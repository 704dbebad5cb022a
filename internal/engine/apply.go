package engine

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inamate/canvas-go/internal/document"
)

var (
	ErrShapeNotFound    = errors.New("shape not found")
	ErrInvalidOperation = errors.New("invalid operation")
)

// ApplyOperation applies a shape operation to the scene and redraws it.
// Board-level operations such as board.rename do not touch the scene and are
// left to the caller.
func ApplyOperation(scene *Scene, op document.Operation, loader ImageLoader) error {
	switch op.Type {
	case document.OpShapeAdd:
		return applyAdd(scene, op, loader)
	case document.OpShapeRemove:
		s, err := lookup(scene, op.ShapeID)
		if err != nil {
			return err
		}
		scene.Remove(s)
		return nil
	case document.OpShapeTransform:
		return applyProps(scene, op.ShapeID, op.Transform, document.TransformKeys)
	case document.OpShapeStyle:
		return applyProps(scene, op.ShapeID, op.Style, document.StyleKeys)
	case document.OpShapeVisibility:
		return applyVisibility(scene, op)
	case document.OpShapeSelect:
		if op.ShapeID == "" {
			scene.DiscardActiveObject()
			return nil
		}
		s, err := lookup(scene, op.ShapeID)
		if err != nil {
			return err
		}
		scene.SetActiveObject(s)
		return nil
	case document.OpShapeReorder:
		return applyReorder(scene, op)
	case document.OpBoardRename:
		return nil
	default:
		return fmt.Errorf("%w: unknown operation type: %s", ErrInvalidOperation, op.Type)
	}
}

func lookup(scene *Scene, id string) (*Shape, error) {
	s := scene.ShapeByID(id)
	if s == nil {
		return nil, fmt.Errorf("%w: %s", ErrShapeNotFound, id)
	}
	return s, nil
}

func applyAdd(scene *Scene, op document.Operation, loader ImageLoader) error {
	if op.Shape == nil {
		return fmt.Errorf("%w: shape.add without shape", ErrInvalidOperation)
	}
	if scene.ShapeByID(op.Shape.ID) != nil {
		return fmt.Errorf("%w: shape %s already exists", ErrInvalidOperation, op.Shape.ID)
	}

	s, err := NewShape(*op.Shape, loader)
	if err != nil {
		return err
	}
	s.Active = false
	scene.Add(s)
	return nil
}

func applyProps(scene *Scene, id string, raw json.RawMessage, allowed map[string]bool) error {
	s, err := lookup(scene, id)
	if err != nil {
		return err
	}

	var changes map[string]any
	if err := json.Unmarshal(raw, &changes); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOperation, err)
	}
	for key := range changes {
		if !allowed[key] {
			return fmt.Errorf("%w: property %q not allowed here", ErrInvalidOperation, key)
		}
	}

	if err := s.SetAll(changes); err != nil {
		return err
	}
	scene.RenderAll()
	return nil
}

func applyVisibility(scene *Scene, op document.Operation) error {
	if op.Visible == nil {
		return fmt.Errorf("%w: shape.visibility without visible", ErrInvalidOperation)
	}
	s, err := lookup(scene, op.ShapeID)
	if err != nil {
		return err
	}
	s.Visible = *op.Visible
	scene.RenderAll()
	return nil
}

func applyReorder(scene *Scene, op document.Operation) error {
	s, err := lookup(scene, op.ShapeID)
	if err != nil {
		return err
	}
	switch op.Position {
	case document.ReorderFront:
		scene.BringToFront(s)
	case document.ReorderBack:
		scene.SendToBack(s)
	default:
		return fmt.Errorf("%w: reorder position %q", ErrInvalidOperation, op.Position)
	}
	return nil
}
