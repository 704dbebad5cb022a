package document

import "encoding/json"

type OperationType string

const (
	OpShapeAdd        OperationType = "shape.add"
	OpShapeRemove     OperationType = "shape.remove"
	OpShapeTransform  OperationType = "shape.transform"
	OpShapeStyle      OperationType = "shape.style"
	OpShapeVisibility OperationType = "shape.visibility"
	OpShapeSelect     OperationType = "shape.select"
	OpShapeReorder    OperationType = "shape.reorder"
	OpBoardRename     OperationType = "board.rename"
)

// Reorder targets for shape.reorder.
const (
	ReorderFront = "front"
	ReorderBack  = "back"
)

// Operation represents a board mutation.
type Operation struct {
	ID        string        `json:"id"`
	Type      OperationType `json:"type"`
	Timestamp int64         `json:"timestamp"`
	ClientSeq int64         `json:"clientSeq"`
	ShapeID   string        `json:"shapeId,omitempty"`

	// For shape.add
	Shape *ShapeNode `json:"shape,omitempty"`

	// For shape.transform, keyed by plain-object property
	Transform json.RawMessage `json:"transform,omitempty"`

	// For shape.style
	Style json.RawMessage `json:"style,omitempty"`

	// For shape.visibility
	Visible *bool `json:"visible,omitempty"`

	// For shape.reorder: "front" or "back"
	Position string `json:"position,omitempty"`

	// For board.rename
	Name string `json:"name,omitempty"`
}

// TransformKeys are the properties a shape.transform may change.
var TransformKeys = map[string]bool{
	"left": true, "top": true, "width": true, "height": true,
	"scaleX": true, "scaleY": true, "angle": true,
	"skewX": true, "skewY": true, "flipX": true, "flipY": true,
	"originX": true, "originY": true,
}

// StyleKeys are the properties a shape.style may change.
var StyleKeys = map[string]bool{
	"fill": true, "stroke": true, "strokeWidth": true, "strokeUniform": true,
	"padding": true, "cornerSize": true, "cornerColor": true,
	"transparentCorners": true, "hasControls": true, "hasRotatingPoint": true,
	"rotatingPointOffset": true, "borderColor": true, "borderWidth": true,
	"borderOpacityWhenMoving": true, "rx": true, "ry": true,
}
