package document

import "encoding/json"

// Record is the plain-object form of a shape: a flat map of primitives.
type Record map[string]any

// Document is the persisted form of a board.
type Document struct {
	Board     Board       `json:"board"`
	Shapes    []ShapeNode `json:"shapes"` // bottom to top
	Selection []string    `json:"selection,omitempty"`
}

type Board struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Version    int    `json:"version"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Background string `json:"background"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

type ShapeType string

const (
	ShapeRect     ShapeType = "rect"
	ShapeEllipse  ShapeType = "ellipse"
	ShapeTriangle ShapeType = "triangle"
	ShapePath     ShapeType = "path"
	ShapeImage    ShapeType = "image"
)

// ShapeNode is one shape of a document. Props holds the shape options as a
// JSON object using plain-object keys.
type ShapeNode struct {
	ID    string          `json:"id"`
	Type  ShapeType       `json:"type"`
	Props json.RawMessage `json:"props"`
}

// Shape returns the node with the given ID.
func (d *Document) Shape(id string) (ShapeNode, bool) {
	for _, n := range d.Shapes {
		if n.ID == id {
			return n, true
		}
	}
	return ShapeNode{}, false
}

// NewEmptyDocument creates an empty document for a new board.
func NewEmptyDocument(boardID, name string, width, height int) *Document {
	return &Document{
		Board: Board{
			ID:         boardID,
			Name:       name,
			Version:    1,
			Width:      width,
			Height:     height,
			Background: "#ffffff",
			CreatedAt:  "", // Will be set by caller
			UpdatedAt:  "",
		},
		Shapes: []ShapeNode{},
	}
}
