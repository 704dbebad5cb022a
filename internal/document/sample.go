package document

import (
	"encoding/json"
	"time"

	"github.com/inamate/canvas-go/internal/typeid"
)

func NewSampleDocument(boardID string) *Document {
	now := time.Now().UTC().Format(time.RFC3339)

	return &Document{
		Board: Board{
			ID:         boardID,
			Name:       "Untitled",
			Version:    1,
			Width:      800,
			Height:     600,
			Background: "#ffffff",
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		Shapes: []ShapeNode{
			{
				ID:    typeid.NewShapeID(),
				Type:  ShapeRect,
				Props: json.RawMessage(`{"left":60,"top":60,"width":200,"height":120,"fill":"#e94560","stroke":"#000000","strokeWidth":2}`),
			},
			{
				ID:    typeid.NewShapeID(),
				Type:  ShapeRect,
				Props: json.RawMessage(`{"left":320,"top":60,"width":160,"height":160,"fill":"#0f3460","rx":24,"ry":24}`),
			},
			{
				ID:    typeid.NewShapeID(),
				Type:  ShapeEllipse,
				Props: json.RawMessage(`{"left":620,"top":140,"width":180,"height":120,"originX":"center","originY":"center","fill":"#16c79a"}`),
			},
			{
				ID:    typeid.NewShapeID(),
				Type:  ShapeTriangle,
				Props: json.RawMessage(`{"left":80,"top":300,"width":160,"height":140,"fill":"#f5a623","stroke":"#333333","strokeWidth":3}`),
			},
			{
				ID:    typeid.NewShapeID(),
				Type:  ShapeRect,
				Props: json.RawMessage(`{"left":440,"top":420,"width":200,"height":100,"originX":"center","originY":"center","angle":30,"fill":"rgba(83,52,131,0.8)"}`),
			},
		},
	}
}
