// Package store persists versioned board snapshots.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrNotFound = errors.New("board not found")

// Snapshot is one saved version of a board document.
type Snapshot struct {
	ID        string          `json:"id"`
	BoardID   string          `json:"boardId"`
	Version   int             `json:"version"`
	Document  json.RawMessage `json:"document"`
	CreatedAt time.Time       `json:"createdAt"`
}

// BoardSummary describes the latest snapshot of a board.
type BoardSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Store interface {
	// SaveSnapshot stores doc as the next version of the board.
	SaveSnapshot(ctx context.Context, boardID string, doc json.RawMessage) (*Snapshot, error)
	LatestSnapshot(ctx context.Context, boardID string) (*Snapshot, error)
	ListBoards(ctx context.Context) ([]BoardSummary, error)
	DeleteBoard(ctx context.Context, boardID string) error
}

// boardName pulls board.name out of a stored document.
func boardName(doc json.RawMessage) string {
	var v struct {
		Board struct {
			Name string `json:"name"`
		} `json:"board"`
	}
	if err := json.Unmarshal(doc, &v); err != nil {
		return ""
	}
	return v.Board.Name
}
