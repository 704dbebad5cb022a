package store

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/inamate/canvas-go/internal/typeid"
)

// Memory keeps every snapshot in process. It is used when no database is
// configured and in tests.
type Memory struct {
	mu     sync.RWMutex
	boards map[string][]Snapshot
	now    func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		boards: make(map[string][]Snapshot),
		now:    time.Now,
	}
}

var _ Store = (*Memory)(nil)

func (m *Memory) SaveSnapshot(_ context.Context, boardID string, doc json.RawMessage) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	history := m.boards[boardID]
	snap := Snapshot{
		ID:        typeid.NewSnapshotID(),
		BoardID:   boardID,
		Version:   len(history) + 1,
		Document:  slices.Clone(doc),
		CreatedAt: m.now().UTC(),
	}
	m.boards[boardID] = append(history, snap)
	return &snap, nil
}

func (m *Memory) LatestSnapshot(_ context.Context, boardID string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := m.boards[boardID]
	if len(history) == 0 {
		return nil, ErrNotFound
	}
	snap := history[len(history)-1]
	return &snap, nil
}

func (m *Memory) ListBoards(_ context.Context) ([]BoardSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]BoardSummary, 0, len(m.boards))
	for id, history := range m.boards {
		last := history[len(history)-1]
		out = append(out, BoardSummary{
			ID:        id,
			Name:      boardName(last.Document),
			Version:   last.Version,
			UpdatedAt: last.CreatedAt,
		})
	}
	slices.SortFunc(out, func(a, b BoardSummary) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (m *Memory) DeleteBoard(_ context.Context, boardID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.boards[boardID]; !ok {
		return ErrNotFound
	}
	delete(m.boards, boardID)
	return nil
}
