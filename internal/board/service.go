// Package board hosts live boards: a scene per board kept in memory,
// loaded from and saved to the snapshot store.
package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/inamate/canvas-go/internal/document"
	"github.com/inamate/canvas-go/internal/engine"
	"github.com/inamate/canvas-go/internal/geom"
	"github.com/inamate/canvas-go/internal/raster"
	"github.com/inamate/canvas-go/internal/store"
	"github.com/inamate/canvas-go/internal/surface"
	"github.com/inamate/canvas-go/internal/typeid"
)

var (
	ErrNotFound    = errors.New("board not found")
	ErrInvalidSize = errors.New("invalid board size")
)

// MaxSize bounds board width and height in pixels.
const MaxSize = 8192

type liveBoard struct {
	mu      sync.Mutex
	info    document.Board
	scene   *engine.Scene
	surface *raster.Surface // created on first render
	seq     int64
	dirty   bool
}

// Service owns every board opened since startup.
type Service struct {
	store  store.Store
	loader engine.ImageLoader
	width  int
	height int
	now    func() time.Time

	mu     sync.Mutex
	boards map[string]*liveBoard
}

// NewService creates a service. width and height are the default size of
// new boards.
func NewService(st store.Store, loader engine.ImageLoader, width, height int) *Service {
	return &Service{
		store:  st,
		loader: loader,
		width:  width,
		height: height,
		now:    time.Now,
		boards: make(map[string]*liveBoard),
	}
}

type CreateParams struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Sample bool   `json:"sample"`
}

func (s *Service) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// Create makes a new board, optionally seeded with the sample shapes, and
// saves its first snapshot.
func (s *Service) Create(ctx context.Context, p CreateParams) (*document.Board, error) {
	width, height := p.Width, p.Height
	if width == 0 && height == 0 {
		width, height = s.width, s.height
	}
	if width <= 0 || height <= 0 || width > MaxSize || height > MaxSize {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	id := typeid.NewBoardID()
	var doc *document.Document
	if p.Sample {
		doc = document.NewSampleDocument(id)
		doc.Board.Width, doc.Board.Height = width, height
	} else {
		doc = document.NewEmptyDocument(id, "Untitled", width, height)
	}
	if p.Name != "" {
		doc.Board.Name = p.Name
	}
	doc.Board.CreatedAt = s.timestamp()
	doc.Board.UpdatedAt = doc.Board.CreatedAt

	scene, err := engine.BuildScene(doc, nil, s.loader)
	if err != nil {
		return nil, fmt.Errorf("build scene: %w", err)
	}
	b := &liveBoard{info: doc.Board, scene: scene, dirty: true}
	if _, err := s.save(ctx, b); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.boards[id] = b
	s.mu.Unlock()
	slog.Info("board created", "board", id, "shapes", scene.Len())

	info := b.info
	return &info, nil
}

// open returns the live board, loading its latest snapshot on first use.
func (s *Service) open(ctx context.Context, id string) (*liveBoard, error) {
	s.mu.Lock()
	b, ok := s.boards[id]
	s.mu.Unlock()
	if ok {
		return b, nil
	}

	snap, err := s.store.LatestSnapshot(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}

	var doc document.Document
	if err := json.Unmarshal(snap.Document, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", snap.ID, err)
	}
	doc.Board.Version = snap.Version

	scene, err := engine.BuildScene(&doc, nil, s.loader)
	if err != nil {
		return nil, fmt.Errorf("build scene: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another request may have loaded it meanwhile.
	if existing, ok := s.boards[id]; ok {
		return existing, nil
	}
	b = &liveBoard{info: doc.Board, scene: scene}
	s.boards[id] = b
	slog.Debug("board loaded", "board", id, "version", snap.Version)
	return b, nil
}

// Exists reports whether the board can be opened.
func (s *Service) Exists(ctx context.Context, id string) bool {
	_, err := s.open(ctx, id)
	return err == nil
}

// Get returns the current document of a board.
func (s *Service) Get(ctx context.Context, id string) (*document.Document, error) {
	b, err := s.open(ctx, id)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return engine.SnapshotScene(b.scene, b.info)
}

func (s *Service) List(ctx context.Context) ([]store.BoardSummary, error) {
	return s.store.ListBoards(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.boards, id)
	s.mu.Unlock()

	if err := s.store.DeleteBoard(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return err
	}
	return nil
}

// Apply applies op to the board and returns the board's new sequence
// number. Operations without an ID get one.
func (s *Service) Apply(ctx context.Context, id string, op document.Operation) (int64, error) {
	b, err := s.open(ctx, id)
	if err != nil {
		return 0, err
	}
	if op.ID == "" {
		op.ID = typeid.NewOpID()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if op.Type == document.OpBoardRename {
		if op.Name == "" {
			return 0, fmt.Errorf("%w: board.rename without name", engine.ErrInvalidOperation)
		}
		b.info.Name = op.Name
	} else if err := engine.ApplyOperation(b.scene, op, s.loader); err != nil {
		return 0, err
	}

	b.seq++
	b.dirty = true
	b.info.UpdatedAt = s.timestamp()
	return b.seq, nil
}

// AddShape adds node on top of the board, assigning an ID when it has none.
func (s *Service) AddShape(ctx context.Context, id string, node document.ShapeNode) (*document.ShapeNode, error) {
	if node.ID == "" {
		node.ID = typeid.NewShapeID()
	}
	if len(node.Props) == 0 {
		node.Props = json.RawMessage(`{}`)
	}
	if _, err := s.Apply(ctx, id, document.Operation{Type: document.OpShapeAdd, Shape: &node}); err != nil {
		return nil, err
	}
	return &node, nil
}

func (s *Service) RemoveShape(ctx context.Context, id, shapeID string) error {
	_, err := s.Apply(ctx, id, document.Operation{Type: document.OpShapeRemove, ShapeID: shapeID})
	return err
}

// Hit is the result of a pick at a board position.
type Hit struct {
	Target string `json:"target"`
	Cursor string `json:"cursor"`
}

// Pick returns the topmost shape at (x, y) in board coordinates and the
// cursor a pointer there would show.
func (s *Service) Pick(ctx context.Context, id string, x, y float64) (*Hit, error) {
	b, err := s.open(ctx, id)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	p := geom.Pt(x, y)
	hit := &Hit{Cursor: b.scene.CursorAt(p)}
	if target := b.scene.FindTargetAt(p); target != nil {
		hit.Target = target.ID
	}
	return hit, nil
}

// Render rasterises the board over its background colour.
func (s *Service) Render(ctx context.Context, id string) (image.Image, error) {
	b, err := s.open(ctx, id)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.surface == nil || b.surface.Width() != b.info.Width || b.surface.Height() != b.info.Height {
		b.surface = raster.New(b.info.Width, b.info.Height)
	}
	b.surface.Reset()
	b.scene.SetContext(b.surface).RenderAll()
	b.scene.SetContext(nil)

	return b.surface.Flatten(b.info.Background), nil
}

// Commands returns the board's draw-command list for browser replay.
func (s *Service) Commands(ctx context.Context, id string) ([]surface.DrawCommand, error) {
	b, err := s.open(ctx, id)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	rec := surface.NewRecorder()
	b.scene.SetContext(rec).RenderAll()
	b.scene.SetContext(nil)
	return rec.Commands(), nil
}

// Export returns the plain-object form of every shape, bottom to top.
func (s *Service) Export(ctx context.Context, id string) ([]document.Record, error) {
	b, err := s.open(ctx, id)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	objects := b.scene.Objects()
	out := make([]document.Record, len(objects))
	for i, o := range objects {
		rec := o.ToObject()
		rec["id"] = o.ID
		out[i] = rec
	}
	return out, nil
}

// Save writes a new snapshot of the board.
func (s *Service) Save(ctx context.Context, id string) (*store.Snapshot, error) {
	b, err := s.open(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, b)
}

func (s *Service) save(ctx context.Context, b *liveBoard) (*store.Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	doc, err := engine.SnapshotScene(b.scene, b.info)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	snap, err := s.store.SaveSnapshot(ctx, b.info.ID, data)
	if err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	b.info.Version = snap.Version
	b.dirty = false
	return snap, nil
}

// SaveAll snapshots every board changed since its last save.
func (s *Service) SaveAll(ctx context.Context) error {
	s.mu.Lock()
	boards := make([]*liveBoard, 0, len(s.boards))
	for _, b := range s.boards {
		boards = append(boards, b)
	}
	s.mu.Unlock()

	var errs []error
	for _, b := range boards {
		b.mu.Lock()
		dirty := b.dirty
		b.mu.Unlock()
		if !dirty {
			continue
		}
		snap, err := s.save(ctx, b)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		slog.Info("board saved", "board", snap.BoardID, "version", snap.Version)
	}
	return errors.Join(errs...)
}
