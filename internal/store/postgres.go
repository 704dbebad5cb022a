package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inamate/canvas-go/internal/typeid"
)

const schema = `
CREATE TABLE IF NOT EXISTS board_snapshots (
	id         TEXT PRIMARY KEY,
	board_id   TEXT NOT NULL,
	version    INTEGER NOT NULL,
	document   JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (board_id, version)
)`

// Postgres stores snapshots in a single append-only table.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ Store = (*Postgres)(nil)

// NewPool connects to the database and checks the connection.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// NewPostgres creates the snapshot table if needed.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) SaveSnapshot(ctx context.Context, boardID string, doc json.RawMessage) (*Snapshot, error) {
	snap := Snapshot{
		ID:       typeid.NewSnapshotID(),
		BoardID:  boardID,
		Document: doc,
	}
	err := p.pool.QueryRow(ctx, `
		INSERT INTO board_snapshots (id, board_id, version, document)
		SELECT $1, $2, COALESCE(MAX(version), 0) + 1, $3
		FROM board_snapshots WHERE board_id = $2
		RETURNING version, created_at`,
		snap.ID, boardID, []byte(doc),
	).Scan(&snap.Version, &snap.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert snapshot: %w", err)
	}
	return &snap, nil
}

func (p *Postgres) LatestSnapshot(ctx context.Context, boardID string) (*Snapshot, error) {
	var snap Snapshot
	err := p.pool.QueryRow(ctx, `
		SELECT id, board_id, version, document, created_at
		FROM board_snapshots WHERE board_id = $1
		ORDER BY version DESC LIMIT 1`, boardID,
	).Scan(&snap.ID, &snap.BoardID, &snap.Version, &snap.Document, &snap.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return &snap, nil
}

func (p *Postgres) ListBoards(ctx context.Context) ([]BoardSummary, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT DISTINCT ON (board_id) board_id, COALESCE(document->'board'->>'name', ''), version, created_at
		FROM board_snapshots
		ORDER BY board_id, version DESC`)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}

	boards, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (BoardSummary, error) {
		var b BoardSummary
		err := row.Scan(&b.ID, &b.Name, &b.Version, &b.UpdatedAt)
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan boards: %w", err)
	}
	return boards, nil
}

func (p *Postgres) DeleteBoard(ctx context.Context, boardID string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM board_snapshots WHERE board_id = $1`, boardID)
	if err != nil {
		return fmt.Errorf("delete board: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
