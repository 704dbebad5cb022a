package collab

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/inamate/canvas-go/internal/board"
	"github.com/inamate/canvas-go/internal/document"
	"github.com/inamate/canvas-go/internal/typeid"
)

// Boards is the board state the hub edits and queries.
type Boards interface {
	Exists(ctx context.Context, boardID string) bool
	Apply(ctx context.Context, boardID string, op document.Operation) (int64, error)
	Pick(ctx context.Context, boardID string, x, y float64) (*board.Hit, error)
}

// Room is the set of clients editing one board.
type Room struct {
	boardID string
	clients map[string]*Client // clientID -> client
	peers   *roster
}

func NewRoom(boardID string) *Room {
	return &Room{
		boardID: boardID,
		clients: make(map[string]*Client),
		peers:   newRoster(),
	}
}

// hasUser reports whether any client of the room belongs to userID.
func (r *Room) hasUser(userID string) bool {
	for _, c := range r.clients {
		if c.UserID == userID {
			return true
		}
	}
	return false
}

type Hub struct {
	boards Boards

	mu         sync.RWMutex
	rooms      map[string]*Room // boardID -> room
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub(boards Boards) *Hub {
	return &Hub{
		boards:     boards,
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run processes joins and leaves until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.close()
	}
}

// Unregister removes client from its room. It is a no-op once Run has
// returned.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of clients connected to a board.
func (h *Hub) ClientCount(boardID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if room, ok := h.rooms[boardID]; ok {
		return len(room.clients)
	}
	return 0
}

func (h *Hub) room(boardID string) *Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[boardID]
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.BoardID]
	if !ok {
		room = NewRoom(client.BoardID)
		h.rooms[client.BoardID] = room
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()
	room.peers.join(client.UserID, client.DisplayName)

	client.Send(newMessage(TypeWelcome, WelcomePayload{
		ClientID: client.ClientID,
		UserID:   client.UserID,
		BoardID:  client.BoardID,
	}))
	client.Send(newMessage(TypePresenceState, PresenceStatePayload{Presences: room.peers.snapshot()}))

	// Broadcast join to other clients
	joinMsg := newMessage(TypePresenceJoin, PresenceJoinPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	joinMsg.UserID = client.UserID
	h.broadcastToRoom(client.BoardID, joinMsg, client.ClientID)

	slog.Info("client joined", "user", client.UserID, "board", client.BoardID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.BoardID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := room.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	client.close()
	if !room.hasUser(client.UserID) {
		room.peers.leave(client.UserID)
	}

	if len(room.clients) == 0 {
		delete(h.rooms, client.BoardID)
	}
	h.mu.Unlock()

	// Broadcast leave to remaining clients
	leaveMsg := newMessage(TypePresenceLeave, PresenceLeavePayload{UserID: client.UserID})
	leaveMsg.UserID = client.UserID
	h.broadcastToRoom(client.BoardID, leaveMsg, "")

	slog.Info("client left", "user", client.UserID, "board", client.BoardID)
}

func (h *Hub) handleMessage(ctx context.Context, sender *Client, msg *Message) {
	switch msg.Type {
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	case TypePointerMove:
		h.handlePointerMove(ctx, sender, msg)
	case TypeOpSubmit:
		h.handleOpSubmit(ctx, sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
		sender.Send(newMessage(TypeError, ErrorPayload{Message: "unknown message type: " + msg.Type}))
	}
}

// handlePresenceUpdate takes a client-reported pointer or selection.
// Hover is only ever set from a hit test.
func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var update PresenceUpdatePayload
	if err := json.Unmarshal(msg.Payload, &update); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}
	h.updatePeer(sender, func(r *roster) (Peer, bool) {
		return r.update(sender.UserID, func(p *Peer) {
			if update.Cursor != nil {
				pos := *update.Cursor
				p.Cursor = &pos
			}
			if update.Selection != nil {
				p.Selection = append([]string(nil), update.Selection...)
			}
		})
	})
}

// updatePeer changes the sender's peer and shares the result with the rest
// of the room.
func (h *Hub) updatePeer(sender *Client, fn func(r *roster) (Peer, bool)) {
	room := h.room(sender.BoardID)
	if room == nil {
		return
	}
	peer, ok := fn(room.peers)
	if !ok {
		return
	}
	out := newMessage(TypePresenceUpdate, peer)
	out.UserID = sender.UserID
	h.broadcastToRoom(sender.BoardID, out, sender.ClientID)
}

// handlePointerMove hit-tests the pointer, tells the sender what it is over
// and shares the pointer and hover target with the rest of the room.
func (h *Hub) handlePointerMove(ctx context.Context, sender *Client, msg *Message) {
	var pos CursorPos
	if err := json.Unmarshal(msg.Payload, &pos); err != nil {
		slog.Warn("invalid pointer payload", "error", err)
		return
	}

	hit, err := h.boards.Pick(ctx, sender.BoardID, pos.X, pos.Y)
	if err != nil {
		slog.Warn("pick failed", "error", err, "board", sender.BoardID)
		sender.Send(newMessage(TypeError, ErrorPayload{Message: err.Error()}))
		return
	}

	sender.Send(newMessage(TypePointerHover, PointerHoverPayload{
		X:      pos.X,
		Y:      pos.Y,
		Target: hit.Target,
		Cursor: hit.Cursor,
	}))
	h.updatePeer(sender, func(r *roster) (Peer, bool) {
		return r.point(sender.UserID, pos, hit.Target)
	})
}

func (h *Hub) handleOpSubmit(ctx context.Context, sender *Client, msg *Message) {
	var submit OperationSubmitPayload
	if err := json.Unmarshal(msg.Payload, &submit); err != nil {
		sender.Send(newMessage(TypeOpNack, OperationNackPayload{Reason: "invalid payload"}))
		return
	}

	op := submit.Operation
	if op.ID == "" {
		op.ID = typeid.NewOpID()
	}
	if op.Timestamp == 0 {
		op.Timestamp = time.Now().UnixMilli()
	}

	seq, err := h.boards.Apply(ctx, sender.BoardID, op)
	if err != nil {
		slog.Debug("operation rejected", "error", err, "op", op.ID, "board", sender.BoardID)
		sender.Send(newMessage(TypeOpNack, OperationNackPayload{OperationID: op.ID, Reason: err.Error()}))
		return
	}

	ack := newMessage(TypeOpAck, OperationAckPayload{
		OperationID:     op.ID,
		ServerSeq:       seq,
		ServerTimestamp: time.Now().UnixMilli(),
	})
	ack.Seq = seq
	sender.Send(ack)

	broadcast := newMessage(TypeOpBroadcast, OperationBroadcastPayload{
		Operation: op,
		UserID:    sender.UserID,
		ServerSeq: seq,
	})
	broadcast.Seq = seq
	broadcast.UserID = sender.UserID
	h.broadcastToRoom(sender.BoardID, broadcast, sender.ClientID)

	if op.Type == document.OpShapeSelect {
		var ids []string
		if op.ShapeID != "" {
			ids = []string{op.ShapeID}
		}
		h.updatePeer(sender, func(r *roster) (Peer, bool) {
			return r.selectShapes(sender.UserID, ids)
		})
	}
}

func (h *Hub) broadcastToRoom(boardID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[boardID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}
