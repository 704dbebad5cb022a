package collab

import (
	"encoding/json"

	"github.com/inamate/canvas-go/internal/document"
)

type Message struct {
	Type     string          `json:"type"`
	BoardID  string          `json:"boardId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	UserID   string          `json:"userId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload"`
}

// PresenceUpdatePayload is what a client may change about itself. Absent
// fields keep their value; an empty selection clears it.
type PresenceUpdatePayload struct {
	Cursor    *CursorPos `json:"cursor,omitempty"`
	Selection []string   `json:"selection"`
}

type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]Peer `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}

type WelcomePayload struct {
	ClientID string `json:"clientId"`
	UserID   string `json:"userId"`
	BoardID  string `json:"boardId"`
}

// PointerHoverPayload answers a pointer.move with what is under the pointer.
type PointerHoverPayload struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Target string  `json:"target"`
	Cursor string  `json:"cursor"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Pointer
	TypePointerMove  = "pointer.move"
	TypePointerHover = "pointer.hover"

	// Operation message types
	TypeOpSubmit    = "op.submit"
	TypeOpAck       = "op.ack"
	TypeOpNack      = "op.nack"
	TypeOpBroadcast = "op.broadcast"
)

// OperationSubmitPayload is the payload for op.submit messages
type OperationSubmitPayload struct {
	Operation document.Operation `json:"operation"`
}

// OperationAckPayload is the payload for op.ack messages
type OperationAckPayload struct {
	OperationID     string `json:"operationId"`
	ServerSeq       int64  `json:"serverSeq"`
	ServerTimestamp int64  `json:"serverTimestamp"`
}

// OperationNackPayload is the payload for op.nack messages
type OperationNackPayload struct {
	OperationID string `json:"operationId"`
	Reason      string `json:"reason"`
}

// OperationBroadcastPayload is the payload for op.broadcast messages
type OperationBroadcastPayload struct {
	Operation document.Operation `json:"operation"`
	UserID    string             `json:"userId"`
	ServerSeq int64              `json:"serverSeq"`
}

func newMessage(typ string, payload any) *Message {
	data, err := json.Marshal(payload)
	if err != nil {
		data = json.RawMessage(`null`)
	}
	return &Message{Type: typ, Payload: data}
}
