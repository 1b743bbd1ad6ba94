package websocket

import "github.com/stemsi/folio-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionSend Action = "send"
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action  Action `json:"action"`
	Content string `json:"content,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventSnapshot Event = "snapshot"
	EventMessage  Event = "message"
	EventTyping   Event = "typing"
	EventError    Event = "error"
	EventPong     Event = "pong"
)

// SnapshotResponse is sent once on connect with the full log.
type SnapshotResponse struct {
	Event    Event           `json:"event"`
	Messages []model.Message `json:"messages"`
	Pending  int             `json:"pending"`
}

type MessageResponse struct {
	Event   Event         `json:"event"`
	Message model.Message `json:"message"`
}

// TypingResponse reports whether an assistant reply is outstanding.
type TypingResponse struct {
	Event   Event `json:"event"`
	Typing  bool  `json:"typing"`
	Pending int   `json:"pending"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
