package ws

import "github.com/coursely/coursely-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError  Event = "error"
	EventResult Event = "result"
	EventPong   Event = "pong"
)

// ResultMessage relays one graded attempt to a subscribed instructor.
type ResultMessage struct {
	Event  Event              `json:"event"`
	Result *model.GradedEvent `json:"result"`
}

type ErrorMessage struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongMessage struct {
	Event Event `json:"event"`
}
