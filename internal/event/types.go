package event

import (
	"time"

	"github.com/stemsi/folio-backend/internal/model"
)

// Event is the envelope published on the topic exchange. Type doubles as
// the routing key.
type Event struct {
	Type       string      `json:"type"`
	Payload    interface{} `json:"payload"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// QuizCompletedPayload is sent once per session when the last question is advanced.
type QuizCompletedPayload struct {
	SessionID  string `json:"session_id"`
	QuizID     string `json:"quiz_id"`
	Score      int    `json:"score"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
}

// ConversationMessagePayload is sent for every appended user or assistant message.
type ConversationMessagePayload struct {
	ConversationID string        `json:"conversation_id"`
	Message        model.Message `json:"message"`
}
