package model

import "time"

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a conversation log. Messages are never mutated
// once appended.
type Message struct {
	ID        int       `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// MaxMessageLength bounds a user message in characters.
const MaxMessageLength = 4000

// PostMessageRequest is the payload for sending a user message.
type PostMessageRequest struct {
	Content string `json:"content" binding:"required,notblank,max=4000"`
}
