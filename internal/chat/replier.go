package chat

import (
	"context"

	"github.com/stemsi/folio-backend/internal/model"
)

const (
	// DefaultGreeting seeds every new conversation.
	DefaultGreeting = "Hello! I'm your AI reading assistant. I can help you understand difficult terms, " +
		"provide context about characters and events, summarize chapters, or answer any questions " +
		"about your books. What would you like to know?"

	// DefaultCannedReply is returned by CannedReplier when no text is configured.
	DefaultCannedReply = "This is a simulated response. In the actual implementation, this would be " +
		"connected to your AI backend to provide real-time, context-aware answers about your books."

	// FallbackReply is appended when a Replier fails, so every user message
	// still receives exactly one reply.
	FallbackReply = "Sorry, I couldn't come up with an answer just now. Please try again."
)

// Replier produces the assistant's next message body from the full,
// ordered conversation history.
type Replier interface {
	Reply(ctx context.Context, history []model.Message) (string, error)
}

// CannedReplier always answers with the same text.
type CannedReplier struct {
	Text string
}

// Reply implements Replier.
func (r CannedReplier) Reply(_ context.Context, _ []model.Message) (string, error) {
	if r.Text == "" {
		return DefaultCannedReply, nil
	}
	return r.Text, nil
}
