package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/folio-backend/internal/chat"
	"github.com/stemsi/folio-backend/internal/config"
	"github.com/stemsi/folio-backend/internal/event"
	"github.com/stemsi/folio-backend/internal/model"
)

// ConversationSettings configures every conversation the service creates.
type ConversationSettings struct {
	Delay     time.Duration
	Greeting  string
	Reply     string
	Scheduler chat.Scheduler
	Replier   chat.Replier
}

// ConversationView is the snapshot returned to clients.
type ConversationView struct {
	ID       uuid.UUID       `json:"id"`
	Messages []model.Message `json:"messages"`
	Pending  int             `json:"pending"`
	Typing   bool            `json:"typing"`
}

// ConversationService owns the live simulated conversations.
type ConversationService struct {
	settings ConversationSettings
	events   EventSink
	log      zerolog.Logger

	mu            sync.Mutex
	conversations map[uuid.UUID]*chat.Conversation
}

// NewConversationService creates a new ConversationService. events may be nil.
func NewConversationService(settings ConversationSettings, events EventSink, log zerolog.Logger) *ConversationService {
	if events == nil {
		events = discardSink{}
	}
	if settings.Replier == nil {
		settings.Replier = chat.CannedReplier{Text: settings.Reply}
	}
	return &ConversationService{
		settings:      settings,
		events:        events,
		log:           log.With().Str("component", "conversation_service").Logger(),
		conversations: make(map[uuid.UUID]*chat.Conversation),
	}
}

// Create opens a conversation seeded with the assistant greeting.
func (s *ConversationService) Create() *ConversationView {
	id := uuid.New()
	convID := id.String()

	conv := chat.New(convID, chat.Options{
		Delay:     s.settings.Delay,
		Greeting:  s.settings.Greeting,
		Scheduler: s.settings.Scheduler,
		Replier:   s.settings.Replier,
		OnAppend: func(m model.Message) {
			s.events.Enqueue(event.Event{
				Type:       config.EventKey.ConversationMessage,
				Payload:    event.ConversationMessagePayload{ConversationID: convID, Message: m},
				OccurredAt: m.Timestamp,
			})
		},
	})

	s.mu.Lock()
	s.conversations[id] = conv
	s.mu.Unlock()

	s.log.Debug().Str("conversation_id", convID).Msg("Conversation created")
	return viewOf(id, conv)
}

// Get returns the live conversation.
func (s *ConversationService) Get(id uuid.UUID) (*chat.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, ErrConversationNotFound
	}
	return conv, nil
}

// View returns a snapshot of the conversation log.
func (s *ConversationService) View(id uuid.UUID) (*ConversationView, error) {
	conv, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return viewOf(id, conv), nil
}

// Post appends a user message; the assistant reply follows after the
// configured delay.
func (s *ConversationService) Post(id uuid.UUID, text string) (model.Message, error) {
	conv, err := s.Get(id)
	if err != nil {
		return model.Message{}, err
	}
	return conv.Post(text)
}

// Close ends a conversation and cancels its pending replies.
func (s *ConversationService) Close(id uuid.UUID) error {
	s.mu.Lock()
	conv, ok := s.conversations[id]
	if ok {
		delete(s.conversations, id)
	}
	s.mu.Unlock()

	if !ok {
		return ErrConversationNotFound
	}
	if cancelled := conv.Close(); cancelled > 0 {
		s.log.Debug().Str("conversation_id", id.String()).Int("cancelled", cancelled).Msg("Pending replies cancelled")
	}
	return nil
}

// SweepIdle closes conversations with no activity since cutoff and no reply
// outstanding. Implements worker.IdleSweeper.
func (s *ConversationService) SweepIdle(cutoff time.Time) int {
	s.mu.Lock()
	var idle []*chat.Conversation
	for id, conv := range s.conversations {
		if conv.Pending() == 0 && conv.LastActive().Before(cutoff) {
			idle = append(idle, conv)
			delete(s.conversations, id)
		}
	}
	s.mu.Unlock()

	for _, conv := range idle {
		conv.Close()
	}
	return len(idle)
}

// CloseAll ends every conversation. Used on shutdown.
func (s *ConversationService) CloseAll() {
	s.mu.Lock()
	all := s.conversations
	s.conversations = make(map[uuid.UUID]*chat.Conversation)
	s.mu.Unlock()

	for _, conv := range all {
		conv.Close()
	}
}

// Active returns the number of open conversations.
func (s *ConversationService) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conversations)
}

func viewOf(id uuid.UUID, conv *chat.Conversation) *ConversationView {
	messages, pending := conv.Snapshot()
	return &ConversationView{
		ID:       id,
		Messages: messages,
		Pending:  pending,
		Typing:   pending > 0,
	}
}
