package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/stemsi/folio-backend/internal/model"
)

// Conversation errors.
var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrClosed       = errors.New("conversation is closed")
)

// subscriberBuffer bounds each subscriber's queue. Slow subscribers lose
// events rather than stall the conversation.
const subscriberBuffer = 64

// EventKind discriminates conversation events.
type EventKind string

const (
	EventMessage EventKind = "message"
	EventTyping  EventKind = "typing"
)

// Event is delivered to subscribers after the log changes.
type Event struct {
	Kind    EventKind
	Message model.Message
	Pending int
}

// Options configures a Conversation.
type Options struct {
	Delay     time.Duration
	Greeting  string
	Scheduler Scheduler
	Replier   Replier
	Clock     func() time.Time
	// OnAppend is called, outside the conversation lock, for every message
	// appended after the greeting.
	OnAppend func(model.Message)
}

// Conversation is an append-only message log with simulated assistant
// replies. It is safe for concurrent use.
type Conversation struct {
	id   string
	opts Options

	mu          sync.Mutex
	messages    []model.Message
	nextID      int
	nextTicket  int
	pending     map[int]Handle
	closed      bool
	lastActive  time.Time
	subscribers map[int]chan Event
	nextSub     int
}

// New creates a conversation seeded with the assistant greeting.
func New(id string, opts Options) *Conversation {
	if opts.Scheduler == nil {
		opts.Scheduler = TimerScheduler{}
	}
	if opts.Replier == nil {
		opts.Replier = CannedReplier{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Greeting == "" {
		opts.Greeting = DefaultGreeting
	}

	c := &Conversation{
		id:          id,
		opts:        opts,
		nextID:      1,
		pending:     make(map[int]Handle),
		subscribers: make(map[int]chan Event),
	}
	c.appendLocked(model.RoleAssistant, opts.Greeting)
	return c
}

// ID returns the conversation identifier.
func (c *Conversation) ID() string {
	return c.id
}

// Post appends a user message and schedules one assistant reply.
// Blank text is rejected and leaves the log unchanged.
func (c *Conversation) Post(text string) (model.Message, error) {
	if strings.TrimSpace(text) == "" {
		return model.Message{}, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return model.Message{}, ErrClosed
	}

	msg := c.appendLocked(model.RoleUser, text)

	ticket := c.nextTicket
	c.nextTicket++
	c.pending[ticket] = c.opts.Scheduler.AfterFunc(c.opts.Delay, func() {
		c.deliver(ticket)
	})
	pending := len(c.pending)
	c.mu.Unlock()

	c.notify(Event{Kind: EventMessage, Message: msg, Pending: pending})
	c.notify(Event{Kind: EventTyping, Pending: pending})
	if c.opts.OnAppend != nil {
		c.opts.OnAppend(msg)
	}
	return msg, nil
}

// deliver runs when a scheduled reply fires.
func (c *Conversation) deliver(ticket int) {
	c.mu.Lock()
	if _, ok := c.pending[ticket]; !ok || c.closed {
		c.mu.Unlock()
		return
	}
	history := make([]model.Message, len(c.messages))
	copy(history, c.messages)
	c.mu.Unlock()

	body, err := c.opts.Replier.Reply(context.Background(), history)
	if err != nil || strings.TrimSpace(body) == "" {
		body = FallbackReply
	}

	c.mu.Lock()
	if _, ok := c.pending[ticket]; !ok || c.closed {
		c.mu.Unlock()
		return
	}
	delete(c.pending, ticket)
	msg := c.appendLocked(model.RoleAssistant, body)
	pending := len(c.pending)
	c.mu.Unlock()

	c.notify(Event{Kind: EventMessage, Message: msg, Pending: pending})
	c.notify(Event{Kind: EventTyping, Pending: pending})
	if c.opts.OnAppend != nil {
		c.opts.OnAppend(msg)
	}
}

func (c *Conversation) appendLocked(role model.Role, content string) model.Message {
	now := c.opts.Clock()
	msg := model.Message{
		ID:        c.nextID,
		Role:      role,
		Content:   content,
		Timestamp: now,
	}
	c.nextID++
	c.messages = append(c.messages, msg)
	c.lastActive = now
	return msg
}

// Messages returns a copy of the log in append order.
func (c *Conversation) Messages() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages in the log.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// Pending returns the number of replies not yet appended.
func (c *Conversation) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Snapshot returns a copy of the log and the pending reply count, read
// together so a reply cannot land between them.
func (c *Conversation) Snapshot() ([]model.Message, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Message, len(c.messages))
	copy(out, c.messages)
	return out, len(c.pending)
}

// LastActive returns the time of the most recent append.
func (c *Conversation) LastActive() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}

// Closed reports whether Close has been called.
func (c *Conversation) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close cancels every pending reply and ends all subscriptions.
// It returns the number of replies that were cancelled.
func (c *Conversation) Close() int {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0
	}
	c.closed = true
	cancelled := 0
	for ticket, h := range c.pending {
		h.Stop()
		delete(c.pending, ticket)
		cancelled++
	}
	subs := c.subscribers
	c.subscribers = make(map[int]chan Event)
	c.mu.Unlock()

	for _, ch := range subs {
		close(ch)
	}
	return cancelled
}

// Subscribe registers for log events. The returned cancel func is
// idempotent. The channel is closed when the conversation closes.
func (c *Conversation) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = ch
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			if sub, ok := c.subscribers[id]; ok {
				delete(c.subscribers, id)
				close(sub)
			}
			c.mu.Unlock()
		})
	}
}

func (c *Conversation) notify(evt Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.subscribers {
		select {
		case ch <- evt:
		default:
		}
	}
}
