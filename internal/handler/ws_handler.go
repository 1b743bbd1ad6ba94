package handler

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/folio-backend/internal/chat"
	"github.com/stemsi/folio-backend/internal/middleware"
	"github.com/stemsi/folio-backend/internal/model"
	"github.com/stemsi/folio-backend/internal/response"
	"github.com/stemsi/folio-backend/internal/service"
	ws "github.com/stemsi/folio-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams conversation events over WebSocket.
type WSHandler struct {
	conversationService *service.ConversationService
	limiter             *middleware.RateLimiter
	log                 zerolog.Logger
	upgrader            websocket.Upgrader
}

// NewWSHandler creates a new WSHandler. limiter may be nil.
func NewWSHandler(conversationService *service.ConversationService, limiter *middleware.RateLimiter, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		conversationService: conversationService,
		limiter:             limiter,
		log:                 log.With().Str("component", "ws_handler").Logger(),
		upgrader:            buildUpgrader(allowedOrigins),
	}
}

// ConversationStream godoc
// WS /ws/v1/conversations/:id/stream
// Sends a snapshot, then every appended message and typing change. Clients
// post with {"action":"send","content":"..."}.
func (h *WSHandler) ConversationStream(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	conv, err := h.conversationService.Get(id)
	if err != nil {
		fail(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	writer := ws.NewWriter(conn)
	defer writer.Close()

	wsLog := h.log.With().Str("conversation_id", id.String()).Logger()
	wsLog.Info().Msg("Client connected")

	events, unsubscribe := conv.Subscribe()
	defer unsubscribe()

	messages, pending := conv.Snapshot()
	if err := writer.WriteTyped(ws.SnapshotResponse{
		Event:    ws.EventSnapshot,
		Messages: messages,
		Pending:  pending,
	}); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.pump(writer, events)
		// Unblocks the read loop when the conversation is closed server-side.
		_ = writer.Close()
	}()

	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}

		switch msg.Action {
		case ws.ActionSend:
			h.handleSend(writer, wsLog, conv, id.String(), msg.Content)
		case ws.ActionPing:
			_ = writer.WriteTyped(ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			_ = writer.WriteError(string(response.ErrValidation), "unknown action: "+string(msg.Action))
		}
	}

	unsubscribe()
	<-done
}

// pump forwards conversation events until the subscription closes.
func (h *WSHandler) pump(writer *ws.Writer, events <-chan chat.Event) {
	for evt := range events {
		var payload interface{}
		switch evt.Kind {
		case chat.EventMessage:
			payload = ws.MessageResponse{Event: ws.EventMessage, Message: evt.Message}
		case chat.EventTyping:
			payload = ws.TypingResponse{Event: ws.EventTyping, Typing: evt.Pending > 0, Pending: evt.Pending}
		default:
			continue
		}
		if err := writer.WriteTyped(payload); err != nil {
			h.log.Debug().Err(err).Msg("Stream write failed")
			return
		}
	}
}

// handleSend posts a user message. Success is reported through the
// subscription, so only failures are answered directly.
func (h *WSHandler) handleSend(writer *ws.Writer, wsLog zerolog.Logger, conv *chat.Conversation, key, content string) {
	if utf8.RuneCountInString(content) > model.MaxMessageLength {
		_ = writer.WriteError(string(response.ErrValidation), response.GetMessage(response.ErrValidation))
		return
	}
	if h.limiter != nil && !h.limiter.Allow(key) {
		_ = writer.WriteError(string(response.ErrRateLimitExceeded), response.GetMessage(response.ErrRateLimitExceeded))
		return
	}

	if _, err := conv.Post(content); err != nil {
		_, code := classify(err)
		wsLog.Debug().Err(err).Msg("Send rejected")
		_ = writer.WriteError(string(code), response.GetMessage(code))
	}
}
