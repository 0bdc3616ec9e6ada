package ws

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
)

const (
	sendBuffer   = 64
	writeTimeout = 10 * time.Second
	pingInterval = 25 * time.Second
)

// Socket is the subset of a websocket connection the hub needs. The
// hertz-contrib connection satisfies it.
type Socket interface {
	WriteJSON(v any) error
	SetWriteDeadline(t time.Time) error
	Ping() error
	Close() error
}

// Client is one attached socket, bound to a user and a conversation.
type Client struct {
	UserID         string
	ConversationID string
	Send           chan Event

	sock   Socket
	ctx    context.Context
	cancel context.CancelFunc
}

// Hub tracks the sockets attached to each conversation and fans events
// out to them. It implements domain.EventBroadcaster.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Client]struct{}
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:  map[string]map[*Client]struct{}{},
		logger: logger,
	}
}

// Attach registers a socket with a conversation and starts its write
// and keepalive loops.
func (h *Hub) Attach(userID, conversationID string, sock Socket) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Client{
		UserID:         userID,
		ConversationID: conversationID,
		Send:           make(chan Event, sendBuffer),
		sock:           sock,
		ctx:            ctx,
		cancel:         cancel,
	}

	h.mu.Lock()
	if h.rooms[conversationID] == nil {
		h.rooms[conversationID] = map[*Client]struct{}{}
	}
	h.rooms[conversationID][c] = struct{}{}
	h.mu.Unlock()

	go c.writeLoop()
	go c.keepAliveLoop()

	return c
}

// Detach removes a socket, closes it, and tells remaining participants
// the user left.
func (h *Hub) Detach(c *Client) {
	c.cancel()

	h.mu.Lock()
	if set, ok := h.rooms[c.ConversationID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.rooms, c.ConversationID)
		}
	}
	h.mu.Unlock()

	_ = c.sock.Close()

	h.Broadcast(c.ConversationID, Event{
		Type: EventUserDisconnected,
		Data: &TypingPayload{UserID: c.UserID},
	})
}

// Broadcast fans an event out to every socket in a conversation. Slow
// consumers with a full buffer are skipped rather than blocked on.
func (h *Hub) Broadcast(conversationID string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[conversationID] {
		select {
		case c.Send <- ev:
		default:
			h.logger.Warn("dropping event for slow socket",
				"conversation_id", conversationID,
				"user_id", c.UserID,
				"event", ev.Type,
			)
		}
	}
}

// SendTo queues an event for one socket only.
func (h *Hub) SendTo(c *Client, ev Event) {
	select {
	case c.Send <- ev:
	default:
	}
}

// ============ domain.EventBroadcaster ============

func (h *Hub) BroadcastMessage(conversationID string, msg *entity.Message) {
	if conversationID == "" {
		return
	}
	h.Broadcast(conversationID, NewMessageEvent(msg))
}

func (h *Hub) BroadcastProcessing(conversationID string, gen *entity.Generation) {
	if conversationID == "" {
		return
	}
	h.Broadcast(conversationID, NewProcessingEvent(gen))
}

func (h *Hub) BroadcastTyping(conversationID, userID string, typing bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ev := Event{Type: EventTyping, Data: &TypingPayload{UserID: userID, IsTyping: typing}}
	for c := range h.rooms[conversationID] {
		// The author already knows they are typing.
		if c.UserID == userID {
			continue
		}
		select {
		case c.Send <- ev:
		default:
		}
	}
}

func (c *Client) writeLoop() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case ev := <-c.Send:
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.sock.WriteJSON(ev); err != nil {
				c.cancel()
				return
			}
		}
	}
}

func (c *Client) keepAliveLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			if err := c.sock.Ping(); err != nil {
				c.cancel()
				return
			}
		}
	}
}
