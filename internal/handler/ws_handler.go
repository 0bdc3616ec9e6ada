package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/hertz-contrib/websocket"

	"github.com/routinnet/routix-platform-ai/internal/domain"
	"github.com/routinnet/routix-platform-ai/internal/ws"
)

// WSHandler attaches authenticated sockets to conversations and feeds
// inbound frames into the chat pipeline.
type WSHandler struct {
	hub    *ws.Hub
	chat   domain.ChatUsecase
	logger *slog.Logger

	upgrader websocket.HertzUpgrader
}

func NewWSHandler(hub *ws.Hub, chat domain.ChatUsecase, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		hub:    hub,
		chat:   chat,
		logger: logger,
		upgrader: websocket.HertzUpgrader{
			// Auth happens in the JWT middleware before the upgrade;
			// cross-origin upgrades are allowed.
			CheckOrigin: func(ctx *app.RequestContext) bool { return true },
		},
	}
}

// Serve handles GET /conversations/:id/ws. The JWT middleware runs
// first (token via query param) and sets user_id.
func (h *WSHandler) Serve(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, domain.ErrUnauthorized)
		return
	}
	conversationID := c.Param("id")

	// Ownership check before the upgrade so a bad conversation id
	// fails as a plain HTTP error.
	if _, err := h.chat.GetConversation(ctx, userID, conversationID); err != nil {
		ErrorResponse(c, err)
		return
	}

	err := h.upgrader.Upgrade(c, func(conn *websocket.Conn) {
		client := h.hub.Attach(userID, conversationID, ws.WrapConn(conn))
		defer h.hub.Detach(client)

		h.hub.SendTo(client, ws.Event{
			Type: ws.EventConnection,
			Data: &ws.ConnectionPayload{Status: "connected", ConversationID: conversationID},
		})

		h.logger.Info("websocket attached", "user_id", userID, "conversation_id", conversationID)
		h.readLoop(conn, client)
		h.logger.Info("websocket detached", "user_id", userID, "conversation_id", conversationID)
	})
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err, "user_id", userID)
	}
}

// readLoop consumes frames until the peer goes away. Malformed frames
// get an error event instead of closing the socket.
func (h *WSHandler) readLoop(conn *websocket.Conn, client *ws.Client) {
	for {
		var in ws.Inbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("websocket read failed", "error", err, "user_id", client.UserID)
			}
			return
		}
		h.handleInbound(client, in)
	}
}

// handleInbound dispatches one decoded frame. Frame types this server
// does not know are ignored so newer clients can speak to older
// servers without tearing down the connection.
func (h *WSHandler) handleInbound(client *ws.Client, in ws.Inbound) {
	switch in.Type {
	case ws.InboundPing:
		h.hub.SendTo(client, ws.Event{Type: ws.EventPong})

	case ws.InboundTyping:
		h.hub.BroadcastTyping(client.ConversationID, client.UserID, in.IsTyping)

	case ws.InboundChat:
		// SendMessage broadcasts both stored messages itself.
		_, err := h.chat.SendMessage(context.Background(), &domain.ChatRequest{
			UserID:         client.UserID,
			ConversationID: client.ConversationID,
			Content:        in.Content,
		})
		if err != nil {
			h.hub.SendTo(client, ws.Event{
				Type: ws.EventError,
				Data: &ws.ErrorPayload{Message: userMessage(err)},
			})
		}

	default:
		h.logger.Debug("ignoring unknown frame type", "type", in.Type, "user_id", client.UserID)
	}
}

func userMessage(err error) string {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return de.UserMessage()
	}
	return "failed to process message"
}
