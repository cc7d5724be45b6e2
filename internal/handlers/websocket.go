package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"lovenest-backend/internal/middleware"
	"lovenest-backend/internal/models"
	"lovenest-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler serves the live connection: the chat feed
// subscription, notification pushes, and partner presence.
type WebSocketHandler struct {
	hub            *services.WSHub
	userService    *services.UserService
	channelService *services.ChannelService
}

// NewWebSocketHandler creates a new WebSocket handler.
func NewWebSocketHandler(
	hub *services.WSHub,
	userService *services.UserService,
	channelService *services.ChannelService,
) *WebSocketHandler {
	return &WebSocketHandler{
		hub:            hub,
		userService:    userService,
		channelService: channelService,
	}
}

// HandleWebSocket handles GET /ws?token=...
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.ValidateWebSocketToken(r.URL.Query().Get("token"), h.userService)
	if err != nil {
		respondError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	h.hub.Register(userID, conn)
	defer h.hub.Unregister(userID)

	// The request context dies with the HTTP handler; the subscription
	// lives as long as the connection, so it gets its own context.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := h.userService.UpdateLastSeen(ctx, userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to update last_seen")
	}

	profile, err := h.userService.GetProfile(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load profile")
		return
	}

	var channelID string
	if profile.PartnerID != nil {
		partnerID := *profile.PartnerID
		h.hub.NotifyPartnerStatus(partnerID, true)
		defer h.hub.NotifyPartnerStatus(partnerID, false)

		channelID, err = h.channelService.GetOrCreateChannel(ctx, userID, partnerID)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to open chat channel")
			return
		}

		// Live feed: every change pushes the full ordered sequence.
		unsubscribe, err := h.channelService.Subscribe(ctx, channelID, func(msgs []models.ChatMessage) {
			event := services.WSMessage{Type: "chat_messages", Data: msgs}
			if err := h.hub.SendToUser(userID, event); err != nil {
				log.Debug().Err(err).Str("user_id", userID).Msg("Failed to push chat feed")
			}
		})
		if err != nil {
			log.Error().Err(err).Str("channel_id", channelID).Msg("Failed to subscribe to chat feed")
			return
		}
		defer unsubscribe()

		online := h.hub.IsOnline(partnerID)
		h.hub.SendToUser(userID, services.WSMessage{Type: "partner_status", Online: &online})
	}

	log.Info().Str("user_id", userID).Msg("WebSocket connection established")

	for {
		_, messageBytes, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("user_id", userID).Msg("WebSocket error")
			}
			return
		}

		var msg services.WSMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to parse WebSocket message")
			h.sendError(userID, "Invalid message format")
			continue
		}

		if err := h.handleMessage(ctx, userID, channelID, msg); err != nil {
			log.Error().Err(err).Str("user_id", userID).Str("type", msg.Type).Msg("Failed to handle message")
			h.sendError(userID, err.Error())
		}
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, userID, channelID string, msg services.WSMessage) error {
	switch msg.Type {
	case "chat_message":
		if channelID == "" {
			return services.ErrNotLinked
		}
		if msg.Text == "" {
			return errEmptyMessage
		}
		_, err := h.channelService.PostMessage(ctx, channelID, userID, msg.Text)
		return err
	default:
		return errUnknownMessageType
	}
}

// sendError goes through the hub so the reply shares the connection's
// write lock with feed and notification pushes.
func (h *WebSocketHandler) sendError(userID, message string) {
	h.hub.SendToUser(userID, services.WSMessage{Type: "error", Message: message})
}
