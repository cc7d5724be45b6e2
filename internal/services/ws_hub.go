package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"lovenest-backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSMessage represents a WebSocket event, pushed to or received from a
// client. Text carries the body of an incoming chat_message.
type WSMessage struct {
	Type    string      `json:"type"`
	Message string      `json:"message,omitempty"`
	Text    string      `json:"text,omitempty"`
	Online  *bool       `json:"online,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// wsConn wraps a connection with a write lock. Feed pushes, notification
// pushes and read-loop error replies all write to the same connection
// from different goroutines, and gorilla/websocket allows only one
// writer at a time.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsConn) close() {
	c.conn.Close()
}

// WSHub manages WebSocket connections, one per user.
type WSHub struct {
	mu          sync.RWMutex
	connections map[string]*wsConn
}

// NewWSHub creates a new WebSocket hub.
func NewWSHub() *WSHub {
	return &WSHub{connections: make(map[string]*wsConn)}
}

// Register registers a new WebSocket connection for a user, replacing
// any existing one.
func (h *WSHub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.connections[userID]; ok {
		existing.close()
	}
	h.connections[userID] = &wsConn{conn: conn}

	log.Info().Str("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister removes a user's WebSocket connection.
func (h *WSHub) Unregister(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, ok := h.connections[userID]; ok {
		conn.close()
		delete(h.connections, userID)
		log.Info().Str("user_id", userID).Msg("WebSocket connection unregistered")
	}
}

// SendToUser sends an event to a specific user. Safe to call from any
// goroutine; writes to one connection are serialized.
func (h *WSHub) SendToUser(userID string, message WSMessage) error {
	h.mu.RLock()
	conn, ok := h.connections[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user %s is not connected", userID)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := conn.write(data); err != nil {
		h.Unregister(userID)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// IsOnline checks if a user has a live connection.
func (h *WSHub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.connections[userID]
	return ok
}

// NotifyNotification pushes a freshly created notification to its
// recipient if they are online. Delivery is best effort; the record is
// already durable and will show up in the next listing regardless.
func (h *WSHub) NotifyNotification(n *models.Notification) {
	if !h.IsOnline(n.UserID) {
		return
	}
	msg := WSMessage{Type: "notification", Data: n}
	if err := h.SendToUser(n.UserID, msg); err != nil {
		log.Error().Err(err).Str("user_id", n.UserID).Msg("Failed to push notification")
	}
}

// NotifyPartnerStatus tells partnerID that userID went on- or offline.
func (h *WSHub) NotifyPartnerStatus(partnerID string, online bool) {
	if partnerID == "" || !h.IsOnline(partnerID) {
		return
	}
	msg := WSMessage{Type: "partner_status", Online: &online}
	if err := h.SendToUser(partnerID, msg); err != nil {
		log.Error().Err(err).Str("user_id", partnerID).Msg("Failed to notify partner status")
	}
}

// NotifyUnlinked tells a user their partner link was dissolved.
func (h *WSHub) NotifyUnlinked(userID string) {
	if !h.IsOnline(userID) {
		return
	}
	if err := h.SendToUser(userID, WSMessage{Type: "unlinked"}); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to notify unlink")
	}
}
