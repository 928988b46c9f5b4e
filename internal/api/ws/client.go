package ws

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = (pongWait * 9) / 10
)

type Client struct {
	connection *websocket.Conn
	manager    *Manager
	subjectID  uuid.UUID
	ip         string

	// Buffered channel of outbound messages
	egress chan Event
}

type ClientList map[*Client]bool

func NewClient(conn *websocket.Conn, m *Manager, subjectID uuid.UUID, ip string) *Client {
	return &Client{
		connection: conn,
		manager:    m,
		subjectID:  subjectID,
		ip:         ip,
		egress:     make(chan Event, 8),
	}
}

// ReadMessages only drains control frames; the feed is server to client.
func (c *Client) ReadMessages() {
	defer c.manager.RemoveClient(c)

	c.connection.SetReadLimit(512)
	if err := c.connection.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		slog.Error("Failed to set read deadline", "error", err)
		return
	}
	c.connection.SetPongHandler(func(string) error {
		return c.connection.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.connection.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("Client read error", "error", err, "ip", c.ip)
			}
			return
		}
	}
}

func (c *Client) WriteMessages() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.manager.RemoveClient(c)
	}()

	for {
		select {
		case message, ok := <-c.egress:
			_ = c.connection.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				if err := c.connection.WriteMessage(websocket.CloseMessage, nil); err != nil {
					slog.Debug("WS connection closed", "error", err)
				}
				return
			}

			data, err := json.Marshal(message)
			if err != nil {
				slog.Error("Error marshalling message", "error", err)
				return
			}

			if err := c.connection.WriteMessage(websocket.TextMessage, data); err != nil {
				slog.Error("Error sending message", "error", err, "ip", c.ip)
				return
			}
			slog.Debug("Sent message", "type", message.Type, "ip", c.ip)

		case <-ticker.C:
			_ = c.connection.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
