package ws

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vnxcius/sign-backend/internal/database/model"
	"github.com/vnxcius/sign-backend/internal/otp"
)

const ticketTTL = time.Minute

// Manager fans survey events out to the websocket clients of their owner.
type Manager struct {
	sync.RWMutex
	clients  ClientList
	otps     *otp.RetentionMap
	upgrader websocket.Upgrader
}

func NewManager(ctx context.Context, allowedOrigins []string) *Manager {
	m := &Manager{
		clients: make(ClientList),
		otps:    otp.NewRetentionMap(ctx, ticketTTL),
	}
	m.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			// Non-browser clients send no Origin; the ticket is what authenticates.
			return origin == "" || slices.Contains(allowedOrigins, origin)
		},
	}
	return m
}

// IssueTicket hands an authenticated caller a one-time ticket for ServeWS.
func (m *Manager) IssueTicket(subjectID uuid.UUID) otp.OTP {
	return m.otps.Add(subjectID)
}

// ServeWS upgrades the request when it carries a valid ticket.
func (m *Manager) ServeWS(w http.ResponseWriter, r *http.Request, ip string) {
	subjectID, ok := m.otps.Verify(r.URL.Query().Get("ticket"))
	if !ok {
		http.Error(w, "invalid or expired ticket", http.StatusUnauthorized)
		return
	}

	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Error upgrading connection to websocket", "error", err)
		return
	}

	c := NewClient(conn, m, subjectID, ip)
	// Queued before the writer starts, so the client sees it only once registered.
	if evt, err := newEvent(EventConnected, ConnectedEvent{SubjectID: subjectID}); err == nil {
		c.egress <- evt
	}

	m.Lock()
	m.clients[c] = true
	m.Unlock()

	go c.WriteMessages()
	go c.ReadMessages()
	slog.Info("WebSocket client connected", "ip", ip, "subject_id", subjectID)
}

func (m *Manager) RemoveClient(c *Client) {
	m.Lock()
	defer m.Unlock()

	if _, ok := m.clients[c]; ok {
		c.connection.Close()
		close(c.egress)
		delete(m.clients, c)
	}
}

func (m *Manager) ClientCount() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.clients)
}

// SurveyCreated pushes the new survey to every connection of its owner.
func (m *Manager) SurveyCreated(_ context.Context, survey model.Survey) error {
	evt, err := newEvent(EventSurveyCreated, SurveyCreatedEvent{
		ID:        survey.ID,
		Name:      survey.Name,
		Type:      string(survey.Type),
		SignedBy:  survey.SignedBy,
		CreatedAt: survey.CreatedAt,
	})
	if err != nil {
		return err
	}
	m.sendTo(survey.OwnerID, evt)
	return nil
}

func (m *Manager) sendTo(subjectID uuid.UUID, evt Event) {
	m.RLock()
	defer m.RUnlock()

	for c := range m.clients {
		if c.subjectID != subjectID {
			continue
		}
		select {
		case c.egress <- evt:
			slog.Debug("Broadcasting event", "type", evt.Type)
		default:
			slog.Warn("client buffer full, dropping event")
		}
	}
}

// Close disconnects every client.
func (m *Manager) Close() {
	m.RLock()
	clients := make([]*Client, 0, len(m.clients))
	for c := range m.clients {
		clients = append(clients, c)
	}
	m.RUnlock()

	for _, c := range clients {
		m.RemoveClient(c)
	}
}
