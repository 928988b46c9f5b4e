package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

const (
	EventConnected     = "connected"
	EventSurveyCreated = "survey_created"
)

type ConnectedEvent struct {
	SubjectID uuid.UUID `json:"subjectId"`
}

// SurveyCreatedEvent is a summary only; signature images stay out of the feed.
type SurveyCreatedEvent struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	SignedBy  string    `json:"signedBy"`
	CreatedAt time.Time `json:"createdAt"`
}

func newEvent(eventType string, v any) (Event, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: eventType, Payload: payload}, nil
}
