package survey

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vnxcius/sign-backend/internal/database/model"
	"github.com/vnxcius/sign-backend/internal/daywindow"
)

var (
	ErrNotFound     = errors.New("survey not found")
	ErrInvalidInput = errors.New("invalid survey input")
	ErrStore        = errors.New("store failure")
)

type Store interface {
	InsertSurvey(ctx context.Context, survey *model.Survey) error
	ListSurveysByOwnerInRange(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]model.Survey, error)
	FindSurveyByID(ctx context.Context, id uuid.UUID) (*model.Survey, error)
}

// Notifier is told about every survey after it has been stored. Notification
// failures are logged and never fail the write.
type Notifier interface {
	SurveyCreated(ctx context.Context, survey model.Survey) error
}

// Fields is everything a caller may supply for a new survey. The owner is not
// among them: it always comes from the authenticated identity.
type Fields struct {
	Name               string
	RegistrationNumber string
	Gender             string
	Result             string
	SignatureDataURL   string
	SignedBy           string
	Relationship       string
	Type               model.SurveyType
	Doctor             *string
	Operation          *string
}

func (f Fields) validate() error {
	required := map[string]string{
		"name":               f.Name,
		"registrationNumber": f.RegistrationNumber,
		"gender":             f.Gender,
		"result":             f.Result,
		"signatureDataUrl":   f.SignatureDataURL,
		"signedBy":           f.SignedBy,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
		}
	}
	if !f.Type.IsValid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidInput, f.Type)
	}
	return nil
}

type Service struct {
	store     Store
	notifiers []Notifier
}

func NewService(store Store, notifiers ...Notifier) *Service {
	return &Service{store: store, notifiers: notifiers}
}

// ListOwned returns the owner's surveys created inside the window, both ends
// inclusive.
func (s *Service) ListOwned(ctx context.Context, ownerID uuid.UUID, window daywindow.Window) ([]model.Survey, error) {
	rows, err := s.store.ListSurveysByOwnerInRange(ctx, ownerID, window.Start, window.End)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list surveys", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	out := make([]model.Survey, 0, len(rows))
	for _, row := range rows {
		if row.OwnerID != ownerID || !window.Contains(row.CreatedAt) {
			slog.WarnContext(ctx, "Store returned a survey outside the requested scope", "survey_id", row.ID)
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

// Get looks a survey up by id for any authenticated caller; it is not scoped
// to the owner.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Survey, error) {
	survey, err := s.store.FindSurveyByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrNotFound
		}
		slog.ErrorContext(ctx, "Failed to find survey", "survey_id", id, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return survey, nil
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, fields Fields) (*model.Survey, error) {
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing owner", ErrInvalidInput)
	}
	if err := fields.validate(); err != nil {
		return nil, err
	}

	survey := &model.Survey{
		OwnerID:            ownerID,
		Name:               fields.Name,
		RegistrationNumber: fields.RegistrationNumber,
		Gender:             fields.Gender,
		Result:             fields.Result,
		SignatureDataURL:   fields.SignatureDataURL,
		SignedBy:           fields.SignedBy,
		Relationship:       fields.Relationship,
		Type:               fields.Type,
		Doctor:             fields.Doctor,
		Operation:          fields.Operation,
	}
	if err := s.store.InsertSurvey(ctx, survey); err != nil {
		slog.ErrorContext(ctx, "Failed to insert survey", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	for _, n := range s.notifiers {
		if err := n.SurveyCreated(ctx, *survey); err != nil {
			slog.WarnContext(ctx, "Survey notification failed", "survey_id", survey.ID, "error", err)
		}
	}

	slog.InfoContext(ctx, "Survey created", "survey_id", survey.ID, "owner_id", ownerID, "type", survey.Type)
	return survey, nil
}
