package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnxcius/sign-backend/internal/database/model"
)

type SurveyRepository struct {
	repository
}

func NewSurveyRepository(db *gorm.DB, timeout time.Duration) *SurveyRepository {
	return &SurveyRepository{repository: newRepository(db, timeout)}
}

func (r *SurveyRepository) InsertSurvey(ctx context.Context, survey *model.Survey) error {
	if survey.ID == uuid.Nil {
		survey.ID = uuid.New()
	}
	if survey.CreatedAt.IsZero() {
		survey.CreatedAt = r.timestamp()
	}

	db, cancel := r.session(ctx)
	defer cancel()

	if err := db.Create(survey).Error; err != nil {
		return fmt.Errorf("insert survey: %w", translate(err))
	}
	return nil
}

// ListSurveysByOwnerInRange returns the owner's surveys created within
// [start, end], both ends inclusive, oldest first.
func (r *SurveyRepository) ListSurveysByOwnerInRange(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]model.Survey, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	var surveys []model.Survey
	err := db.
		Where("owner_id = ? AND created_at >= ? AND created_at <= ?", ownerID, start.UTC(), end.UTC()).
		Order("created_at ASC").
		Find(&surveys).Error
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", translate(err))
	}
	return surveys, nil
}

func (r *SurveyRepository) FindSurveyByID(ctx context.Context, id uuid.UUID) (*model.Survey, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	var survey model.Survey
	if err := db.Where("id = ?", id).Take(&survey).Error; err != nil {
		return nil, fmt.Errorf("find survey: %w", translate(err))
	}
	return &survey, nil
}
