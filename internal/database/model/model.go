package model

import (
	"time"

	"github.com/google/uuid"
)

const DefaultUsername = "noname"

type Account struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Username     string    `gorm:"type:varchar(100);not null"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

type SurveyType string

const (
	SurveyTypeA SurveyType = "A"
	SurveyTypeB SurveyType = "B"
	SurveyTypeC SurveyType = "C"
)

func (t SurveyType) IsValid() bool {
	return t == SurveyTypeA || t == SurveyTypeB || t == SurveyTypeC
}

type Survey struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OwnerID            uuid.UUID  `gorm:"type:uuid;not null;index:idx_surveys_owner_created,priority:1"`
	Name               string     `gorm:"not null"`
	RegistrationNumber string     `gorm:"not null"`
	Gender             string     `gorm:"not null"`
	Result             string     `gorm:"not null"`
	SignatureDataURL   string     `gorm:"not null"`
	SignedBy           string     `gorm:"not null"`
	Relationship       string     `gorm:"not null"`
	Type               SurveyType `gorm:"type:varchar(1);not null"`
	Doctor             *string
	Operation          *string
	CreatedAt          time.Time `gorm:"not null;index:idx_surveys_owner_created,priority:2"`
}
