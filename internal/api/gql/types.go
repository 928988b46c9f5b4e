package gql

import (
	"time"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/vnxcius/sign-backend/internal/auth"
	"github.com/vnxcius/sign-backend/internal/database/model"
)

type SurveyInput struct {
	Name               string
	RegistrationNumber string
	Gender             string
	Result             string
	SignatureDataURL   string
	SignedBy           string
	Relationship       string
	Type               string
	Doctor             *string
	Operation          *string
	Owner              *graphql.ID
}

type surveyResolver struct {
	s model.Survey
}

func (r *surveyResolver) ID() graphql.ID             { return graphql.ID(r.s.ID.String()) }
func (r *surveyResolver) Owner() graphql.ID          { return graphql.ID(r.s.OwnerID.String()) }
func (r *surveyResolver) Name() string               { return r.s.Name }
func (r *surveyResolver) RegistrationNumber() string { return r.s.RegistrationNumber }
func (r *surveyResolver) Gender() string             { return r.s.Gender }
func (r *surveyResolver) Result() string             { return r.s.Result }
func (r *surveyResolver) SignatureDataURL() string   { return r.s.SignatureDataURL }
func (r *surveyResolver) SignedBy() string           { return r.s.SignedBy }
func (r *surveyResolver) Relationship() string       { return r.s.Relationship }
func (r *surveyResolver) Type() string               { return string(r.s.Type) }
func (r *surveyResolver) Doctor() *string            { return r.s.Doctor }
func (r *surveyResolver) Operation() *string         { return r.s.Operation }

func (r *surveyResolver) CreatedAt() string {
	return r.s.CreatedAt.UTC().Format(time.RFC3339Nano)
}

type userResolver struct {
	a auth.Account
}

func (r *userResolver) ID() graphql.ID { return graphql.ID(r.a.ID.String()) }

func (r *userResolver) Email() string { return r.a.Email }

func (r *userResolver) Username() *string {
	if r.a.Username == "" {
		return nil
	}
	return &r.a.Username
}
