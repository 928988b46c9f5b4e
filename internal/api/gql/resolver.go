package gql

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	graphql "github.com/graph-gophers/graphql-go"

	"github.com/vnxcius/sign-backend/internal/auth"
	"github.com/vnxcius/sign-backend/internal/database/model"
	"github.com/vnxcius/sign-backend/internal/daywindow"
	"github.com/vnxcius/sign-backend/internal/survey"
)

type Sessions interface {
	Login(ctx context.Context, email, password string) (*auth.Session, error)
	SignUp(ctx context.Context, email, password string, username *string) (*auth.Session, error)
}

type Surveys interface {
	ListOwned(ctx context.Context, ownerID uuid.UUID, window daywindow.Window) ([]model.Survey, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Survey, error)
	Create(ctx context.Context, ownerID uuid.UUID, fields survey.Fields) (*model.Survey, error)
}

// Resolver is the root for both Query and Mutation.
type Resolver struct {
	sessions Sessions
	surveys  Surveys
	location *time.Location
	now      func() time.Time
}

func NewResolver(sessions Sessions, surveys Surveys, location *time.Location) *Resolver {
	return &Resolver{
		sessions: sessions,
		surveys:  surveys,
		location: location,
		now:      time.Now,
	}
}

func (r *Resolver) Surveys(ctx context.Context, args struct{ CreatedAt *string }) ([]*surveyResolver, error) {
	id, err := auth.RequireIdentity(ctx)
	if err != nil {
		return nil, toResolverError(ctx, "surveys", err)
	}

	window := daywindow.ForDay(r.now().In(r.location))
	if args.CreatedAt != nil {
		window, err = daywindow.ResolveIn(*args.CreatedAt, r.location)
		if err != nil {
			return nil, toResolverError(ctx, "surveys", err)
		}
	}

	surveys, err := r.surveys.ListOwned(ctx, id.SubjectID, window)
	if err != nil {
		return nil, toResolverError(ctx, "surveys", err)
	}

	out := make([]*surveyResolver, 0, len(surveys))
	for _, s := range surveys {
		out = append(out, &surveyResolver{s: s})
	}
	return out, nil
}

// Survey is deliberately not owner-scoped; any signed-in caller may fetch by id.
func (r *Resolver) Survey(ctx context.Context, args struct{ ID graphql.ID }) (*surveyResolver, error) {
	if _, err := auth.RequireIdentity(ctx); err != nil {
		return nil, toResolverError(ctx, "survey", err)
	}

	id, err := uuid.Parse(string(args.ID))
	if err != nil {
		return nil, toResolverError(ctx, "survey", survey.ErrNotFound)
	}

	s, err := r.surveys.Get(ctx, id)
	if err != nil {
		return nil, toResolverError(ctx, "survey", err)
	}
	return &surveyResolver{s: *s}, nil
}

func (r *Resolver) AddSurvey(ctx context.Context, args struct{ Input SurveyInput }) (*surveyResolver, error) {
	id, err := auth.RequireIdentity(ctx)
	if err != nil {
		return nil, toResolverError(ctx, "addSurvey", err)
	}

	in := args.Input
	if in.Owner != nil && string(*in.Owner) != id.SubjectID.String() {
		slog.WarnContext(ctx, "Ignoring caller supplied survey owner", "subject_id", id.SubjectID)
	}

	s, err := r.surveys.Create(ctx, id.SubjectID, survey.Fields{
		Name:               in.Name,
		RegistrationNumber: in.RegistrationNumber,
		Gender:             in.Gender,
		Result:             in.Result,
		SignatureDataURL:   in.SignatureDataURL,
		SignedBy:           in.SignedBy,
		Relationship:       in.Relationship,
		Type:               model.SurveyType(in.Type),
		Doctor:             in.Doctor,
		Operation:          in.Operation,
	})
	if err != nil {
		return nil, toResolverError(ctx, "addSurvey", err)
	}
	return &surveyResolver{s: *s}, nil
}

func (r *Resolver) Login(ctx context.Context, args struct{ Email, Password string }) (*userResolver, error) {
	session, err := r.sessions.Login(ctx, args.Email, args.Password)
	if err != nil {
		return nil, toResolverError(ctx, "login", err)
	}
	return &userResolver{a: session.Account}, nil
}

// SignUp only reports success; the cause of a failure is logged, not returned.
func (r *Resolver) SignUp(ctx context.Context, args struct {
	Email    string
	Password string
	Username *string
}) bool {
	if _, err := r.sessions.SignUp(ctx, args.Email, args.Password, args.Username); err != nil {
		slog.WarnContext(ctx, "Sign up failed", "error", err)
		return false
	}
	return true
}
