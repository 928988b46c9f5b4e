package gql

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vnxcius/sign-backend/internal/auth"
	"github.com/vnxcius/sign-backend/internal/daywindow"
	"github.com/vnxcius/sign-backend/internal/survey"
)

const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeBadUserInput    = "BAD_USER_INPUT"
	CodeNotFound        = "NOT_FOUND"
	CodeInternal        = "INTERNAL"
)

// resolverError carries a code to the client through graphql extensions.
type resolverError struct {
	message string
	code    string
}

func (e *resolverError) Error() string { return e.message }

func (e *resolverError) Extensions() map[string]any {
	return map[string]any{"code": e.code}
}

func toResolverError(ctx context.Context, op string, err error) error {
	if kind, ok := auth.KindOf(err); ok {
		code := string(kind)
		if kind == auth.InvalidOrExpired {
			code = CodeUnauthenticated
		}
		return &resolverError{message: err.Error(), code: code}
	}

	switch {
	case errors.Is(err, daywindow.ErrInvalidDate),
		errors.Is(err, survey.ErrInvalidInput),
		errors.Is(err, auth.ErrInvalidInput):
		return &resolverError{message: err.Error(), code: CodeBadUserInput}
	case errors.Is(err, survey.ErrNotFound):
		return &resolverError{message: "survey not found", code: CodeNotFound}
	}

	slog.ErrorContext(ctx, "Resolver failed", "operation", op, "error", err)
	return &resolverError{message: "internal error", code: CodeInternal}
}
