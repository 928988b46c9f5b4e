package auth

import (
	"errors"
	"fmt"
)

type FailureKind string

const (
	InvalidOrExpired FailureKind = "INVALID_OR_EXPIRED"
	NoSuchUser       FailureKind = "NO_SUCH_USER"
	BadCredential    FailureKind = "BAD_CREDENTIAL"
)

// Failure is an authentication failure callers are expected to branch on.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	switch f.Kind {
	case InvalidOrExpired:
		return "authentication token is invalid, please log in"
	case NoSuchUser:
		return "no user with that email"
	case BadCredential:
		return "incorrect password"
	default:
		return "authentication failed"
	}
}

func (f *Failure) Unwrap() error { return f.Err }

// Is matches any *Failure of the same kind, so errors.Is(err, ErrNoSuchUser)
// works on wrapped failures.
func (f *Failure) Is(target error) bool {
	var other *Failure
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == f.Kind
}

var (
	ErrInvalidOrExpired = &Failure{Kind: InvalidOrExpired}
	ErrNoSuchUser       = &Failure{Kind: NoSuchUser}
	ErrBadCredential    = &Failure{Kind: BadCredential}

	ErrEmailTaken   = errors.New("email already registered")
	ErrInvalidInput = errors.New("invalid input")
)

// StoreError marks a failure of the credential store. The cause is kept for
// logging but never shown to callers.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store failure during %s", e.Op) }

func (e *StoreError) Unwrap() error { return e.Err }

func KindOf(err error) (FailureKind, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind, true
	}
	return "", false
}
