package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vnxcius/sign-backend/internal/database/model"
	"github.com/vnxcius/sign-backend/internal/password"
	"github.com/vnxcius/sign-backend/internal/token"
)

type AccountStore interface {
	InsertAccount(ctx context.Context, account *model.Account) error
	FindAccountByEmail(ctx context.Context, email string) (*model.Account, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

type Recorder interface {
	RecordAuthOutcome(operation, outcome string)
}

type noopRecorder struct{}

func (noopRecorder) RecordAuthOutcome(string, string) {}

type Decision int

const (
	Require Decision = iota
	Bypass
)

func (d Decision) String() string {
	if d == Bypass {
		return "bypass"
	}
	return "require"
}

type Identity struct {
	SubjectID uuid.UUID
}

// Account is the caller-facing view of a stored account. The password hash
// never leaves this package.
type Account struct {
	ID       uuid.UUID
	Email    string
	Username string
}

type Session struct {
	Account   Account
	Token     string
	ExpiresAt time.Time
}

type Options struct {
	// TokenTTL bounds the validity of the signed token itself.
	TokenTTL time.Duration
	// CookieMaxAge is how long the user agent keeps the cookie.
	CookieMaxAge     time.Duration
	BypassOperations []string
	Recorder         Recorder
}

type Manager struct {
	store        AccountStore
	hasher       PasswordHasher
	maker        *token.JWTMaker
	tokenTTL     time.Duration
	cookieMaxAge time.Duration
	bypass       map[string]struct{}
	recorder     Recorder
}

func NewManager(store AccountStore, hasher PasswordHasher, maker *token.JWTMaker, opts Options) *Manager {
	m := &Manager{
		store:        store,
		hasher:       hasher,
		maker:        maker,
		tokenTTL:     opts.TokenTTL,
		cookieMaxAge: opts.CookieMaxAge,
		bypass:       make(map[string]struct{}, len(opts.BypassOperations)),
		recorder:     opts.Recorder,
	}
	if m.recorder == nil {
		m.recorder = noopRecorder{}
	}
	for _, op := range opts.BypassOperations {
		m.bypass[op] = struct{}{}
	}

	if m.cookieMaxAge > m.tokenTTL {
		slog.Warn("Session cookie outlives the token it carries; requests between token expiry and cookie expiry will be rejected",
			"token_ttl", m.tokenTTL.String(),
			"cookie_max_age", m.cookieMaxAge.String(),
		)
	}
	return m
}

func (m *Manager) CookieMaxAge() time.Duration { return m.cookieMaxAge }

func (m *Manager) TokenTTL() time.Duration { return m.tokenTTL }

func (m *Manager) IssueToken(subjectID uuid.UUID) (string, time.Time, error) {
	tok, claims, err := m.maker.CreateToken(subjectID.String(), m.tokenTTL)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue token: %w", err)
	}
	return tok, claims.ExpiresAt.Time, nil
}

// ResolveIdentity trusts the token signature and expiry only; no store lookup
// is made.
func (m *Manager) ResolveIdentity(rawToken string) (Identity, error) {
	if rawToken == "" {
		return Identity{}, &Failure{Kind: InvalidOrExpired, Err: errors.New("missing token")}
	}

	claims, err := m.maker.VerifyToken(rawToken)
	if err != nil {
		return Identity{}, &Failure{Kind: InvalidOrExpired, Err: err}
	}

	id, err := uuid.Parse(claims.SubjectID)
	if err != nil {
		return Identity{}, &Failure{Kind: InvalidOrExpired, Err: err}
	}
	return Identity{SubjectID: id}, nil
}

func (m *Manager) DecideAuthRequirement(operationName string) Decision {
	if _, ok := m.bypass[operationName]; ok {
		return Bypass
	}
	return Require
}

func (m *Manager) Login(ctx context.Context, email, plaintext string) (*Session, error) {
	email = normalizeEmail(email)

	account, err := m.store.FindAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			m.recorder.RecordAuthOutcome("login", "no_such_user")
			return nil, &Failure{Kind: NoSuchUser}
		}
		m.recorder.RecordAuthOutcome("login", "store_failure")
		return nil, &StoreError{Op: "login", Err: err}
	}

	if err := m.hasher.Verify(plaintext, account.PasswordHash); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			m.recorder.RecordAuthOutcome("login", "bad_credential")
			return nil, &Failure{Kind: BadCredential}
		}
		slog.ErrorContext(ctx, "Stored password hash could not be verified", "account_id", account.ID, "error", err)
		m.recorder.RecordAuthOutcome("login", "store_failure")
		return nil, &StoreError{Op: "login", Err: err}
	}

	session, err := m.startSession(ctx, account)
	if err != nil {
		return nil, err
	}
	m.recorder.RecordAuthOutcome("login", "success")
	return session, nil
}

// SignUp creates the account and starts a session exactly as Login does.
// Duplicate emails come back as ErrEmailTaken, store outages as *StoreError.
func (m *Manager) SignUp(ctx context.Context, email, plaintext string, username *string) (*Session, error) {
	email = normalizeEmail(email)
	if !strings.Contains(email, "@") || plaintext == "" {
		m.recorder.RecordAuthOutcome("sign_up", "invalid_input")
		return nil, ErrInvalidInput
	}

	name := model.DefaultUsername
	if username != nil && strings.TrimSpace(*username) != "" {
		name = strings.TrimSpace(*username)
	}

	hash, err := m.hasher.Hash(plaintext)
	if err != nil {
		m.recorder.RecordAuthOutcome("sign_up", "invalid_input")
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	account := &model.Account{
		Email:        email,
		Username:     name,
		PasswordHash: hash,
	}
	if err := m.store.InsertAccount(ctx, account); err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			m.recorder.RecordAuthOutcome("sign_up", "email_taken")
			return nil, ErrEmailTaken
		}
		m.recorder.RecordAuthOutcome("sign_up", "store_failure")
		return nil, &StoreError{Op: "sign up", Err: err}
	}

	session, err := m.startSession(ctx, account)
	if err != nil {
		return nil, err
	}
	m.recorder.RecordAuthOutcome("sign_up", "success")
	return session, nil
}

func (m *Manager) startSession(ctx context.Context, account *model.Account) (*Session, error) {
	tok, expiresAt, err := m.IssueToken(account.ID)
	if err != nil {
		return nil, err
	}

	if sink, ok := TokenSinkFromContext(ctx); ok {
		sink.SetSessionToken(tok, m.cookieMaxAge)
	}

	return &Session{
		Account: Account{
			ID:       account.ID,
			Email:    account.Email,
			Username: account.Username,
		},
		Token:     tok,
		ExpiresAt: expiresAt,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
