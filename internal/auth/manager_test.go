package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vnxcius/sign-backend/internal/database/model"
	"github.com/vnxcius/sign-backend/internal/password"
	"github.com/vnxcius/sign-backend/internal/token"
)

// --- fakes ---

type memoryAccounts struct {
	mu       sync.Mutex
	byEmail  map[string]model.Account
	findErr  error
	insertFn func(*model.Account) error
}

func newMemoryAccounts() *memoryAccounts {
	return &memoryAccounts{byEmail: make(map[string]model.Account)}
}

func (s *memoryAccounts) InsertAccount(_ context.Context, a *model.Account) error {
	if s.insertFn != nil {
		return s.insertFn(a)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[a.Email]; ok {
		return model.ErrDuplicate
	}
	a.ID = uuid.New()
	s.byEmail[a.Email] = *a
	return nil
}

func (s *memoryAccounts) FindAccountByEmail(_ context.Context, email string) (*model.Account, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byEmail[email]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &a, nil
}

type recordingSink struct {
	token  string
	maxAge time.Duration
}

func (r *recordingSink) SetSessionToken(token string, maxAge time.Duration) {
	r.token = token
	r.maxAge = maxAge
}

type countingRecorder struct {
	outcomes []string
}

func (c *countingRecorder) RecordAuthOutcome(op, outcome string) {
	c.outcomes = append(c.outcomes, op+":"+outcome)
}

func newTestManager(store AccountStore, opts ...token.Option) *Manager {
	return NewManager(store, password.NewHasher(bcrypt.MinCost), token.NewJWTMaker("test-secret", opts...), Options{
		TokenTTL:         24 * time.Hour,
		CookieMaxAge:     7 * 24 * time.Hour,
		BypassOperations: []string{"SignIn"},
	})
}

// --- tests ---

func TestSignUpThenLogin(t *testing.T) {
	m := newTestManager(newMemoryAccounts())
	ctx := context.Background()

	signed, err := m.SignUp(ctx, "alice@example.com", "pw123", nil)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultUsername, signed.Account.Username)

	sess, err := m.Login(ctx, "alice@example.com", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", sess.Account.Email)
	assert.Equal(t, signed.Account.ID, sess.Account.ID)

	id, err := m.ResolveIdentity(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.Account.ID, id.SubjectID)
}

func TestSignUp_ManyCredentials(t *testing.T) {
	m := newTestManager(newMemoryAccounts())
	ctx := context.Background()

	creds := []struct{ email, pw string }{
		{"a@example.com", "x"},
		{"B@Example.com", "pässwörd"},
		{"c+tag@example.org", "with spaces in it"},
		{"d@example.net", "1234567890"},
	}
	for _, c := range creds {
		_, err := m.SignUp(ctx, c.email, c.pw, nil)
		require.NoError(t, err, c.email)

		sess, err := m.Login(ctx, c.email, c.pw)
		require.NoError(t, err, c.email)
		assert.Equal(t, normalizeEmail(c.email), sess.Account.Email)
	}
}

func TestLogin_WrongPasswordIsBadCredential(t *testing.T) {
	m := newTestManager(newMemoryAccounts())
	ctx := context.Background()

	_, err := m.SignUp(ctx, "alice@example.com", "pw123", nil)
	require.NoError(t, err)

	for _, wrong := range []string{"", "pw124", "PW123", "pw123 "} {
		_, err := m.Login(ctx, "alice@example.com", wrong)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrBadCredential)
		assert.NotErrorIs(t, err, ErrNoSuchUser)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	m := newTestManager(newMemoryAccounts())

	_, err := m.Login(context.Background(), "ghost@example.com", "pw")
	assert.ErrorIs(t, err, ErrNoSuchUser)
	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, NoSuchUser, kind)
}

func TestLogin_StoreFailure(t *testing.T) {
	store := newMemoryAccounts()
	store.findErr = errors.New("connection refused")
	m := newTestManager(store)

	_, err := m.Login(context.Background(), "alice@example.com", "pw")
	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	_, isAuth := KindOf(err)
	assert.False(t, isAuth)
	assert.NotContains(t, err.Error(), "connection refused")
}

func TestLogin_CorruptStoredHashIsStoreError(t *testing.T) {
	store := newMemoryAccounts()
	store.byEmail["alice@example.com"] = model.Account{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		PasswordHash: "not-a-bcrypt-hash",
	}
	rec := &countingRecorder{}
	m := NewManager(store, password.NewHasher(bcrypt.MinCost), token.NewJWTMaker("k"), Options{
		TokenTTL: time.Hour,
		Recorder: rec,
	})

	_, err := m.Login(context.Background(), "alice@example.com", "pw123")
	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "login", storeErr.Op)
	assert.NotErrorIs(t, err, ErrBadCredential)
	_, isAuth := KindOf(err)
	assert.False(t, isAuth)
	assert.Equal(t, []string{"login:store_failure"}, rec.outcomes)
}

func TestLogin_SetsCookieThroughSink(t *testing.T) {
	m := newTestManager(newMemoryAccounts())
	_, err := m.SignUp(context.Background(), "alice@example.com", "pw123", nil)
	require.NoError(t, err)

	sink := &recordingSink{}
	ctx := WithTokenSink(context.Background(), sink)
	sess, err := m.Login(ctx, "alice@example.com", "pw123")
	require.NoError(t, err)

	assert.Equal(t, sess.Token, sink.token)
	assert.Equal(t, 7*24*time.Hour, sink.maxAge)
}

func TestSignUp_SetsCookieAndUsername(t *testing.T) {
	m := newTestManager(newMemoryAccounts())
	sink := &recordingSink{}
	name := "  Alice "

	sess, err := m.SignUp(WithTokenSink(context.Background(), sink), "alice@example.com", "pw123", &name)
	require.NoError(t, err)
	assert.Equal(t, "Alice", sess.Account.Username)
	assert.Equal(t, sess.Token, sink.token)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	m := newTestManager(newMemoryAccounts())
	ctx := context.Background()

	_, err := m.SignUp(ctx, "alice@example.com", "pw123", nil)
	require.NoError(t, err)

	_, err = m.SignUp(ctx, "ALICE@example.com", "other", nil)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignUp_StoreFailureIsDistinct(t *testing.T) {
	store := newMemoryAccounts()
	store.insertFn = func(*model.Account) error { return errors.New("db down") }
	m := newTestManager(store)

	_, err := m.SignUp(context.Background(), "alice@example.com", "pw123", nil)
	var storeErr *StoreError
	assert.ErrorAs(t, err, &storeErr)
	assert.NotErrorIs(t, err, ErrEmailTaken)
}

func TestSignUp_InvalidInput(t *testing.T) {
	m := newTestManager(newMemoryAccounts())

	_, err := m.SignUp(context.Background(), "not-an-email", "pw", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = m.SignUp(context.Background(), "a@example.com", "", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestResolveIdentity_Failures(t *testing.T) {
	m := newTestManager(newMemoryAccounts())

	other, _, err := token.NewJWTMaker("other-secret").CreateToken(uuid.NewString(), time.Hour)
	require.NoError(t, err)
	notUUID, _, err := token.NewJWTMaker("test-secret").CreateToken("42", time.Hour)
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"missing":      "",
		"garbled":      "abc.def.ghi",
		"wrong secret": other,
		"non-uuid sub": notUUID,
	} {
		_, err := m.ResolveIdentity(raw)
		assert.ErrorIs(t, err, ErrInvalidOrExpired, name)
	}
}

func TestResolveIdentity_Expiry(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	m := newTestManager(newMemoryAccounts(), token.WithClock(clock))

	tok, expiresAt, err := m.IssueToken(uuid.New())
	require.NoError(t, err)
	assert.Equal(t, now.Add(24*time.Hour), expiresAt)

	now = expiresAt.Add(-time.Second)
	_, err = m.ResolveIdentity(tok)
	assert.NoError(t, err)

	now = expiresAt.Add(time.Second)
	_, err = m.ResolveIdentity(tok)
	assert.ErrorIs(t, err, ErrInvalidOrExpired)
}

func TestDecideAuthRequirement(t *testing.T) {
	m := newTestManager(newMemoryAccounts())

	assert.Equal(t, Bypass, m.DecideAuthRequirement("SignIn"))
	for _, op := range []string{"", "signin", "SignIn ", "SignUp", "Surveys", "AddSurvey"} {
		assert.Equal(t, Require, m.DecideAuthRequirement(op), op)
	}
}

func TestRecorder_ReceivesOutcomes(t *testing.T) {
	rec := &countingRecorder{}
	m := NewManager(newMemoryAccounts(), password.NewHasher(bcrypt.MinCost), token.NewJWTMaker("k"), Options{
		TokenTTL: time.Hour, CookieMaxAge: time.Hour, Recorder: rec,
	})
	ctx := context.Background()

	_, _ = m.SignUp(ctx, "a@example.com", "pw", nil)
	_, _ = m.Login(ctx, "a@example.com", "nope")
	_, _ = m.Login(ctx, "b@example.com", "pw")

	assert.Equal(t, []string{"sign_up:success", "login:bad_credential", "login:no_such_user"}, rec.outcomes)
}

func TestRequireIdentity(t *testing.T) {
	_, err := RequireIdentity(context.Background())
	assert.ErrorIs(t, err, ErrInvalidOrExpired)

	want := Identity{SubjectID: uuid.New()}
	got, err := RequireIdentity(WithIdentity(context.Background(), want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
