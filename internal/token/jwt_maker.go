package token

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("token is invalid")
	ErrExpiredToken = errors.New("token has expired")
)

type JWTMaker struct {
	secretKey []byte
	now       func() time.Time
}

type Option func(*JWTMaker)

// WithClock replaces the wall clock used for both signing and verification.
func WithClock(now func() time.Time) Option {
	return func(m *JWTMaker) {
		m.now = now
	}
}

func NewJWTMaker(secretKey string, opts ...Option) *JWTMaker {
	maker := &JWTMaker{
		secretKey: []byte(secretKey),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(maker)
	}
	return maker
}

func (maker *JWTMaker) CreateToken(subjectID string, duration time.Duration) (string, *SessionClaims, error) {
	claims, err := NewSessionClaims(subjectID, maker.now(), duration)
	if err != nil {
		slog.Error("Failed to create claims", "error", err)
		return "", nil, err
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString(maker.secretKey)
	if err != nil {
		slog.Error("Failed to create token", "error", err)
		return "", nil, err
	}
	return tokenStr, claims, nil
}

func (maker *JWTMaker) VerifyToken(tokenStr string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		_, ok := token.Method.(*jwt.SigningMethodHMAC)
		if !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return maker.secretKey, nil
	},
		jwt.WithTimeFunc(maker.now),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		slog.Debug("Failed to parse token", "error", err)
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.SubjectID == "" {
		slog.Debug("Invalid token claims")
		return nil, ErrInvalidToken
	}
	return claims, nil
}
