package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims carries the account id both as the registered subject and
// under "id".
type SessionClaims struct {
	SubjectID string `json:"id"`
	jwt.RegisteredClaims
}

func NewSessionClaims(subjectID string, issuedAt time.Time, duration time.Duration) (*SessionClaims, error) {
	tokenID, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	return &SessionClaims{
		SubjectID: subjectID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID.String(),
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(duration)),
		},
	}, nil
}
