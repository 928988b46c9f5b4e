package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vnxcius/sign-backend/internal/auth"
)

const (
	CookieName   = "id"
	OperationKey = "graphql_operation"
	DecisionKey  = "auth_decision"

	maxPeekBytes = 4 << 20
)

type Authenticator interface {
	DecideAuthRequirement(operationName string) auth.Decision
	ResolveIdentity(rawToken string) (auth.Identity, error)
}

type RejectionRecorder interface {
	RecordAuthRejected()
}

// cookieSink writes issued session tokens back to the caller as the id cookie.
type cookieSink struct {
	c      *gin.Context
	secure bool
}

func (s cookieSink) SetSessionToken(token string, maxAge time.Duration) {
	if s.secure {
		s.c.SetSameSite(http.SameSiteNoneMode)
	}
	s.c.SetCookie(CookieName, token, int(maxAge.Seconds()), "/", "", s.secure, true)
}

// GraphQLSession decides per operation whether a session is required and, if
// so, resolves the identity from the id cookie or rejects the request with 401
// before any resolver runs.
func GraphQLSession(authn Authenticator, rejected RejectionRecorder, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		op := peekOperationName(c)
		decision := authn.DecideAuthRequirement(op)
		c.Set(OperationKey, op)
		c.Set(DecisionKey, decision)

		ctx := auth.WithTokenSink(c.Request.Context(), cookieSink{c: c, secure: secureCookies})

		if decision == auth.Require {
			raw, _ := c.Cookie(CookieName)
			id, err := authn.ResolveIdentity(raw)
			if err != nil {
				reject(c, rejected, err)
				return
			}
			ctx = auth.WithIdentity(ctx, id)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireSession is the plain REST variant: no bypass list, cookie required.
func RequireSession(authn Authenticator, rejected RejectionRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, _ := c.Cookie(CookieName)
		id, err := authn.ResolveIdentity(raw)
		if err != nil {
			reject(c, rejected, err)
			return
		}
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// IsBypassed reports whether GraphQLSession let the request through without
// a session, i.e. it is a credential operation.
func IsBypassed(c *gin.Context) bool {
	d, ok := c.Get(DecisionKey)
	return ok && d == auth.Bypass
}

func reject(c *gin.Context, rejected RejectionRecorder, err error) {
	slog.Debug("Rejected unauthenticated request", "path", c.Request.URL.Path, "error", err)
	if rejected != nil {
		rejected.RecordAuthRejected()
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"errors": []gin.H{{
			"message":    err.Error(),
			"extensions": gin.H{"code": "UNAUTHENTICATED"},
		}},
	})
}

// peekOperationName reads operationName from a JSON body and restores the
// body for the handler. Anything unreadable yields "", which never bypasses.
func peekOperationName(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPeekBytes))
	c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), c.Request.Body))
	if err != nil {
		return ""
	}

	var envelope struct {
		OperationName string `json:"operationName"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return envelope.OperationName
}
