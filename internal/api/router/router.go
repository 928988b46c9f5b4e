package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnxcius/sign-backend/internal/api/gql"
	"github.com/vnxcius/sign-backend/internal/api/middleware"
	"github.com/vnxcius/sign-backend/internal/api/ws"
	"github.com/vnxcius/sign-backend/internal/auth"
	"github.com/vnxcius/sign-backend/internal/metrics"
)

const (
	// credential operations: one per second per IP, bursts of four
	credentialRate  = 1
	credentialBurst = 4
)

type Deps struct {
	Sessions       middleware.Authenticator
	Schema         *graphql.Schema
	Feed           *ws.Manager
	Metrics        *metrics.Collector
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	RateLimit      string
	Production     bool
}

// NewRouter wires every route. ctx bounds background work started by the
// middlewares.
func NewRouter(ctx context.Context, d Deps) (*gin.Engine, error) {
	r := gin.New()
	r.Use(middleware.SloggerMiddleware())
	r.Use(gin.Recovery())
	r.Use(middleware.Metrics(d.Metrics))

	// the API sits behind a local reverse proxy
	if err := r.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
		return nil, err
	}

	slog.Info("Allowing origins", "origins", d.AllowedOrigins)
	r.Use(cors.New(cors.Config{
		AllowOrigins: d.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
		ExposeHeaders: []string{
			"Content-Length",
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
		},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	quota, err := middleware.QuotaLimit(d.RateLimit)
	if err != nil {
		return nil, err
	}

	r.POST("/graphql",
		quota,
		middleware.GraphQLSession(d.Sessions, d.Metrics, d.Production),
		middleware.RateLimit(ctx, credentialRate, credentialBurst, middleware.IsBypassed),
		gql.Handler(d.Schema),
	)

	{
		api := r.Group("/api")
		api.Use(quota)
		api.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong"})
		})
		api.GET("/ws/ticket", middleware.RequireSession(d.Sessions, d.Metrics), issueTicket(d.Feed))
		api.GET("/ws", func(c *gin.Context) {
			d.Feed.ServeWS(c.Writer, c.Request, c.ClientIP())
		})
	}

	r.GET("/metrics", gin.WrapH(metrics.Handler(d.Gatherer)))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "This Page Was Not Found: " + c.Request.URL.Path})
	})

	return r, nil
}

func issueTicket(feed *ws.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := auth.RequireIdentity(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
			return
		}
		ticket := feed.IssueTicket(id.SubjectID)
		c.JSON(http.StatusOK, gin.H{"ticket": ticket.Key})
	}
}
