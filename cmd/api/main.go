package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/crypto/bcrypt"

	"github.com/vnxcius/sign-backend/internal/api/gql"
	"github.com/vnxcius/sign-backend/internal/api/router"
	"github.com/vnxcius/sign-backend/internal/api/ws"
	"github.com/vnxcius/sign-backend/internal/auth"
	"github.com/vnxcius/sign-backend/internal/config"
	"github.com/vnxcius/sign-backend/internal/database/migrations"
	"github.com/vnxcius/sign-backend/internal/database/pg"
	"github.com/vnxcius/sign-backend/internal/integrations/discord"
	"github.com/vnxcius/sign-backend/internal/logging"
	"github.com/vnxcius/sign-backend/internal/metrics"
	"github.com/vnxcius/sign-backend/internal/password"
	"github.com/vnxcius/sign-backend/internal/survey"
	"github.com/vnxcius/sign-backend/internal/token"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	location, _ := time.LoadLocation(cfg.SurveyTimezone)
	logCloser, err := logging.SetupLogger(cfg.LogLevel, cfg.LogFile, location)
	if err != nil {
		log.Fatal("Failed to set up logger: ", err)
	}

	err = run(cfg, location)
	if err != nil {
		slog.Error("Server stopped with error", "error", err)
	}
	_ = logCloser.Close()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, location *time.Location) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	slog.Info("Loaded environment", "environment", cfg.Environment, "gin_mode", gin.Mode())

	db, err := pg.NewConnection(ctx, cfg)
	if err != nil {
		return err
	}
	defer pg.Close(db)

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := migrations.Up(ctx, sqlDB); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	sessions := auth.NewManager(
		pg.NewAccountRepository(db, cfg.DBQueryTimeout),
		password.NewHasher(bcrypt.DefaultCost),
		token.NewJWTMaker(cfg.JWTSecret),
		auth.Options{
			TokenTTL:         cfg.TokenTTL,
			CookieMaxAge:     cfg.CookieMaxAge,
			BypassOperations: cfg.AuthBypassOperations,
			Recorder:         collector,
		},
	)

	feed := ws.NewManager(ctx, cfg.AllowedOrigins)
	defer feed.Close()

	notifiers := []survey.Notifier{collector, feed}
	if session, err := discord.NewSession(cfg.BotToken, cfg.NotificationChannelID); err == nil {
		notifiers = append(notifiers, discord.NewNotifier(session, cfg.NotificationChannelID, location))
		slog.Info("Discord survey notifications enabled", "channel_id", cfg.NotificationChannelID)
	} else if !errors.Is(err, discord.ErrNotConfigured) {
		return err
	}
	surveys := survey.NewService(pg.NewSurveyRepository(db, cfg.DBQueryTimeout), notifiers...)

	schema, err := gql.NewSchema(gql.NewResolver(sessions, surveys, location))
	if err != nil {
		return err
	}

	engine, err := router.NewRouter(ctx, router.Deps{
		Sessions:       sessions,
		Schema:         schema,
		Feed:           feed,
		Metrics:        collector,
		Gatherer:       reg,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      cfg.RateLimit,
		Production:     cfg.IsProduction(),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server on port " + cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
