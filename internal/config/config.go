package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`

	PostgresDSN       string        `mapstructure:"POSTGRES_DSN"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME"`
	DBLogMode         bool          `mapstructure:"DB_LOG_MODE"`
	DBQueryTimeout    time.Duration `mapstructure:"DB_QUERY_TIMEOUT"`

	JWTSecret            string        `mapstructure:"JWT_SECRET"`
	TokenTTL             time.Duration `mapstructure:"TOKEN_TTL"`
	CookieMaxAge         time.Duration `mapstructure:"COOKIE_MAX_AGE"`
	AuthBypassOperations []string      `mapstructure:"AUTH_BYPASS_OPERATIONS"`

	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`
	SurveyTimezone string   `mapstructure:"SURVEY_TIMEZONE"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
	LogFile  string `mapstructure:"LOG_FILE"`

	// ulule/limiter formatted rate, e.g. "1000-H"
	RateLimit string `mapstructure:"RATE_LIMIT"`

	BotToken              string `mapstructure:"BOT_TOKEN"`
	NotificationChannelID string `mapstructure:"NOTIFICATION_CHANNEL_ID"`
}

var ErrMissingSecret = errors.New("JWT_SECRET must be set")

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "4000")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("POSTGRES_DSN", "postgresql://localhost:5432/sign-app-db?sslmode=disable")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "1h")
	v.SetDefault("DB_LOG_MODE", false)
	v.SetDefault("DB_QUERY_TIMEOUT", "5s")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("COOKIE_MAX_AGE", "168h")
	v.SetDefault("AUTH_BYPASS_OPERATIONS", "SignIn")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,https://sign-app-one.vercel.app")
	v.SetDefault("SURVEY_TIMEZONE", "Asia/Seoul")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("RATE_LIMIT", "1000-H")
	v.SetDefault("BOT_TOKEN", "")
	v.SetDefault("NOTIFICATION_CHANNEL_ID", "")
}

// Load reads the configuration from the process environment, after merging any
// of the given dotenv files that exist. Variables already set in the
// environment win over the files.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			slog.Debug("dotenv file not loaded, relying on defaults and system ENV variables", "file", f, "error", err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	// The decoder splits lists on "," and parses durations with
	// time.ParseDuration, so a malformed TOKEN_TTL fails here.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.AuthBypassOperations = cleanList(cfg.AuthBypassOperations)
	cfg.AllowedOrigins = cleanList(cfg.AllowedOrigins)

	durations := map[string]time.Duration{
		"DB_CONN_MAX_LIFETIME": cfg.DBConnMaxLifetime,
		"DB_QUERY_TIMEOUT":     cfg.DBQueryTimeout,
		"TOKEN_TTL":            cfg.TokenTTL,
		"COOKIE_MAX_AGE":       cfg.CookieMaxAge,
	}
	for key, d := range durations {
		if d <= 0 {
			return nil, fmt.Errorf("invalid %s %s: must be positive", key, d)
		}
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingSecret
	}
	if _, err := time.LoadLocation(cfg.SurveyTimezone); err != nil {
		return nil, fmt.Errorf("invalid SURVEY_TIMEZONE %q: %w", cfg.SurveyTimezone, err)
	}

	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// cleanList trims entries and drops empty ones left by stray commas.
func cleanList(parts []string) []string {
	var out []string
	for _, part := range parts {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
