package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SetupLogger installs a JSON slog logger as the process default. Timestamps
// are rendered in the given location so they line up with the survey day
// boundaries. When filePath is set, output is also appended to that file; the
// returned closer releases it.
func SetupLogger(level, filePath string, location *time.Location) (io.Closer, error) {
	var (
		w      io.Writer = os.Stdout
		closer io.Closer = nopCloser{}
	)

	if filePath != "" {
		if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		logFile, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, logFile)
		closer = logFile
	}

	slog.SetDefault(NewLogger(w, level, location))
	return closer, nil
}

func NewLogger(w io.Writer, level string, location *time.Location) *slog.Logger {
	if location == nil {
		location = time.UTC
	}

	opts := &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				t := a.Value.Time().In(location)
				a.Value = slog.StringValue(t.Format(time.RFC3339))
			}
			return a
		},
		Level: ParseLevel(level),
	}

	return slog.New(slog.NewJSONHandler(w, opts))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
