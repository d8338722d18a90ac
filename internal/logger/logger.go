package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const serviceName = "catering"

// New creates a preconfigured JSON slog.Logger writing to stdout.
func New(level string) (*slog.Logger, error) {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter creates a JSON logger writing to w. An empty level means info.
func NewWithWriter(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler).With(slog.String("service", serviceName)), nil
}

func parseLevel(raw string) (slog.Level, error) {
	if strings.TrimSpace(raw) == "" {
		return slog.LevelInfo, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(raw)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", raw, err)
	}
	return lvl, nil
}
