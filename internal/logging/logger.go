package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// InitLogger installs a tint handler on stdout as the default slog logger.
// The level comes from LOG_LEVEL and defaults to info.
func InitLogger() {
	slog.SetDefault(NewLogger(os.Stdout, ParseLevel(os.Getenv("LOG_LEVEL"))))
}

func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  level <= slog.LevelDebug,
		NoColor:    w != os.Stdout && w != os.Stderr,
	})
	return slog.New(handler)
}

// ParseLevel maps debug, info, warn/warning and error. Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
