package observability

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger builds the JSON logger used across the API. Records carry trace,
// span and actor ids when the context has them.
func NewLogger(env string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}

	level := slog.LevelInfo

	if env == "dev" {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(NewContextHandler(handler))
}
