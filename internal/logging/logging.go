package logging

import (
	"io"
	"log/slog"
	"os"
)

// Logg is the process-wide logger, set once from main before anything else
// runs. Packages check it against nil only during startup.
var Logg *slog.Logger

// NewLogger builds a slog logger writing JSON records to out, colored when
// out is a terminal. Unknown level strings fall back to info.
func NewLogger(level string, out io.Writer) *slog.Logger {
	if out == nil {
		out = os.Stdout
	}

	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	return slog.New(NewColorHandler(out, opts))
}
