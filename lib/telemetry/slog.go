package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the process-wide slog handler. verbose lowers the
// level to debug.
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
