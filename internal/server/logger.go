// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// logLevels maps the --log-level flag values to slog levels. Unknown
// values fall back to info.
var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// setupLogger installs the process-wide slog handler: tinted text for
// local development, JSON for structured log collection.
func setupLogger(level, format string) {
	lvl, ok := logLevels[level]
	if !ok {
		lvl = slog.LevelInfo
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	default:
		handler = tint.NewHandler(os.Stdout, &tint.Options{Level: lvl})
	}

	slog.SetDefault(slog.New(handler))
}
