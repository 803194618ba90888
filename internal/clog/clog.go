// ----------------------------------------------------------------------------
// FILE: internal/clog/clog.go
// ----------------------------------------------------------------------------
// PACKAGE: clog
// PURPOSE: Package-level structured logger shared by the driver and CLI
//          entry points. The CLI configures it; the driver logs stage
//          progress (token/item counts, cache hits) at Debug, analysis
//          diagnostics at Warn and stage failures at Error. The compiler
//          stages themselves do not log.
// ----------------------------------------------------------------------------

package clog

import (
	"io"
	"log/slog"
	"os"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

// Configure rebuilds the package logger at the given level, writing to w. A
// driver or CLI entry point calls this once at startup; everything else
// just calls the package-level Debug/Info/Warn/Error functions.
func Configure(w io.Writer, level slog.Level) {
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

func Debug(msg string, args ...any) { logger.Debug(msg, args...) }
func Info(msg string, args ...any)  { logger.Info(msg, args...) }
func Warn(msg string, args ...any)  { logger.Warn(msg, args...) }
func Error(msg string, args ...any) { logger.Error(msg, args...) }
