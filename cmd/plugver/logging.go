// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"log/slog"

	"github.com/plugver/plugver/internal/config"

	"github.com/charmbracelet/log"
)

// newLogger returns a slog.Logger backed by a charmbracelet/log handler
// writing to w at the given level.
func newLogger(w io.Writer, level config.LogLevel) *slog.Logger {
	handler := log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
		Level:  charmLevel(level),
	})
	return slog.New(handler)
}

func charmLevel(level config.LogLevel) log.Level {
	switch level {
	case config.LogLevelDebug:
		return log.DebugLevel
	case config.LogLevelInfo:
		return log.InfoLevel
	case config.LogLevelError:
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}

// resolveLogLevel picks the effective level: --log-level, then --verbose or
// ui.verbose (debug), then the configured log_level.
func resolveLogLevel(flagLevel string, verbose bool, cfg *config.Config) (config.LogLevel, error) {
	if flagLevel != "" {
		level := config.LogLevel(flagLevel)
		if valid, errs := level.IsValid(); !valid {
			return "", errs[0]
		}
		return level, nil
	}
	if verbose {
		return config.LogLevelDebug, nil
	}
	if cfg.LogLevel == "" {
		return config.LogLevelWarn, nil
	}
	return cfg.LogLevel, nil
}
