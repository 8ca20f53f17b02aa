// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/plugver/plugver/internal/config"

	"github.com/charmbracelet/log"
)

func TestResolveLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		flagLevel string
		verbose   bool
		cfgLevel  config.LogLevel
		want      config.LogLevel
		wantErr   bool
	}{
		{name: "default is warn", want: config.LogLevelWarn},
		{name: "config level", cfgLevel: config.LogLevelInfo, want: config.LogLevelInfo},
		{name: "verbose beats config", verbose: true, cfgLevel: config.LogLevelError, want: config.LogLevelDebug},
		{name: "flag beats verbose", flagLevel: "error", verbose: true, want: config.LogLevelError},
		{name: "invalid flag", flagLevel: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			cfg.LogLevel = tt.cfgLevel
			got, err := resolveLogLevel(tt.flagLevel, tt.verbose, cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveLogLevel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("resolveLogLevel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCharmLevel(t *testing.T) {
	t.Parallel()

	tests := map[config.LogLevel]log.Level{
		config.LogLevelDebug: log.DebugLevel,
		config.LogLevelInfo:  log.InfoLevel,
		config.LogLevelWarn:  log.WarnLevel,
		config.LogLevelError: log.ErrorLevel,
		"":                   log.WarnLevel,
	}
	for level, want := range tests {
		if got := charmLevel(level); got != want {
			t.Errorf("charmLevel(%q) = %v, want %v", level, got, want)
		}
	}
}

func TestNewLogger_FiltersByLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newLogger(&buf, config.LogLevelWarn)
	logger.Info("hidden message")
	logger.Warn("visible message", "path", "Charon.uplugin")

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Errorf("info message logged at warn level:\n%s", out)
	}
	if !strings.Contains(out, "visible message") || !strings.Contains(out, "Charon.uplugin") {
		t.Errorf("warn message missing:\n%s", out)
	}
}
