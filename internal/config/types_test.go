// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/plugver/plugver/pkg/pluginver"
)

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scheme  ColorScheme
		want    bool
		wantErr bool
	}{
		{ColorSchemeAuto, true, false},
		{ColorSchemeDark, true, false},
		{ColorSchemeLight, true, false},
		{"", false, true},
		{"garbage", false, true},
		{"AUTO", false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.scheme), func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.scheme.IsValid()
			if isValid != tt.want {
				t.Errorf("ColorScheme(%q).IsValid() = %v, want %v", tt.scheme, isValid, tt.want)
			}
			if tt.wantErr {
				if len(errs) == 0 {
					t.Fatalf("ColorScheme(%q).IsValid() returned no errors, want error", tt.scheme)
				}
				if !errors.Is(errs[0], ErrInvalidColorScheme) {
					t.Errorf("error should wrap ErrInvalidColorScheme, got: %v", errs[0])
				}
			} else if len(errs) > 0 {
				t.Errorf("ColorScheme(%q).IsValid() returned unexpected errors: %v", tt.scheme, errs)
			}
		})
	}
}

func TestLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level     LogLevel
		valid     bool
		slogLevel slog.Level
	}{
		{LogLevelDebug, true, slog.LevelDebug},
		{LogLevelInfo, true, slog.LevelInfo},
		{LogLevelWarn, true, slog.LevelWarn},
		{LogLevelError, true, slog.LevelError},
		{"trace", false, slog.LevelWarn},
		{"", false, slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.level.IsValid()
			if isValid != tt.valid {
				t.Errorf("LogLevel(%q).IsValid() = %v, want %v", tt.level, isValid, tt.valid)
			}
			if !tt.valid && !errors.Is(errs[0], ErrInvalidLogLevel) {
				t.Errorf("error should wrap ErrInvalidLogLevel, got: %v", errs[0])
			}
			if got := tt.level.SlogLevel(); got != tt.slogLevel {
				t.Errorf("LogLevel(%q).SlogLevel() = %v, want %v", tt.level, got, tt.slogLevel)
			}
		})
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"defaults", func(*Config) {}, nil},
		{"plugin and prefix", func(c *Config) { c.Plugin = "Charon"; c.Prefix = "CHARON" }, nil},
		{"bad plugin", func(c *Config) { c.Plugin = "a/b" }, pluginver.ErrInvalidPluginName},
		{"bad prefix", func(c *Config) { c.Prefix = "1ABC" }, pluginver.ErrInvalidMacroPrefix},
		{"bad format", func(c *Config) { c.Format = "xml" }, pluginver.ErrInvalidFormat},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, ErrInvalidLogLevel},
		{"zero debounce", func(c *Config) { c.Watch.Debounce = 0 }, ErrInvalidDebounce},
		{"bad color scheme", func(c *Config) { c.UI.ColorScheme = "neon" }, ErrInvalidColorScheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)

			valid, errs := cfg.IsValid()
			if tt.wantErr == nil {
				if !valid {
					t.Fatalf("IsValid() = false, errors: %v", errs)
				}
				return
			}
			if valid {
				t.Fatal("IsValid() = true, want false")
			}
			var cfgErr *InvalidConfigError
			if !errors.As(errs[0], &cfgErr) {
				t.Fatalf("error should be *InvalidConfigError, got %T", errs[0])
			}
			if !errors.Is(errs[0], ErrInvalidConfig) {
				t.Error("error should wrap ErrInvalidConfig")
			}
			if !errors.Is(cfgErr.FieldErrors[0], tt.wantErr) {
				t.Errorf("field error = %v, want %v", cfgErr.FieldErrors[0], tt.wantErr)
			}
		})
	}
}

func TestConfig_EffectivePrefix(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Plugin = "Charon"
	if got := cfg.EffectivePrefix(); got != "CHARON_PLUGIN" {
		t.Errorf("EffectivePrefix() = %q, want CHARON_PLUGIN", got)
	}

	cfg.Prefix = "CHR"
	if got := cfg.EffectivePrefix(); got != "CHR" {
		t.Errorf("EffectivePrefix() = %q, want CHR", got)
	}
}
