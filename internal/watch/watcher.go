// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when a plugin descriptor changes.
//
// A Watcher monitors the directory holding the descriptor (so that editors
// which replace the file through a rename are still observed) and invokes a
// callback once the directory has been quiet for the debounce period. Events
// within the debounce window are coalesced, and callbacks never overlap.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/plugver/plugver/pkg/types"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the delay before firing the callback after the last
// filesystem event. It lets an editor's write-then-rename coalesce into a
// single regeneration.
const DefaultDebounce = 300 * time.Millisecond

var (
	// ErrInvalidWatchConfig is the sentinel error wrapped by InvalidWatchConfigError.
	ErrInvalidWatchConfig = errors.New("invalid watch config")
	// ErrInvalidPattern is returned for a glob pattern doublestar cannot parse.
	ErrInvalidPattern = errors.New("invalid glob pattern")
	// ErrAlreadyRunning is returned by a second call to Run.
	ErrAlreadyRunning = errors.New("watch: Run called more than once")

	// defaultIgnores are editor and OS artifacts that never trigger a callback.
	defaultIgnores = []string{
		"*.swp",
		"*.swo",
		"*~",
		".#*",
		".DS_Store",
		"*.tmp",
	}
)

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Path is the watched file, normally the plugin descriptor. Its parent
		// directory must exist; the file itself may not exist yet.
		Path types.FilesystemPath

		// Patterns are extra doublestar globs, relative to the directory of
		// Path, whose changes also trigger the callback.
		Patterns []string

		// Ignore are extra doublestar globs merged with the built-in ignores.
		Ignore []string

		// Debounce is the quiet period after the last event before the callback
		// fires. Zero or negative values fall back to DefaultDebounce.
		Debounce time.Duration

		// OnChange receives the deduplicated, sorted names of the changed files
		// relative to the watched directory. A nil callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Logger receives watch diagnostics. nil means slog.Default().
		Logger *slog.Logger
	}

	// InvalidWatchConfigError collects every invalid field of a Config.
	InvalidWatchConfigError struct {
		FieldErrors []error
	}

	// InvalidPatternError is returned for a pattern doublestar rejects.
	InvalidPatternError struct {
		Field   string
		Pattern string
	}

	// Watcher monitors a file and fires a debounced callback when it changes.
	// Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		logger   *slog.Logger
		ignores  []string
		dir      string
		target   string
		debounce time.Duration
		started  atomic.Bool
	}
)

// Error implements the error interface.
func (e *InvalidWatchConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid watch config: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid watch config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidWatchConfig for errors.Is() compatibility.
func (e *InvalidWatchConfigError) Unwrap() error { return ErrInvalidWatchConfig }

// Error implements the error interface.
func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid %s pattern %q", e.Field, e.Pattern)
}

// Unwrap returns ErrInvalidPattern for errors.Is() compatibility.
func (e *InvalidPatternError) Unwrap() error { return ErrInvalidPattern }

// Validate reports every invalid field: an empty Path and any pattern that
// doublestar cannot parse.
func (c Config) Validate() error {
	var errs []error
	if err := c.Path.Validate(); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, validatePatterns("watch", c.Patterns)...)
	errs = append(errs, validatePatterns("ignore", c.Ignore)...)
	if len(errs) > 0 {
		return &InvalidWatchConfigError{FieldErrors: errs}
	}
	return nil
}

func validatePatterns(field string, patterns []string) []error {
	var errs []error
	for _, pat := range patterns {
		if pat == "" || !doublestar.ValidatePattern(pat) {
			errs = append(errs, &InvalidPatternError{Field: field, Pattern: pat})
		}
	}
	return errs
}

// New validates cfg and registers the directory of cfg.Path with fsnotify.
func New(cfg Config) (*Watcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(cfg.Path.String())
	if err != nil {
		return nil, fmt.Errorf("watch: resolve path: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		logger:   logger,
		ignores:  append(slices.Clone(defaultIgnores), cfg.Ignore...),
		dir:      filepath.Dir(absPath),
		target:   filepath.Base(absPath),
		debounce: debounce,
	}

	if err := fsw.Add(w.dir); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.Warn("watch: close after init failure", "error", closeErr)
		}
		return nil, fmt.Errorf("watch: add directory %q: %w", w.dir, err)
	}

	return w, nil
}

// Dir returns the absolute directory being watched.
func (w *Watcher) Dir() string { return w.dir }

// Run blocks until ctx is cancelled, processing filesystem events and
// dispatching debounced callbacks. It returns nil on cancellation and an
// error when fsnotify fails fatally.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire may run from time.AfterFunc after cancellation, hence the ctx check.
	// An event that lands while a callback is running re-arms the timer so the
	// pending set is delivered once the running callback returns.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.logger.Debug("watch: callback still running, rescheduling")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		w.logger.Info("watch: change detected", "dir", w.dir, "changed", changed)

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Error("watch: callback failed", "error", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if closeErr := w.fsw.Close(); closeErr != nil {
			w.logger.Warn("watch: close fsnotify", "error", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}
			if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
				continue
			}

			name, err := filepath.Rel(w.dir, evt.Name)
			if err != nil {
				name = filepath.Base(evt.Name)
			}
			if !w.matches(name) {
				continue
			}

			mu.Lock()
			pending[name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			// isFatalFsnotifyError is platform-specific (see watcher_fatal_*.go).
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("watch: fsnotify error", "error", err)
		}
	}
}

// matches reports whether name (relative to the watched directory) should
// trigger the callback: the target file always does unless ignored, other
// files only when they match a configured pattern.
func (w *Watcher) matches(name string) bool {
	normalized := filepath.ToSlash(name)
	if matchAny(w.ignores, normalized) {
		return false
	}
	if name == w.target {
		return true
	}
	return matchAny(w.cfg.Patterns, normalized)
}

func matchAny(patterns []string, name string) bool {
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, name); err == nil && matched {
			return true
		}
	}
	return false
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}
