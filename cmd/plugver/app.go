// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/plugver/plugver/internal/config"
	"github.com/plugver/plugver/internal/generate"
	"github.com/plugver/plugver/internal/issue"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type (
	// App wires CLI services and shared dependencies. Every Cobra handler
	// receives an App reference instead of reaching for package globals.
	App struct {
		Config ConfigProvider
		fs     afero.Fs
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Fs     afero.Fs
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration for a command invocation.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
		Resolve(opts config.LoadOptions) (string, error)
	}

	// session is the state of one command invocation after configuration,
	// flags and logging have been resolved.
	session struct {
		cfg     *config.Config
		logger  *slog.Logger
		verbose bool
	}
)

// NewApp creates an App, filling nil dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config: deps.Config,
		fs:     deps.Fs,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.fs == nil {
		app.fs = afero.NewOsFs()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// newSession loads configuration and builds the logger for one invocation.
// Configuration failures render the config issue and exit with status 2.
func (a *App) newSession(cmd *cobra.Command, flags *rootFlagValues) (*session, error) {
	cfg, err := a.Config.Load(cmd.Context(), flags.loadOptions())
	if err != nil {
		a.printIssue(issue.ConfigLoadFailedId, config.ColorSchemeAuto)
		return nil, usageError(err)
	}

	verbose := flags.verbose || cfg.UI.Verbose
	level, err := resolveLogLevel(flags.logLevel, verbose, cfg)
	if err != nil {
		return nil, usageError(err)
	}

	return &session{
		cfg:     cfg,
		logger:  newLogger(a.stderr, level),
		verbose: verbose,
	}, nil
}

// generator returns a Generator bound to the App's filesystem and s's logger.
func (a *App) generator(s *session) *generate.Generator {
	return generate.New(generate.WithFs(a.fs), generate.WithLogger(s.logger))
}

// printIssue renders a catalog entry to stderr. Rendering failures fall back
// to the raw Markdown.
func (a *App) printIssue(id issue.Id, scheme config.ColorScheme) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, err := entry.Render(markdownStyle(scheme, isTerminal(a.stderr)))
	if err != nil {
		rendered = string(entry.MarkdownMsg())
	}
	fmt.Fprint(a.stderr, rendered)
}

// isTerminal reports whether w is a character device such as an interactive shell.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// markdownStyle maps the configured color scheme to a glamour style name.
func markdownStyle(scheme config.ColorScheme, tty bool) string {
	if !tty {
		return "notty"
	}
	switch scheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}
