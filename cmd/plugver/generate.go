// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/plugver/plugver/internal/generate"
	"github.com/plugver/plugver/internal/issue"
	"github.com/plugver/plugver/internal/watch"
	"github.com/plugver/plugver/pkg/pluginver"
	"github.com/plugver/plugver/pkg/types"

	"github.com/spf13/cobra"
)

type generateFlagValues struct {
	target targetFlagValues
	format string
	output string
	watch  bool
}

// newGenerateCommand creates the `plugver generate` command.
func newGenerateCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &generateFlagValues{}

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Emit version constants for a plugin",
		Long: `Emit version constants for a plugin.

The descriptor's VersionName is split on '.' and each of the first three
segments is parsed as an integer, defaulting to 0. A missing descriptor yields
version 0.0.0 and a warning; it is not an error.

Output goes to stdout unless --output is set. An output file whose content is
already up to date is left untouched.`,
		Example: `  plugver generate --module-dir Plugins/Charon/Source/Charon --plugin Charon
  plugver gen -p Charon --format header --output Source/Charon/Public/CharonVersion.h
  plugver gen -p Charon --format flags
  plugver gen -p Charon -o Version.h --format header --watch`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, app, rootFlags, flags)
		},
	}

	flags.target.register(cmd)
	cmd.Flags().StringVarP(&flags.format, "format", "f", pluginver.DefaultFormat.String(), "output format: "+formatNames())
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "regenerate whenever the descriptor changes")

	return cmd
}

func runGenerate(cmd *cobra.Command, app *App, rootFlags *rootFlagValues, flags *generateFlagValues) error {
	s, err := app.newSession(cmd, rootFlags)
	if err != nil {
		return err
	}

	flags.target.apply(cmd, s.cfg)
	if cmd.Flags().Changed("format") {
		format, err := pluginver.ParseFormat(flags.format)
		if err != nil {
			return app.targetError(s, err)
		}
		s.cfg.Format = format
	}
	if cmd.Flags().Changed("output") {
		s.cfg.Output = flags.output
	}
	if err := app.validateTarget(s); err != nil {
		return err
	}

	req := generate.Request{
		ModuleDir: types.FilesystemPath(s.cfg.ModuleDir),
		Plugin:    s.cfg.Plugin,
		Prefix:    s.cfg.Prefix,
		Format:    s.cfg.Format,
		Output:    types.FilesystemPath(s.cfg.Output),
		Writer:    app.stdout,
	}
	if err := req.Validate(); err != nil {
		return app.targetError(s, err)
	}

	gen := app.generator(s)
	res, err := gen.Run(cmd.Context(), req)
	if err != nil {
		if isWriteFailure(err) {
			app.printIssue(issue.OutputWriteFailedId, s.cfg.UI.ColorScheme)
		}
		return err
	}
	if !res.Found && s.verbose {
		app.printIssue(issue.DescriptorNotFoundId, s.cfg.UI.ColorScheme)
	}
	app.reportGenerated(res)

	if !flags.watch {
		return nil
	}
	return app.watchDescriptor(cmd.Context(), s, gen, req, res.DescriptorPath)
}

// isWriteFailure reports whether err is the actionable output write failure
// raised by the generator, as opposed to cancellation or rendering errors.
func isWriteFailure(err error) bool {
	var ae *issue.ActionableError
	return errors.As(err, &ae)
}

// reportGenerated prints a status line for file outputs. Stdout artifacts
// are left unadorned.
func (a *App) reportGenerated(res *generate.Result) {
	if res.OutputPath == "" {
		return
	}
	version := res.Set.Version()
	if !res.Written {
		fmt.Fprintf(a.stdout, "%s %s is up to date (%s)\n",
			SubtitleStyle.Render("•"), CmdStyle.Render(res.OutputPath), version.Triple())
		return
	}
	mark := SuccessStyle.Render("✓")
	if !res.Found {
		mark = WarningStyle.Render("!")
	}
	fmt.Fprintf(a.stdout, "%s Wrote %s (%s, %s)\n", mark, CmdStyle.Render(res.OutputPath), res.Format, version.Triple())
}

// watchDescriptor regenerates req every time the descriptor at path changes
// until ctx is cancelled.
func (a *App) watchDescriptor(ctx context.Context, s *session, gen *generate.Generator, req generate.Request, path string) error {
	w, err := watch.New(watch.Config{
		Path:     types.FilesystemPath(path),
		Debounce: s.cfg.Watch.Debounce,
		Logger:   s.logger,
		OnChange: func(ctx context.Context, _ []string) error {
			res, err := gen.Run(ctx, req)
			if err != nil {
				return err
			}
			a.reportGenerated(res)
			return nil
		},
	})
	if err != nil {
		a.printIssue(issue.WatchFailedId, s.cfg.UI.ColorScheme)
		return err
	}

	fmt.Fprintf(a.stderr, "%s Watching %s for changes (Ctrl+C to stop)\n",
		VerboseHighlightStyle.Render("→"), CmdStyle.Render(path))

	if err := w.Run(ctx); err != nil {
		a.printIssue(issue.WatchFailedId, s.cfg.UI.ColorScheme)
		return err
	}
	return nil
}
