// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/plugver/plugver/internal/config"
	"github.com/plugver/plugver/internal/issue"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// newConfigCommand creates the `plugver config` command tree.
func newConfigCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage plugver configuration",
		Long: `Manage plugver configuration.

Configuration is read from the first of:
  - the file given by --config
  - ./plugver.cue
  - Linux: ~/.config/plugver/config.cue
  - macOS: ~/Library/Application Support/plugver/config.cue
  - Windows: %APPDATA%\plugver\config.cue

PLUGVER_* environment variables override file values; flags override both.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd, app, rootFlags)
		},
	})

	var local bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if local {
				return initLocalConfig(app)
			}
			return initConfig(app)
		},
	}
	initCmd.Flags().BoolVar(&local, "local", false, "create ./"+config.LocalConfigFileName+" instead of the user config file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file paths",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfigPath(app, rootFlags)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.newSession(cmd, rootFlags)
			if err != nil {
				return err
			}
			_, err = io.WriteString(app.stdout, config.GenerateCUE(s.cfg))
			return err
		},
	})

	return cfgCmd
}

func showConfig(cmd *cobra.Command, app *App, rootFlags *rootFlagValues) error {
	s, err := app.newSession(cmd, rootFlags)
	if err != nil {
		return err
	}
	cfg := s.cfg

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	unset := SubtitleStyle.Render("(not set)")
	orUnset := func(v string) string {
		if v == "" {
			return unset
		}
		return valueStyle.Render(v)
	}

	out := app.stdout
	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)

	path, err := app.Config.Resolve(rootFlags.loadOptions())
	if err != nil || path == "" {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), path)
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("plugin"), orUnset(cfg.Plugin.String()))
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("module_dir"), orUnset(cfg.ModuleDir))
	prefix := orUnset(cfg.Prefix.String())
	if cfg.Prefix == "" && cfg.Plugin != "" {
		prefix = SubtitleStyle.Render("(derived: " + cfg.EffectivePrefix().String() + ")")
	}
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("prefix"), prefix)
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("format"), valueStyle.Render(cfg.Format.String()))
	output := orUnset(cfg.Output)
	if cfg.Output == "" {
		output = SubtitleStyle.Render("(stdout)")
	}
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("output"), output)
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("log_level"), valueStyle.Render(cfg.LogLevel.String()))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("watch"))
	fmt.Fprintf(out, "  debounce: %s\n", valueStyle.Render(cfg.Watch.Debounce.String()))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(out, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(out, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func initConfig(app *App) error {
	path, created, err := config.CreateDefaultConfig()
	if err != nil {
		app.printIssue(issue.ConfigLoadFailedId, config.ColorSchemeAuto)
		return fmt.Errorf("failed to create config: %w", err)
	}

	if !created {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", SubtitleStyle.Render("•"), CmdStyle.Render(path))
		return nil
	}
	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(path))
	return nil
}

// initLocalConfig writes plugver.cue into the working directory unless one exists.
func initLocalConfig(app *App) error {
	path := config.LocalConfigFileName

	exists, err := afero.Exists(app.fs, path)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}
	if exists {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", SubtitleStyle.Render("•"), CmdStyle.Render(path))
		return nil
	}

	if err := afero.WriteFile(app.fs, path, []byte(config.GenerateCUE(config.DefaultConfig())), 0o644); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(path))
	return nil
}

func showConfigPath(app *App, rootFlags *rootFlagValues) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	defaultPath, err := config.DefaultConfigPath()
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(app.stdout, "Config file: %s\n", defaultPath)
	fmt.Fprintf(app.stdout, "Local config file: %s\n", config.LocalConfigFileName)

	active, err := app.Config.Resolve(rootFlags.loadOptions())
	if err != nil {
		return usageError(err)
	}
	if active == "" {
		active = "(using defaults)"
	}
	fmt.Fprintf(app.stdout, "Active config: %s\n", active)

	return nil
}
