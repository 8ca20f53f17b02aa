// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/plugver/plugver/internal/config"
	"github.com/plugver/plugver/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the persistent flags shared by every subcommand.
type rootFlagValues struct {
	configPath string
	verbose    bool
	logLevel   string
}

func (f *rootFlagValues) loadOptions() config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: f.configPath}
}

// newRootCommand builds the command tree around app.
func newRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "plugver",
		Short: "Generate build-time version constants from a plugin descriptor",
		Long: TitleStyle.Render("plugver") + SubtitleStyle.Render(" - plugin descriptor to build constants") + `

plugver reads the VersionName of a plugin descriptor (<Plugin>.uplugin),
splits it into major, minor and patch numbers, and emits the
<PREFIX>_MAJOR_VERSION, <PREFIX>_MINOR_VERSION, <PREFIX>_PATCH_VERSION and
<PREFIX>_VERSION_STRING constants together with a
<PREFIX>_VERSION_AT_LEAST(Major, Minor) comparison macro.

The descriptor is looked up two directories above the build module:
  Plugins/Charon/Charon.uplugin
  Plugins/Charon/Source/Charon/     <- --module-dir

` + SubtitleStyle.Render("Examples:") + `
  plugver generate -m Source/Charon -p Charon           NAME=VALUE definitions
  plugver gen -p Charon --format header -o Version.h    C header
  plugver show -p Charon                                styled summary
  plugver check -p Charon 1 4                           exit 0 when >= 1.4`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default ./plugver.cue, then the user config directory)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output and debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	rootCmd.AddCommand(newGenerateCommand(app, flags))
	rootCmd.AddCommand(newShowCommand(app, flags))
	rootCmd.AddCommand(newCheckCommand(app, flags))
	rootCmd.AddCommand(newConfigCommand(app, flags))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the status carried by an ExitError.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})

	// fang overrides rootCmd.Version, so the version goes through fang.WithVersion.
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(types.ExitFailure))
	}
}
