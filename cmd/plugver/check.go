// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strconv"

	"github.com/plugver/plugver/pkg/types"

	"github.com/spf13/cobra"
)

// newCheckCommand creates the `plugver check MAJOR MINOR` command.
func newCheckCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	target := &targetFlagValues{}

	cmd := &cobra.Command{
		Use:   "check MAJOR MINOR",
		Short: "Exit 0 when the plugin version is at least MAJOR.MINOR",
		Long: `Evaluate <PREFIX>_VERSION_AT_LEAST(MAJOR, MINOR) against the resolved
descriptor. The patch number is not considered.

Exit status is 0 when the version is at least MAJOR.MINOR, 1 when it is
below, and 2 on usage errors.`,
		Example: `  plugver check -p Charon 1 4 && echo "1.4 APIs available"`,
		Args:    usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			major, err := parseVersionArg("MAJOR", args[0])
			if err != nil {
				return usageError(err)
			}
			minor, err := parseVersionArg("MINOR", args[1])
			if err != nil {
				return usageError(err)
			}

			s, err := app.newSession(cmd, rootFlags)
			if err != nil {
				return err
			}
			target.apply(cmd, s.cfg)
			if err := app.validateTarget(s); err != nil {
				return err
			}

			res, err := app.generator(s).Resolve(cmd.Context(), types.FilesystemPath(s.cfg.ModuleDir), s.cfg.Plugin, s.cfg.Prefix)
			if err != nil {
				return app.targetError(s, err)
			}

			version := res.Set.Version()
			call := fmt.Sprintf("%s(%d, %d)", res.Set.Macro().Name, major, minor)
			if !res.Set.AtLeast(major, minor) {
				return &ExitError{
					Code: types.ExitFailure,
					Err:  fmt.Errorf("%s %s does not satisfy %s", s.cfg.Plugin, version.Triple(), call),
				}
			}

			fmt.Fprintf(app.stdout, "%s %s %s satisfies %s\n",
				SuccessStyle.Render("✓"), s.cfg.Plugin, version.Triple(), CmdStyle.Render(call))
			return nil
		},
	}

	target.register(cmd)
	return cmd
}

func parseVersionArg(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", name, value)
	}
	return n, nil
}
