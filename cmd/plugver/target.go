// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"

	"github.com/plugver/plugver/internal/config"
	"github.com/plugver/plugver/internal/issue"
	"github.com/plugver/plugver/pkg/pluginver"
	"github.com/plugver/plugver/pkg/types"

	"github.com/spf13/cobra"
)

// errPluginRequired is returned when no plugin name is configured anywhere.
var errPluginRequired = errors.New("plugin name is required: use --plugin, PLUGVER_PLUGIN or 'plugin' in plugver.cue")

// targetFlagValues selects the descriptor to resolve. Flags override the
// configuration only when they were set explicitly.
type targetFlagValues struct {
	moduleDir string
	plugin    string
	prefix    string
}

func (f *targetFlagValues) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.moduleDir, "module-dir", "m", config.DefaultModuleDir, "build module directory; the descriptor is <dir>/../../<plugin>.uplugin")
	cmd.Flags().StringVarP(&f.plugin, "plugin", "p", "", "plugin name, the descriptor file stem")
	cmd.Flags().StringVar(&f.prefix, "prefix", "", "macro prefix (default <PLUGIN>_PLUGIN, upper-cased)")
}

func (f *targetFlagValues) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("module-dir") {
		cfg.ModuleDir = f.moduleDir
	}
	if cmd.Flags().Changed("plugin") {
		cfg.Plugin = pluginver.PluginName(f.plugin)
	}
	if cmd.Flags().Changed("prefix") {
		cfg.Prefix = pluginver.MacroPrefix(f.prefix)
	}
}

// validateTarget checks the merged configuration before any descriptor is read.
func (a *App) validateTarget(s *session) error {
	if s.cfg.Plugin == "" {
		return a.targetError(s, errPluginRequired)
	}
	if valid, errs := s.cfg.IsValid(); !valid {
		return a.targetError(s, errs[0])
	}
	if err := types.FilesystemPath(s.cfg.ModuleDir).Validate(); err != nil {
		return a.targetError(s, err)
	}
	return nil
}

// targetError renders the catalog entry matching err, if any, and turns err
// into a usage failure.
func (a *App) targetError(s *session, err error) error {
	switch {
	case errors.Is(err, errPluginRequired), errors.Is(err, pluginver.ErrInvalidPluginName):
		a.printIssue(issue.InvalidPluginNameId, s.cfg.UI.ColorScheme)
	case errors.Is(err, pluginver.ErrInvalidFormat):
		a.printIssue(issue.InvalidFormatId, s.cfg.UI.ColorScheme)
	}
	return usageError(err)
}

// usageArgs wraps a positional argument validator so violations exit with status 2.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

func formatNames() string {
	names := make([]string, 0, len(pluginver.Formats()))
	for _, f := range pluginver.Formats() {
		names = append(names, f.String())
	}
	return strings.Join(names, ", ")
}
