// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/plugver/plugver/internal/config"
	"github.com/plugver/plugver/internal/generate"
	"github.com/plugver/plugver/pkg/pluginver"
	"github.com/plugver/plugver/pkg/types"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const defaultWrapWidth = 80

// newShowCommand creates the `plugver show` command.
func newShowCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	target := &targetFlagValues{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the resolved version and definitions",
		Long: `Show the resolved version and definitions.

The summary is Markdown. On a terminal it is rendered with the configured
ui.color_scheme; otherwise the raw Markdown is printed.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			return app.showResolution(s.cfg.UI.ColorScheme, res)
		},
	}

	target.register(cmd)
	return cmd
}

func (a *App) showResolution(scheme config.ColorScheme, res generate.Resolution) error {
	md, err := pluginver.RenderBytes(res.Set, pluginver.FormatMarkdown)
	if err != nil {
		return err
	}
	doc := string(md) + descriptorNote(res)

	if !isTerminal(a.stdout) {
		_, err := fmt.Fprint(a.stdout, doc)
		return err
	}

	rendered, err := renderMarkdown(doc, scheme, terminalWidth(a.stdout.(*os.File)))
	if err != nil {
		rendered = doc
	}
	_, err = fmt.Fprint(a.stdout, rendered)
	return err
}

func descriptorNote(res generate.Resolution) string {
	if res.Found {
		return fmt.Sprintf("\nDescriptor: `%s`\n", res.DescriptorPath)
	}
	return fmt.Sprintf("\nDescriptor: `%s` (not found, using %s)\n", res.DescriptorPath, pluginver.FallbackVersionText)
}

func renderMarkdown(doc string, scheme config.ColorScheme, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style := markdownStyle(scheme, true); style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return renderer.Render(doc)
}

func terminalWidth(f *os.File) int {
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWrapWidth
	}
	return width
}
