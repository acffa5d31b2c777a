// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bundlekit/bundlekit/internal/config"
	"github.com/bundlekit/bundlekit/internal/issue"
	"github.com/bundlekit/bundlekit/pkg/types"
)

// newConfigCommand creates the `bundlekit config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage bundlekit configuration",
		Long: `Manage bundlekit configuration.

Configuration is stored in:
  - Linux: $XDG_CONFIG_HOME/bundlekit/config.cue (default ~/.config)
  - macOS: ~/Library/Application Support/bundlekit/config.cue
  - Windows: %APPDATA%\bundlekit\config.cue

A config.cue in the working directory is used when no user file exists.
BUNDLEKIT_INPUT_DIGEST style environment variables override both.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.showConfig(cmd.Context())
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, created, err := config.CreateDefaultConfig()
			if err != nil {
				return app.fail(issue.WrapWithContext(err, "create default config file", path))
			}
			if created {
				fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Created"), KeyStyle.Render(path))
			} else {
				fmt.Fprintf(app.stdout, "%s %s\n", SubtitleStyle.Render("Already exists:"), KeyStyle.Render(path))
			}
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.FilePath()
			if err != nil {
				return app.fail(issue.WrapWithContext(err, "locate config file", ""))
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	return cfgCmd
}

func (a *App) showConfig(ctx context.Context) error {
	cfg, path, err := config.Resolve(ctx, config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(a.configPath),
	})
	if err != nil {
		a.renderIssue(issue.ConfigLoadFailedId)
		fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, a.verbose))
		return &ExitError{Code: types.ExitFailure}
	}

	source := SubtitleStyle.Render("(using defaults)")
	if path != "" {
		source = KeyStyle.Render(path)
	}
	fmt.Fprintf(a.stdout, "// %s %s\n", TitleStyle.Render("Config file:"), source)
	fmt.Fprint(a.stdout, config.GenerateCUE(cfg))
	return nil
}
