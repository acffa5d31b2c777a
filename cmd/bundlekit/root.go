// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/bundlekit/bundlekit/internal/config"
	"github.com/bundlekit/bundlekit/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the bundlekit command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	var (
		verbose bool
		cfgFile string
	)

	root := &cobra.Command{
		Use:   "bundlekit",
		Short: "Inspect bundle directories and tar archives",
		Long: TitleStyle.Render("bundlekit") + SubtitleStyle.Render(" - inspect bundle directories and tar archives") + `

A bundle is a directory tree or a tar archive (plain, gzip, zstd or lz4)
whose regular files are read through one uniform, streaming view.

` + SubtitleStyle.Render("Examples:") + `
  bundlekit ls ./site                 List files under a directory
  bundlekit ls site.tar.gz --root public
                                      List files under public/ in an archive
  bundlekit hash site.tar             Print the archive's content hash
  bundlekit config show               Show the effective configuration`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app.configPath = cfgFile
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{
				ConfigFilePath: types.FilesystemPath(cfgFile),
			})
			if err != nil {
				fmt.Fprintln(app.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
				cfg = config.DefaultConfig()
			}
			app.configure(cfg, verbose)
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging and full error chains")
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/bundlekit/config.cue)")

	root.AddCommand(newLsCommand(app))
	root.AddCommand(newHashCommand(app))
	root.AddCommand(newConfigCommand(app))

	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits the process with the command's exit code.
func Execute() {
	os.Exit(Run())
}

// Run executes the CLI against the process arguments and returns the exit
// code instead of exiting.
func Run() int {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return int(exitErr.Code)
		}
		return int(types.ExitFailure)
	}
	return int(types.ExitSuccess)
}
