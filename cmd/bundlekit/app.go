// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/bundlekit/bundlekit/internal/config"
)

type (
	// App wires CLI services and shared state. Command handlers receive an
	// App and write only to its streams.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer

		// Set by the root command before any subcommand runs.
		cfg        *config.Config
		configPath string
		verbose    bool
		logger     *log.Logger
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	return &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
		cfg:    config.DefaultConfig(),
		logger: newLogger(deps.Stderr, false),
	}
}

// newLogger builds the stderr logger handed to bundle sources. Only warnings
// show unless verbose is set.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "bundlekit",
		Level:  level,
	})
}

// configure applies loaded settings. A --verbose flag wins over the config.
func (a *App) configure(cfg *config.Config, verboseFlag bool) {
	a.cfg = cfg
	a.verbose = verboseFlag || cfg.UI.Verbose
	a.logger = newLogger(a.stderr, a.verbose)
}
