// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/bundlekit/bundlekit/internal/issue"
	"github.com/bundlekit/bundlekit/pkg/cueutil"
	"github.com/bundlekit/bundlekit/pkg/fspath"
	"github.com/bundlekit/bundlekit/pkg/types"
)

const (
	// AppName is the application name.
	AppName = "bundlekit"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment variable overrides, e.g. BUNDLEKIT_INPUT_DIGEST.
	EnvPrefix = "BUNDLEKIT"
)

//go:embed config_schema.cue
var configSchema []byte

// ConfigDir returns the bundlekit configuration directory: %APPDATA% on
// Windows, ~/Library/Application Support on macOS, $XDG_CONFIG_HOME
// (defaulting to ~/.config) elsewhere.
//
//nolint:revive // ConfigDir reads better than Dir at call sites
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, "Library", "Application Support")
	default:
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			base = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(base, AppName), nil
}

// FilePath returns the path of the user config file inside ConfigDir.
func FilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// loadWithOptions resolves, validates, and decodes configuration. The
// returned path is the file that was loaded, or "" when only defaults and
// environment overrides apply.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, "", err
	}

	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault("input.digest", defaults.Input.Digest.String())
	v.SetDefault("input.skip_hidden", defaults.Input.SkipHidden)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme.String())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := resolveFile(opts)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Run 'bundlekit config show' to see the expected fields").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// The schema covers files; environment overrides are checked here.
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Check " + EnvPrefix + "_* environment variables").
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, path, nil
}

// resolveFile picks the config file to load. An explicit path must exist;
// the user and working-directory files are optional.
func resolveFile(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		p := opts.ConfigFilePath.String()
		if !fileExists(p) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(p).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'bundlekit config init' to create a default configuration").
				Wrap(fmt.Errorf("config file not found: %s", p)).
				BuildError()
		}
		return p, nil
	}

	dir := opts.ConfigDirPath
	if dir == "" {
		d, err := ConfigDir()
		if err != nil {
			return "", err
		}
		dir = types.FilesystemPath(d)
	}
	name := ConfigFileName + "." + ConfigFileExt
	if p := fspath.Join(dir, name).String(); fileExists(p) {
		return p, nil
	}

	base := opts.BaseDir
	if base == "" {
		base = "."
	}
	if p := fspath.Join(base, name).String(); fileExists(p) {
		return p, nil
	}
	return "", nil
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into v.
// Fields are optional, so the file decodes into a map rather than a Config.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	res, err := cueutil.ParseAndDecode[map[string]any](
		configSchema, data, "#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(*res.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default configuration to FilePath unless a
// file is already there. It reports the path and whether it wrote the file.
func CreateDefaultConfig() (string, bool, error) {
	path, err := FilePath()
	if err != nil {
		return "", false, err
	}
	if fileExists(path) {
		return path, false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}
	return path, true, nil
}

// GenerateCUE renders cfg as a CUE document accepted by the schema.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// bundlekit configuration\n\n")

	sb.WriteString("input: {\n")
	fmt.Fprintf(&sb, "\tdigest:      %q\n", cfg.Input.Digest)
	fmt.Fprintf(&sb, "\tskip_hidden: %v\n", cfg.Input.SkipHidden)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose:      %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	sb.WriteString("}\n")

	return sb.String()
}
