// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"

	"github.com/bundlekit/bundlekit/pkg/bundleinput"
)

const (
	// ColorSchemeAuto detects the terminal background.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark styles.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light styles.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidInputConfig is the sentinel error wrapped by InvalidInputConfigError.
	ErrInvalidInputConfig = errors.New("invalid input config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme selects the terminal palette for rendered output.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// Config holds the application configuration.
	Config struct {
		// Input configures how bundle sources are opened.
		Input InputConfig `json:"input" mapstructure:"input"`
		// UI configures terminal output.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// InputConfig configures bundle sources.
	InputConfig struct {
		// Digest is the archive content hash algorithm.
		Digest bundleinput.Digest `json:"digest" mapstructure:"digest"`
		// SkipHidden skips dot-files in directory sources.
		SkipHidden bool `json:"skip_hidden" mapstructure:"skip_hidden"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		// Verbose enables debug logging and full error chains.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// ColorScheme selects the palette for rendered issues.
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
	}

	// InvalidInputConfigError collects field errors of an InputConfig.
	InvalidInputConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError collects field errors of a UIConfig.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError collects field errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Digest:     bundleinput.DigestSHA256,
			SkipHidden: false,
		},
		UI: UIConfig{
			Verbose:     false,
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// SourceOptions translates the input settings into bundle source options.
func (c InputConfig) SourceOptions() []bundleinput.Option {
	return []bundleinput.Option{
		bundleinput.WithDigest(c.Digest),
		bundleinput.WithSkipHidden(c.SkipHidden),
	}
}

// IsValid reports whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Input.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// IsValid reports whether the InputConfig has a known digest.
func (c InputConfig) IsValid() (bool, []error) {
	if err := c.Digest.Validate(); err != nil {
		return false, []error{&InvalidInputConfigError{FieldErrors: []error{err}}}
	}
	return true, nil
}

// IsValid reports whether the UIConfig has a known color scheme.
func (c UIConfig) IsValid() (bool, []error) {
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		return false, []error{&InvalidUIConfigError{FieldErrors: fieldErrs}}
	}
	return true, nil
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined schemes.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Error implements the error interface for InvalidInputConfigError.
func (e *InvalidInputConfigError) Error() string {
	return fmt.Sprintf("invalid input config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns the sentinel and the field errors for errors.Is() compatibility.
func (e *InvalidInputConfigError) Unwrap() []error {
	return append([]error{ErrInvalidInputConfig}, e.FieldErrors...)
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns the sentinel and the field errors for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() []error {
	return append([]error{ErrInvalidUIConfig}, e.FieldErrors...)
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns the sentinel and the field errors for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
