// SPDX-License-Identifier: MPL-2.0

// Package config loads bundlekit settings using Viper with CUE as the file
// format.
//
// Settings come from, in order of precedence: BUNDLEKIT_* environment
// variables, an explicit --config file, $XDG_CONFIG_HOME/bundlekit/config.cue
// (platform equivalent on macOS and Windows), ./config.cue, and built-in
// defaults. Files are validated against the embedded config_schema.cue before
// they are merged.
package config
