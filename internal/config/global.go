// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride replaces ConfigDir's platform lookup when set.
// os.UserHomeDir does not honor HOME on every platform, so tests use this.
var configDirOverride string

// SetConfigDirOverride makes ConfigDir return dir.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset clears overrides set by SetConfigDirOverride.
func Reset() {
	configDirOverride = ""
}
