// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the bundlekit CLI commands.
//
// The command tree is built by NewRootCommand from an App, which carries the
// configuration provider and output streams so tests can run commands
// against buffers. Execute runs the tree through fang for styled help and
// error output.
package cmd
