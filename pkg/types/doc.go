// SPDX-License-Identifier: MPL-2.0

// Package types holds small validated value types shared across bundlekit
// packages. Each type follows the same shape: a named primitive, a sentinel
// error, and a typed error that unwraps to the sentinel.
package types
