// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError wraps a lower-level failure together with the operation that
// was attempted and the resource involved, and renders the full cause chain for
// diagnostics. The Issue catalog adds Markdown guidance for the failure classes
// a bundle source can report.
package issue
