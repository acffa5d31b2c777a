// SPDX-License-Identifier: MPL-2.0

// Package testutil provides fixture builders for tests that need bundle
// directories and tar archives on disk. Helpers fail the test immediately on
// setup errors so test bodies stay focused on assertions.
package testutil
