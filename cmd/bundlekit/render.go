// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bundlekit/bundlekit/internal/config"
	"github.com/bundlekit/bundlekit/internal/issue"
	"github.com/bundlekit/bundlekit/pkg/bundleinput"
	"github.com/bundlekit/bundlekit/pkg/types"
)

// issueKinds maps failure kinds to the catalog entry explaining them.
var issueKinds = []struct {
	kind error
	id   issue.Id
}{
	{bundleinput.ErrPathResolution, issue.BundleRootNotFoundId},
	{bundleinput.ErrArchiveDecode, issue.ArchiveCorruptId},
	{bundleinput.ErrPathEscape, issue.PathEscapeId},
	{bundleinput.ErrNonUTF8Path, issue.InvalidEntryPathId},
	{bundleinput.ErrInvalidArchivePath, issue.InvalidEntryPathId},
	{bundleinput.ErrIO, issue.ArchiveUnreadableId},
}

// formatErrorForDisplay formats an error for user display. Actionable errors
// include their suggestions; verbose mode adds the full cause chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	if !verbose {
		return err.Error()
	}
	var sb strings.Builder
	sb.WriteString(err.Error())
	if chain := issue.Chain(err); len(chain) > 1 {
		sb.WriteString("\n\nError chain:")
		for i, link := range chain {
			fmt.Fprintf(&sb, "\n  %d. %s", i+1, link)
		}
	}
	return sb.String()
}

// issueFor returns the catalog entry for err, or nil.
func issueFor(err error) *issue.Issue {
	for _, k := range issueKinds {
		if errors.Is(err, k.kind) {
			return issue.Get(k.id)
		}
	}
	return nil
}

// glamourStyle picks the markdown style for w. Writers that are not files,
// such as test buffers, get plain output.
func (a *App) glamourStyle(w io.Writer) string {
	if _, ok := w.(*os.File); !ok {
		return "notty"
	}
	switch a.cfg.UI.ColorScheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}

// renderIssue writes the catalog entry for id to stderr.
func (a *App) renderIssue(id issue.Id) {
	rendered, err := issue.Get(id).Render(a.glamourStyle(a.stderr))
	if err != nil {
		a.logger.Debug("render issue", "id", id, "err", err)
		return
	}
	fmt.Fprint(a.stderr, rendered)
}

// fail reports an error that stopped a command before it produced output and
// returns the exit error for it.
func (a *App) fail(err error) error {
	if is := issueFor(err); is != nil {
		a.renderIssue(is.Id())
	}
	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, a.verbose))
	return &ExitError{Code: types.ExitFailure}
}

// usageError reports invalid flags or arguments and returns the usage exit
// code.
func (a *App) usageError(err error) error {
	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+err.Error())
	return &ExitError{Code: types.ExitUsage}
}

// reportEntryError writes one per-entry failure to stderr.
func (a *App) reportEntryError(err error) {
	fmt.Fprintln(a.stderr, ErrorStyle.Render("error")+" "+err.Error())
	if !a.verbose {
		return
	}
	for _, link := range issue.Chain(err)[1:] {
		fmt.Fprintln(a.stderr, SubtitleStyle.Render("  caused by: "+link))
	}
}
