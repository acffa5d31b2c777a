// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/bundlekit/bundlekit/pkg/bundleinput"
	"github.com/bundlekit/bundlekit/pkg/fspath"
	"github.com/bundlekit/bundlekit/pkg/types"
)

// listRequest captures the inputs of one `bundlekit ls` run.
type listRequest struct {
	Path  string
	Root  string
	Tar   bool
	Sizes bool
	// Match holds doublestar globs; when set, only paths matching one of
	// them are printed.
	Match []string
}

func newLsCommand(app *App) *cobra.Command {
	var req listRequest

	cmd := &cobra.Command{
		Use:   "ls <path>",
		Short: "List the regular files of a bundle",
		Long: `List the regular files of a bundle directory or tar archive.

A path naming a regular file is read as a tar archive; gzip, zstd and lz4
compression is detected automatically. Entry failures are reported as they
occur and the listing continues, except for a corrupt archive, which stops it.
The exit status is 1 when any entry failed.

--match takes doublestar globs such as "docs/**/*.md" and may be repeated.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Path = args[0]
			return app.list(cmd.Context(), req)
		},
	}

	cmd.Flags().StringVar(&req.Root, "root", "", "only list files below this path inside the bundle")
	cmd.Flags().BoolVar(&req.Tar, "tar", false, "read the path as a tar archive")
	cmd.Flags().BoolVar(&req.Sizes, "sizes", false, "read every file and print its size in bytes")
	cmd.Flags().StringArrayVar(&req.Match, "match", nil, "only list paths matching this glob (repeatable)")

	return cmd
}

// openSource opens the directory or archive named by req. The returned
// release function is never nil.
func (a *App) openSource(req listRequest) (bundleinput.Input, func(), error) {
	opts := append(a.cfg.Input.SourceOptions(), bundleinput.WithLogger(a.logger))

	archive := req.Tar
	if !archive {
		if info, err := os.Stat(req.Path); err == nil && info.Mode().IsRegular() {
			archive = true
		}
	}

	if archive {
		in, err := bundleinput.OpenTar(req.Path, req.Root, opts...)
		if err != nil {
			return nil, func() {}, err
		}
		a.logger.Debug("opened archive", "path", in.Path(), "hash", in.Hash(), "compression", in.Compression())
		return in, func() { _ = in.Close() }, nil
	}

	dir := types.FilesystemPath(req.Path)
	if req.Root != "" {
		dir = fspath.Join(dir, filepath.FromSlash(req.Root))
	}
	in, err := bundleinput.OpenDir(dir.String(), opts...)
	if err != nil {
		return nil, func() {}, err
	}
	a.logger.Debug("opened directory", "root", in.Root())
	return in, func() {}, nil
}

func (a *App) list(ctx context.Context, req listRequest) error {
	if err := validatePatterns(req.Match); err != nil {
		return a.usageError(err)
	}

	in, release, err := a.openSource(req)
	defer release()
	if err != nil {
		return a.fail(err)
	}

	var listed, failed int
	for f, err := range in.Files() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if f != nil {
				_ = f.Body.Close()
			}
			return fmt.Errorf("listing canceled: %w", ctxErr)
		}
		if err != nil {
			failed++
			a.reportEntryError(err)
			if bundleinput.IsTerminal(err) {
				if is := issueFor(err); is != nil {
					a.renderIssue(is.Id())
				}
				break
			}
			continue
		}
		if !matchesPatterns(req.Match, f.Path) {
			_ = f.Body.Close()
			continue
		}
		if err := a.printFile(f, req.Sizes); err != nil {
			failed++
			a.reportEntryError(err)
			continue
		}
		listed++
	}

	a.logger.Debug("listing finished", "files", listed, "errors", failed)
	if failed > 0 {
		fmt.Fprintln(a.stderr, WarningStyle.Render(fmt.Sprintf("%d entries could not be listed", failed)))
		return &ExitError{Code: types.ExitFailure}
	}
	return nil
}

// printFile writes one listing line and closes the body.
func (a *App) printFile(f *bundleinput.File, sizes bool) error {
	defer f.Body.Close()
	if !sizes {
		fmt.Fprintln(a.stdout, f.Path)
		return nil
	}
	n, err := io.Copy(io.Discard, f.Body)
	if err != nil {
		return fmt.Errorf("reading %s: %w", f.Path, err)
	}
	fmt.Fprintf(a.stdout, "%10d  %s\n", n, f.Path)
	return nil
}

// validatePatterns checks that every pattern is a valid doublestar glob.
func validatePatterns(patterns []string) error {
	for _, pat := range patterns {
		if _, err := doublestar.Match(pat, ""); err != nil {
			return fmt.Errorf("invalid --match pattern %q: %w", pat, err)
		}
	}
	return nil
}

// matchesPatterns reports whether p matches at least one pattern. Every path
// matches when no patterns are given.
func matchesPatterns(patterns []string, p bundleinput.RelativePath) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, p.String()); err == nil && matched {
			return true
		}
	}
	return false
}
