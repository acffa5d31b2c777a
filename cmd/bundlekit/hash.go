// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bundlekit/bundlekit/pkg/bundleinput"
)

// maxConcurrentHashes bounds how many archives are read at once.
const maxConcurrentHashes = 4

func newHashCommand(app *App) *cobra.Command {
	var digest string

	cmd := &cobra.Command{
		Use:   "hash <archive>...",
		Short: "Print the content hash of tar archives",
		Long: `Print the content hash of each archive, computed over the raw file bytes
(compressed archives are hashed as stored). Output matches sha256sum and keeps
the argument order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := append(app.cfg.Input.SourceOptions(), bundleinput.WithLogger(app.logger))
			if digest != "" {
				d := bundleinput.Digest(digest)
				if err := d.Validate(); err != nil {
					return app.usageError(fmt.Errorf("--digest: %w", err))
				}
				opts = append(opts, bundleinput.WithDigest(d))
			}
			return app.hash(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVar(&digest, "digest", "", "hash algorithm: sha256 or blake3 (default from config)")

	return cmd
}

// hash opens every archive concurrently and prints the hashes in argument
// order once all of them are known.
func (a *App) hash(ctx context.Context, paths []string, opts []bundleinput.Option) error {
	hashes := make([]bundleinput.ContentHash, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentHashes)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			in, err := bundleinput.OpenTar(path, "", opts...)
			if err != nil {
				return err
			}
			hashes[i] = in.Hash()
			if err := in.Close(); err != nil {
				a.logger.Warn("close archive", "path", path, "err", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return a.fail(err)
	}

	for i, path := range paths {
		fmt.Fprintf(a.stdout, "%s  %s\n", hashes[i], path)
	}
	return nil
}
