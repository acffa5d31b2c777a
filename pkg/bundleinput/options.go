// SPDX-License-Identifier: MPL-2.0

package bundleinput

import (
	"io"

	"github.com/charmbracelet/log"
)

type (
	// Option configures a bundle source.
	Option func(*options)

	options struct {
		logger     *log.Logger
		digest     Digest
		skipHidden bool
	}
)

// WithLogger sets the logger used for progress and skip diagnostics.
// Sources log nothing by default.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDigest selects the content hash algorithm for archive sources.
// Ignored by directory sources.
func WithDigest(d Digest) Option {
	return func(o *options) { o.digest = d }
}

// WithSkipHidden makes directory sources skip files and directories whose
// name starts with a dot. Ignored by archive sources.
func WithSkipHidden(skip bool) Option {
	return func(o *options) { o.skipHidden = skip }
}

func newOptions(opts []Option) options {
	o := options{
		logger: log.New(io.Discard),
		digest: DigestSHA256,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
