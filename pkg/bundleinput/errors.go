// SPDX-License-Identifier: MPL-2.0

package bundleinput

import (
	"errors"
	"fmt"

	"github.com/bundlekit/bundlekit/internal/issue"
)

// Failure kinds. Every error produced by this package wraps exactly one of
// these, so callers classify with errors.Is.
var (
	// ErrPathResolution means the source path is missing or cannot be
	// resolved. Returned by OpenDir and OpenTar only.
	ErrPathResolution = errors.New("path resolution failed")
	// ErrPathEscape means a file's canonical path is not under the
	// directory root.
	ErrPathEscape = errors.New("path escapes bundle root")
	// ErrInvalidArchivePath means an archive entry's declared name could not
	// be decoded.
	ErrInvalidArchivePath = errors.New("invalid archive entry path")
	// ErrNonUTF8Path means a relative path is not valid UTF-8.
	ErrNonUTF8Path = errors.New("path is not valid UTF-8")
	// ErrIO means a stat, open, or read failed.
	ErrIO = errors.New("i/o failure")
	// ErrArchiveDecode means the archive framing is corrupt. It ends the
	// enumeration pass.
	ErrArchiveDecode = errors.New("archive decode failure")
	// ErrNotRestartable is yielded when Files is called again on an archive
	// source. Archive sources support exactly one pass.
	ErrNotRestartable = errors.New("archive source already iterated")
	// ErrEntryExpired is returned by an archive body read after the
	// sequence has moved past its entry.
	ErrEntryExpired = errors.New("archive entry no longer readable")
)

// EntryError describes a failure tied to one entry of a bundle source.
type EntryError struct {
	// Kind is one of the package's failure sentinels.
	Kind error
	// Path is the entry's path as far as it was known: the native path for
	// directory sources, the declared name for archive entries. May be empty
	// when the failure precedes any header.
	Path string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *EntryError) Error() string {
	msg := e.Kind.Error()
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *EntryError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// IsTerminal reports whether err ends the enumeration pass. Callers should
// stop pulling after a terminal error; the sequence will not yield more.
func IsTerminal(err error) bool {
	return errors.Is(err, ErrArchiveDecode) ||
		errors.Is(err, ErrPathResolution) ||
		errors.Is(err, ErrNotRestartable)
}

func entryError(kind error, path string, cause error) error {
	return &EntryError{Kind: kind, Path: path, Err: cause}
}

// openError wraps an open-time failure with operation context so the CLI can
// render it with suggestions and the full cause chain.
func openError(operation, resource string, kind, cause error) error {
	ctx := issue.NewErrorContext().
		WithOperation(operation).
		WithResource(resource).
		Wrap(fmt.Errorf("%w: %w", kind, cause))

	switch kind {
	case ErrPathResolution:
		ctx.WithSuggestions(
			"Check that the path exists and every symlink along it resolves",
			"Use an absolute path if the working directory is uncertain",
		)
	case ErrArchiveDecode:
		ctx.WithSuggestion("Verify the archive with 'tar -tf' or re-create it")
	case ErrIO:
		ctx.WithSuggestion("Check file permissions")
	}

	return ctx.BuildError()
}
