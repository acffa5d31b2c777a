// SPDX-License-Identifier: MPL-2.0

package bundleinput

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrInvalidRelativePath is the sentinel error wrapped by InvalidRelativePathError.
	ErrInvalidRelativePath = errors.New("invalid relative path")
	// ErrInvalidContentHash is the sentinel error wrapped by InvalidContentHashError.
	ErrInvalidContentHash = errors.New("invalid content hash")
)

type (
	// RelativePath names a file within a bundle, relative to its root. It
	// always uses forward slashes and is valid UTF-8.
	RelativePath string

	// InvalidRelativePathError is returned when a RelativePath is empty,
	// absolute, or not valid UTF-8.
	InvalidRelativePathError struct {
		Value  RelativePath
		Reason string
	}

	// ContentHash is the lowercase hex encoding of a 256-bit digest of an
	// archive file's raw bytes.
	ContentHash string

	// InvalidContentHashError is returned when a ContentHash is not 64
	// lowercase hex characters.
	InvalidContentHashError struct {
		Value ContentHash
	}
)

// String returns the string representation of the RelativePath.
func (p RelativePath) String() string { return string(p) }

// Validate returns an error if the path is empty, absolute, contains a
// backslash, or is not valid UTF-8.
func (p RelativePath) Validate() error {
	switch s := string(p); {
	case s == "":
		return &InvalidRelativePathError{Value: p, Reason: "must be non-empty"}
	case !utf8.ValidString(s):
		return &InvalidRelativePathError{Value: p, Reason: "must be valid UTF-8"}
	case strings.HasPrefix(s, "/"):
		return &InvalidRelativePathError{Value: p, Reason: "must not be absolute"}
	case strings.ContainsRune(s, '\\'):
		return &InvalidRelativePathError{Value: p, Reason: "must use forward slashes"}
	}
	return nil
}

// Error implements the error interface for InvalidRelativePathError.
func (e *InvalidRelativePathError) Error() string {
	return fmt.Sprintf("invalid relative path %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidRelativePath for errors.Is() compatibility.
func (e *InvalidRelativePathError) Unwrap() error { return ErrInvalidRelativePath }

// String returns the string representation of the ContentHash.
func (h ContentHash) String() string { return string(h) }

// Validate returns an error unless the hash is 64 lowercase hex characters.
func (h ContentHash) Validate() error {
	s := string(h)
	if len(s) != 64 || strings.ToLower(s) != s {
		return &InvalidContentHashError{Value: h}
	}
	if _, err := hex.DecodeString(s); err != nil {
		return &InvalidContentHashError{Value: h}
	}
	return nil
}

// Error implements the error interface for InvalidContentHashError.
func (e *InvalidContentHashError) Error() string {
	return fmt.Sprintf("invalid content hash %q: must be 64 lowercase hex characters", e.Value)
}

// Unwrap returns ErrInvalidContentHash for errors.Is() compatibility.
func (e *InvalidContentHashError) Unwrap() error { return ErrInvalidContentHash }
