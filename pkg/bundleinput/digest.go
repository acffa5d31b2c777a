// SPDX-License-Identifier: MPL-2.0

package bundleinput

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"

	"github.com/zeebo/blake3"
)

const (
	// DigestSHA256 hashes archives with SHA-256. This is the default.
	DigestSHA256 Digest = "sha256"
	// DigestBLAKE3 hashes archives with 256-bit BLAKE3.
	DigestBLAKE3 Digest = "blake3"
)

// ErrInvalidDigest is the sentinel error wrapped by InvalidDigestError.
var ErrInvalidDigest = errors.New("invalid digest")

type (
	// Digest names the algorithm used to compute an archive's ContentHash.
	Digest string

	// InvalidDigestError is returned when a Digest value is not recognized.
	InvalidDigestError struct {
		Value Digest
	}
)

// Error implements the error interface.
func (e *InvalidDigestError) Error() string {
	return fmt.Sprintf("invalid digest %q (valid: %s, %s)", e.Value, DigestSHA256, DigestBLAKE3)
}

// Unwrap returns ErrInvalidDigest for errors.Is() compatibility.
func (e *InvalidDigestError) Unwrap() error { return ErrInvalidDigest }

// Validate returns an error if the Digest is not one of the defined algorithms.
func (d Digest) Validate() error {
	switch d {
	case DigestSHA256, DigestBLAKE3:
		return nil
	default:
		return &InvalidDigestError{Value: d}
	}
}

// String returns the string representation of the Digest.
func (d Digest) String() string { return string(d) }

func (d Digest) newHash() hash.Hash {
	if d == DigestBLAKE3 {
		return blake3.New()
	}
	return sha256.New()
}

// hashReader streams r through the digest and returns the hex sum.
func hashReader(r io.Reader, d Digest) (ContentHash, error) {
	h := d.newHash()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return ContentHash(hex.EncodeToString(h.Sum(nil))), nil
}
