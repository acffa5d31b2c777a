// SPDX-License-Identifier: MPL-2.0

package bundleinput

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

const (
	// CompressionNone is a plain tar stream.
	CompressionNone Compression = "none"
	// CompressionGzip is a gzip-wrapped tar stream (.tar.gz, .tgz).
	CompressionGzip Compression = "gzip"
	// CompressionZstd is a zstd-wrapped tar stream (.tar.zst).
	CompressionZstd Compression = "zstd"
	// CompressionLZ4 is an lz4-frame-wrapped tar stream (.tar.lz4).
	CompressionLZ4 Compression = "lz4"
)

// Compression identifies the outer framing of an archive file, detected from
// its leading magic bytes.
type Compression string

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// sniffCompression peeks at the head of br without consuming it.
func sniffCompression(br *bufio.Reader) (Compression, error) {
	head, err := br.Peek(4)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	switch {
	case bytes.HasPrefix(head, zstdMagic):
		return CompressionZstd, nil
	case bytes.HasPrefix(head, lz4Magic):
		return CompressionLZ4, nil
	case bytes.HasPrefix(head, gzipMagic):
		return CompressionGzip, nil
	default:
		return CompressionNone, nil
	}
}

// decompressor returns a reader yielding the tar stream inside r and a
// function releasing decoder resources. The release function is never nil.
func decompressor(r io.Reader) (io.Reader, Compression, func(), error) {
	br := bufio.NewReader(r)
	c, err := sniffCompression(br)
	if err != nil {
		return nil, "", nil, err
	}

	switch c {
	case CompressionGzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, c, nil, fmt.Errorf("gzip header: %w", err)
		}
		return zr, c, func() { _ = zr.Close() }, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, c, nil, fmt.Errorf("zstd header: %w", err)
		}
		return zr, c, zr.Close, nil
	case CompressionLZ4:
		return lz4.NewReader(br), c, func() {}, nil
	default:
		return br, c, func() {}, nil
	}
}
