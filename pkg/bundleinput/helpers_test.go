// SPDX-License-Identifier: MPL-2.0

package bundleinput

import (
	"bytes"
	"io"
	"iter"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/bundlekit/bundlekit/internal/testutil"
)

// tarItem describes one entry written by encodeTar. A zero typeflag means
// a regular file.
type tarItem struct {
	name     string
	typeflag byte
	body     string
	linkname string
}

// encodeTar builds an uncompressed tar stream from items, in order.
func encodeTar(t *testing.T, items []tarItem) []byte {
	t.Helper()

	entries := make([]testutil.TarEntry, len(items))
	for i, it := range items {
		entries[i] = testutil.TarEntry{Name: it.name, Typeflag: it.typeflag, Body: it.body, Linkname: it.linkname}
	}
	return testutil.EncodeTar(t, entries)
}

// compressBytes wraps data in the given framing.
func compressBytes(t *testing.T, data []byte, c Compression) []byte {
	t.Helper()

	var buf bytes.Buffer
	var w io.WriteCloser
	switch c {
	case CompressionNone:
		return data
	case CompressionGzip:
		w = gzip.NewWriter(&buf)
	case CompressionZstd:
		zw, err := zstd.NewWriter(&buf)
		if err != nil {
			t.Fatalf("zstd writer: %v", err)
		}
		w = zw
	case CompressionLZ4:
		w = lz4.NewWriter(&buf)
	default:
		t.Fatalf("unknown compression %q", c)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("compress: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close compressor: %v", err)
	}
	return buf.Bytes()
}

// writeFile writes data to dir/name and returns the full path.
func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	return testutil.WriteFile(t, dir, name, data)
}

// writeTar encodes items and writes them to dir/name.
func writeTar(t *testing.T, dir, name string, items []tarItem) string {
	t.Helper()
	return writeFile(t, dir, name, encodeTar(t, items))
}

// writeTree creates files (slash-separated relative path -> content) under root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	testutil.WriteTree(t, root, files)
}

// drain reads every file of seq, closing each body, and returns contents by
// path together with the failed elements in order.
func drain(t *testing.T, seq iter.Seq2[*File, error]) (map[string]string, []error) {
	t.Helper()

	got := make(map[string]string)
	var errs []error
	for f, err := range seq {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		data, readErr := io.ReadAll(f.Body)
		if readErr != nil {
			t.Fatalf("read %s: %v", f.Path, readErr)
		}
		if closeErr := f.Body.Close(); closeErr != nil {
			t.Fatalf("close %s: %v", f.Path, closeErr)
		}
		if _, dup := got[string(f.Path)]; dup {
			t.Errorf("duplicate path %q", f.Path)
		}
		got[string(f.Path)] = string(data)
	}
	return got, errs
}
