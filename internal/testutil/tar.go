// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"archive/tar"
	"bytes"
	"io"
	"testing"
)

// TarEntry describes one archive member. A zero Typeflag means a regular file.
type TarEntry struct {
	Name     string
	Typeflag byte
	Body     string
	Linkname string
}

// RegularFiles builds regular-file entries from alternating name, body pairs.
func RegularFiles(pairs ...string) []TarEntry {
	entries := make([]TarEntry, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		entries = append(entries, TarEntry{Name: pairs[i], Body: pairs[i+1]})
	}
	return entries
}

// EncodeTar builds an uncompressed tar stream from entries, in order.
func EncodeTar(t testing.TB, entries []TarEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, e := range entries {
		hdr := &tar.Header{
			Name:     e.Name,
			Typeflag: e.Typeflag,
			Linkname: e.Linkname,
			Mode:     0o644,
		}
		if hdr.Typeflag == 0 {
			hdr.Typeflag = tar.TypeReg
		}
		switch hdr.Typeflag {
		case tar.TypeReg:
			hdr.Size = int64(len(e.Body))
		case tar.TypeDir:
			hdr.Mode = 0o755
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("failed to write header %q: %v", e.Name, err)
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := io.WriteString(tw, e.Body); err != nil {
				t.Fatalf("failed to write body %q: %v", e.Name, err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("failed to close tar writer: %v", err)
	}
	return buf.Bytes()
}

// WriteTar encodes entries to dir/name and returns the full path.
func WriteTar(t testing.TB, dir, name string, entries []TarEntry) string {
	t.Helper()
	return WriteFile(t, dir, name, EncodeTar(t, entries))
}
