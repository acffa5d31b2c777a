// SPDX-License-Identifier: MPL-2.0

package bundleinput

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/bundlekit/bundlekit/pkg/fspath"
	"github.com/bundlekit/bundlekit/pkg/types"
)

var errEmptyName = errors.New("empty entry name")

type (
	// TarInput enumerates the regular files of a tar archive, optionally
	// compressed and optionally scoped to a root inside the archive.
	//
	// A TarInput supports a single pass. Bodies it yields borrow the archive's
	// read cursor, so at most one is readable at a time.
	TarInput struct {
		path        types.FilesystemPath
		root        string
		file        *os.File
		tr          *tar.Reader
		release     func()
		hash        ContentHash
		compression Compression
		state       State
		logger      *log.Logger

		// cursor counts headers read so far. A body stays readable only
		// while cursor equals the value it was created with.
		cursor uint64
	}

	tarEntry struct {
		hdr      *tar.Header
		name     string
		insecure bool
	}

	// entryBody is the borrowed reader handed out for one archive entry.
	entryBody struct {
		src    *TarInput
		name   string
		cursor uint64
		closed bool
	}
)

var _ Input = (*TarInput)(nil)

// OpenTar opens the archive at path, computes its content hash, and prepares
// it for enumeration. When root is non-empty only entries below root are
// produced, with root stripped from their paths.
//
// Root matching works on whole slash-separated components of the declared
// names. Empty and "." components are dropped from names and root alike, so
// "sub//b.txt" and "/sub/./b.txt" both yield "b.txt" under root "sub". There
// is no other canonicalization: entries are never written to disk, so ".."
// components are passed through rather than rejected.
func OpenTar(path, root string, opts ...Option) (*TarInput, error) {
	o := newOptions(opts)
	if err := o.digest.Validate(); err != nil {
		return nil, err
	}
	if !utf8.ValidString(root) {
		return nil, openError("open bundle archive", path, ErrNonUTF8Path, fmt.Errorf("root %q", root))
	}

	canon, err := fspath.Canonicalize(types.FilesystemPath(path))
	if err != nil {
		return nil, openError("open bundle archive", path, ErrPathResolution, err)
	}
	info, err := os.Stat(string(canon))
	if err != nil {
		return nil, openError("open bundle archive", path, ErrPathResolution, err)
	}
	if !info.Mode().IsRegular() {
		return nil, openError("open bundle archive", path, ErrPathResolution, fmt.Errorf("%s is not a regular file", canon))
	}

	f, err := os.Open(string(canon))
	if err != nil {
		return nil, openError("open bundle archive", path, ErrIO, err)
	}

	in := &TarInput{
		path:   canon,
		root:   normalizeRoot(root),
		file:   f,
		logger: o.logger,
	}
	if err := in.prepare(o.digest); err != nil {
		in.state = StateFailed
		_ = f.Close()
		return nil, err
	}
	return in, nil
}

// prepare hashes the whole file, rewinds it, and sets up the decoder chain.
func (in *TarInput) prepare(d Digest) error {
	in.state = StateHashing
	in.logger.Info("computing hash", "path", in.path, "digest", d)

	hash, err := hashReader(in.file, d)
	if err != nil {
		return openError("hash bundle archive", string(in.path), ErrIO, err)
	}
	if _, err := in.file.Seek(0, io.SeekStart); err != nil {
		return openError("rewind bundle archive", string(in.path), ErrIO, err)
	}

	body, c, release, err := decompressor(in.file)
	if err != nil {
		return openError("open bundle archive", string(in.path), ErrArchiveDecode, err)
	}

	in.hash = hash
	in.compression = c
	in.release = release
	in.tr = tar.NewReader(body)
	in.state = StateReady
	in.logger.Debug("archive ready", "path", in.path, "hash", hash, "compression", c)
	return nil
}

// Path returns the canonical path of the archive file.
func (in *TarInput) Path() types.FilesystemPath { return in.path }

// Root returns the normalized root scope, or "" for the whole archive.
func (in *TarInput) Root() string { return in.root }

// Hash returns the content hash computed when the archive was opened.
func (in *TarInput) Hash() ContentHash { return in.hash }

// Compression returns the detected outer compression.
func (in *TarInput) Compression() Compression { return in.compression }

// State returns the current lifecycle state.
func (in *TarInput) State() State { return in.state }

// Close releases the archive file. It is called automatically when the
// enumeration pass ends and is safe to call more than once.
func (in *TarInput) Close() error {
	if in.file == nil {
		return nil
	}
	if !in.state.done() {
		in.state = StateClosed
	}
	in.release()
	err := in.file.Close()
	in.file = nil
	if err != nil {
		return fmt.Errorf("closing %s: %w", in.path, err)
	}
	return nil
}

// Files enumerates the archive in physical order. Only the first call does
// any work; later calls yield a single ErrNotRestartable error.
//
// A framing failure is yielded as ErrArchiveDecode and ends the sequence.
// Other failures affect only their entry.
func (in *TarInput) Files() iter.Seq2[*File, error] {
	return func(yield func(*File, error) bool) {
		if in.state != StateReady {
			yield(nil, entryError(ErrNotRestartable, string(in.path), fmt.Errorf("source is %s", in.state)))
			return
		}
		in.state = StateIterating
		defer func() {
			if err := in.Close(); err != nil {
				in.logger.Warn("release archive", "err", err)
			}
		}()

		regular := keep(in.headers(), in.isRegular)
		named := convert(regular, decodeName)
		scoped := keep(named, in.inRoot)
		for f, err := range convert(scoped, in.open) {
			if !yield(f, err) {
				return
			}
		}
	}
}

// headers decodes entry headers until the end of the archive or the first
// framing error.
func (in *TarInput) headers() iter.Seq2[tarEntry, error] {
	return func(yield func(tarEntry, error) bool) {
		for in.state == StateIterating {
			in.cursor++
			hdr, err := in.tr.Next()
			switch {
			case err == io.EOF:
				in.state = StateExhausted
				return
			case errors.Is(err, tar.ErrInsecurePath) && hdr != nil:
				if !yield(tarEntry{hdr: hdr, insecure: true}, nil) {
					return
				}
			case err != nil:
				in.state = StateFailed
				yield(tarEntry{}, entryError(ErrArchiveDecode, string(in.path), err))
				return
			default:
				if !yield(tarEntry{hdr: hdr}, nil) {
					return
				}
			}
		}
	}
}

func (in *TarInput) isRegular(e tarEntry) bool {
	if e.hdr.Typeflag == tar.TypeReg {
		return true
	}
	in.logger.Debug("skipping non-regular entry", "name", e.hdr.Name, "type", string(e.hdr.Typeflag))
	return false
}

// decodeName extracts the declared entry name and normalizes it by
// component: empty and "." components are dropped, ".." is kept.
func decodeName(e tarEntry) (tarEntry, error) {
	raw := e.hdr.Name
	if e.insecure {
		return e, entryError(ErrInvalidArchivePath, raw, tar.ErrInsecurePath)
	}
	if strings.ContainsRune(raw, 0) {
		return e, entryError(ErrInvalidArchivePath, raw, errors.New("name contains NUL"))
	}
	e.name = cleanComponents(raw)
	if e.name == "" {
		return e, entryError(ErrInvalidArchivePath, raw, errEmptyName)
	}
	return e, nil
}

func (in *TarInput) inRoot(e tarEntry) bool {
	if in.root == "" || strings.HasPrefix(e.name, in.root+"/") {
		return true
	}
	in.logger.Debug("skipping entry outside root", "name", e.name, "root", in.root)
	return false
}

func (in *TarInput) open(e tarEntry) (*File, error) {
	rel := e.name
	if in.root != "" {
		rel = strings.TrimPrefix(rel, in.root+"/")
	}
	if !utf8.ValidString(rel) {
		return nil, entryError(ErrNonUTF8Path, e.hdr.Name, nil)
	}
	return &File{
		Path: RelativePath(rel),
		Body: &entryBody{src: in, name: e.hdr.Name, cursor: in.cursor},
	}, nil
}

// normalizeRoot cleans root the same way entry names are cleaned. "", "."
// and "/" mean the whole archive.
func normalizeRoot(root string) string {
	return cleanComponents(root)
}

// cleanComponents drops empty and "." components from a slash-separated
// path, so leading, doubled and trailing slashes disappear.
func cleanComponents(name string) string {
	parts := strings.Split(name, "/")
	kept := parts[:0]
	for _, p := range parts {
		if p == "" || p == "." {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, "/")
}

// Read reads from the archive cursor while this entry is current.
func (b *entryBody) Read(p []byte) (int, error) {
	if b.closed {
		return 0, fs.ErrClosed
	}
	if b.src.state != StateIterating || b.src.cursor != b.cursor {
		return 0, ErrEntryExpired
	}
	n, err := b.src.tr.Read(p)
	if err != nil && err != io.EOF {
		return n, entryError(ErrIO, b.name, err)
	}
	return n, err
}

// Close ends the borrow. Unread data is skipped when the next entry is pulled.
func (b *entryBody) Close() error {
	b.closed = true
	return nil
}
