// SPDX-License-Identifier: MPL-2.0

package bundleinput

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/bundlekit/bundlekit/pkg/fspath"
	"github.com/bundlekit/bundlekit/pkg/types"
)

type (
	// DirInput enumerates the regular files below a directory root.
	//
	// Each call to Files performs a fresh walk, so a DirInput can be
	// enumerated any number of times. Bodies are independent *os.File
	// handles owned by the caller.
	DirInput struct {
		root       types.FilesystemPath
		skipHidden bool
		logger     *log.Logger
	}

	// dirEntry is a walked path with its resolved file type.
	dirEntry struct {
		path types.FilesystemPath
		mode fs.FileMode
	}
)

var _ Input = (*DirInput)(nil)

// OpenDir resolves path to its canonical absolute form and returns a source
// rooted there. It fails with ErrPathResolution when the path does not exist,
// cannot be resolved, or is not a directory.
func OpenDir(path string, opts ...Option) (*DirInput, error) {
	o := newOptions(opts)

	root, err := fspath.Canonicalize(types.FilesystemPath(path))
	if err != nil {
		return nil, openError("open bundle directory", path, ErrPathResolution, err)
	}
	info, err := os.Stat(string(root))
	if err != nil {
		return nil, openError("open bundle directory", path, ErrPathResolution, err)
	}
	if !info.IsDir() {
		return nil, openError("open bundle directory", path, ErrPathResolution, fmt.Errorf("%s is not a directory", root))
	}

	return &DirInput{
		root:       root,
		skipHidden: o.skipHidden,
		logger:     o.logger,
	}, nil
}

// Root returns the canonical directory root.
func (in *DirInput) Root() types.FilesystemPath { return in.root }

// Files walks the tree below the root. Entries are classified by resolved
// type and everything that is not a regular file is skipped.
//
// A symlink to a regular file is checked against the root using its
// resolved target, but its Path is the link's own location relative to the
// root, so two links to one file yield two entries. A file whose canonical
// path leaves the root yields ErrPathEscape. Stat and
// open failures yield ErrIO. Neither stops the walk.
func (in *DirInput) Files() iter.Seq2[*File, error] {
	classified := convert(in.walk(), in.classify)
	regular := keep(classified, in.isRegular)
	return convert(regular, in.open)
}

// walk yields every non-directory below the root in lexical order. Errors
// reading a directory are yielded and its subtree is skipped.
func (in *DirInput) walk() iter.Seq2[dirEntry, error] {
	return func(yield func(dirEntry, error) bool) {
		root := string(in.root)
		_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				if !yield(dirEntry{}, entryError(ErrIO, p, err)) {
					return filepath.SkipAll
				}
				return nil
			}
			if p == root {
				return nil
			}
			if in.skipHidden && strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if !yield(dirEntry{path: types.FilesystemPath(p), mode: d.Type()}, nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// classify replaces a symlink's type with its target's. Dangling links keep
// the symlink type so the next stage drops them.
func (in *DirInput) classify(e dirEntry) (dirEntry, error) {
	if e.mode&fs.ModeSymlink == 0 {
		return e, nil
	}
	info, err := os.Stat(string(e.path))
	if errors.Is(err, fs.ErrNotExist) {
		in.logger.Debug("skipping dangling symlink", "path", e.path)
		return e, nil
	}
	if err != nil {
		return e, entryError(ErrIO, string(e.path), err)
	}
	e.mode = info.Mode().Type()
	return e, nil
}

func (in *DirInput) isRegular(e dirEntry) bool {
	if e.mode.IsRegular() {
		return true
	}
	in.logger.Debug("skipping non-regular entry", "path", e.path, "mode", e.mode)
	return false
}

func (in *DirInput) open(e dirEntry) (*File, error) {
	canon, err := filepath.EvalSymlinks(string(e.path))
	if err != nil {
		return nil, entryError(ErrIO, string(e.path), err)
	}
	if _, err := fspath.RelSlash(in.root, types.FilesystemPath(canon)); err != nil {
		return nil, entryError(ErrPathEscape, string(e.path), err)
	}

	rel, err := fspath.RelSlash(in.root, e.path)
	if err != nil {
		return nil, entryError(ErrPathEscape, string(e.path), err)
	}
	if !utf8.ValidString(rel) {
		return nil, entryError(ErrNonUTF8Path, string(e.path), nil)
	}

	f, err := os.Open(string(fspath.JoinSlash(in.root, rel)))
	if err != nil {
		return nil, entryError(ErrIO, string(e.path), err)
	}
	return &File{Path: RelativePath(rel), Body: f}, nil
}
