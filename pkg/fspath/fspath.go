// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed path helpers around path/filepath for
// types.FilesystemPath values: canonicalization, root containment checks, and
// conversion between native paths and forward-slash relative paths.
package fspath

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bundlekit/bundlekit/pkg/types"
)

// ErrOutsideRoot is returned by RelSlash when the target is not a descendant
// of the root.
var ErrOutsideRoot = errors.New("path is outside root")

// Canonicalize returns the absolute, symlink-resolved form of p. The path
// must exist.
func Canonicalize(p types.FilesystemPath) (types.FilesystemPath, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks: %w", err)
	}
	return types.FilesystemPath(resolved), nil
}

// RelSlash returns target relative to root using forward slashes. Both paths
// must already be absolute and clean. Returns ErrOutsideRoot when target is
// root itself or does not descend from it.
func RelSlash(root, target types.FilesystemPath) (string, error) {
	rel, err := filepath.Rel(string(root), string(target))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrOutsideRoot, err)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %s is not under %s", ErrOutsideRoot, target, root)
	}
	return filepath.ToSlash(rel), nil
}

// JoinSlash joins a forward-slash relative path onto a native root.
func JoinSlash(root types.FilesystemPath, rel string) types.FilesystemPath {
	return types.FilesystemPath(filepath.Join(string(root), filepath.FromSlash(rel)))
}

// Join wraps filepath.Join, accepting a typed base path and raw string
// segments such as names returned by os.ReadDir.
func Join(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}
