// SPDX-License-Identifier: MPL-2.0

package bundleinput

import (
	"io"
	"iter"
)

type (
	// Input is a bundle source that can enumerate its regular files.
	//
	// Files returns a finite sequence. Each element is either a *File with a
	// nil error, or a nil *File with the error that prevented producing it.
	// Order is backend-dependent and must not be relied on. No I/O happens
	// until the first element is pulled.
	Input interface {
		Files() iter.Seq2[*File, error]
	}

	// File is one regular file of a bundle.
	File struct {
		// Path is the file's location relative to the source root.
		Path RelativePath
		// Body streams the file's content. Callers should Close it; for
		// archive sources Close only releases the borrow.
		Body io.ReadCloser
	}
)

// keep drops values rejected by pred. Errors pass through untouched; this
// stage never fails on its own.
func keep[T any](seq iter.Seq2[T, error], pred func(T) bool) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for v, err := range seq {
			if err == nil && !pred(v) {
				continue
			}
			if !yield(v, err) {
				return
			}
		}
	}
}

// convert maps each value through fn. Errors from upstream pass through; an
// error from fn becomes a failed element and enumeration continues.
func convert[T, U any](seq iter.Seq2[T, error], fn func(T) (U, error)) iter.Seq2[U, error] {
	return func(yield func(U, error) bool) {
		var zero U
		for v, err := range seq {
			if err != nil {
				if !yield(zero, err) {
					return
				}
				continue
			}
			if !yield(fn(v)) {
				return
			}
		}
	}
}
