// SPDX-License-Identifier: MPL-2.0

// Package bundleinput enumerates the files of a bundle source.
//
// A bundle source is either a directory tree (DirInput) or a tar archive,
// optionally compressed and optionally scoped to a subtree (TarInput). Both
// implement Input: a lazy, pull-driven sequence of regular files, each paired
// with a forward-slash RelativePath and a readable body.
//
//	src, err := bundleinput.OpenTar("bundle.tar.zst", "texmf")
//	if err != nil {
//		return err
//	}
//	defer src.Close()
//	for f, err := range src.Files() {
//		if err != nil {
//			if bundleinput.IsTerminal(err) {
//				return err
//			}
//			continue
//		}
//		consume(f.Path, f.Body)
//	}
//
// Directory bodies are independent handles owned by the caller. Archive
// bodies borrow the archive's single read cursor and stop working once the
// next file is pulled. Non-regular entries (directories, symlinks to
// directories, devices, hard links) are skipped without error.
//
// Breaking out of the range loop releases every handle the source holds.
package bundleinput
