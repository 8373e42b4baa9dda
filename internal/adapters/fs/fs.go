// Package fs provides the filesystem conveniences used by the build pipelines.
package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// Kind is the type of filesystem object an existence check expects.
type Kind string

const (
	// KindFile is a regular file.
	KindFile Kind = "file"
	// KindDirectory is a directory.
	KindDirectory Kind = "directory"
	// KindSymlink is a symbolic link. It is checked without following the link.
	KindSymlink Kind = "symlink"
)

// Symlink creates a symbolic link at to pointing at from. Both paths are made absolute first.
func Symlink(from, to string) error {
	absFrom, err := filepath.Abs(from)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to resolve symlink source"), "path", from)
	}
	absTo, err := filepath.Abs(to)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to resolve symlink destination"), "path", to)
	}
	if err := os.Symlink(absFrom, absTo); err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, "failed to create symlink"), "from", absFrom), "to", absTo)
	}
	return nil
}

// IsFileExists reports whether path is an existing regular file.
func IsFileExists(path string) (bool, error) {
	return exists(path, KindFile)
}

// IsDirectoryExists reports whether path is an existing directory.
func IsDirectoryExists(path string) (bool, error) {
	return exists(path, KindDirectory)
}

// IsSymlinkExists reports whether path is an existing symbolic link.
func IsSymlinkExists(path string) (bool, error) {
	return exists(path, KindSymlink)
}

// exists returns false for absent paths and ErrUnexpectedFileKind when path exists with another kind.
func exists(path string, kind Kind) (bool, error) {
	stat := os.Stat
	if kind == KindSymlink {
		stat = os.Lstat
	}

	info, err := stat(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, "failed to stat path"), "path", path)
	}

	var ok bool
	switch kind {
	case KindFile:
		ok = info.Mode().IsRegular()
	case KindDirectory:
		ok = info.IsDir()
	case KindSymlink:
		ok = info.Mode()&os.ModeSymlink != 0
	}
	if !ok {
		msg := "Expected " + path + " to be a " + string(kind) + ", but it's not."
		return false, zerr.With(zerr.Wrap(domain.ErrUnexpectedFileKind, msg), "path", path)
	}
	return true, nil
}

// Clear removes dir and everything below it. A missing directory is not an error.
func Clear(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to clear directory"), "path", dir)
	}
	return nil
}
