// Package fsx holds the filesystem operations used to materialize gallery
// items: output folder preparation, non-overwriting copies and xxh3 checks.
package fsx

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	serr "traypack/internal/errors"

	"github.com/zeebo/xxh3"
)

// StaleOutputError means the output folder already existed and could not be
// cleared. The caller decides whether to continue on top of it.
type StaleOutputError struct {
	Path string
	Err  error
}

func (e *StaleOutputError) Error() string {
	return fmt.Sprintf("output folder %q already exists and couldn't be removed: %v", e.Path, e.Err)
}

func (e *StaleOutputError) Unwrap() error { return e.Err }

// IsStaleOutput reports whether err is a StaleOutputError.
func IsStaleOutput(err error) bool {
	var e *StaleOutputError
	return errors.As(err, &e)
}

// ForeignOutputError means an existing output folder holds entries that
// were not written by a previous run, so it is not cleaned automatically.
type ForeignOutputError struct {
	Path  string
	Entry string // first unexpected entry
}

func (e *ForeignOutputError) Error() string {
	return fmt.Sprintf("output folder %q already exists and contains %q, which is not a gallery item folder", e.Path, e.Entry)
}

// IsForeignOutput reports whether err is a ForeignOutputError.
func IsForeignOutput(err error) bool {
	var e *ForeignOutputError
	return errors.As(err, &e)
}

// removeAll is swapped in tests to simulate an undeletable output folder.
var removeAll = os.RemoveAll

// PrepareOutput creates the output root. When clean is set an existing folder
// is recreated, but only if every entry in it is a directory named in owned;
// anything else gives a ForeignOutputError and the folder is left alone.
// Without clean an existing folder is reused as-is.
func PrepareOutput(path string, clean bool, owned []string) error {
	err := os.Mkdir(path, 0o755)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrExist) {
		return serr.NewFileError("couldn't create the output directory", path, serr.DirCreateFailed, err)
	}

	info, statErr := os.Stat(path)
	if statErr != nil || !info.IsDir() {
		return serr.NewFileError("output path exists and is not a directory", path, serr.DirCreateFailed, err)
	}
	if !clean {
		return nil
	}

	if err := checkOwned(path, owned); err != nil {
		return err
	}
	return Recreate(path)
}

func checkOwned(path string, owned []string) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		return serr.NewFileError("couldn't list the output directory", path, serr.FileAccessDenied, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() || !slices.Contains(owned, entry.Name()) {
			return &ForeignOutputError{Path: path, Entry: entry.Name()}
		}
	}
	return nil
}

// Recreate removes path with everything in it and creates it again empty.
func Recreate(path string) error {
	if err := removeAll(path); err != nil {
		return &StaleOutputError{Path: path, Err: err}
	}
	if err := os.Mkdir(path, 0o755); err != nil {
		return serr.NewFileError("couldn't create the output directory", path, serr.DirCreateFailed, err)
	}
	return nil
}

// EnsureDir creates path unless a directory is already there.
func EnsureDir(path string) error {
	err := os.Mkdir(path, 0o755)
	if err == nil {
		return nil
	}
	if errors.Is(err, os.ErrExist) {
		if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
			return nil
		}
	}
	return serr.NewFileError("couldn't create folder", path, serr.DirCreateFailed, err)
}

// Copier copies a single file and returns the number of bytes written.
type Copier interface {
	CopyFile(src, dst string) (int64, error)
}

// FileCopier copies through the local filesystem. The destination must not
// exist yet; a destination created by a failed copy is removed again.
type FileCopier struct {
	// Verify compares xxh3 digests of source and destination after copying.
	Verify bool
}

func (c FileCopier) CopyFile(src, dst string) (int64, error) {
	n, err := copyFile(src, dst)
	if err != nil {
		return 0, serr.NewFileError("copy failed", src, serr.CopyFailed, err)
	}
	if !c.Verify {
		return n, nil
	}

	if err := VerifyCopy(src, dst); err != nil {
		_ = os.Remove(dst)
		return 0, err
	}
	return n, nil
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, err
	}
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("%s is not a regular file", src)
	}

	// O_EXCL: an existing dst is left untouched and never removed below.
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if err == nil {
		err = out.Sync()
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst)
		return 0, err
	}
	return n, nil
}

// Checksum returns the xxh3 64-bit digest of a file's contents.
func Checksum(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := xxh3.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

// VerifyCopy checks that dst holds the same bytes as src.
func VerifyCopy(src, dst string) error {
	want, err := Checksum(src)
	if err != nil {
		return serr.NewFileError("checksum failed", src, serr.ChecksumMismatch, err)
	}
	got, err := Checksum(dst)
	if err != nil {
		return serr.NewFileError("checksum failed", dst, serr.ChecksumMismatch, err)
	}
	if want != got {
		return serr.NewFileError(fmt.Sprintf("checksum mismatch: %016x != %016x", want, got),
			dst, serr.ChecksumMismatch, nil)
	}
	return nil
}
