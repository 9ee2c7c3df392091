// Package decerr defines the error classes shared by the decryption packages.
package decerr

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrFormat       = errors.New("format error")
	ErrArithmetic   = errors.New("arithmetic error")
)

// NotFound wraps err with ErrFileNotFound when it reports a missing or unreadable file.
func NotFound(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}
	return err
}

// ExitCode maps a run error to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// Kind names the class of err for diagnostics.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrFileNotFound):
		return "file_not_found"
	case errors.Is(err, ErrFormat):
		return "format"
	case errors.Is(err, ErrArithmetic):
		return "arithmetic"
	default:
		return "internal"
	}
}
