// Package sysfs performs the whole-file reads and writes used against sysfs
// control files. Errors from the os package are returned untouched so callers
// can match them with errors.Is(err, fs.ErrNotExist) and friends.
package sysfs

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"unicode/utf8"
)

// ErrInvalidUTF8 is wrapped in a *fs.PathError when a file read by ReadAll
// does not hold valid UTF-8 text.
var ErrInvalidUTF8 = errors.New("content is not valid UTF-8")

// FileSystem abstracts the two control-file operations.
// Tests can replace FS with a fake implementation.
type FileSystem interface {
	ReadAll(path string) (string, error)
	WriteAll(path string, content []byte) error
}

type osFS struct{}

func (osFS) ReadAll(path string) (string, error)        { return ReadAll(path) }
func (osFS) WriteAll(path string, content []byte) error { return WriteAll(path, content) }

// FS is the package-level FileSystem used by code accessing sysfs. Tests may replace it.
var FS FileSystem = osFS{}

// ReadAll opens path, reads it to the end and returns the content as a string.
func ReadAll(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}

	if !utf8.Valid(data) {
		return "", &fs.PathError{Op: "read", Path: path, Err: ErrInvalidUTF8}
	}

	return string(data), nil
}

// WriteAll creates or truncates path and writes content in full.
// A short write is reported as io.ErrShortWrite.
func WriteAll(path string, content []byte) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	n, err := f.Write(content)
	if err != nil {
		return err
	}
	if n < len(content) {
		return &fs.PathError{Op: "write", Path: path, Err: io.ErrShortWrite}
	}

	return nil
}
