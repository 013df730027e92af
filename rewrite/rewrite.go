// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package rewrite implements scoped read-modify-write of a single file.
//
// A rewrite reads the whole file, passes its content through a pure
// transform and writes the result back in one piece. If the transform fails
// nothing is written. The write goes through a temporary file that replaces
// the target on success, so a rejected write leaves the original content in
// place.
package rewrite

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/natefinch/atomic"
)

var (
	// ErrMissingFile is returned when a file that must be rewritten does
	// not exist.
	ErrMissingFile = errors.New("missing file")
	// ErrWrite is returned when the underlying storage rejects a write.
	ErrWrite = errors.New("write failed")
)

// Rewriter rewrites files in place.
// The zero value is ready to use.
type Rewriter struct {
	// DryRun reports whether a file would change without writing it.
	DryRun bool
}

var defaultRewriter Rewriter

// File rewrites the file at path using the default [Rewriter].
func File(path string, transform func([]byte) ([]byte, error)) (changed bool, err error) {
	return defaultRewriter.File(path, transform)
}

// Lines rewrites the file at path line by line using the default [Rewriter].
func Lines(path string, transform func([]string) ([]string, error)) (changed bool, err error) {
	return defaultRewriter.Lines(path, transform)
}

// File reads the file at path, applies transform to its content and writes
// the result back. It reports whether the content changed. Identical output
// is not written.
func (rw Rewriter) File(path string, transform func([]byte) ([]byte, error)) (changed bool, err error) {
	old, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("%w: %s", ErrMissingFile, path)
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	content, err := transform(old)
	if err != nil {
		return false, fmt.Errorf("transforming %s: %w", path, err)
	}
	if bytes.Equal(old, content) {
		return false, nil
	}
	if rw.DryRun {
		return true, nil
	}

	if err := atomic.WriteFile(path, bytes.NewReader(content)); err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	return true, nil
}

// Lines is like File, but hands transform the file split into lines. Every
// returned line is written followed by a newline.
func (rw Rewriter) Lines(path string, transform func([]string) ([]string, error)) (changed bool, err error) {
	return rw.File(path, func(b []byte) ([]byte, error) {
		lines, err := transform(Split(b))
		if err != nil {
			return nil, err
		}
		return Join(lines), nil
	})
}

// Split splits b into lines. A trailing newline does not produce an empty
// final line.
func Split(b []byte) []string {
	if len(b) == 0 {
		return nil
	}
	s := strings.TrimSuffix(string(b), "\n")
	return strings.Split(s, "\n")
}

// Join is the inverse of [Split]: it terminates every line with a newline.
func Join(lines []string) []byte {
	var buf bytes.Buffer
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Exists returns an error wrapping [ErrMissingFile] if path does not exist.
func Exists(path string) error {
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrMissingFile, path)
	}
	return err
}
