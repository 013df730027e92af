// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package testutil provides helpers for common testing scenarios.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
)

// AssertEqual fails the test if got is not deeply equal to want.
// It prints both values for easy comparison upon failure.
func AssertEqual(t *testing.T, got, want any) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("values are not equal:\ngot:  %#v\nwant: %#v", got, want)
	}
}

// Run runs a subtest for each file that matches the provided glob pattern.
// The subtest name is the file's base name without extension.
func Run(t *testing.T, glob string, f func(t *testing.T, match string)) {
	t.Helper()
	matches, err := filepath.Glob(glob)
	if err != nil {
		t.Fatalf("filepath.Glob(%q): %v", glob, err)
	}
	if len(matches) == 0 {
		t.Fatalf("no files match %q", glob)
	}

	for _, match := range matches {
		name := strings.TrimSuffix(filepath.Base(match), filepath.Ext(match))
		t.Run(name, func(t *testing.T) {
			f(t, match)
		})
	}
}

// ParseTxtar reads and parses the txtar archive at path.
func ParseTxtar(t *testing.T, path string) *txtar.Archive {
	t.Helper()
	ar, err := txtar.ParseFile(path)
	if err != nil {
		t.Fatalf("txtar.ParseFile(%q): %v", path, err)
	}
	return ar
}

// ExtractTxtar extracts a txtar archive to a specified directory.
func ExtractTxtar(t *testing.T, ar *txtar.Archive, dir string) {
	t.Helper()
	fsys, err := txtar.FS(ar)
	if err != nil {
		t.Fatalf("txtar.FS: %v", err)
	}
	if err := os.CopyFS(dir, fsys); err != nil {
		t.Fatalf("failed to extract txtar to dir %q: %v", dir, err)
	}
}

// BuildTxtar creates a txtar-formatted byte slice from the contents of a
// directory. Files are listed in lexical order with slash-separated names.
func BuildTxtar(t *testing.T, dir string) []byte {
	t.Helper()
	ar := new(txtar.Archive)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		ar.Files = append(ar.Files, txtar.File{Name: filepath.ToSlash(rel), Data: data})
		return nil
	})
	if err != nil {
		t.Fatalf("failed to build txtar from dir %q: %v", dir, err)
	}
	return txtar.Format(ar)
}

// ReadFile returns the contents of the file at path as a string.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("os.ReadFile(%q): %v", path, err)
	}
	return string(b)
}
