// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package rewrite

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.astrophena.name/stamp/testutil"
)

func TestSplitJoin(t *testing.T) {
	cases := map[string]struct {
		in        string
		wantLines []string
		wantOut   string
	}{
		"empty": {
			in:        "",
			wantLines: nil,
			wantOut:   "",
		},
		"trailing newline": {
			in:        "a\nb\n",
			wantLines: []string{"a", "b"},
			wantOut:   "a\nb\n",
		},
		"no trailing newline": {
			in:        "a\nb",
			wantLines: []string{"a", "b"},
			wantOut:   "a\nb\n",
		},
		"blank lines kept": {
			in:        "a\n\n\nb\n",
			wantLines: []string{"a", "", "", "b"},
			wantOut:   "a\n\n\nb\n",
		},
		"single newline": {
			in:        "\n",
			wantLines: []string{""},
			wantOut:   "\n",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			lines := Split([]byte(tc.in))
			testutil.AssertEqual(t, lines, tc.wantLines)
			testutil.AssertEqual(t, string(Join(lines)), tc.wantOut)
		})
	}
}

func TestLines(t *testing.T) {
	path := writeFile(t, "notes.txt", "one\ntwo\n", 0o644)

	changed, err := Lines(path, func(lines []string) ([]string, error) {
		for i, line := range lines {
			lines[i] = strings.ToUpper(line)
		}
		return lines, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, changed, true)
	testutil.AssertEqual(t, testutil.ReadFile(t, path), "ONE\nTWO\n")
}

func TestFileUnchanged(t *testing.T) {
	path := writeFile(t, "same.txt", "keep\n", 0o644)
	before, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	changed, err := File(path, func(b []byte) ([]byte, error) { return b, nil })
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, changed, false)

	after, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	// Identical output is not written, so the file is not replaced.
	testutil.AssertEqual(t, os.SameFile(before, after), true)
}

func TestFileTransformError(t *testing.T) {
	path := writeFile(t, "keep.txt", "original\n", 0o644)
	errBoom := errors.New("boom")

	changed, err := File(path, func([]byte) ([]byte, error) { return nil, errBoom })
	if !errors.Is(err, errBoom) {
		t.Fatalf("want error wrapping %v, got %v", errBoom, err)
	}
	testutil.AssertEqual(t, changed, false)
	testutil.AssertEqual(t, testutil.ReadFile(t, path), "original\n")
}

func TestFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.txt")

	called := false
	_, err := File(path, func(b []byte) ([]byte, error) {
		called = true
		return b, nil
	})
	if !errors.Is(err, ErrMissingFile) {
		t.Fatalf("want ErrMissingFile, got %v", err)
	}
	testutil.AssertEqual(t, called, false)
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("file must not be created, stat: %v", err)
	}
}

func TestFileWriteFailure(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	path := writeFile(t, "locked.txt", "original\n", 0o644)
	dir := filepath.Dir(path)
	// The temporary file cannot be created next to the target.
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(dir, 0o755) })

	changed, err := File(path, func([]byte) ([]byte, error) { return []byte("new\n"), nil })
	if !errors.Is(err, ErrWrite) {
		t.Fatalf("want ErrWrite, got %v", err)
	}
	testutil.AssertEqual(t, changed, false)
	testutil.AssertEqual(t, testutil.ReadFile(t, path), "original\n")
}

func TestFileWriteFailureLeavesNoTempFile(t *testing.T) {
	path := writeFile(t, "target.txt", "original\n", 0o644)
	dir := filepath.Dir(path)

	// The target turns into a directory while it is being transformed, so
	// the final rename fails.
	_, err := File(path, func([]byte) ([]byte, error) {
		if err := os.Remove(path); err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Join(path, "sub"), 0o755); err != nil {
			return nil, err
		}
		return []byte("new\n"), nil
	})
	if !errors.Is(err, ErrWrite) {
		t.Fatalf("want ErrWrite, got %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	testutil.AssertEqual(t, names, []string{"target.txt"})
}

func TestFilePreservesMode(t *testing.T) {
	path := writeFile(t, "run.sh", "echo hi\n", 0o755)

	if _, err := File(path, func(b []byte) ([]byte, error) {
		return append([]byte("#!/bin/sh\n"), b...), nil
	}); err != nil {
		t.Fatal(err)
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, fi.Mode().Perm(), os.FileMode(0o755))
	testutil.AssertEqual(t, testutil.ReadFile(t, path), "#!/bin/sh\necho hi\n")
}

func TestDryRun(t *testing.T) {
	path := writeFile(t, "dry.txt", "a\n", 0o644)

	rw := Rewriter{DryRun: true}
	changed, err := rw.Lines(path, func(lines []string) ([]string, error) {
		return append(lines, "b"), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, changed, true)
	testutil.AssertEqual(t, testutil.ReadFile(t, path), "a\n")
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	present := writeFile(t, "here.txt", "", 0o644)

	if err := Exists(present); err != nil {
		t.Fatalf("Exists(%q): %v", present, err)
	}
	if err := Exists(filepath.Join(dir, "gone.txt")); !errors.Is(err, ErrMissingFile) {
		t.Fatalf("want ErrMissingFile, got %v", err)
	}
}

func writeFile(t *testing.T, name, content string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatal(err)
	}
	// WriteFile is subject to umask.
	if err := os.Chmod(path, perm); err != nil {
		t.Fatal(err)
	}
	return path
}
