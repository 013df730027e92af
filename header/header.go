// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package header adds a canonical author and license header to source
// files, and converts a leading "#pragma once" in header files into an
// include guard.
//
// Injection is idempotent: a file whose first line already marks it as
// headed is left byte-identical, so running the injector twice over a tree
// changes nothing the second time.
package header

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"go.astrophena.name/stamp/logger"
	"go.astrophena.name/stamp/rewrite"
)

// Injector applies a [Block] to files.
type Injector struct {
	Block     *Block
	Heuristic Heuristic
	// HeaderExts and SourceExts list the file extensions, with the leading
	// dot, of header and source files. Other files are ignored.
	HeaderExts []string
	SourceExts []string
	// Exclude lists path suffixes of files to leave alone.
	Exclude []string
	Rewriter rewrite.Rewriter
}

// FileReport describes what happened to a single file.
type FileReport struct {
	Path  string
	Kind  Kind
	Trace Trace
}

// Kind classifies path by its extension. ok is false if the injector does not
// handle such files.
func (in *Injector) Kind(path string) (kind Kind, ok bool) {
	ext := filepath.Ext(path)
	switch {
	case slices.Contains(in.HeaderExts, ext):
		return Header, true
	case slices.Contains(in.SourceExts, ext):
		return Source, true
	}
	return 0, false
}

func (in *Injector) isExcluded(path string) bool {
	path = filepath.ToSlash(path)
	for _, ex := range in.Exclude {
		if strings.HasSuffix(path, ex) {
			return true
		}
	}
	return false
}

// File injects the header into the file at path. A file that already has
// the header is left byte-identical.
func (in *Injector) File(ctx context.Context, path string, kind Kind) (FileReport, error) {
	r := FileReport{Path: path, Kind: kind}
	_, err := in.Rewriter.File(path, func(b []byte) ([]byte, error) {
		var out []string
		out, r.Trace = Inject(in.Block, in.Heuristic, filepath.Base(path), kind, rewrite.Split(b))
		if !r.Trace.Changed() {
			return b, nil
		}
		return rewrite.Join(out), nil
	})
	if err != nil {
		return r, err
	}

	if r.Trace.Changed() {
		logger.Info(ctx, "added header",
			slog.String("path", path),
			slog.Bool("guard", r.Trace.Guarded()),
			slog.Bool("dry", in.Rewriter.DryRun),
		)
	} else {
		logger.Debug(ctx, "header present", slog.String("path", path))
	}
	return r, nil
}

// Tree walks dir in lexical order and injects the header into every file
// the injector handles. Files are processed one at a time; the first error
// stops the walk. Report paths are relative to dir.
func (in *Injector) Tree(ctx context.Context, dir string) ([]FileReport, error) {
	if err := rewrite.Exists(dir); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	var reports []FileReport
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || in.isExcluded(path) {
			return nil
		}
		kind, ok := in.Kind(path)
		if !ok {
			return nil
		}

		r, err := in.File(ctx, path, kind)
		if err != nil {
			return err
		}
		if rel, err := filepath.Rel(dir, path); err == nil {
			r.Path = filepath.ToSlash(rel)
		}
		reports = append(reports, r)
		return nil
	})
	if err != nil {
		return reports, fmt.Errorf("header: %w", err)
	}
	return reports, nil
}
