// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package propagate advances a project's version and writes it into the
// files that embed it.
//
// Files are rewritten one at a time, in the order the targets are listed.
// There is no rollback: if a target fails, the files rewritten before it
// keep the new version.
package propagate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.astrophena.name/stamp/logger"
	"go.astrophena.name/stamp/rewrite"
	"go.astrophena.name/stamp/versioning"
)

// Propagator writes versions into a project.
type Propagator struct {
	// Root is the project root. All paths are relative to it.
	Root string
	// VersionFile holds the version string, e.g. "VERSION".
	VersionFile string
	Policy      versioning.Policy
	Targets     []Target
	Rewriter    rewrite.Rewriter
}

// FileResult reports what happened to a single file.
type FileResult struct {
	Name    string
	Path    string
	Changed bool
}

// Result is the outcome of a [Propagator.Bump].
type Result struct {
	Previous versioning.Version
	Next     versioning.Version
	// Version is Next rendered by the policy.
	Version string
	Files   []FileResult
}

func (p *Propagator) path(rel string) string {
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

// Current reads and parses the version file.
func (p *Propagator) Current() (versioning.Version, error) {
	path := p.path(p.VersionFile)
	if err := rewrite.Exists(path); err != nil {
		return versioning.Version{}, fmt.Errorf("propagate: %w", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return versioning.Version{}, fmt.Errorf("propagate: %s: %w", p.VersionFile, err)
	}
	v, err := p.Policy.Parse(string(b))
	if err != nil {
		return versioning.Version{}, fmt.Errorf("propagate: %s: %w", p.VersionFile, err)
	}
	return v, nil
}

// Bump computes the version following the stored one at time now, stores it
// in the version file and propagates it to every target.
//
// A malformed version file or a missing target aborts the bump before any
// file is modified.
func (p *Propagator) Bump(ctx context.Context, now time.Time) (*Result, error) {
	prev, err := p.Current()
	if err != nil {
		return nil, err
	}
	if err := p.check(); err != nil {
		return nil, err
	}

	res := &Result{
		Previous: prev,
		Next:     p.Policy.Next(prev, now),
	}
	res.Version = p.Policy.Format(res.Next)
	logger.Info(ctx, "bumping version",
		slog.String("from", p.Policy.Format(prev)),
		slog.String("to", res.Version),
		slog.String("policy", p.Policy.Name()),
	)

	changed, err := p.Rewriter.File(p.path(p.VersionFile), func([]byte) ([]byte, error) {
		return []byte(res.Version), nil
	})
	if err != nil {
		return res, fmt.Errorf("propagate: %s: %w", p.VersionFile, err)
	}
	res.Files = append(res.Files, FileResult{Name: "version", Path: p.VersionFile, Changed: changed})

	files, err := p.apply(ctx, res.Next)
	res.Files = append(res.Files, files...)
	return res, err
}

// Apply writes v into every target without touching the version file.
func (p *Propagator) Apply(ctx context.Context, v versioning.Version) ([]FileResult, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	return p.apply(ctx, v)
}

// check fails if a target does not exist.
func (p *Propagator) check() error {
	if err := rewrite.Exists(p.path(p.VersionFile)); err != nil {
		return fmt.Errorf("propagate: %w", err)
	}
	for _, t := range p.Targets {
		if err := rewrite.Exists(p.path(t.Path)); err != nil {
			return fmt.Errorf("propagate: %s: %w", t.Name, err)
		}
	}
	return nil
}

func (p *Propagator) apply(ctx context.Context, v versioning.Version) ([]FileResult, error) {
	fields := p.Policy.Fields(v)
	var results []FileResult
	for _, t := range p.Targets {
		var matched int
		changed, err := p.Rewriter.Lines(p.path(t.Path), func(lines []string) ([]string, error) {
			var out []string
			out, matched = t.rewrite(lines, fields)
			return out, nil
		})
		if err != nil {
			return results, fmt.Errorf("propagate: %s: %w", t.Path, err)
		}
		if matched == 0 {
			logger.Warn(ctx, "no version lines found in "+t.Name, slog.String("path", t.Path))
		}
		results = append(results, FileResult{Name: t.Name, Path: t.Path, Changed: changed})
		logger.Info(ctx, "updated "+t.Name,
			slog.String("path", t.Path),
			slog.Bool("changed", changed),
			slog.Bool("dry", p.Rewriter.DryRun),
		)
	}
	return results, nil
}
