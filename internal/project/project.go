// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package project locates the root of the project a command runs in.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.astrophena.name/stamp/internal/config"
)

// ErrNoRoot is returned when no directory above the start has a root marker.
var ErrNoRoot = errors.New("project root not found")

// markers identify a project root. The first directory containing any of
// them wins.
var markers = []string{config.Path, "VERSION"}

// FindRoot returns the absolute path of the closest directory at or above
// start that contains a configuration archive or a version file.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		for _, m := range markers {
			if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(m))); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: no %s or VERSION above %s", ErrNoRoot, config.Path, start)
		}
		dir = parent
	}
}
