// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package version reports build information of the running binary.
package version

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"

	"go.astrophena.name/stamp/syncx"
)

// Info is the build information of a binary.
type Info struct {
	// Name is the command name.
	Name string `json:"name"`
	// Version is the module version, "devel" for untagged builds.
	Version string `json:"version"`
	// Commit is the VCS revision the binary was built from, if known.
	Commit string `json:"commit,omitempty"`
	// Dirty reports whether the working tree had uncommitted changes.
	Dirty bool `json:"dirty,omitempty"`
	// Go is the toolchain version.
	Go string `json:"go"`
	// OS and Arch describe the target platform.
	OS   string `json:"os"`
	Arch string `json:"arch"`
}

// String returns the version information in a human-readable format, ending
// with a newline.
func (i Info) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s", i.Name, i.Version)
	if i.Commit != "" {
		commit := i.Commit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		fmt.Fprintf(&sb, " (%s", commit)
		if i.Dirty {
			sb.WriteString(", dirty")
		}
		sb.WriteString(")")
	}
	fmt.Fprintf(&sb, " built with %s for %s/%s\n", i.Go, i.OS, i.Arch)
	return sb.String()
}

var info syncx.Lazy[Info]

// Version returns the build information of the running binary.
func Version() Info {
	return info.Get(func() Info {
		bi, ok := debug.ReadBuildInfo()
		if !ok {
			return Info{
				Name:    CmdName(),
				Version: "devel",
				Go:      runtime.Version(),
				OS:      runtime.GOOS,
				Arch:    runtime.GOARCH,
			}
		}
		return fromBuildInfo(bi)
	})
}

func fromBuildInfo(bi *debug.BuildInfo) Info {
	i := Info{
		Name:    cmdName(bi),
		Version: bi.Main.Version,
		Go:      bi.GoVersion,
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}
	if i.Version == "" || i.Version == "(devel)" {
		i.Version = "devel"
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			i.Commit = s.Value
		case "vcs.modified":
			i.Dirty = s.Value == "true"
		case "GOOS":
			i.OS = s.Value
		case "GOARCH":
			i.Arch = s.Value
		}
	}
	return i
}

// CmdName returns the name of the running command.
func CmdName() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return exeName()
	}
	return cmdName(bi)
}

func cmdName(bi *debug.BuildInfo) string {
	if bi.Path != "" {
		return filepath.Base(bi.Path)
	}
	return exeName()
}

func exeName() string {
	return strings.TrimSuffix(filepath.Base(os.Args[0]), ".exe")
}
