// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package config loads the project configuration from the
// .devtools/config.txtar archive at the project root.
//
// The archive is optional. Recognized members are:
//
//   - stamp.yaml: project settings, see [File].
//   - header/template: replaces the default header block text.
//
// Missing settings fall back to defaults derived from the project root.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"golang.org/x/tools/txtar"
	"gopkg.in/yaml.v3"

	"go.astrophena.name/stamp/header"
	"go.astrophena.name/stamp/propagate"
	"go.astrophena.name/stamp/rewrite"
	"go.astrophena.name/stamp/versioning"
)

// Path is the location of the configuration archive relative to the
// project root.
const Path = ".devtools/config.txtar"

// ErrInvalid is returned for settings that name an unknown policy or
// heuristic, or that contradict each other.
var ErrInvalid = errors.New("invalid configuration")

// File is the layout of the stamp.yaml member.
//
// Path fields are pointers so that an explicit empty string, which removes
// the target, can be told apart from an absent key.
type File struct {
	// Project is the project name used in the README title and the header.
	Project string `yaml:"project"`
	// Policy is the versioning policy: month or day.
	Policy string `yaml:"policy"`

	VersionFile   string  `yaml:"version_file"`
	README        *string `yaml:"readme"`
	BuildConfig   *string `yaml:"build_config"`
	VersionHeader *string `yaml:"version_header"`

	// CMakePrefix prefixes the CMake variables, e.g. "demo" for
	// set(demo_version_major ...).
	CMakePrefix string `yaml:"cmake_prefix"`
	// MacroPrefix names the version macro, e.g. "DEMO_VERSION".
	MacroPrefix string `yaml:"macro_prefix"`

	Headers HeadersFile `yaml:"headers"`
}

// HeadersFile configures header injection.
type HeadersFile struct {
	// Dir is the source tree to annotate, relative to the root.
	Dir string `yaml:"dir"`
	// Heuristic decides whether a file already has the header: exact or
	// comment.
	Heuristic  string   `yaml:"heuristic"`
	Author     string   `yaml:"author"`
	License    string   `yaml:"license"`
	HeaderExts []string `yaml:"header_exts"`
	SourceExts []string `yaml:"source_exts"`
	// Exclude lists path suffixes that are never annotated.
	Exclude []string `yaml:"exclude"`
}

// Config is the resolved configuration of a project.
type Config struct {
	// Root is the absolute project root.
	Root string

	Project       string
	Policy        versioning.Policy
	VersionFile   string
	README        string
	BuildConfig   string
	VersionHeader string
	CMakePrefix   string
	MacroPrefix   string

	HeaderDir  string
	Heuristic  header.Heuristic
	Author     string
	License    string
	Template   string
	HeaderExts []string
	SourceExts []string
	Exclude    []string
}

// Load reads the configuration of the project at root.
func Load(root string) (*Config, error) {
	f, tmpl, err := read(filepath.Join(root, filepath.FromSlash(Path)))
	if err != nil {
		return nil, err
	}
	return resolve(root, f, tmpl)
}

func read(path string) (f File, tmpl string, err error) {
	ar, err := txtar.ParseFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, "", nil
	}
	if err != nil {
		return f, "", fmt.Errorf("config: reading %s: %w", Path, err)
	}
	for _, m := range ar.Files {
		switch m.Name {
		case "stamp.yaml":
			if err := yaml.Unmarshal(m.Data, &f); err != nil {
				return f, "", fmt.Errorf("config: parsing stamp.yaml: %w", err)
			}
		case "header/template":
			tmpl = string(m.Data)
		}
	}
	return f, tmpl, nil
}

func resolve(root string, f File, tmpl string) (*Config, error) {
	c := &Config{
		Root:          root,
		Project:       or(f.Project, filepath.Base(root)),
		VersionFile:   or(f.VersionFile, "VERSION"),
		README:        orPtr(f.README, "README.md"),
		BuildConfig:   orPtr(f.BuildConfig, "CMakeLists.txt"),
		VersionHeader: orPtr(f.VersionHeader, "src/version.h"),
		HeaderDir:     or(f.Headers.Dir, "src"),
		License:       or(f.Headers.License, "MIT"),
		Template:      tmpl,
		HeaderExts:    orSlice(f.Headers.HeaderExts, []string{".h", ".hpp"}),
		SourceExts:    orSlice(f.Headers.SourceExts, []string{".c", ".cc", ".cpp"}),
		Exclude:       f.Headers.Exclude,
	}
	c.CMakePrefix = or(f.CMakePrefix, strings.ToLower(c.Project))
	c.MacroPrefix = or(f.MacroPrefix, strings.ToUpper(c.Project)+"_VERSION")
	c.Author = or(f.Headers.Author, "The "+c.Project+" Authors")

	c.Policy = versioning.Default
	if f.Policy != "" {
		p, err := versioning.Lookup(f.Policy)
		if err != nil {
			return nil, fmt.Errorf("config: policy: %w: %w", ErrInvalid, err)
		}
		c.Policy = p
	}
	if f.Headers.Heuristic != "" {
		h, err := header.ParseHeuristic(f.Headers.Heuristic)
		if err != nil {
			return nil, fmt.Errorf("config: headers: %w: %w", ErrInvalid, err)
		}
		c.Heuristic = h
	}
	// A header that does not open a doc comment would never be recognized
	// as present, so every run would add it again.
	if c.Heuristic == header.CommentOpener && tmpl != "" && !strings.HasPrefix(tmpl, "/**") {
		return nil, fmt.Errorf("config: headers: %w: comment heuristic needs a header/template starting with /**", ErrInvalid)
	}
	return c, nil
}

func or(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func orPtr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

func orSlice(s, def []string) []string {
	if len(s) == 0 {
		return def
	}
	return s
}

// Propagator returns a propagator for the configured targets. Targets with
// an empty path are left out.
func (c *Config) Propagator(dry bool) *propagate.Propagator {
	p := &propagate.Propagator{
		Root:        c.Root,
		VersionFile: c.VersionFile,
		Policy:      c.Policy,
		Rewriter:    rewrite.Rewriter{DryRun: dry},
	}
	if c.README != "" {
		p.Targets = append(p.Targets, propagate.README(c.README, c.Project))
	}
	if c.BuildConfig != "" {
		p.Targets = append(p.Targets, propagate.CMake(c.BuildConfig, c.CMakePrefix))
	}
	if c.VersionHeader != "" {
		p.Targets = append(p.Targets, propagate.Macros(c.VersionHeader, c.MacroPrefix))
	}
	return p
}

// Injector returns a header injector for the configured source tree.
func (c *Config) Injector(dry bool) *header.Injector {
	return &header.Injector{
		Block: &header.Block{
			Author:   c.Author,
			Project:  c.Project,
			License:  c.License,
			Template: c.Template,
		},
		Heuristic:  c.Heuristic,
		HeaderExts: c.HeaderExts,
		SourceExts: c.SourceExts,
		Exclude:    c.Exclude,
		Rewriter:   rewrite.Rewriter{DryRun: dry},
	}
}

// HeaderRoot returns the absolute path of the source tree to annotate.
func (c *Config) HeaderRoot() string {
	return filepath.Join(c.Root, filepath.FromSlash(c.HeaderDir))
}
