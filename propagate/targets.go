// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package propagate

import (
	"strings"

	"go.astrophena.name/stamp/versioning"
)

// Rule replaces a matching line with a freshly rendered one.
type Rule struct {
	// FirstLine matches the first line of the file, whatever it contains.
	FirstLine bool
	// Key matches lines that start with it followed by a space or a tab.
	Key string
	// Render returns the replacement line. If ok is false, the line is
	// left as is.
	Render func(f versioning.Fields) (line string, ok bool)
}

func (r Rule) match(lineno int, line string) bool {
	if r.FirstLine {
		return lineno == 0
	}
	rest, ok := strings.CutPrefix(line, r.Key)
	return ok && rest != "" && (rest[0] == ' ' || rest[0] == '\t')
}

// Target is a file that embeds the version, with the ordered rules that
// rewrite it.
type Target struct {
	// Name describes the target in messages and reports.
	Name string
	// Path is slash-separated and relative to the project root.
	Path  string
	Rules []Rule
}

// rewrite applies the rules to lines. For each line the rules are tried
// top to bottom and the first match wins. Lines without a match, or whose
// rule declines, are copied with trailing whitespace trimmed. matched counts
// the lines some rule matched.
func (t Target) rewrite(lines []string, f versioning.Fields) (out []string, matched int) {
	out = make([]string, len(lines))
	for i, line := range lines {
		out[i] = strings.TrimRight(line, " \t\r\v\f")
		for _, r := range t.Rules {
			if !r.match(i, line) {
				continue
			}
			matched++
			if repl, ok := r.Render(f); ok {
				out[i] = repl
			}
			break
		}
	}
	return out, matched
}

// README returns a target that replaces the first line of a README with
// "# <project> <version>".
func README(path, project string) Target {
	return Target{
		Name: "README",
		Path: path,
		Rules: []Rule{{
			FirstLine: true,
			Render: func(f versioning.Fields) (string, bool) {
				return "# " + project + " " + f.Full, true
			},
		}},
	}
}

// CMake returns a target that rewrites the version variables of a
// CMakeLists.txt, e.g. "set(demo_version_major 26)" for prefix "demo".
func CMake(path, prefix string) Target {
	set := func(name string, field func(versioning.Fields) string) Rule {
		key := prefix + "_" + name
		return Rule{
			Key:    "set(" + key,
			Render: func(f versioning.Fields) (string, bool) {
				v := field(f)
				return "set(" + key + " " + v + ")", v != ""
			},
		}
	}
	return Target{
		Name: "build config",
		Path: path,
		Rules: []Rule{
			set("version_major", func(f versioning.Fields) string { return f.Major }),
			set("version_minor", func(f versioning.Fields) string { return f.Minor }),
			set("build", func(f versioning.Fields) string { return f.Build }),
			set("revision", func(f versioning.Fields) string { return f.Revision }),
		},
	}
}

// Macros returns a target that rewrites the version macros of a generated
// C header, e.g. "#define DEMO_VERSION_MAJOR 26" for prefix "DEMO_VERSION".
// The macro named prefix itself holds the full version as a string literal.
func Macros(path, prefix string) Target {
	define := func(suffix string, field func(versioning.Fields) string) Rule {
		name := prefix + suffix
		return Rule{
			Key:    "#define " + name,
			Render: func(f versioning.Fields) (string, bool) {
				v := field(f)
				return "#define " + name + " " + v, v != ""
			},
		}
	}
	return Target{
		Name: "version header",
		Path: path,
		// Keys must be followed by whitespace, so "_BUILD" does not shadow
		// "_BUILD_DATE".
		Rules: []Rule{
			define("_MAJOR", func(f versioning.Fields) string { return f.Major }),
			define("_MINOR", func(f versioning.Fields) string { return f.Minor }),
			define("_BUILD_DATE", func(f versioning.Fields) string { return f.Build }),
			define("_BUILD", func(f versioning.Fields) string { return f.Build }),
			define("_REVISION", func(f versioning.Fields) string { return f.Revision }),
			define("", func(f versioning.Fields) string { return `"` + f.Full + `"` }),
		},
	}
}
