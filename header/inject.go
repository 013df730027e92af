// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package header

import (
	"fmt"
	"slices"
	"strings"
)

// Kind classifies files by how the header is applied.
type Kind int

const (
	// Source files get the header only.
	Source Kind = iota
	// Header files also get an include guard in place of a leading
	// "#pragma once".
	Header
)

func (k Kind) String() string {
	if k == Header {
		return "header"
	}
	return "source"
}

// Heuristic decides whether a file already has the header.
type Heuristic int

const (
	// Exact treats a file as headed if its first line equals the marker.
	Exact Heuristic = iota
	// CommentOpener treats a file as headed if its first line opens a
	// documentation comment ("/**").
	CommentOpener
)

var heuristicNames = map[string]Heuristic{
	"exact":   Exact,
	"comment": CommentOpener,
}

// ParseHeuristic returns the heuristic with the given name: "exact" or
// "comment".
func ParseHeuristic(name string) (Heuristic, error) {
	h, ok := heuristicNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown header heuristic %q", name)
	}
	return h, nil
}

func (h Heuristic) hasHeader(first, marker string) bool {
	if h == CommentOpener {
		return strings.HasPrefix(first, "/**")
	}
	return first == marker
}

// State is a step of the injection state machine.
type State int

const (
	Start State = iota
	HasHeader
	NeedsHeader
	EmittedHeader
	NeedsGuard
	EmittedGuard
	BodyPassthrough
)

var stateNames = [...]string{
	Start:           "start",
	HasHeader:       "has header",
	NeedsHeader:     "needs header",
	EmittedHeader:   "emitted header",
	NeedsGuard:      "needs guard",
	EmittedGuard:    "emitted guard",
	BodyPassthrough: "body passthrough",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Trace is the sequence of states a file went through.
type Trace []State

// Final returns the last state of t.
func (t Trace) Final() State {
	if len(t) == 0 {
		return Start
	}
	return t[len(t)-1]
}

// Changed reports whether the file was modified.
func (t Trace) Changed() bool { return t.Final() == BodyPassthrough }

// Guarded reports whether an include guard was emitted.
func (t Trace) Guarded() bool { return slices.Contains(t, EmittedGuard) }

// file is the input to the injection rules.
type file struct {
	name   string
	kind   Kind
	first  string
	lines  []string
	block  *Block
	heur   Heuristic
	pragma bool
}

// rule is one entry in the first-line dispatch table.
type rule struct {
	match func(f *file) bool
	apply func(f *file) ([]string, Trace)
}

// rules are evaluated top to bottom on the first line; the first match wins.
var rules = []rule{
	{
		match: func(f *file) bool { return f.heur.hasHeader(f.first, f.block.Marker(f.name)) },
		apply: func(f *file) ([]string, Trace) {
			return f.lines, Trace{Start, HasHeader}
		},
	},
	{
		match: func(f *file) bool { return f.kind == Header && f.pragma },
		apply: func(f *file) ([]string, Trace) {
			guard := Guard(f.name)
			out := emitHeader(f)
			// The pragma line is consumed, not copied.
			out = append(out, "#ifndef "+guard, "#define "+guard)
			out = append(out, f.lines[1:]...)
			out = append(out, "#endif // "+guard)
			return out, Trace{Start, NeedsHeader, EmittedHeader, NeedsGuard, EmittedGuard, BodyPassthrough}
		},
	},
	{
		match: func(*file) bool { return true },
		apply: func(f *file) ([]string, Trace) {
			out := append(emitHeader(f), f.lines...)
			return out, Trace{Start, NeedsHeader, EmittedHeader, BodyPassthrough}
		},
	},
}

func emitHeader(f *file) []string {
	block := f.block.Lines(f.name)
	out := make([]string, 0, len(block)+len(f.lines)+3)
	return append(out, block...)
}

// Inject returns lines with the header applied, and the states the file
// went through. name is used to render the header and derive the guard.
//
// Only the first line is examined. If it marks the file as already headed,
// lines are returned unchanged, which makes Inject idempotent.
func Inject(b *Block, h Heuristic, name string, kind Kind, lines []string) ([]string, Trace) {
	f := &file{
		name:  name,
		kind:  kind,
		lines: lines,
		block: b,
		heur:  h,
	}
	if len(lines) > 0 {
		f.first = lines[0]
		f.pragma = isPragmaOnce(lines[0])
	}
	for _, r := range rules {
		if r.match(f) {
			return r.apply(f)
		}
	}
	panic("unreachable")
}

func isPragmaOnce(line string) bool {
	return strings.Join(strings.Fields(line), " ") == "#pragma once"
}
