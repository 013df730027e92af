// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package report renders per-file run summaries as tables.
package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Action describes what a run did, or would do, to a file.
type Action string

const (
	Updated   Action = "updated"
	Unchanged Action = "unchanged"
	// Guarded files got the header and an include guard.
	Guarded Action = "header + guard"
	Headed  Action = "header"
	Skipped Action = "already headed"
)

// Row is a single file in a summary.
type Row struct {
	Path   string
	Kind   string
	Action Action
}

// Summary is a titled list of files.
type Summary struct {
	Title string
	// Dry marks a summary of a run that wrote nothing.
	Dry  bool
	Rows []Row
}

// Add appends a row.
func (s *Summary) Add(path, kind string, action Action) {
	s.Rows = append(s.Rows, Row{Path: path, Kind: kind, Action: action})
}

// Changed returns the number of rows whose file was, or would be, modified.
func (s *Summary) Changed() int {
	var n int
	for _, r := range s.Rows {
		switch r.Action {
		case Unchanged, Skipped:
		default:
			n++
		}
	}
	return n
}

// Render writes the summary to w. If width is positive, rows are cut to
// fit it.
func (s *Summary) Render(w io.Writer, width int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	if width > 0 {
		t.SetAllowedRowLength(width)
	}

	title := s.Title
	if s.Dry {
		title += " (dry run)"
	}
	t.SetTitle(title)
	t.AppendHeader(table.Row{"File", "Kind", "Action"})
	for _, r := range s.Rows {
		t.AppendRow(table.Row{r.Path, r.Kind, string(r.Action)})
	}
	t.AppendFooter(table.Row{"", "Total", fmt.Sprintf("%d of %d changed", s.Changed(), len(s.Rows))})
	t.Render()
}
