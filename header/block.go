// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package header

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.astrophena.name/stamp/rewrite"
	"go.astrophena.name/stamp/syncx"
)

const defaultTemplate = `/** \file %[1]s
 *
 * \author %[2]s
 *
 * This file is part of %[3]s.  It is released under the %[4]s license.
 * For more details, see the LICENSE file included with this package.
**/

`

// Block is the canonical author and license header.
type Block struct {
	Author  string
	Project string
	License string
	// Template, if set, replaces the default header text. Every "%s" in it
	// is replaced with the file name; other text is copied as is.
	Template string

	rendered syncx.Map[string, []string]
}

// Lines returns the header for the file name as lines.
func (b *Block) Lines(name string) []string {
	name = filepath.Base(name)
	if lines, ok := b.rendered.Load(name); ok {
		return lines
	}
	lines, _ := b.rendered.LoadOrStore(name, rewrite.Split([]byte(b.render(name))))
	return lines
}

// Marker returns the first line of the header for the file name. A file
// that starts with it already has the header.
func (b *Block) Marker(name string) string {
	lines := b.Lines(name)
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}

func (b *Block) render(name string) string {
	if b.Template == "" {
		return fmt.Sprintf(defaultTemplate, name, b.Author, b.Project, b.License)
	}
	return strings.ReplaceAll(b.Template, "%s", name)
}

// Guard returns the include guard token for the file name: the base name
// upper-cased, with every character that is not an ASCII letter or digit
// replaced by an underscore.
func Guard(name string) string {
	name = strings.ToUpper(filepath.Base(name))
	var sb strings.Builder
	for _, r := range name {
		if ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') {
			sb.WriteRune(r)
			continue
		}
		sb.WriteByte('_')
	}
	return sb.String()
}
