// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Addheader adds the author and license header to the project's source files.

It looks for the project root by walking up from the current directory until
it finds a .devtools/config.txtar archive or a VERSION file, then walks the
source tree recursively in lexical order. Every source and header file that
does not already start with the header gets it prepended. In header files, a
leading "#pragma once" is replaced with an include guard named after the file,
e.g. FOO_H for Foo.h.

Running the tool twice changes nothing the second time.

The tool is configured through the stamp.yaml member of .devtools/config.txtar:

	headers:
	  dir: src
	  heuristic: exact     # or comment
	  author: Jane Doe
	  license: MIT
	  header_exts: [.h, .hpp]
	  source_exts: [.c, .cc, .cpp]
	  exclude:
	    - vendor/utstring.h

With the exact heuristic, a file has the header if its first line is the
first line of the header. With the comment heuristic, any file starting with
"/**" is treated as already headed.

The header text can be replaced with a header/template member. It may contain
a single %s verb, which is replaced with the file name.

With -dry, the tool prints the files that would get a header, without making
changes.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/stamp/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
