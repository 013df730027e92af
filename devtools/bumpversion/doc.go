// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Bumpversion advances the project version and writes it into every file that
embeds it.

It looks for the project root by walking up from the current directory until
it finds a .devtools/config.txtar archive or a VERSION file. It then reads the
version from the version file, computes the next one from the current date and
rewrites, in order:

  - the version file;
  - the first line of the README, as "# <project> <version>";
  - the set(<prefix>_version_major ...) style variables of the build config;
  - the #define <PREFIX>_MAJOR style macros of the version header.

Two versioning policies are available. The month policy (the default) uses
MAJOR.MINOR.COUNTER, where MAJOR and MINOR are the year and month and COUNTER
starts over at 1 every month. The day policy uses
MAJOR.MINOR.YYDDD.REVISION, where YYDDD is the two-digit year followed by the
day of the year and REVISION starts over at 1 every day. Dates are in UTC.

The tool is configured through the stamp.yaml member of .devtools/config.txtar:

	project: demo
	policy: month           # or day
	version_file: VERSION
	readme: README.md
	build_config: CMakeLists.txt   # an empty value skips the file
	version_header: src/version.h  # an empty value skips the file
	cmake_prefix: demo
	macro_prefix: DEMO_VERSION

If the version file is malformed or a target is missing, nothing is written.
If a target fails while being rewritten, the files before it keep the new
version.

With -dry, the tool prints what it would do without writing anything.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/stamp/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
