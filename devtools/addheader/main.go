// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"go.astrophena.name/stamp/cli"
	"go.astrophena.name/stamp/header"
	"go.astrophena.name/stamp/internal/config"
	"go.astrophena.name/stamp/internal/project"
	"go.astrophena.name/stamp/internal/report"
)

func main() { cli.Main(new(app)) }

type app struct {
	dry bool

	// root is overridden in tests.
	root string
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.BoolVar(&a.dry, "dry", false, "Print the files that would have a header added, without making changes.")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)
	if len(env.Args) > 0 {
		return fmt.Errorf("%w: unexpected arguments %q", cli.ErrInvalidArgs, env.Args)
	}

	root := a.root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		if root, err = project.FindRoot(wd); err != nil {
			return err
		}
	}
	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	reports, err := cfg.Injector(a.dry).Tree(ctx, cfg.HeaderRoot())
	s := &report.Summary{Title: "Headers", Dry: a.dry}
	for _, r := range reports {
		s.Add(path.Join(filepath.ToSlash(cfg.HeaderDir), r.Path), r.Kind.String(), action(r.Trace))
	}
	if len(s.Rows) > 0 {
		s.Render(env.Stdout, cli.TerminalWidth(env.Stdout))
	}
	if err == nil && a.dry {
		env.Logf("Dry run: %d of %d files would change.", s.Changed(), len(s.Rows))
	}
	return err
}

func action(t header.Trace) report.Action {
	switch {
	case t.Guarded():
		return report.Guarded
	case t.Changed():
		return report.Headed
	}
	return report.Skipped
}
