// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.astrophena.name/stamp/cli"
	"go.astrophena.name/stamp/internal/config"
	"go.astrophena.name/stamp/internal/project"
	"go.astrophena.name/stamp/internal/report"
	"go.astrophena.name/stamp/logger"
)

func main() { cli.Main(new(app)) }

type app struct {
	dry bool

	// root and now are overridden in tests.
	root string
	now  func() time.Time
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.BoolVar(&a.dry, "dry", false, "Print the new version and the files that would change, without making changes.")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)
	if len(env.Args) > 0 {
		return fmt.Errorf("%w: unexpected arguments %q", cli.ErrInvalidArgs, env.Args)
	}

	root, err := a.findRoot()
	if err != nil {
		return err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	now := time.Now
	if a.now != nil {
		now = a.now
	}

	res, err := cfg.Propagator(a.dry).Bump(ctx, now())
	if res != nil {
		fmt.Fprintln(env.Stdout, res.Version)
		s := &report.Summary{Title: "Version " + res.Version, Dry: a.dry}
		for _, f := range res.Files {
			action := report.Unchanged
			if f.Changed {
				action = report.Updated
			}
			s.Add(f.Path, f.Name, action)
		}
		s.Render(env.Stdout, cli.TerminalWidth(env.Stdout))
	}
	switch {
	case err != nil && res != nil:
		logger.Error(ctx, "bump stopped, files listed above keep the new version",
			slog.String("version", res.Version),
			slog.Int("updated", len(res.Files)),
		)
	case err == nil && a.dry:
		env.Logf("Dry run: no files were written.")
	}
	return err
}

func (a *app) findRoot() (string, error) {
	if a.root != "" {
		return a.root, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return project.FindRoot(wd)
}
