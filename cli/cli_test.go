// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package cli_test

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"go.astrophena.name/stamp/cli"
	"go.astrophena.name/stamp/logger"
	"go.astrophena.name/stamp/testutil"
	"go.astrophena.name/stamp/version"
)

func runTest(t *testing.T, app cli.App, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errb bytes.Buffer
	env := &cli.Env{
		Args:   args,
		Stdin:  strings.NewReader(""),
		Stdout: &out,
		Stderr: &errb,
		Getenv: func(s string) string { return "" },
	}
	ctx := cli.WithEnv(context.Background(), env)

	runErr := cli.Run(ctx, app)

	return out.String(), errb.String(), runErr
}

// simpleApp prints its args to stdout.
type simpleApp struct{}

func (a *simpleApp) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)
	for _, arg := range env.Args {
		fmt.Fprintln(env.Stdout, arg)
	}
	return nil
}

// appWithFlags has some flags.
type appWithFlags struct {
	s string
	b bool
	i int
}

func (a *appWithFlags) Flags(f *flag.FlagSet) {
	f.StringVar(&a.s, "s", "default", "string flag")
	f.BoolVar(&a.b, "b", false, "bool flag")
	f.IntVar(&a.i, "i", 0, "int flag")
}

func (a *appWithFlags) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)
	fmt.Fprintf(env.Stdout, "s=%s, b=%v, i=%d", a.s, a.b, a.i)
	if len(env.Args) > 0 {
		fmt.Fprintf(env.Stdout, ", args=%v", env.Args)
	}
	return nil
}

var errAppFailed = errors.New("app failed deliberately")

// failingApp always returns an error.
var failingApp = cli.AppFunc(func(ctx context.Context) error {
	return errAppFailed
})

// invalidArgsApp returns ErrInvalidArgs.
var invalidArgsApp = cli.AppFunc(func(ctx context.Context) error {
	return fmt.Errorf("%w: missing filename", cli.ErrInvalidArgs)
})

// appWithVersionFlag defines its own -version flag.
type appWithVersionFlag struct {
	version bool
}

func (a *appWithVersionFlag) Flags(f *flag.FlagSet) {
	f.BoolVar(&a.version, "version", false, "app version")
}

func (a *appWithVersionFlag) Run(ctx context.Context) error {
	if a.version {
		fmt.Fprint(cli.GetEnv(ctx).Stdout, "app version printed")
	}
	return nil
}

func TestRun(t *testing.T) {
	t.Run("simple", func(t *testing.T) {
		stdout, stderr, err := runTest(t, &simpleApp{}, "hello", "world")
		testutil.AssertEqual(t, err, nil)
		testutil.AssertEqual(t, stderr, "")
		testutil.AssertEqual(t, stdout, "hello\nworld\n")
	})

	t.Run("failing", func(t *testing.T) {
		_, _, err := runTest(t, failingApp)
		if !errors.Is(err, errAppFailed) {
			t.Fatalf("want err %v, got %v", errAppFailed, err)
		}
	})

	t.Run("invalid args", func(t *testing.T) {
		_, stderr, err := runTest(t, invalidArgsApp)
		if !errors.Is(err, cli.ErrInvalidArgs) {
			t.Fatalf("want err to wrap cli.ErrInvalidArgs, got %v", err)
		}
		testutil.AssertEqual(t, err.Error(), "invalid arguments: missing filename")
		testutil.AssertEqual(t, stderr, "") // Run itself doesn't print the error.
	})

	t.Run("app with flags", func(t *testing.T) {
		t.Run("defaults", func(t *testing.T) {
			stdout, _, err := runTest(t, &appWithFlags{})
			testutil.AssertEqual(t, err, nil)
			testutil.AssertEqual(t, stdout, "s=default, b=false, i=0")
		})
		t.Run("with flags and args", func(t *testing.T) {
			stdout, _, err := runTest(t, &appWithFlags{}, "-s", "foo", "-b", "arg1", "arg2")
			testutil.AssertEqual(t, err, nil)
			testutil.AssertEqual(t, stdout, "s=foo, b=true, i=0, args=[arg1 arg2]")
		})
		t.Run("invalid flag value", func(t *testing.T) {
			_, stderr, err := runTest(t, &appWithFlags{}, "-i", "not-an-int")
			if err == nil {
				t.Fatal("expected an error, got nil")
			}
			// This error from the flag package is wrapped in an unprintableError.
			// cli.Main would not print it, but the flag package prints its own message.
			wantInStderr := "invalid value \"not-an-int\" for flag -i: parse error"
			if !strings.Contains(stderr, wantInStderr) {
				t.Errorf("stderr must contain %q, got: %q", wantInStderr, stderr)
			}
		})
	})

	t.Run("version flag", func(t *testing.T) {
		_, stderr, err := runTest(t, &simpleApp{}, "-version")
		if !errors.Is(err, cli.ErrExitVersion) {
			t.Fatalf("want err %v, got %v", cli.ErrExitVersion, err)
		}
		wantVersionOut := version.Version().String()
		testutil.AssertEqual(t, stderr, wantVersionOut)
	})

	t.Run("app with own version flag", func(t *testing.T) {
		stdout, stderr, err := runTest(t, &appWithVersionFlag{}, "-version")
		testutil.AssertEqual(t, err, nil)
		testutil.AssertEqual(t, stderr, "")
		testutil.AssertEqual(t, stdout, "app version printed")
	})

	t.Run("help flag", func(t *testing.T) {
		_, stderr, err := runTest(t, &simpleApp{}, "-h")
		if !errors.Is(err, flag.ErrHelp) {
			t.Fatalf("expected error to wrap flag.ErrHelp, but it didn't: %v", err)
		}
		if !strings.Contains(stderr, "Available flags:") {
			t.Errorf("stderr must contain 'Available flags:', got: %q", stderr)
		}
		if !strings.Contains(stderr, "-v\t") {
			t.Errorf("stderr must list the -v flag, got: %q", stderr)
		}
	})

	t.Run("doc comment", func(t *testing.T) {
		const doc = "/*\nMy Test App\nThis is a test application.\n*/\npackage main"
		cli.SetDocComment([]byte(doc))
		t.Cleanup(func() {
			cli.SetDocComment(nil)
		})

		_, stderr, err := runTest(t, &simpleApp{}, "-h")
		if !errors.Is(err, flag.ErrHelp) {
			t.Fatalf("expected error to wrap flag.ErrHelp, but it didn't: %v", err)
		}

		wantDoc := "My Test App\nThis is a test application.\n"
		if !strings.Contains(stderr, wantDoc) {
			t.Errorf("stderr must contain doc comment %q, got: %q", wantDoc, stderr)
		}
	})
}

// loggingApp logs one message at each of the debug and info levels.
var loggingApp = cli.AppFunc(func(ctx context.Context) error {
	logger.Debug(ctx, "skipped file")
	logger.Info(ctx, "rewrote file")
	return nil
})

func TestLogging(t *testing.T) {
	t.Run("info by default", func(t *testing.T) {
		_, stderr, err := runTest(t, loggingApp)
		testutil.AssertEqual(t, err, nil)
		if !strings.Contains(stderr, "rewrote file") {
			t.Errorf("stderr must contain the info message, got: %q", stderr)
		}
		if strings.Contains(stderr, "skipped file") {
			t.Errorf("stderr must not contain the debug message, got: %q", stderr)
		}
		if strings.Contains(stderr, "\x1b[") {
			t.Errorf("output to a buffer must not be colored, got: %q", stderr)
		}
	})

	t.Run("verbose", func(t *testing.T) {
		_, stderr, err := runTest(t, loggingApp, "-v")
		testutil.AssertEqual(t, err, nil)
		if !strings.Contains(stderr, "skipped file") {
			t.Errorf("stderr must contain the debug message, got: %q", stderr)
		}
	})

	t.Run("logger from context is kept", func(t *testing.T) {
		var logs bytes.Buffer
		l := logger.New(nil)
		l.Attach(logger.NewTerminalHandler(&logs, l.Level, false))

		var stderr bytes.Buffer
		env := &cli.Env{
			Stdin:  strings.NewReader(""),
			Stdout: io.Discard,
			Stderr: &stderr,
			Getenv: func(string) string { return "" },
		}
		ctx := cli.WithEnv(logger.Put(context.Background(), l), env)
		testutil.AssertEqual(t, cli.Run(ctx, loggingApp), nil)
		testutil.AssertEqual(t, stderr.String(), "")
		if !strings.Contains(logs.String(), "rewrote file") {
			t.Errorf("context logger must receive the message, got: %q", logs.String())
		}
	})
}

func TestTerminalWidth(t *testing.T) {
	testutil.AssertEqual(t, cli.TerminalWidth(&bytes.Buffer{}), 0)

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	testutil.AssertEqual(t, cli.TerminalWidth(f), 0)

	old := cli.IsTerminal
	cli.IsTerminal = func(int) bool { return true }
	t.Cleanup(func() { cli.IsTerminal = old })
	// A regular file claimed to be a terminal still has no size.
	testutil.AssertEqual(t, cli.TerminalWidth(f), 0)
}
