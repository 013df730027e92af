// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package logger

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"go.astrophena.name/stamp/testutil"
)

func TestLogfWriter(t *testing.T) {
	var (
		logged  bool
		message string
	)
	logf := func(format string, args ...any) {
		logged = true
		message = fmt.Sprintf(format, args...)
	}
	Logf(logf).Write([]byte("hello"))
	testutil.AssertEqual(t, logged, true)
	testutil.AssertEqual(t, message, "hello")
}

func TestGetDefault(t *testing.T) {
	l := Get(context.Background())
	testutil.AssertEqual(t, IsDefault(l), true)
	// Must not panic.
	Info(context.Background(), "discarded")
}

func TestTerminalHandler(t *testing.T) {
	var buf bytes.Buffer
	l := New(nil)
	l.Attach(NewTerminalHandler(&buf, l.Level, false))
	ctx := Put(context.Background(), l)

	Debug(ctx, "hidden")
	Info(ctx, "added header", slog.String("path", "src/Foo.h"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record must be dropped at info level, got: %q", out)
	}
	if !strings.Contains(out, "added header") || !strings.Contains(out, "path=src/Foo.h") {
		t.Errorf("unexpected output: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("output must not be colored, got: %q", out)
	}

	LevelVar(ctx).Set(slog.LevelDebug)
	Debug(ctx, "now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("debug record must be logged after lowering the level, got: %q", buf.String())
	}
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(nil)
	l.Attach(NewTerminalHandler(&buf, l.Level, false))
	ctx := Put(context.Background(), l)

	Warn(ctx, "no version lines found")
	Error(ctx, "bump stopped")

	out := buf.String()
	for _, want := range []string{"WRN no version lines found", "ERR bump stopped"} {
		if !strings.Contains(out, want) {
			t.Errorf("output must contain %q, got: %q", want, out)
		}
	}
}
