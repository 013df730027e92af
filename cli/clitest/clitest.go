// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package clitest provides a table-driven harness for testing [cli.App]
// implementations.
package clitest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"go.astrophena.name/stamp/cli"
)

// Case is a single test case for an application of type T.
type Case[T cli.App] struct {
	// Args are the command-line arguments, without the program name.
	Args []string
	// Stdin is the standard input. It defaults to an empty reader.
	Stdin io.Reader
	// Env holds the environment variables visible to the application.
	Env map[string]string
	// WantNothingPrinted requires both stdout and stderr to be empty.
	WantNothingPrinted bool
	// WantInStdout and WantInStderr, if set, must be contained in the
	// respective outputs.
	WantInStdout string
	WantInStderr string
	// WantErr, if set, must match the returned error with errors.Is.
	WantErr error
	// WantErrType, if set, must match the returned error with errors.As.
	WantErrType error
	// CheckFunc, if set, is called with the application after it has run.
	CheckFunc func(*testing.T, T)
}

// Run runs every case against a fresh application returned by setup.
func Run[T cli.App](t *testing.T, setup func(*testing.T) T, cases map[string]Case[T]) {
	t.Helper()
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			app := setup(t)

			stdin := tc.Stdin
			if stdin == nil {
				stdin = strings.NewReader("")
			}
			var stdout, stderr bytes.Buffer
			env := &cli.Env{
				Args:   tc.Args,
				Getenv: func(key string) string { return tc.Env[key] },
				Stdin:  stdin,
				Stdout: &stdout,
				Stderr: &stderr,
			}

			err := cli.Run(cli.WithEnv(context.Background(), env), app)
			checkErr(t, err, tc.WantErr, tc.WantErrType)

			if tc.WantNothingPrinted {
				if stdout.Len() > 0 {
					t.Errorf("stdout must be empty, got: %q", stdout.String())
				}
				if stderr.Len() > 0 {
					t.Errorf("stderr must be empty, got: %q", stderr.String())
				}
			}
			if tc.WantInStdout != "" && !strings.Contains(stdout.String(), tc.WantInStdout) {
				t.Errorf("stdout must contain %q, got: %q", tc.WantInStdout, stdout.String())
			}
			if tc.WantInStderr != "" && !strings.Contains(stderr.String(), tc.WantInStderr) {
				t.Errorf("stderr must contain %q, got: %q", tc.WantInStderr, stderr.String())
			}

			if tc.CheckFunc != nil {
				tc.CheckFunc(t, app)
			}
		})
	}
}

func checkErr(t *testing.T, err, wantErr, wantErrType error) {
	t.Helper()
	switch {
	case wantErr != nil:
		if !errors.Is(err, wantErr) {
			t.Fatalf("want error %v, got %v", wantErr, err)
		}
	case wantErrType != nil:
		target := reflect.New(reflect.TypeOf(wantErrType))
		if !errors.As(err, target.Interface()) {
			t.Fatalf("want error of type %T, got %v", wantErrType, err)
		}
	case err != nil:
		t.Fatalf("unexpected error: %v", err)
	}
}
