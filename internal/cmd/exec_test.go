package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/miketan/gitprop/internal/log"
)

func testCtx() context.Context {
	return log.WithLogger(context.Background(), log.New(&bytes.Buffer{}, false, false))
}

func TestRunContext(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		if err := RunContext(testCtx(), "", "true"); err != nil {
			t.Errorf("RunContext(true) = %v, want nil", err)
		}
	})

	t.Run("runs in the given dir", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		if err := RunContext(testCtx(), dir, "ls"); err != nil {
			t.Errorf("RunContext in %s = %v, want nil", dir, err)
		}
	})

	t.Run("failure carries trimmed stderr", func(t *testing.T) {
		t.Parallel()
		err := RunContext(testCtx(), "", "sh", "-c", "echo 'fatal: not a git repository' >&2; exit 128")
		if err == nil {
			t.Fatal("expected error for exit 128")
		}
		if got := err.Error(); got != "fatal: not a git repository" {
			t.Errorf("error = %q, want the stderr line", got)
		}

		var cmdErr *Error
		if !errors.As(err, &cmdErr) {
			t.Fatalf("error is %T, want *Error", err)
		}
		if cmdErr.ExitCode != 128 {
			t.Errorf("ExitCode = %d, want 128", cmdErr.ExitCode)
		}
	})

	t.Run("silent failure falls back to command description", func(t *testing.T) {
		t.Parallel()
		err := RunContext(testCtx(), "", "sh", "-c", "exit 1")
		if err == nil {
			t.Fatal("expected error for exit 1")
		}
		if !strings.Contains(err.Error(), "sh") {
			t.Errorf("error = %q, should name the command when stderr is empty", err.Error())
		}
	})

	t.Run("cancelled context wins over exit status", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(testCtx())
		cancel()
		if err := RunContext(ctx, "", "sleep", "5"); !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

func TestOutputContext(t *testing.T) {
	t.Parallel()

	t.Run("returns stdout only", func(t *testing.T) {
		t.Parallel()
		out, err := OutputContext(testCtx(), "", "sh", "-c", "echo data; echo noise >&2")
		if err != nil {
			t.Fatalf("OutputContext = %v, want nil", err)
		}
		if got := string(out); got != "data\n" {
			t.Errorf("output = %q, want %q (stderr must not leak into stdout)", got, "data\n")
		}
	})

	t.Run("failure carries trimmed stderr", func(t *testing.T) {
		t.Parallel()
		_, err := OutputContext(testCtx(), "", "sh", "-c", "echo 'bad revision' >&2; exit 1")
		if err == nil {
			t.Fatal("expected error for exit 1")
		}
		if err.Error() != "bad revision" {
			t.Errorf("error = %q, want %q", err.Error(), "bad revision")
		}
	})

	t.Run("cancelled context wins over exit status", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(testCtx())
		cancel()
		if _, err := OutputContext(ctx, "", "sleep", "5"); !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}
