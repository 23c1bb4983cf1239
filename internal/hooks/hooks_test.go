package hooks

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func writeScript(t *testing.T, unix string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("hook scripts are POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "hook.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+unix+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInvokeEmptyCommand(t *testing.T) {
	result, err := Invoke(context.Background(), Options{Op: "client.add"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Ran {
		t.Error("expected Ran to be false")
	}
}

func TestInvokeRequiresOp(t *testing.T) {
	_, err := Invoke(context.Background(), Options{Command: "true"})
	if err == nil {
		t.Fatal("expected error for empty op")
	}
}

func TestInvokePassesArguments(t *testing.T) {
	script := writeScript(t, `echo "$1|$2|$3|$4|$CLIENTDESK_OP|$CLIENTDESK_OVERDUE"`)
	var out bytes.Buffer

	result, err := Invoke(context.Background(), Options{
		Command: script,
		Op:      "task.append",
		Code:    "C1",
		Index:   2,
		Overdue: 3,
		Stdout:  &out,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !result.Ran || result.ExitCode != 0 {
		t.Errorf("result: got %+v", result)
	}
	if got := strings.TrimSpace(out.String()); got != "task.append|C1|2|3|task.append|3" {
		t.Errorf("hook output: got %q", got)
	}
}

func TestInvokeClientOpHasEmptyIndex(t *testing.T) {
	script := writeScript(t, `echo "[$3]"`)
	var out bytes.Buffer

	if _, err := Invoke(context.Background(), Options{Command: script, Op: "client.remove", Code: "C1", Index: -1, Stdout: &out}); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != "[]" {
		t.Errorf("index arg: got %q, want []", got)
	}
}

func TestInvokeHookFailure(t *testing.T) {
	script := writeScript(t, "exit 42")

	result, err := Invoke(context.Background(), Options{Command: script, Op: "client.add", Code: "C1", Index: -1})
	if err == nil {
		t.Fatal("expected error for failed hook, got nil")
	}
	if !result.Ran {
		t.Error("expected Ran to be true")
	}
	if result.ExitCode != 42 {
		t.Errorf("expected ExitCode 42, got %d", result.ExitCode)
	}
}

func TestInvokeWithWorkDir(t *testing.T) {
	script := writeScript(t, "pwd")
	workDir := t.TempDir()
	var out bytes.Buffer

	if _, err := Invoke(context.Background(), Options{Command: script, Op: "client.add", Index: -1, WorkDir: workDir, Stdout: &out}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got, _ := filepath.EvalSymlinks(strings.TrimSpace(out.String()))
	want, _ := filepath.EvalSymlinks(workDir)
	if got != want {
		t.Errorf("working dir: got %q, want %q", got, want)
	}
}

func TestInvokeMissingCommand(t *testing.T) {
	result, err := Invoke(context.Background(), Options{
		Command: filepath.Join(t.TempDir(), "does-not-exist"),
		Op:      "client.add",
		Index:   -1,
	})
	if err == nil {
		t.Fatal("expected error for missing command")
	}
	if result.ExitCode != -1 {
		t.Errorf("expected ExitCode -1, got %d", result.ExitCode)
	}
}

func TestInvokeWithContextCancellation(t *testing.T) {
	script := writeScript(t, "sleep 10")
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := Invoke(ctx, Options{Command: script, Op: "client.add", Index: -1})
	if err == nil {
		t.Fatal("expected error for cancelled hook")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("hook was not killed on cancellation")
	}
}

func TestExitCodeFromError(t *testing.T) {
	if got := exitCodeFromError(nil); got != 0 {
		t.Errorf("nil: got %d, want 0", got)
	}
	if got := exitCodeFromError(errors.New("boom")); got != -1 {
		t.Errorf("plain error: got %d, want -1", got)
	}
}
