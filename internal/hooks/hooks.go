// Package hooks invokes the external post-mutation hook.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
)

// Options configures a hook invocation.
type Options struct {
	Command string
	Op      string
	Code    string
	// Index is the task position, or -1 for client operations.
	Index   int
	Overdue int
	WorkDir string
	Stdout  io.Writer
	Stderr  io.Writer
}

// Result captures the outcome of a hook invocation.
type Result struct {
	Ran      bool
	Command  []string
	ExitCode int
}

// Invoke runs the hook command as
//
//	<command> <op> <code> <index> <overdue>
//
// with the same values in CLIENTDESK_* environment variables. An empty
// command does nothing.
func Invoke(ctx context.Context, opts Options) (Result, error) {
	if opts.Command == "" {
		return Result{}, nil
	}
	if opts.Op == "" {
		return Result{}, fmt.Errorf("hook: operation is empty")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	index := ""
	if opts.Index >= 0 {
		index = strconv.Itoa(opts.Index)
	}
	overdue := strconv.Itoa(opts.Overdue)
	args := []string{opts.Op, opts.Code, index, overdue}

	cmd := exec.CommandContext(ctx, opts.Command, args...)
	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}
	cmd.Env = append(os.Environ(),
		"CLIENTDESK_OP="+opts.Op,
		"CLIENTDESK_CODE="+opts.Code,
		"CLIENTDESK_INDEX="+index,
		"CLIENTDESK_OVERDUE="+overdue,
	)
	cmd.Stdout = opts.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = opts.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()
	result := Result{
		Ran:      true,
		Command:  cmd.Args,
		ExitCode: exitCodeFromError(err),
	}
	if err != nil {
		return result, fmt.Errorf("hook command failed: %w", err)
	}
	return result, nil
}

func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
