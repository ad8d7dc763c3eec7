// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"mvdan.cc/sh/v3/shell"
	"mvdan.cc/sh/v3/syntax"
)

// ErrCommandFailed is the sentinel wrapped by ExitError.
var ErrCommandFailed = errors.New("command failed")

type (
	// Command describes one external process invocation.
	Command struct {
		Name string
		Args []string
		// Dir is the working directory. Empty means the current directory.
		Dir string
		// Env is appended to the current environment.
		Env []string
		// Stdout and Stderr optionally receive a live copy of the output, which is
		// buffered into Result either way.
		Stdout io.Writer
		Stderr io.Writer
	}

	// Result holds the buffered output of a finished process.
	Result struct {
		Stdout   []byte
		Stderr   []byte
		ExitCode int
	}

	// Runner runs external commands. Implementations must honor ctx cancellation.
	Runner interface {
		Run(ctx context.Context, cmd Command) (Result, error)
	}

	// ExecRunner runs commands with os/exec.
	ExecRunner struct{}

	// ExitError is returned when a process ran but exited with a non-zero status.
	// It wraps both ErrCommandFailed and the underlying cause.
	ExitError struct {
		Command  string
		ExitCode int
		Stderr   string
		Cause    error
	}
)

var _ Runner = ExecRunner{}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
	if line := lastLine(e.Stderr); line != "" {
		msg += ": " + line
	}
	return msg
}

// Unwrap returns ErrCommandFailed and the cause for errors.Is() compatibility.
func (e *ExitError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrCommandFailed}
	}
	return []error{ErrCommandFailed, e.Cause}
}

// String renders the command as a shell-quoted command line, for logs and errors.
func (c Command) String() string {
	words := make([]string, 0, len(c.Args)+1)
	for _, w := range append([]string{c.Name}, c.Args...) {
		q, err := syntax.Quote(w, syntax.LangBash)
		if err != nil {
			q = fmt.Sprintf("%q", w)
		}
		words = append(words, q)
	}
	return strings.Join(words, " ")
}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = tee(&stdout, c.Stdout)
	cmd.Stderr = tee(&stderr, c.Stderr)

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return res, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, fmt.Errorf("%s: %w", c, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, &ExitError{
			Command:  c.String(),
			ExitCode: res.ExitCode,
			Stderr:   stderr.String(),
			Cause:    err,
		}
	}

	return res, fmt.Errorf("failed to start %s: %w", c.Name, err)
}

// ParseCommandLine splits a configured command such as "npm --prefer-offline" into
// the binary and its leading arguments, using shell word rules.
func ParseCommandLine(line string) (name string, args []string, err error) {
	fields, err := shell.Fields(line, func(string) string { return "" })
	if err != nil {
		return "", nil, fmt.Errorf("invalid command line %q: %w", line, err)
	}
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("invalid command line %q: empty", line)
	}
	return fields[0], fields[1:], nil
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
