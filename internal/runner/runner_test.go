// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"slices"
	"strings"
	"testing"
	"time"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestCommandString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cmd  Command
		want string
	}{
		{
			cmd:  Command{Name: "npm", Args: []string{"search", "amaterasu-module", "--json"}},
			want: "npm search amaterasu-module --json",
		},
		{
			cmd:  Command{Name: "npm", Args: []string{"install", "a b"}},
			want: "npm install 'a b'",
		},
		{
			cmd:  Command{Name: "npm", Args: []string{""}},
			want: "npm ''",
		},
	}

	for _, tt := range tests {
		if got := tt.cmd.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestExecRunnerSuccess(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	dir := t.TempDir()
	var live bytes.Buffer
	res, err := ExecRunner{}.Run(context.Background(), Command{
		Name:   "sh",
		Args:   []string{"-c", `pwd; echo "$AMATERASU_TEST"`},
		Dir:    dir,
		Env:    []string{"AMATERASU_TEST=hello"},
		Stdout: &live,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(res.Stdout)), "\n")
	if len(lines) != 2 || !strings.HasSuffix(lines[0], strings.TrimPrefix(dir, "/private")) || lines[1] != "hello" {
		t.Errorf("stdout = %q", res.Stdout)
	}
	if live.String() != string(res.Stdout) {
		t.Errorf("live copy = %q, want %q", live.String(), res.Stdout)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d", res.ExitCode)
	}
}

func TestExecRunnerExitError(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	res, err := ExecRunner{}.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo partial; echo first >&2; echo 'npm ERR! 404' >&2; exit 3"},
	})

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Run() error = %v, want *ExitError", err)
	}
	if !errors.Is(err, ErrCommandFailed) {
		t.Error("error should wrap ErrCommandFailed")
	}
	var osExit *exec.ExitError
	if !errors.As(err, &osExit) {
		t.Error("error should wrap the *exec.ExitError cause")
	}
	if exitErr.ExitCode != 3 || res.ExitCode != 3 {
		t.Errorf("exit codes = %d/%d, want 3", exitErr.ExitCode, res.ExitCode)
	}
	if !strings.HasSuffix(err.Error(), "exited with status 3: npm ERR! 404") {
		t.Errorf("Error() = %q", err.Error())
	}
	if string(res.Stdout) != "partial\n" {
		t.Errorf("stdout = %q", res.Stdout)
	}
}

func TestExecRunnerNotFound(t *testing.T) {
	t.Parallel()

	_, err := ExecRunner{}.Run(context.Background(), Command{Name: "amaterasu-no-such-binary"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("error = %v, want exec.ErrNotFound", err)
	}
	if errors.Is(err, ErrCommandFailed) {
		t.Error("a process that never started is not a failed command")
	}
}

func TestExecRunnerContextCancel(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := ExecRunner{}.Run(ctx, Command{Name: "sh", Args: []string{"-c", "sleep 5"}})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
}

func TestParseCommandLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line     string
		wantName string
		wantArgs []string
		wantErr  bool
	}{
		{line: "npm", wantName: "npm"},
		{line: "npm --prefer-offline", wantName: "npm", wantArgs: []string{"--prefer-offline"}},
		{line: `"/opt/node js/bin/npm" --loglevel 'warn'`, wantName: "/opt/node js/bin/npm", wantArgs: []string{"--loglevel", "warn"}},
		{line: "  ", wantErr: true},
		{line: `npm "unterminated`, wantErr: true},
	}

	for _, tt := range tests {
		name, args, err := ParseCommandLine(tt.line)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseCommandLine(%q) expected error", tt.line)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCommandLine(%q) error = %v", tt.line, err)
			continue
		}
		if name != tt.wantName || !slices.Equal(args, tt.wantArgs) {
			t.Errorf("ParseCommandLine(%q) = %q %q, want %q %q", tt.line, name, args, tt.wantName, tt.wantArgs)
		}
	}
}
