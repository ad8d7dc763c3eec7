// SPDX-License-Identifier: MPL-2.0

// Package runnertest provides a scripted runner.Runner for tests.
package runnertest

import (
	"context"
	"slices"
	"sync"

	"github.com/ama-terasu/amaterasu/internal/runner"
)

type (
	// Response is the scripted outcome of a matched command.
	Response struct {
		Stdout   string
		Stderr   string
		ExitCode int
		// Err is returned as is. When nil and ExitCode is non-zero, a *runner.ExitError
		// is returned.
		Err error
		// Do runs before the response is returned, e.g. to simulate files written by
		// the command. Its error replaces Err.
		Do func(cmd runner.Command) error
		// Gate, when set, blocks the call until it is closed or ctx is done.
		Gate <-chan struct{}
	}

	rule struct {
		match func(runner.Command) bool
		resp  Response
	}

	// Recorder records every command it runs and answers with the first matching
	// rule, or Default when none matches. It is safe for concurrent use.
	Recorder struct {
		Default Response

		mu    sync.Mutex
		rules []rule
		calls []runner.Command
	}
)

var _ runner.Runner = (*Recorder)(nil)

// On registers resp for commands accepted by match.
func (r *Recorder) On(match func(runner.Command) bool, resp Response) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule{match: match, resp: resp})
	return r
}

// OnArgs registers resp for commands whose arguments start with prefix.
func (r *Recorder) OnArgs(resp Response, prefix ...string) *Recorder {
	return r.On(func(c runner.Command) bool {
		return len(c.Args) >= len(prefix) && slices.Equal(c.Args[:len(prefix)], prefix)
	}, resp)
}

// Run implements runner.Runner.
func (r *Recorder) Run(ctx context.Context, cmd runner.Command) (runner.Result, error) {
	r.mu.Lock()
	r.calls = append(r.calls, cmd)
	resp := r.Default
	for _, rl := range r.rules {
		if rl.match(cmd) {
			resp = rl.resp
			break
		}
	}
	r.mu.Unlock()

	if resp.Gate != nil {
		select {
		case <-resp.Gate:
		case <-ctx.Done():
			return runner.Result{}, ctx.Err()
		}
	}

	res := runner.Result{
		Stdout:   []byte(resp.Stdout),
		Stderr:   []byte(resp.Stderr),
		ExitCode: resp.ExitCode,
	}

	err := resp.Err
	if resp.Do != nil {
		err = resp.Do(cmd)
	}
	if err == nil && resp.ExitCode != 0 {
		err = &runner.ExitError{Command: cmd.String(), ExitCode: resp.ExitCode, Stderr: resp.Stderr}
	}
	return res, err
}

// Calls returns the commands run so far, in order.
func (r *Recorder) Calls() []runner.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

// CountArgs returns how many recorded commands started with prefix.
func (r *Recorder) CountArgs(prefix ...string) int {
	n := 0
	for _, c := range r.Calls() {
		if len(c.Args) >= len(prefix) && slices.Equal(c.Args[:len(prefix)], prefix) {
			n++
		}
	}
	return n
}
