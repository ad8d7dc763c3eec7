// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/ama-terasu/amaterasu/internal/runner"
	"github.com/ama-terasu/amaterasu/pkg/modules"
)

// CLISearcher searches through the package manager's own `search` command.
type CLISearcher struct {
	runner runner.Runner
	binary string
	args   []string
}

var _ Searcher = (*CLISearcher)(nil)

// NewCLISearcher creates a searcher running binary with the leading args prepended
// to every invocation.
func NewCLISearcher(r runner.Runner, binary string, args ...string) *CLISearcher {
	return &CLISearcher{runner: r, binary: binary, args: slices.Clone(args)}
}

// Search runs `<binary> search <keyword> --json` and decodes its output.
// Empty output means no results.
func (s *CLISearcher) Search(ctx context.Context, keyword string) ([]modules.SearchRecord, error) {
	cmd := runner.Command{
		Name: s.binary,
		Args: append(slices.Clone(s.args), "search", keyword, "--json"),
	}

	res, err := s.runner.Run(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	out := bytes.TrimSpace(res.Stdout)
	if len(out) == 0 {
		return nil, nil
	}

	var raw []wireRecord
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, fmt.Errorf("%w: decoding %s output: %w", ErrSearchFailed, cmd.Name, err)
	}
	return toRecords(raw), nil
}
