// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ama-terasu/amaterasu/internal/issue"
	"github.com/ama-terasu/amaterasu/pkg/modules"
)

// DefaultTimeout bounds a registry search so it cannot stall discovery.
const DefaultTimeout = 30 * time.Second

// ErrSearchFailed wraps every searcher failure.
var ErrSearchFailed = errors.New("registry search failed")

type (
	// Searcher queries a package registry for packages tagged with a keyword.
	Searcher interface {
		Search(ctx context.Context, keyword string) ([]modules.SearchRecord, error)
	}

	// Client is the failure-tolerant front of a Searcher: it bounds the call with a
	// timeout and degrades every failure to an empty result.
	Client struct {
		searcher Searcher
		timeout  time.Duration
		logger   *slog.Logger
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)
)

// WithLogger sets the logger failures are reported to. The default is the slog
// default logger at the time of the search.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a Client. A non-positive timeout selects DefaultTimeout.
func NewClient(s Searcher, timeout time.Duration, opts ...ClientOption) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{searcher: s, timeout: timeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns the registry records tagged with keyword. Failures, including the
// timeout, are logged as warnings that name the RegistryUnavailable issue, and yield
// an empty result; only local modules will be listed in that case.
func (c *Client) Search(ctx context.Context, keyword string) []modules.SearchRecord {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	type outcome struct {
		records []modules.SearchRecord
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		recs, err := c.searcher.Search(ctx, keyword)
		done <- outcome{records: recs, err: err}
	}()

	logger := c.logger
	if logger == nil {
		logger = slog.Default()
	}
	unavailable := issue.Get(issue.RegistryUnavailableId).Title()

	select {
	case o := <-done:
		if o.err != nil {
			logger.Warn("registry search failed, listing local modules only",
				"keyword", keyword, "error", o.err, "issue", unavailable)
			return nil
		}
		return o.records
	case <-ctx.Done():
		logger.Warn("registry search did not answer in time, listing local modules only",
			"keyword", keyword, "timeout", c.timeout, "error", ctx.Err(), "issue", unavailable)
		return nil
	}
}
