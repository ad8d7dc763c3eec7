// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ama-terasu/amaterasu/pkg/modules"
)

const (
	// DefaultBaseURL is the public npm registry.
	DefaultBaseURL = "https://registry.npmjs.org"

	// MaxPageSize is the largest page the search endpoint serves.
	MaxPageSize = 250

	// defaultMaxPages bounds pagination to avoid runaway requests.
	defaultMaxPages = 4

	// maxJSONResponseBytes is the upper bound on a search response body (10 MB).
	maxJSONResponseBytes = 10 << 20
)

type (
	// HTTPSearcher queries the registry's search endpoint directly, without a
	// package manager installed.
	HTTPSearcher struct {
		httpClient *http.Client
		baseURL    string
		pageSize   int
		maxPages   int
		userAgent  string
	}

	// HTTPOption configures an HTTPSearcher during construction.
	HTTPOption func(*HTTPSearcher)

	// StatusError is returned for non-200 responses.
	StatusError struct {
		StatusCode int
		RetryAfter string
	}
)

var _ Searcher = (*HTTPSearcher)(nil)

func (e *StatusError) Error() string {
	if e.StatusCode == http.StatusTooManyRequests && e.RetryAfter != "" {
		return fmt.Sprintf("registry rate limit exceeded (retry after %ss)", e.RetryAfter)
	}
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy configurations.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPSearcher) {
		s.httpClient = c
	}
}

// WithBaseURL overrides the registry URL.
func WithBaseURL(base string) HTTPOption {
	return func(s *HTTPSearcher) {
		s.baseURL = strings.TrimRight(base, "/")
	}
}

// WithPageSize sets the number of results requested per page, clamped to [1, MaxPageSize].
func WithPageSize(n int) HTTPOption {
	return func(s *HTTPSearcher) {
		s.pageSize = min(max(n, 1), MaxPageSize)
	}
}

// WithMaxPages bounds how many pages are fetched.
func WithMaxPages(n int) HTTPOption {
	return func(s *HTTPSearcher) {
		s.maxPages = max(n, 1)
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) HTTPOption {
	return func(s *HTTPSearcher) {
		s.userAgent = ua
	}
}

// NewHTTPSearcher creates an HTTPSearcher. Defaults: baseURL=DefaultBaseURL,
// pageSize=MaxPageSize, userAgent="amaterasu/dev", httpClient=http.DefaultClient.
func NewHTTPSearcher(opts ...HTTPOption) *HTTPSearcher {
	s := &HTTPSearcher{
		httpClient: http.DefaultClient,
		baseURL:    DefaultBaseURL,
		pageSize:   MaxPageSize,
		maxPages:   defaultMaxPages,
		userAgent:  "amaterasu/dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search fetches every package tagged with keyword, following pagination until the
// reported total is reached or the page limit is hit.
func (s *HTTPSearcher) Search(ctx context.Context, keyword string) ([]modules.SearchRecord, error) {
	var all []wireRecord

	for page := range s.maxPages {
		resp, err := s.fetchPage(ctx, keyword, page*s.pageSize)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
		}

		for i := range resp.Objects {
			all = append(all, resp.Objects[i].Package)
		}

		if len(resp.Objects) < s.pageSize || len(all) >= resp.Total {
			break
		}
	}

	return toRecords(all), nil
}

func (s *HTTPSearcher) fetchPage(ctx context.Context, keyword string, from int) (*searchResponse, error) {
	query := url.Values{}
	query.Set("text", "keywords:"+keyword)
	query.Set("size", strconv.Itoa(s.pageSize))
	if from > 0 {
		query.Set("from", strconv.Itoa(from))
	}
	reqURL := s.baseURL + "/-/v1/search?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, RetryAfter: resp.Header.Get("Retry-After")}
	}

	var out searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONResponseBytes)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &out, nil
}
