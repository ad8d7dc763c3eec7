// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ama-terasu/amaterasu/internal/runner"
	"github.com/ama-terasu/amaterasu/internal/runner/runnertest"
	"github.com/ama-terasu/amaterasu/pkg/modules"
)

const npmSearchOutput = `[
  {
    "name": "@ama-terasu/amaterasu-otter",
    "scope": "ama-terasu",
    "version": "3.1.0",
    "description": "Otter helpers",
    "keywords": ["amaterasu-module", "otter"],
    "date": "2024-05-02T09:12:44.301Z",
    "links": {"npm": "https://www.npmjs.com/package/@ama-terasu/amaterasu-otter"},
    "publisher": {"username": "ama", "email": "ama@example.com"},
    "maintainers": [{"username": "ama", "email": "ama@example.com"}]
  },
  {
    "name": "amaterasu-legacy",
    "scope": "unscoped",
    "version": "0.0.1",
    "keywords": "amaterasu-module, legacy",
    "date": null,
    "publisher": {"username": "old"}
  }
]`

func TestCLISearcher(t *testing.T) {
	t.Parallel()

	rec := (&runnertest.Recorder{}).OnArgs(runnertest.Response{Stdout: npmSearchOutput}, "--prefer-online", "search")
	s := NewCLISearcher(rec, "npm", "--prefer-online")

	got, err := s.Search(context.Background(), modules.Keyword)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	calls := rec.Calls()
	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(calls))
	}
	wantArgs := []string{"--prefer-online", "search", "amaterasu-module", "--json"}
	if calls[0].Name != "npm" || !slices.Equal(calls[0].Args, wantArgs) {
		t.Errorf("command = %s", calls[0])
	}

	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	otter := got[0]
	if otter.Name != "@ama-terasu/amaterasu-otter" || otter.Version != "3.1.0" || otter.Scope != "ama-terasu" {
		t.Errorf("record = %+v", otter)
	}
	if !otter.HasKeyword(modules.Keyword) {
		t.Errorf("keywords = %v", otter.Keywords)
	}
	wantDate := time.Date(2024, 5, 2, 9, 12, 44, 301_000_000, time.UTC)
	if !otter.PublishedAt.Equal(wantDate) {
		t.Errorf("PublishedAt = %v, want %v", otter.PublishedAt, wantDate)
	}
	if otter.Links["npm"] == "" {
		t.Error("links not decoded")
	}

	legacy := got[1]
	if !slices.Equal(legacy.Keywords, []string{"amaterasu-module", "legacy"}) {
		t.Errorf("string keywords = %q", legacy.Keywords)
	}
	if !legacy.PublishedAt.IsZero() {
		t.Errorf("null date should stay zero, got %v", legacy.PublishedAt)
	}
	if len(legacy.Maintainers) != 1 || legacy.Maintainers[0].Name != "old" {
		t.Errorf("publisher should stand in for maintainers, got %+v", legacy.Maintainers)
	}
}

func TestCLISearcherFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		resp     runnertest.Response
		wantErr  bool
		wantRecs int
	}{
		{name: "non-zero exit", resp: runnertest.Response{ExitCode: 1, Stderr: "npm ERR! network"}, wantErr: true},
		{name: "binary missing", resp: runnertest.Response{Err: errors.New(`exec: "npm": executable file not found in $PATH`)}, wantErr: true},
		{name: "garbled output", resp: runnertest.Response{Stdout: "npm WARN something\n[{"}, wantErr: true},
		{name: "object instead of array", resp: runnertest.Response{Stdout: `{"error":{"code":"E500"}}`}, wantErr: true},
		{name: "empty output", resp: runnertest.Response{Stdout: "\n"}},
		{name: "no results", resp: runnertest.Response{Stdout: "[]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewCLISearcher(&runnertest.Recorder{Default: tt.resp}, "npm")
			got, err := s.Search(context.Background(), modules.Keyword)
			if tt.wantErr {
				if !errors.Is(err, ErrSearchFailed) {
					t.Fatalf("Search() error = %v, want ErrSearchFailed", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if len(got) != tt.wantRecs {
				t.Errorf("got %d records, want %d", len(got), tt.wantRecs)
			}
		})
	}

	s := NewCLISearcher(&runnertest.Recorder{Default: runnertest.Response{ExitCode: 2}}, "npm")
	_, err := s.Search(context.Background(), modules.Keyword)
	if !errors.Is(err, runner.ErrCommandFailed) {
		t.Errorf("error %v should keep the runner cause", err)
	}
}

// searchServer serves total packages named pkg-<n> through the search endpoint.
func searchServer(t *testing.T, total int, hits *atomic.Int32) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/-/v1/search" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("text"); got != "keywords:amaterasu-module" {
			t.Errorf("text = %q", got)
		}
		if ua := r.Header.Get("User-Agent"); ua != "amaterasu/test" {
			t.Errorf("User-Agent = %q", ua)
		}

		size, _ := strconv.Atoi(r.URL.Query().Get("size"))
		from, _ := strconv.Atoi(r.URL.Query().Get("from"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"objects":[`)
		for i := from; i < min(from+size, total); i++ {
			if i > from {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"package":{"name":"pkg-%d","version":"1.0.%d","keywords":["amaterasu-module"],"date":"2024-01-01T00:00:00Z"}}`, i, i)
		}
		fmt.Fprintf(w, `],"total":%d}`, total)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPSearcherPagination(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := searchServer(t, 5, &hits)
	s := NewHTTPSearcher(
		WithBaseURL(srv.URL+"/"),
		WithHTTPClient(srv.Client()),
		WithPageSize(2),
		WithUserAgent("amaterasu/test"),
	)

	got, err := s.Search(context.Background(), modules.Keyword)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	names := make([]string, len(got))
	for i := range got {
		names[i] = got[i].Name
	}
	want := []string{"pkg-0", "pkg-1", "pkg-2", "pkg-3", "pkg-4"}
	if !slices.Equal(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
	if hits.Load() != 3 {
		t.Errorf("requests = %d, want 3", hits.Load())
	}
}

func TestHTTPSearcherMaxPages(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := searchServer(t, 100, &hits)
	s := NewHTTPSearcher(
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithPageSize(10),
		WithMaxPages(2),
		WithUserAgent("amaterasu/test"),
	)

	got, err := s.Search(context.Background(), modules.Keyword)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 20 || hits.Load() != 2 {
		t.Errorf("got %d records in %d requests, want 20 in 2", len(got), hits.Load())
	}
}

func TestHTTPSearcherErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			check: func(t *testing.T, err error) {
				var se *StatusError
				if !errors.As(err, &se) || se.StatusCode != http.StatusBadGateway {
					t.Errorf("error = %v, want StatusError 502", err)
				}
			},
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Retry-After", "60")
				w.WriteHeader(http.StatusTooManyRequests)
			},
			check: func(t *testing.T, err error) {
				var se *StatusError
				if !errors.As(err, &se) || se.RetryAfter != "60" {
					t.Errorf("error = %v, want rate limit StatusError", err)
				}
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{"objects": [`)
			},
			check: func(t *testing.T, err error) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewHTTPSearcher(WithBaseURL(srv.URL), WithHTTPClient(srv.Client())).
				Search(context.Background(), modules.Keyword)
			if !errors.Is(err, ErrSearchFailed) {
				t.Fatalf("Search() error = %v, want ErrSearchFailed", err)
			}
			tt.check(t, err)
		})
	}
}

type searcherFunc func(ctx context.Context, keyword string) ([]modules.SearchRecord, error)

func (f searcherFunc) Search(ctx context.Context, keyword string) ([]modules.SearchRecord, error) {
	return f(ctx, keyword)
}

func TestClientSearch(t *testing.T) {
	t.Parallel()

	t.Run("passes results through", func(t *testing.T) {
		t.Parallel()

		c := NewClient(searcherFunc(func(_ context.Context, kw string) ([]modules.SearchRecord, error) {
			return []modules.SearchRecord{{}, {}}, nil
		}), time.Second)
		if got := c.Search(context.Background(), modules.Keyword); len(got) != 2 {
			t.Errorf("got %d records, want 2", len(got))
		}
	})

	t.Run("failure degrades to empty", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		c := NewClient(searcherFunc(func(context.Context, string) ([]modules.SearchRecord, error) {
			return []modules.SearchRecord{{}}, ErrSearchFailed
		}), time.Second, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
		if got := c.Search(context.Background(), modules.Keyword); len(got) != 0 {
			t.Errorf("got %d records, want none", len(got))
		}
		out := logs.String()
		if !strings.Contains(out, "level=WARN") || !strings.Contains(out, `issue="Module registry unavailable"`) {
			t.Errorf("warning should reference the registry issue, got %q", out)
		}
	})

	t.Run("unresponsive searcher times out", func(t *testing.T) {
		t.Parallel()

		block := make(chan struct{})
		defer close(block)
		var logs bytes.Buffer
		c := NewClient(searcherFunc(func(context.Context, string) ([]modules.SearchRecord, error) {
			<-block // ignores ctx on purpose
			return []modules.SearchRecord{{}}, nil
		}), 20*time.Millisecond, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

		start := time.Now()
		if got := c.Search(context.Background(), modules.Keyword); len(got) != 0 {
			t.Errorf("got %d records, want none", len(got))
		}
		if elapsed := time.Since(start); elapsed > 2*time.Second {
			t.Errorf("Search() took %v, should give up after the timeout", elapsed)
		}
		if !strings.Contains(logs.String(), "Module registry unavailable") {
			t.Errorf("timeout warning should reference the registry issue, got %q", logs.String())
		}
	})

	t.Run("default timeout", func(t *testing.T) {
		t.Parallel()

		if c := NewClient(nil, 0); c.timeout != DefaultTimeout {
			t.Errorf("timeout = %v, want %v", c.timeout, DefaultTimeout)
		}
	})
}
