// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"context"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/ama-terasu/amaterasu/internal/resolve"
	"github.com/ama-terasu/amaterasu/internal/workspace"
	"github.com/ama-terasu/amaterasu/pkg/manifest"
	"github.com/ama-terasu/amaterasu/pkg/modules"
)

// DefaultConcurrency bounds parallel installed-state resolution.
const DefaultConcurrency = 8

type (
	// Registry returns remote modules tagged with a keyword. It never fails;
	// *registry.Client satisfies it.
	Registry interface {
		Search(ctx context.Context, keyword string) []modules.SearchRecord
	}

	// Options controls one catalogue build.
	Options struct {
		// LocalOnly skips the registry entirely.
		LocalOnly bool
	}

	// Builder assembles the module catalogue from local manifests and the registry.
	Builder struct {
		fs               afero.Fs
		hostManifestPath string
		workspace        *workspace.Workspace
		reader           *resolve.Reader
		registry         Registry
		concurrency      int
	}

	// BuilderOption configures a Builder during construction.
	BuilderOption func(*Builder)

	candidate struct {
		meta        manifest.Metadata
		scope       string
		publishedAt time.Time
		links       map[string]string
		source      modules.Source
	}
)

// WithRegistry sets the remote source. Without one every build is local only.
func WithRegistry(r Registry) BuilderOption {
	return func(b *Builder) {
		b.registry = r
	}
}

// WithConcurrency bounds parallel resolution. Values below 1 select DefaultConcurrency.
func WithConcurrency(n int) BuilderOption {
	return func(b *Builder) {
		if n < 1 {
			n = DefaultConcurrency
		}
		b.concurrency = n
	}
}

// NewBuilder creates a Builder for the host installed at installRoot.
func NewBuilder(fsys afero.Fs, installRoot string, ws *workspace.Workspace, reader *resolve.Reader, opts ...BuilderOption) *Builder {
	b := &Builder{
		fs:               fsys,
		hostManifestPath: filepath.Join(installRoot, manifest.FileName),
		workspace:        ws,
		reader:           reader,
		concurrency:      DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns the module catalogue.
//
// Local candidates (declared dependencies whose installed manifest carries the
// module keyword) come first, followed by registry results. Every candidate is
// written into the catalogue under its name, overwriting earlier entries, so a
// name keeps the position of its first occurrence and the fields of its last.
// Installed state is resolved afresh for each candidate and never carried over
// from an overwritten entry.
//
// Registry and manifest failures degrade to fewer records. The only error is the
// cancellation of ctx.
func (b *Builder) Build(ctx context.Context, opts Options) (modules.Catalogue, error) {
	reader := b.reader.Scoped()

	var local []candidate
	var remote []modules.SearchRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		local = b.localCandidates(gctx, reader)
		return nil
	})
	if !opts.LocalOnly && b.registry != nil {
		g.Go(func() error {
			remote = b.registry.Search(gctx, modules.Keyword)
			return nil
		})
	}
	_ = g.Wait() // goroutines never fail
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seq := make([]candidate, 0, len(local)+len(remote))
	seq = append(seq, local...)
	for i := range remote {
		seq = append(seq, candidate{
			meta:        remote[i].Metadata,
			scope:       remote[i].Scope,
			publishedAt: remote[i].PublishedAt,
			links:       remote[i].Links,
			source:      modules.SourceRegistry,
		})
	}
	seq = slices.DeleteFunc(seq, func(c candidate) bool { return c.meta.Name == "" })

	states := make([]*modules.InstalledState, len(seq))
	b.forEach(ctx, len(seq), func(ctx context.Context, i int) {
		states[i] = reader.InstalledInformation(ctx, modules.Identity{Name: seq[i].meta.Name})
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	catalogue := newOrderedRecords(len(seq))
	for i := range seq {
		c := &seq[i]
		catalogue.Set(modules.Record{
			Metadata:    c.meta,
			Scope:       c.scope,
			PublishedAt: c.publishedAt,
			Links:       c.links,
			DisplayName: modules.Simplify(c.meta.Name),
			Source:      c.source,
			Installed:   states[i],
		})
	}
	return catalogue.Values(), nil
}

// localCandidates returns the installed manifests of locally declared dependencies
// that declare the module keyword, in declaration order.
func (b *Builder) localCandidates(ctx context.Context, reader *resolve.Reader) []candidate {
	_, names := b.localDependencies()

	found := make([]*manifest.Manifest, len(names))
	b.forEach(ctx, len(names), func(ctx context.Context, i int) {
		if m, ok := reader.ReadManifest(ctx, names[i]); ok && m.HasKeyword(modules.Keyword) {
			found[i] = m
		}
	})

	var out []candidate
	for _, m := range found {
		if m != nil {
			out = append(out, candidate{meta: m.Metadata, source: modules.SourceLocal})
		}
	}
	return out
}

// forEach runs fn for every index in [0, n) with bounded parallelism. fn stores its
// own result by index, which keeps output order independent of scheduling.
func (b *Builder) forEach(ctx context.Context, n int, fn func(ctx context.Context, i int)) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for i := range n {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			fn(gctx, i)
			return nil
		})
	}
	_ = g.Wait() // fn never fails
}
