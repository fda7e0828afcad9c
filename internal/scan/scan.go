// Package scan turns discovered manifests into resolved upgrade candidates.
package scan

import (
	"context"
	"sync/atomic"

	"github.com/omarshaarawi/inup/internal/manifest"
	"github.com/omarshaarawi/inup/internal/registry"
	"github.com/omarshaarawi/inup/internal/ui"
	"github.com/omarshaarawi/inup/internal/versions"
	"golang.org/x/sync/errgroup"
)

// Candidate is a unique name and specifier pair with every manifest that
// declares it.
type Candidate struct {
	Name      string
	Specifier string
	Kind      manifest.Kind
	Paths     []string
}

// Resolved is a candidate together with its upgrade targets
type Resolved struct {
	Candidate
	versions.Resolution
}

// Outdated reports whether any upgrade target exists
func (r Resolved) Outdated() bool {
	return r.HasRange || r.HasMajor
}

// VersionSource lists the published versions of a package
type VersionSource interface {
	Versions(ctx context.Context, name string) (*registry.VersionList, error)
}

// Load parses every manifest path. Unreadable manifests are skipped.
func Load(paths []string) []*manifest.Manifest {
	var manifests []*manifest.Manifest
	for _, path := range paths {
		m, err := manifest.Parse(path)
		if err != nil {
			ui.Debug("skipping %s: %v", path, err)
			continue
		}
		manifests = append(manifests, m)
	}
	return manifests
}

// Collect deduplicates the dependencies of the given sections across
// manifests. Order follows first appearance; a pair keeps the section it was
// first seen in.
func Collect(manifests []*manifest.Manifest, kinds []manifest.Kind) []Candidate {
	var candidates []Candidate
	index := make(map[string]int)

	for _, m := range manifests {
		for _, dep := range m.All(kinds...) {
			key := dep.Name + "@" + dep.Specifier
			i, ok := index[key]
			if !ok {
				index[key] = len(candidates)
				candidates = append(candidates, Candidate{
					Name:      dep.Name,
					Specifier: dep.Specifier,
					Kind:      dep.Kind,
					Paths:     []string{m.Path},
				})
				continue
			}
			c := &candidates[i]
			if c.Paths[len(c.Paths)-1] != m.Path {
				c.Paths = append(c.Paths, m.Path)
			}
		}
	}

	return candidates
}

// Resolve looks every candidate up with at most limit requests in flight.
// Candidates whose specifier is not a registry version, or whose lookup
// fails, are dropped. Results keep the input order. progress, when set, is
// called with the number of finished lookups.
func Resolve(ctx context.Context, source VersionSource, candidates []Candidate, limit int, progress func(done int)) ([]Resolved, error) {
	results := make([]*Resolved, len(candidates))
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, c := range candidates {
		g.Go(func() error {
			defer func() {
				if progress != nil {
					progress(int(done.Add(1)))
				}
			}()

			if _, _, ok := versions.SplitSpecifier(c.Specifier); !ok {
				ui.Debug("skipping %s: unsupported specifier %q", c.Name, c.Specifier)
				return nil
			}

			list, err := source.Versions(ctx, c.Name)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				ui.Debug("skipping %s: %v", c.Name, err)
				return nil
			}

			res, ok := versions.Resolve(c.Specifier, list.Versions, list.Latest)
			if !ok {
				return nil
			}
			results[i] = &Resolved{Candidate: c, Resolution: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var resolved []Resolved
	for _, r := range results {
		if r != nil {
			resolved = append(resolved, *r)
		}
	}
	return resolved, nil
}

// Outdated keeps the entries with an upgrade target
func Outdated(resolved []Resolved) []Resolved {
	var outdated []Resolved
	for _, r := range resolved {
		if r.Outdated() {
			outdated = append(outdated, r)
		}
	}
	return outdated
}
