package scan

import (
	"context"
	"fmt"

	"github.com/omarshaarawi/inup/internal/manifest"
	"github.com/omarshaarawi/inup/internal/ui"
)

// Options control a project scan
type Options struct {
	Dir      string
	Exclude  []string
	MaxDepth int
	// Kinds restricts the dependency sections read. Empty means all.
	Kinds []manifest.Kind
	// Limit bounds concurrent registry lookups.
	Limit int
}

// Project discovers the manifests under opts.Dir, keeps those that belong to
// the pnpm workspace, if any, and resolves every dependency behind a
// progress spinner.
func Project(ctx context.Context, source VersionSource, opts Options) ([]Resolved, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	paths, err := manifest.Discover(dir, manifest.DiscoverOptions{
		Exclude:  opts.Exclude,
		MaxDepth: opts.MaxDepth,
	})
	if err != nil {
		return nil, fmt.Errorf("discovering manifests: %w", err)
	}

	ws, err := manifest.LoadWorkspace(dir)
	if err != nil {
		return nil, err
	}
	paths = ws.Filter(paths)
	if len(paths) == 0 {
		return nil, fmt.Errorf("no %s found in %s", manifest.FileName, dir)
	}
	ui.Debug("found %d manifest(s)", len(paths))

	candidates := Collect(Load(paths), opts.Kinds)
	if len(candidates) == 0 {
		return nil, nil
	}

	return ui.RunWithSpinner(ui.SpinnerTask[[]Resolved]{
		Message: "Checking for updates...",
		Total:   len(candidates),
		Run: func(progress chan<- int) ([]Resolved, error) {
			return Resolve(ctx, source, candidates, opts.Limit, func(done int) {
				progress <- done
			})
		},
	})
}
