package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DefaultExclude lists directory names never descended into
var DefaultExclude = []string{"node_modules", ".git", "dist", "build", ".next", "coverage"}

// DiscoverOptions control the manifest walk
type DiscoverOptions struct {
	// Exclude holds directory names or filepath.Match patterns to skip.
	// nil means DefaultExclude.
	Exclude []string
	// MaxDepth limits how many directories below root are visited.
	// Zero or less means no limit.
	MaxDepth int
}

// Discover returns the paths of every package.json under root, sorted.
// Directory symlinks are followed once per real directory.
func Discover(root string, opts DiscoverOptions) ([]string, error) {
	if opts.Exclude == nil {
		opts.Exclude = DefaultExclude
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	d := &discoverer{
		opts:    opts,
		visited: make(map[string]bool),
	}
	if err := d.walk(abs, 0); err != nil {
		return nil, err
	}

	sort.Strings(d.found)
	return d.found, nil
}

type discoverer struct {
	opts    DiscoverOptions
	visited map[string]bool
	found   []string
}

func (d *discoverer) walk(dir string, depth int) error {
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return nil
	}
	if d.visited[real] {
		return nil
	}
	d.visited[real] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		if depth == 0 {
			return fmt.Errorf("reading %s: %w", dir, err)
		}
		return nil
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if entry.Name() == FileName && entry.Type().IsRegular() {
			d.found = append(d.found, path)
			continue
		}

		isDir := entry.IsDir()
		if entry.Type()&os.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			if !info.IsDir() {
				if entry.Name() == FileName && info.Mode().IsRegular() {
					d.found = append(d.found, path)
				}
				continue
			}
			isDir = true
		}

		if !isDir || d.excluded(entry.Name()) {
			continue
		}
		if d.opts.MaxDepth > 0 && depth+1 > d.opts.MaxDepth {
			continue
		}
		if err := d.walk(path, depth+1); err != nil {
			return err
		}
	}

	return nil
}

func (d *discoverer) excluded(name string) bool {
	for _, pattern := range d.opts.Exclude {
		if pattern == name {
			return true
		}
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
