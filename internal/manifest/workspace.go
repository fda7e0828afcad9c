package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// WorkspaceFile is the pnpm workspace definition
const WorkspaceFile = "pnpm-workspace.yaml"

// Workspace filters discovered manifests by the package globs of a
// pnpm-workspace.yaml. A nil Workspace includes everything.
type Workspace struct {
	Root     string
	Patterns []string

	include []string
	exclude []string
}

type workspaceDoc struct {
	Packages []string `yaml:"packages"`
}

// LoadWorkspace reads root/pnpm-workspace.yaml. It returns nil, nil when the
// file does not exist.
func LoadWorkspace(root string) (*Workspace, error) {
	path := filepath.Join(root, WorkspaceFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc workspaceDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return NewWorkspace(abs, doc.Packages), nil
}

// NewWorkspace builds a workspace from package globs relative to root.
// Patterns starting with "!" exclude; invalid patterns are dropped.
func NewWorkspace(root string, patterns []string) *Workspace {
	w := &Workspace{Root: root, Patterns: patterns}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		negate := strings.HasPrefix(p, "!")
		p = strings.TrimPrefix(p, "!")
		p = strings.TrimPrefix(p, "./")
		p = strings.TrimSuffix(p, "/")
		if p == "" || !doublestar.ValidatePattern(p) {
			continue
		}
		if negate {
			w.exclude = append(w.exclude, p)
		} else {
			w.include = append(w.include, p)
		}
	}
	return w
}

// Includes reports whether the package in dir belongs to the workspace. The
// root package always does.
func (w *Workspace) Includes(dir string) bool {
	if w == nil {
		return true
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(w.Root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	if rel == "." {
		return true
	}
	rel = filepath.ToSlash(rel)

	return matchAny(w.include, rel) && !matchAny(w.exclude, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Filter keeps the manifest paths whose directory the workspace includes
func (w *Workspace) Filter(paths []string) []string {
	if w == nil {
		return paths
	}
	var kept []string
	for _, p := range paths {
		if w.Includes(filepath.Dir(p)) {
			kept = append(kept, p)
		}
	}
	return kept
}
