// Package manifest finds, reads and edits package.json files.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/tidwall/jsonc"
)

// FileName is the manifest file looked for during discovery
const FileName = "package.json"

// Kind names a dependency section of a manifest
type Kind string

const (
	Dependencies         Kind = "dependencies"
	DevDependencies      Kind = "devDependencies"
	PeerDependencies     Kind = "peerDependencies"
	OptionalDependencies Kind = "optionalDependencies"
)

// Kinds lists every dependency section in manifest order
var Kinds = []Kind{Dependencies, DevDependencies, PeerDependencies, OptionalDependencies}

// Dependency is one entry of a dependency section
type Dependency struct {
	Name      string
	Specifier string
	Kind      Kind
}

// Manifest is a parsed package.json
type Manifest struct {
	Path string
	Name string

	data []byte
	deps map[Kind][]Dependency
}

type document struct {
	Name                 string            `json:"name"`
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
}

// Parse reads the manifest at path. Comments and trailing commas are
// tolerated.
func Parse(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseBytes(path, data)
}

// ParseBytes parses manifest content that was read from path
func ParseBytes(path string, data []byte) (*Manifest, error) {
	var doc document
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	m := &Manifest{
		Path: path,
		Name: doc.Name,
		data: data,
		deps: make(map[Kind][]Dependency, len(Kinds)),
	}

	sections := map[Kind]map[string]string{
		Dependencies:         doc.Dependencies,
		DevDependencies:      doc.DevDependencies,
		PeerDependencies:     doc.PeerDependencies,
		OptionalDependencies: doc.OptionalDependencies,
	}
	for kind, entries := range sections {
		names := make([]string, 0, len(entries))
		for name := range entries {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			m.deps[kind] = append(m.deps[kind], Dependency{
				Name:      name,
				Specifier: entries[name],
				Kind:      kind,
			})
		}
	}

	return m, nil
}

// Dir returns the directory holding the manifest
func (m *Manifest) Dir() string {
	return filepath.Dir(m.Path)
}

// Dependencies returns the entries of one section sorted by name
func (m *Manifest) Dependencies(kind Kind) []Dependency {
	return m.deps[kind]
}

// All returns the entries of the given sections, or of every section when
// none are given, in section order.
func (m *Manifest) All(kinds ...Kind) []Dependency {
	if len(kinds) == 0 {
		kinds = Kinds
	}
	var all []Dependency
	for _, kind := range kinds {
		all = append(all, m.deps[kind]...)
	}
	return all
}

// Find looks a dependency up across all sections
func (m *Manifest) Find(name string) (Dependency, bool) {
	for _, kind := range Kinds {
		for _, dep := range m.deps[kind] {
			if dep.Name == name {
				return dep, true
			}
		}
	}
	return Dependency{}, false
}

// Data returns the raw file content as read
func (m *Manifest) Data() []byte {
	return m.data
}
