package tui

// Option is the upgrade choice for a single package row.
type Option int

const (
	OptionNone Option = iota
	OptionRange
	OptionLatest
)

func (o Option) String() string {
	switch o {
	case OptionRange:
		return "range"
	case OptionLatest:
		return "latest"
	default:
		return "none"
	}
}

// ParseOption is the inverse of Option.String. Unknown values map to OptionNone.
func ParseOption(s string) Option {
	switch s {
	case "range":
		return OptionRange
	case "latest":
		return OptionLatest
	default:
		return OptionNone
	}
}

// DependencyKind is the manifest section a dependency was declared in.
type DependencyKind string

const (
	KindDependencies         DependencyKind = "dependencies"
	KindDevDependencies      DependencyKind = "devDependencies"
	KindOptionalDependencies DependencyKind = "optionalDependencies"
	KindPeerDependencies     DependencyKind = "peerDependencies"
)

// Metadata is the lazily fetched detail shown in the package modal.
type Metadata struct {
	Description     string
	Homepage        string
	License         string
	Author          string
	WeeklyDownloads int64
	ReleaseNotesURL string
}

// PackageState is one row of the selection list: a unique package name and
// original specifier pair, possibly declared in several manifests.
type PackageState struct {
	Name                    string
	ManifestPaths           []string
	CurrentVersionSpecifier string
	CurrentVersion          string
	RangeVersion            string
	LatestVersion           string
	SelectedOption          Option
	HasRangeUpdate          bool
	HasMajorUpdate          bool
	DependencyKind          DependencyKind

	// Metadata stays nil until the detail modal has been opened for the row
	// and the fetch has completed.
	Metadata *Metadata
}

// Allows reports whether o is a legal selection for the row.
func (s *PackageState) Allows(o Option) bool {
	switch o {
	case OptionNone:
		return true
	case OptionRange:
		return s.HasRangeUpdate
	case OptionLatest:
		return s.HasMajorUpdate
	}
	return false
}

// TargetVersion is the bare version the current selection upgrades to, or
// the current version when nothing is selected.
func (s *PackageState) TargetVersion() string {
	switch s.SelectedOption {
	case OptionRange:
		return s.RangeVersion
	case OptionLatest:
		return s.LatestVersion
	default:
		return s.CurrentVersion
	}
}

// TargetSpecifier is TargetVersion with the original range prefix reapplied.
func (s *PackageState) TargetSpecifier() string {
	if s.SelectedOption == OptionNone {
		return s.CurrentVersionSpecifier
	}
	return ApplyPrefix(s.CurrentVersionSpecifier, s.TargetVersion())
}

// MemoryKey identifies a row across sessions.
func MemoryKey(name, specifier string) string {
	return name + "@" + specifier
}

// SelectionMemory records every non-none choice so a later session can be
// seeded with it after the user backs out of the confirmation step.
func SelectionMemory(states []*PackageState) map[string]Option {
	memory := make(map[string]Option)
	for _, s := range states {
		if s.SelectedOption != OptionNone {
			memory[MemoryKey(s.Name, s.CurrentVersionSpecifier)] = s.SelectedOption
		}
	}
	return memory
}

// ApplyMemory seeds selections from a previous session. Remembered choices
// that are no longer available for a row are ignored.
func ApplyMemory(states []*PackageState, memory map[string]Option) {
	for _, s := range states {
		opt, ok := memory[MemoryKey(s.Name, s.CurrentVersionSpecifier)]
		if ok && s.Allows(opt) {
			s.SelectedOption = opt
		}
	}
}

// UpgradeAction is one manifest rewrite derived from a confirmed session.
type UpgradeAction struct {
	ManifestPath string
	Name         string
	Kind         DependencyKind
	From         string
	To           string
	Option       Option
}

// PlanUpgrades expands every selected row into one action per manifest.
func PlanUpgrades(states []*PackageState) []UpgradeAction {
	var actions []UpgradeAction
	for _, s := range states {
		if s.SelectedOption == OptionNone {
			continue
		}
		to := s.TargetSpecifier()
		for _, path := range s.ManifestPaths {
			actions = append(actions, UpgradeAction{
				ManifestPath: path,
				Name:         s.Name,
				Kind:         s.DependencyKind,
				From:         s.CurrentVersionSpecifier,
				To:           to,
				Option:       s.SelectedOption,
			})
		}
	}
	return actions
}
