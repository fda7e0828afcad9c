package upgrade

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/omarshaarawi/inup/internal/config"
	"github.com/omarshaarawi/inup/internal/manifest"
	"github.com/omarshaarawi/inup/internal/registry"
	"github.com/omarshaarawi/inup/internal/scan"
	"github.com/omarshaarawi/inup/internal/tui"
	"github.com/omarshaarawi/inup/internal/ui"
)

// Options configures the upgrade command
type Options struct {
	Dir       string
	DryRun    bool
	NoInstall bool
	// Kinds restricts the dependency sections offered. Empty means all, shown
	// in sections.
	Kinds   []manifest.Kind
	Exclude []string
	Config  *config.Config

	// Input and Output replace the terminal for the interactive steps.
	Input  io.Reader
	Output io.Writer
}

// Run executes the upgrade command
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	client := newClient(cfg)
	defer client.Close()

	resolved, err := scan.Project(ctx, client, scan.Options{
		Dir:      dir,
		Exclude:  append(append([]string(nil), cfg.Exclude...), opts.Exclude...),
		MaxDepth: cfg.MaxDepth,
		Kinds:    opts.Kinds,
		Limit:    cfg.MaxConcurrent,
	})
	if err != nil {
		return fmt.Errorf("scanning project: %w", err)
	}

	if len(resolved) == 0 {
		ui.Println("No dependencies found")
		return nil
	}

	outdated := scan.Outdated(resolved)
	if len(outdated) == 0 {
		ui.Println("✨ All dependencies are up to date!")
		return nil
	}

	actions, err := choose(ctx, outdated, client, cfg, opts)
	if err != nil {
		return err
	}
	if actions == nil {
		return nil
	}

	if opts.DryRun {
		ui.Println("\n📋 Dry run, no files changed")
		return nil
	}

	written, err := writeWithProgress(actions)
	if err != nil {
		return fmt.Errorf("updating manifests: %w", err)
	}

	ui.Println(ui.SuccessStyle.Render(fmt.Sprintf("\n✓ Updated %d package(s) in %d manifest(s)", countPackages(actions), written)))

	if opts.NoInstall {
		return nil
	}

	pm := DetectPackageManager(dir, cfg.PackageManager)
	ui.Print("\n🔧 Running %s install...\n", pm)
	if err := runInstall(ctx, dir, pm); err != nil {
		ui.Warn("Warning: %s install failed: %v", pm, err)
		ui.Print("   You may need to run '%s install' manually\n", pm)
		return nil
	}
	ui.Println(ui.SuccessStyle.Render("✓ Dependencies installed"))

	return nil
}

// choose runs selection sessions until the user confirms, cancels or
// interrupts. Going back from the confirmation step opens a new session
// seeded with the previous choices. A nil result means nothing to write.
func choose(ctx context.Context, outdated []scan.Resolved, client *registry.Client, cfg *config.Config, opts Options) ([]tui.UpgradeAction, error) {
	var memory map[string]tui.Option
	for {
		states, outcome, err := tui.Run(ctx, tui.SessionOptions{
			States:   NewStates(outdated),
			Previous: memory,
			Label:    KindLabel(opts.Kinds),
			Flat:     len(opts.Kinds) > 0,
			Chrome:   cfg.ViewportChrome,
			Fetch:    MetadataFetcher(client),
			Input:    opts.Input,
			Output:   opts.Output,
		})
		if err != nil {
			return nil, err
		}
		if outcome != tui.OutcomeConfirmed {
			ui.Println("Upgrade cancelled")
			return nil, nil
		}

		actions := tui.PlanUpgrades(states)
		if len(actions) == 0 {
			ui.Println("No packages selected for upgrade")
			return nil, nil
		}

		summary := tui.RenderSummary(actions)
		if opts.DryRun {
			for _, line := range summary[:len(summary)-2] {
				ui.Println(line)
			}
			return actions, nil
		}

		choice, err := tui.RunConfirm(ctx, summary, tui.PromptOptions{Input: opts.Input, Output: opts.Output})
		if err != nil {
			return nil, err
		}
		switch choice {
		case tui.ChoiceProceed:
			return actions, nil
		case tui.ChoiceBack:
			memory = tui.SelectionMemory(states)
		default:
			ui.Println("Upgrade cancelled")
			return nil, nil
		}
	}
}

func newClient(cfg *config.Config) *registry.Client {
	return registry.NewClient(cfg.RegistryURL).
		WithDownloadsURL(cfg.DownloadsURL).
		WithTimeout(cfg.Timeout).
		WithCacheTTL(cfg.CacheTTL).
		WithMaxConcurrent(cfg.MaxConcurrent)
}

// NewStates builds fresh selection rows for the outdated packages
func NewStates(outdated []scan.Resolved) []*tui.PackageState {
	states := make([]*tui.PackageState, 0, len(outdated))
	for _, r := range outdated {
		states = append(states, &tui.PackageState{
			Name:                    r.Name,
			ManifestPaths:           append([]string(nil), r.Paths...),
			CurrentVersionSpecifier: r.Specifier,
			CurrentVersion:          r.Current,
			RangeVersion:            r.Range,
			LatestVersion:           r.Latest,
			HasRangeUpdate:          r.HasRange,
			HasMajorUpdate:          r.HasMajor,
			DependencyKind:          tui.DependencyKind(r.Kind),
		})
	}
	return states
}

// KindLabel describes a section filter for the list header. No filter
// yields "".
func KindLabel(kinds []manifest.Kind) string {
	if len(kinds) == 0 {
		return ""
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return "Showing " + strings.Join(names, ", ")
}

func countPackages(actions []tui.UpgradeAction) int {
	seen := make(map[string]bool)
	for _, a := range actions {
		seen[a.Name] = true
	}
	return len(seen)
}

// manifestEdits groups actions by manifest in first-seen order
type manifestEdits struct {
	path    string
	actions []tui.UpgradeAction
}

func groupByManifest(actions []tui.UpgradeAction) []manifestEdits {
	var groups []manifestEdits
	index := make(map[string]int)
	for _, a := range actions {
		i, ok := index[a.ManifestPath]
		if !ok {
			i = len(groups)
			index[a.ManifestPath] = i
			groups = append(groups, manifestEdits{path: a.ManifestPath})
		}
		groups[i].actions = append(groups[i].actions, a)
	}
	return groups
}

func writeWithProgress(actions []tui.UpgradeAction) (int, error) {
	groups := groupByManifest(actions)
	return ui.RunWithSpinner(ui.SpinnerTask[int]{
		Message: "Updating package.json files...",
		Total:   len(groups),
		Run: func(progress chan<- int) (int, error) {
			for i, g := range groups {
				if err := applyEdits(g); err != nil {
					return i, err
				}
				progress <- i + 1
			}
			return len(groups), nil
		},
	})
}

// applyEdits rewrites one manifest. A failed write leaves the original
// content in place.
func applyEdits(g manifestEdits) error {
	m, err := manifest.Parse(g.path)
	if err != nil {
		return err
	}

	writer := manifest.NewWriter(m)
	done := make(map[string]bool)
	for _, a := range g.actions {
		key := a.Name + "@" + a.From
		if done[key] {
			continue
		}
		done[key] = true
		if _, err := writer.SetSpecifier(a.Name, a.From, a.To); err != nil {
			return fmt.Errorf("updating %s in %s: %w", a.Name, filepath.Base(filepath.Dir(g.path)), err)
		}
		ui.Debug("%s: %s %s → %s", g.path, a.Name, a.From, a.To)
	}

	if !writer.Changed() {
		return nil
	}

	if err := writer.SafeWrite(); err != nil {
		return fmt.Errorf("writing %s: %w", g.path, err)
	}

	if err := writer.CleanupBackup(); err != nil {
		return fmt.Errorf("cleanup backup: %w", err)
	}

	return nil
}
