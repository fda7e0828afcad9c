package outdated

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/omarshaarawi/inup/internal/config"
	"github.com/omarshaarawi/inup/internal/manifest"
	"github.com/omarshaarawi/inup/internal/registry"
	"github.com/omarshaarawi/inup/internal/scan"
	"github.com/omarshaarawi/inup/internal/tui"
	"github.com/omarshaarawi/inup/internal/ui"
	"github.com/omarshaarawi/inup/internal/versions"
)

const maxNameWidth = 45

// Options configures the outdated command
type Options struct {
	Dir       string
	MajorOnly bool
	Kinds     []manifest.Kind
	Config    *config.Config
}

// Package is one outdated dependency row
type Package struct {
	Name       string
	Kind       manifest.Kind
	Specifier  string
	Current    string
	Range      string
	Latest     string
	UpdateType string // major, minor, patch, none
	Locations  int
}

// Run executes the outdated command
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	client := registry.NewClient(cfg.RegistryURL).
		WithTimeout(cfg.Timeout).
		WithCacheTTL(cfg.CacheTTL).
		WithMaxConcurrent(cfg.MaxConcurrent)
	defer client.Close()

	resolved, err := scan.Project(ctx, client, scan.Options{
		Dir:      opts.Dir,
		Exclude:  cfg.Exclude,
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

	packages := collectPackages(scan.Outdated(resolved), opts.MajorOnly)
	if len(packages) == 0 {
		ui.Println("✨ All packages are up to date!")
		return nil
	}

	renderGroupedTables(packages)

	return nil
}

func collectPackages(outdated []scan.Resolved, majorOnly bool) []Package {
	var packages []Package
	for _, r := range outdated {
		if majorOnly && !r.HasMajor {
			continue
		}
		packages = append(packages, Package{
			Name:       r.Name,
			Kind:       r.Kind,
			Specifier:  r.Specifier,
			Current:    r.Current,
			Range:      r.Range,
			Latest:     r.Latest,
			UpdateType: versions.UpdateType(r.Current, r.Latest),
			Locations:  len(r.Paths),
		})
	}
	return packages
}

var sectionStyles = map[tui.Section]lipgloss.Style{
	tui.SectionMain:     ui.MainHeaderStyle,
	tui.SectionPeer:     ui.PeerHeaderStyle,
	tui.SectionOptional: ui.OptionalHeaderStyle,
}

var sectionIcons = map[tui.Section]string{
	tui.SectionMain:     "📦",
	tui.SectionPeer:     "🤝",
	tui.SectionOptional: "🧩",
}

// renderGroupedTables renders packages grouped by display section
func renderGroupedTables(packages []Package) {
	var groups [3][]Package
	for _, pkg := range packages {
		s := tui.SectionOf(tui.DependencyKind(pkg.Kind))
		groups[s] = append(groups[s], pkg)
	}

	for s, group := range groups {
		if len(group) == 0 {
			continue
		}
		section := tui.Section(s)
		ui.Println(sectionStyles[section].Render(fmt.Sprintf("\n%s %s", sectionIcons[section], section.Title())))
		ui.Println()
		renderPackageTable(group)
	}

	major, minor, patch := 0, 0, 0
	for _, pkg := range packages {
		switch pkg.UpdateType {
		case "major":
			major++
		case "minor":
			minor++
		case "patch":
			patch++
		}
	}

	summary := fmt.Sprintf("\n%s %d package(s) can be upgraded", ui.SummaryStyle.Render("📊 Summary:"), len(packages))

	var parts []string
	if major > 0 {
		parts = append(parts, fmt.Sprintf("%s %d major", ui.MajorStyle.Render("●"), major))
	}
	if minor > 0 {
		parts = append(parts, fmt.Sprintf("%s %d minor", ui.MinorStyle.Render("●"), minor))
	}
	if patch > 0 {
		parts = append(parts, fmt.Sprintf("%s %d patch", ui.PatchStyle.Render("●"), patch))
	}
	if len(parts) > 0 {
		summary += fmt.Sprintf(" (%s)", strings.Join(parts, ", "))
	}
	ui.Println(summary)

	ui.Print("\n💡 %s\n", ui.CTAStyle.Render("Run `inup upgrade` to choose which packages to upgrade"))
}

// renderPackageTable renders a table of packages
func renderPackageTable(packages []Package) {
	table := ui.NewTable("Package", "Current", "In range", "Latest", "Update")

	for _, pkg := range packages {
		name := ui.TruncateString(pkg.Name, maxNameWidth)
		if pkg.Kind == manifest.DevDependencies {
			name += " (dev)"
		}
		if pkg.Locations > 1 {
			name += fmt.Sprintf(" ×%d", pkg.Locations)
		}

		inRange := pkg.Range
		if inRange == "" {
			inRange = "-"
		}

		symbol := ""
		switch pkg.UpdateType {
		case "major":
			symbol = "▲ "
		case "minor":
			symbol = "● "
		case "patch":
			symbol = "· "
		}

		table.AddRow(
			name,
			pkg.Specifier,
			inRange,
			pkg.Latest,
			symbol+pkg.UpdateType,
		)
	}

	output := table.RenderStyled(func(rowIdx, colIdx int, cell string) lipgloss.Style {
		pkg := packages[rowIdx]

		switch colIdx {
		case 2:
			if pkg.Range == "" {
				return ui.UpToDateStyle
			}
			return ui.FormatVersionUpdate(versions.UpdateType(pkg.Current, pkg.Range))
		case 3, 4:
			return ui.FormatVersionUpdate(pkg.UpdateType)
		default:
			return ui.CellStyle
		}
	})

	ui.Println(output)
}
