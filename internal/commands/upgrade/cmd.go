package upgrade

import (
	"github.com/omarshaarawi/inup/internal/config"
	"github.com/omarshaarawi/inup/internal/manifest"
	"github.com/spf13/cobra"
)

var (
	flagDir       string
	flagDryRun    bool
	flagNoInstall bool
	flagProd      bool
	flagDev       bool
	flagPeer      bool
	flagOptional  bool
	flagExclude   []string
)

// NewCommand creates the upgrade command. cfg is called when the command
// runs, after the root command has loaded the configuration.
func NewCommand(cfg func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Interactively upgrade package.json dependencies",
		Long: `Pick upgrade targets for outdated dependencies across a project or
pnpm workspace, rewrite the affected package.json files and reinstall.

Keys:
  ↑/↓  move        ←/→  cycle none, in-range, latest
  r    select all in-range updates
  a    select the best update for every package
  n    clear all selections
  i    package details
  Enter confirm    Esc cancel

Examples:
  # Upgrade everything in the current project
  inup upgrade

  # Only devDependencies, without touching any file
  inup upgrade --dev --dry-run

  # Upgrade another project and skip the reinstall
  inup upgrade --dir ../web --no-install`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunFromFlags(cmd, cfg())
		},
	}

	AddFlags(cmd)
	return cmd
}

// AddFlags registers the upgrade flags on cmd. The root command shares them
// so that a bare invocation behaves like upgrade.
func AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagDir, "dir", "d", ".", "Project directory")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Show what would be upgraded without making changes")
	cmd.Flags().BoolVar(&flagNoInstall, "no-install", false, "Skip running the package manager after upgrading")
	cmd.Flags().BoolVarP(&flagProd, "prod", "P", false, "Only dependencies")
	cmd.Flags().BoolVarP(&flagDev, "dev", "D", false, "Only devDependencies")
	cmd.Flags().BoolVar(&flagPeer, "peer", false, "Only peerDependencies")
	cmd.Flags().BoolVarP(&flagOptional, "optional", "O", false, "Only optionalDependencies")
	cmd.Flags().StringSliceVarP(&flagExclude, "exclude", "e", nil, "Directory names or patterns to skip (adds to config)")
}

// RunFromFlags runs the upgrade with the flags registered by AddFlags
func RunFromFlags(cmd *cobra.Command, cfg *config.Config) error {
	opts := Options{
		Dir:       flagDir,
		DryRun:    flagDryRun,
		NoInstall: flagNoInstall,
		Kinds:     KindsFromFlags(flagProd, flagDev, flagPeer, flagOptional),
		Exclude:   flagExclude,
		Config:    cfg,
	}

	return Run(cmd.Context(), opts)
}

// KindsFromFlags maps the section filter flags to manifest kinds. No flag
// means every kind.
func KindsFromFlags(prod, dev, peer, optional bool) []manifest.Kind {
	var kinds []manifest.Kind
	if prod {
		kinds = append(kinds, manifest.Dependencies)
	}
	if dev {
		kinds = append(kinds, manifest.DevDependencies)
	}
	if peer {
		kinds = append(kinds, manifest.PeerDependencies)
	}
	if optional {
		kinds = append(kinds, manifest.OptionalDependencies)
	}
	return kinds
}
