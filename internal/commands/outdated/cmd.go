package outdated

import (
	"github.com/omarshaarawi/inup/internal/commands/upgrade"
	"github.com/omarshaarawi/inup/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagDir       string
	flagMajorOnly bool
	flagProd      bool
	flagDev       bool
	flagPeer      bool
	flagOptional  bool
)

// NewCommand creates the outdated command
func NewCommand(cfg func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outdated",
		Short: "Show outdated dependencies",
		Long: `Show outdated dependencies in a table format.

Examples:
  # Show all outdated packages
  inup outdated

  # Show only devDependencies
  inup outdated --dev

  # Show only major version updates
  inup outdated --major-only`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := Options{
				Dir:       flagDir,
				MajorOnly: flagMajorOnly,
				Kinds:     upgrade.KindsFromFlags(flagProd, flagDev, flagPeer, flagOptional),
				Config:    cfg(),
			}
			return Run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&flagDir, "dir", "d", ".", "Project directory")
	cmd.Flags().BoolVar(&flagMajorOnly, "major-only", false, "Show only major version updates")
	cmd.Flags().BoolVarP(&flagProd, "prod", "P", false, "Only dependencies")
	cmd.Flags().BoolVarP(&flagDev, "dev", "D", false, "Only devDependencies")
	cmd.Flags().BoolVar(&flagPeer, "peer", false, "Only peerDependencies")
	cmd.Flags().BoolVarP(&flagOptional, "optional", "O", false, "Only optionalDependencies")

	return cmd
}
