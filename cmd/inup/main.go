package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/omarshaarawi/inup/internal/commands/outdated"
	"github.com/omarshaarawi/inup/internal/commands/upgrade"
	"github.com/omarshaarawi/inup/internal/config"
	"github.com/omarshaarawi/inup/internal/tui"
	"github.com/omarshaarawi/inup/internal/ui"
	"github.com/spf13/cobra"
)

var (
	version     = "dev"
	flagVerbose bool
	flagQuiet   bool
	cfg         = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "inup",
	Short: "Interactive upgrades for package.json dependencies",
	Long: `inup finds outdated dependencies in a JavaScript or TypeScript project,
including pnpm workspaces, and lets you pick in-range or latest upgrades
from an interactive list. Running inup without a command starts an upgrade.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded

		switch {
		case flagQuiet:
			ui.SetVerbosity(ui.VerbosityQuiet)
		case flagVerbose:
			ui.SetVerbosity(ui.VerbosityVerbose)
		case cfg.DefaultQuiet:
			ui.SetVerbosity(ui.VerbosityQuiet)
		case cfg.DefaultVerbose:
			ui.SetVerbosity(ui.VerbosityVerbose)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return upgrade.RunFromFlags(cmd, cfg)
	},
}

func currentConfig() *config.Config {
	return cfg
}

func init() {
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress non-essential output")
	upgrade.AddFlags(rootCmd)
	rootCmd.AddCommand(upgrade.NewCommand(currentConfig))
	rootCmd.AddCommand(outdated.NewCommand(currentConfig))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, tui.ErrInterrupted) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
