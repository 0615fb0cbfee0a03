// Package cmd wires the winpack command tree.
package cmd

import (
	"github.com/quantmind-br/winpack/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd(cfg *config.Config, log *zerolog.Logger, version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "winpack",
		Short:        "Intune Win32 packaging automation",
		Long:         `Discovers Windows installers, derives silent install/uninstall commands and detection rules, and wraps each installer into an .intunewin package.`,
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(NewPackCmd(cfg, log))
	cmd.AddCommand(NewInventoryCmd(cfg, log))
	cmd.AddCommand(NewProductCodeCmd(cfg, log))
	cmd.AddCommand(NewHistoryCmd(cfg, log))
	cmd.AddCommand(NewOverridesCmd(cfg, log))
	cmd.AddCommand(NewDoctorCmd(cfg, log))
	cmd.AddCommand(NewCompletionCmd(cfg, log))
	cmd.AddCommand(NewVersionCmd(version))

	return cmd
}
