package cmd

import (
	"fmt"

	"github.com/quantmind-br/winpack/internal/config"
	"github.com/quantmind-br/winpack/internal/core"
	"github.com/quantmind-br/winpack/internal/discover"
	"github.com/quantmind-br/winpack/internal/overrides"
	"github.com/quantmind-br/winpack/internal/synth"
	"github.com/quantmind-br/winpack/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewOverridesCmd creates the overrides command group
func NewOverridesCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overrides",
		Short: "Manage the command override document",
	}

	cmd.AddCommand(newOverridesInitCmd(cfg, log))

	return cmd
}

// newOverridesInitCmd scaffolds an overrides file from the installers found
// in a source directory, pre-filled with the commands that would be derived
// anyway so the operator only edits the entries that need correcting.
func newOverridesInitCmd(_ *config.Config, log *zerolog.Logger) *cobra.Command {
	var (
		sourceDir   string
		outputPath  string
		interactive bool
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold an overrides file from a source directory",
		Long: `Scans a directory for installers and writes a YAML overrides file seeded
with the install and uninstall commands that would be derived for each one.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs := afero.NewOsFs()

			if exists, _ := afero.Exists(fs, outputPath); exists && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", outputPath)
			}

			installers, err := discover.NewScanner(fs, log).Scan(sourceDir)
			if err != nil {
				return err
			}

			s := synth.New(log, nil, synth.Options{})
			doc := make(core.Overrides, len(installers))
			for _, d := range installers {
				out := s.Synthesize(cmd.Context(), synth.Input{Descriptor: d})
				entry := core.Override{
					InstallCommand:   out.InstallCommand,
					UninstallCommand: out.UninstallCommand,
				}

				if interactive {
					install, err := ui.InputPrompt(fmt.Sprintf("Install command for %s", d.AppName), entry.InstallCommand, ui.ValidateNonEmpty)
					if err != nil {
						return err
					}
					uninstall, err := ui.InputPrompt(fmt.Sprintf("Uninstall command for %s", d.AppName), entry.UninstallCommand, ui.ValidateNonEmpty)
					if err != nil {
						return err
					}
					entry.InstallCommand = install
					entry.UninstallCommand = uninstall
				}

				doc[d.AppName] = entry
			}

			if err := overrides.Save(fs, outputPath, doc); err != nil {
				return err
			}

			ui.PrintSuccess("wrote %d override entries to %s", len(doc), outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&sourceDir, "source", "s", ".", "directory to scan for installers")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "overrides.yaml", "path for the overrides file")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "prompt to edit each derived command")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing overrides file")

	return cmd
}
