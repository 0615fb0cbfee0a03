package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/quantmind-br/winpack/internal/config"
	"github.com/quantmind-br/winpack/internal/helpers"
	"github.com/quantmind-br/winpack/internal/msi"
	"github.com/quantmind-br/winpack/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewProductCodeCmd creates the productcode command
func NewProductCodeCmd(_ *config.Config, log *zerolog.Logger) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "productcode [msi-file...]",
		Short: "Extract product codes and properties from MSI files",
		Long:  `Reads ProductCode, ProductName, ProductVersion, and Manufacturer from one or more MSI installer databases.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			extractor := msi.NewPowerShellExtractor(helpers.NewOSCommandRunner(), log)

			var failed int
			for _, path := range args {
				var spinner *ui.ProgressBar
				if !jsonOutput {
					spinner = ui.NewIndeterminateProgressBar(fmt.Sprintf("reading %s", path))
				}
				meta, err := extractor.Extract(cmd.Context(), path)
				if spinner != nil {
					spinner.Finish()
					spinner.Clear()
				}
				if err != nil {
					ui.PrintError("%s: %v", path, err)
					failed++
					continue
				}

				if jsonOutput {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					if err := enc.Encode(meta); err != nil {
						return err
					}
					continue
				}

				ui.PrintHeader(path)
				ui.PrintKeyValue("ProductCode", meta.ProductCode)
				ui.PrintKeyValue("ProductName", meta.ProductName)
				ui.PrintKeyValue("ProductVersion", meta.ProductVersion)
				ui.PrintKeyValue("Manufacturer", meta.Manufacturer)
				ui.PrintKeyValue("UninstallKey", meta.RegistryPath())
			}

			if failed > 0 {
				return fmt.Errorf("failed to read %d of %d MSI file(s)", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	return cmd
}
