package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quantmind-br/winpack/internal/config"
	"github.com/quantmind-br/winpack/internal/db"
	"github.com/quantmind-br/winpack/internal/helpers"
	"github.com/quantmind-br/winpack/internal/intunewin"
	"github.com/quantmind-br/winpack/internal/ui"
	"github.com/quantmind-br/winpack/internal/winreg"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewDoctorCmd creates the doctor command
func NewDoctorCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check packaging prerequisites",
		Long:  `Checks the content prep tool, PowerShell, registry access, directories, and the history database.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ui.PrintHeader("Packaging Diagnostics")
			fmt.Println()

			var issues []string
			runner := helpers.NewOSCommandRunner()

			const totalChecks = 5

			// Content prep tool
			ui.PrintStep(1, totalChecks, "content prep tool")
			packager := intunewin.New(runner, cfg.Packaging.ToolPath, log)
			if err := packager.CheckTool(); err != nil {
				ui.PrintError("content prep tool: %v", err)
				issues = append(issues, fmt.Sprintf("Content prep tool unusable: %v", err))
			} else {
				ui.PrintSuccess("content prep tool: %s", cfg.Packaging.ToolPath)
			}

			// PowerShell, needed for MSI property extraction
			ui.PrintStep(2, totalChecks, "powershell")
			if runner.CommandExists("powershell") {
				ui.PrintSuccess("powershell: found")
			} else {
				ui.PrintWarning("powershell: not found (MSI property extraction will fail)")
			}

			// Registry access
			ui.PrintStep(3, totalChecks, "registry")
			if _, err := winreg.NewSearcher(log).FindByDisplayName(cmd.Context(), "winpack-doctor-check"); errors.Is(err, winreg.ErrUnsupported) {
				ui.PrintWarning("registry: unavailable on this platform (uninstall lookup disabled)")
			} else {
				ui.PrintSuccess("registry: readable")
			}

			// Directories
			ui.PrintStep(4, totalChecks, "directories")
			for _, dir := range []struct {
				path string
				name string
			}{
				{cfg.Paths.DataDir, "data directory"},
				{filepath.Dir(cfg.Paths.DBFile), "database directory"},
				{filepath.Dir(cfg.Paths.LogFile), "log directory"},
			} {
				if err := os.MkdirAll(dir.path, 0755); err != nil {
					ui.PrintError("%s: %v", dir.name, err)
					issues = append(issues, fmt.Sprintf("Cannot create %s: %v", dir.name, err))
				} else {
					ui.PrintSuccess("%s: %s", dir.name, dir.path)
				}
			}

			// History database
			ui.PrintStep(5, totalChecks, "history database")
			database, err := db.New(cmd.Context(), cfg.Paths.DBFile)
			if err != nil {
				ui.PrintError("history database: %v", err)
				issues = append(issues, fmt.Sprintf("History database unusable: %v", err))
			} else {
				database.Close()
				ui.PrintSuccess("history database: %s", cfg.Paths.DBFile)
			}

			fmt.Println()
			if len(issues) > 0 {
				ui.PrintError("%d issue(s) found", len(issues))
				return fmt.Errorf("%d diagnostic issue(s)", len(issues))
			}

			ui.PrintSuccess("All checks passed")
			return nil
		},
	}

	return cmd
}
