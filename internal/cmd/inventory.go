package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	goversion "github.com/hashicorp/go-version"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/quantmind-br/winpack/internal/config"
	"github.com/quantmind-br/winpack/internal/ui"
	"github.com/quantmind-br/winpack/internal/winreg"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewInventoryCmd creates the inventory command
func NewInventoryCmd(_ *config.Config, log *zerolog.Logger) *cobra.Command {
	var (
		jsonOutput bool
		filterName string
		sortBy     string
	)

	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "List applications registered in the uninstall registry",
		Long:  `Enumerates installed applications from both the native and Wow6432Node uninstall registry roots.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enum := winreg.NewEnumerator(log)

			apps, err := enum.ListInstalled(cmd.Context())
			if err != nil {
				ui.PrintError("%v", err)
				return err
			}

			filtered := filterApps(apps, filterName)
			sortApps(filtered, sortBy)

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(filtered)
			}

			if len(filtered) == 0 {
				if filterName != "" {
					ui.PrintWarning("No applications found matching %q", filterName)
				} else {
					ui.PrintInfo("No applications found")
				}
				return nil
			}

			printInventoryTable(cmd, filtered)
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d application(s)\n", len(filtered))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.Flags().StringVar(&filterName, "filter", "", "fuzzy-filter by display name")
	cmd.Flags().StringVar(&sortBy, "sort", "name", "sort by: name, version, publisher")

	return cmd
}

// filterApps keeps applications whose display name fuzzy-matches the filter
func filterApps(apps []winreg.Application, filterName string) []winreg.Application {
	if filterName == "" {
		return apps
	}

	filtered := make([]winreg.Application, 0)
	for _, app := range apps {
		if fuzzy.MatchNormalizedFold(strings.TrimSpace(filterName), app.DisplayName) {
			filtered = append(filtered, app)
		}
	}
	return filtered
}

// sortApps sorts applications by the specified field
func sortApps(apps []winreg.Application, sortBy string) {
	switch strings.ToLower(sortBy) {
	case "version":
		sort.Slice(apps, func(i, j int) bool {
			vi, errI := goversion.NewVersion(apps[i].DisplayVersion)
			vj, errJ := goversion.NewVersion(apps[j].DisplayVersion)
			if errI != nil || errJ != nil {
				// unparseable versions compare as strings
				return apps[i].DisplayVersion < apps[j].DisplayVersion
			}
			return vi.LessThan(vj)
		})
	case "publisher":
		sort.Slice(apps, func(i, j int) bool {
			if strings.EqualFold(apps[i].Publisher, apps[j].Publisher) {
				return strings.ToLower(apps[i].DisplayName) < strings.ToLower(apps[j].DisplayName)
			}
			return strings.ToLower(apps[i].Publisher) < strings.ToLower(apps[j].Publisher)
		})
	default:
		sort.Slice(apps, func(i, j int) bool {
			return strings.ToLower(apps[i].DisplayName) < strings.ToLower(apps[j].DisplayName)
		})
	}
}

func printInventoryTable(cmd *cobra.Command, apps []winreg.Application) {
	table := tablewriter.NewTable(cmd.OutOrStdout(),
		tablewriter.WithHeader([]string{"Display Name", "Version", "Publisher", "Arch"}),
		tablewriter.WithAlignment(tw.MakeAlign(4, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleNone)),
	)

	for _, app := range apps {
		version := app.DisplayVersion
		if version == "" {
			version = "-"
		}

		arch := "64-bit"
		if app.Is32BitOnWow64 {
			arch = "32-bit"
		}

		table.Append(app.DisplayName, version, app.Publisher, arch)
	}

	table.Render()
}
