package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/quantmind-br/winpack/internal/config"
	"github.com/quantmind-br/winpack/internal/db"
	"github.com/quantmind-br/winpack/internal/report"
	"github.com/quantmind-br/winpack/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command
func NewHistoryCmd(cfg *config.Config, _ *zerolog.Logger) *cobra.Command {
	var (
		jsonOutput bool
		runID      string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded packaging runs",
		Long:  `Lists past packaging runs. With --run, shows the per-installer results of one run.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			database, err := db.New(ctx, cfg.Paths.DBFile)
			if err != nil {
				ui.PrintError("failed to open database: %v", err)
				return fmt.Errorf("open database: %w", ErrDatabase)
			}
			defer database.Close()

			if runID != "" {
				results, err := database.ListResults(ctx, runID)
				if err != nil {
					return fmt.Errorf("list results: %w", ErrDatabase)
				}

				if jsonOutput {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(results)
				}

				if len(results) == 0 {
					ui.PrintWarning("No results recorded for run %s", runID)
					return nil
				}

				report.RenderTable(cmd.OutOrStdout(), results)
				return nil
			}

			runs, err := database.ListRuns(ctx)
			if err != nil {
				return fmt.Errorf("list runs: %w", ErrDatabase)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(runs)
			}

			if len(runs) == 0 {
				ui.PrintInfo("No packaging runs recorded")
				return nil
			}

			printRunsTable(cmd, runs)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.Flags().StringVar(&runID, "run", "", "show results of a single run")

	return cmd
}

func printRunsTable(cmd *cobra.Command, runs []db.Run) {
	table := tablewriter.NewTable(cmd.OutOrStdout(),
		tablewriter.WithHeader([]string{"Run ID", "Started", "Source", "Total", "Succeeded", "Failed"}),
		tablewriter.WithAlignment(tw.MakeAlign(6, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleLight)),
	)

	for _, run := range runs {
		table.Append(
			run.RunID,
			run.StartedAt.Format("2006-01-02 15:04"),
			run.SourceDir,
			fmt.Sprintf("%d", run.Total),
			fmt.Sprintf("%d", run.Succeeded),
			fmt.Sprintf("%d", run.Failed),
		)
	}

	table.Render()
}
