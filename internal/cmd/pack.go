package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/quantmind-br/winpack/internal/config"
	"github.com/quantmind-br/winpack/internal/core"
	"github.com/quantmind-br/winpack/internal/db"
	"github.com/quantmind-br/winpack/internal/discover"
	"github.com/quantmind-br/winpack/internal/helpers"
	"github.com/quantmind-br/winpack/internal/intunewin"
	"github.com/quantmind-br/winpack/internal/msi"
	"github.com/quantmind-br/winpack/internal/overrides"
	"github.com/quantmind-br/winpack/internal/pipeline"
	"github.com/quantmind-br/winpack/internal/report"
	"github.com/quantmind-br/winpack/internal/synth"
	"github.com/quantmind-br/winpack/internal/ui"
	"github.com/quantmind-br/winpack/internal/winreg"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewPackCmd creates the pack command
func NewPackCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var (
		sourceDir     string
		outputDir     string
		toolPath      string
		overridesPath string
		csvPath       string
		testInstall   bool
		assumeYes     bool
		timeoutMins   int
		skipPackage   bool
		noHistory     bool
	)

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Package every installer in a source directory",
		Long: `Scans a directory for .exe and .msi installers, derives silent install and
uninstall commands plus an Intune detection rule for each one, wraps them with
the Win32 Content Prep Tool, and writes a CSV report of the results.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			startedAt := time.Now().UTC()

			if testInstall && !assumeYes {
				ok, err := ui.ConfirmDangerousAction("run live install tests against installers in", sourceDir)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("live install testing was not confirmed")
				}
			}

			log.Info().
				Str("source", sourceDir).
				Str("output", outputDir).
				Bool("test_install", testInstall).
				Bool("skip_package", skipPackage).
				Msg("starting pack run")

			fs := afero.NewOsFs()
			runner := helpers.NewOSCommandRunner()
			ovs := overrides.Load(fs, overridesPath, log)

			deps := pipeline.Deps{
				Scanner:   discover.NewScanner(fs, log),
				Extractor: msi.NewPowerShellExtractor(runner, log),
				Searcher:  winreg.NewSearcher(log),
				Packager:  intunewin.New(runner, toolPath, log),
			}
			if testInstall {
				deps.Tester = &synth.RunnerTester{
					Runner:  runner,
					Timeout: time.Duration(cfg.Testing.TimeoutMinutes) * time.Minute,
				}
			}

			ctx, cancel := contextWithTimeout(ctx, timeoutMins)
			defer cancel()

			var bar *ui.ProgressBar
			opts := pipeline.Options{
				SourceDir:      sourceDir,
				OutputDir:      outputDir,
				TestingEnabled: testInstall,
				SkipPackage:    skipPackage,
				OnResult: func(done, total int, result core.PackageResult) {
					if bar == nil {
						bar = ui.NewProgressBar(int64(total), "packaging")
					}
					bar.Describe(result.AppName)
					bar.Add(1)
					if done == total {
						bar.Finish()
						bar.Clear()
					}
				},
			}

			results, summary, err := pipeline.New(deps, opts, log).Run(ctx, ovs)
			if err != nil {
				ui.PrintError("%v", err)
				return err
			}

			if csvPath != "" {
				if err := report.WriteCSVFile(fs, csvPath, results); err != nil {
					ui.PrintError("failed to write report: %v", err)
					return err
				}
				ui.PrintInfo("report written to %s", csvPath)
			}

			report.RenderTable(cmd.OutOrStdout(), results)
			report.PrintSummary(cmd.OutOrStdout(), summary)

			if !noHistory {
				saveHistory(ctx, cfg, log, startedAt, sourceDir, summary, results)
			}

			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d installers failed: %w", summary.Failed, summary.Total, ErrPackagesFailed)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&sourceDir, "source", "s", ".", "directory to scan for installers")
	cmd.Flags().StringVarP(&outputDir, "output", "o", cfg.Packaging.OutputDir, "directory for .intunewin artifacts")
	cmd.Flags().StringVar(&toolPath, "tool", cfg.Packaging.ToolPath, "path to IntuneWinAppUtil.exe")
	cmd.Flags().StringVar(&overridesPath, "overrides", "", "path to YAML overrides file")
	cmd.Flags().StringVar(&csvPath, "csv", "intune_report.csv", "path for the CSV report (empty disables)")
	cmd.Flags().BoolVar(&testInstall, "test-install", cfg.Testing.Enabled, "execute candidate install switches to find working ones (modifies this machine)")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the live-testing confirmation prompt")
	cmd.Flags().IntVar(&timeoutMins, "timeout", cfg.Packaging.TimeoutMinutes, "overall run timeout in minutes (0 disables)")
	cmd.Flags().BoolVar(&skipPackage, "skip-package", false, "synthesize commands and detection rules without packaging")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record this run in the history database")

	return cmd
}

func contextWithTimeout(ctx context.Context, minutes int) (context.Context, context.CancelFunc) {
	if minutes <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(minutes)*time.Minute)
}

// saveHistory records the run in sqlite. History is auxiliary: failures are
// logged, never returned.
func saveHistory(ctx context.Context, cfg *config.Config, log *zerolog.Logger, startedAt time.Time, sourceDir string, summary core.RunSummary, results []core.PackageResult) {
	database, err := db.New(ctx, cfg.Paths.DBFile)
	if err != nil {
		log.Warn().Err(err).Msg("history database unavailable, run not recorded")
		return
	}
	defer database.Close()

	run := db.Run{
		RunID:     helpers.GenerateRunID(),
		StartedAt: startedAt,
		SourceDir: sourceDir,
		Total:     summary.Total,
		Succeeded: summary.Succeeded,
		Failed:    summary.Failed,
	}

	if err := database.SaveRun(ctx, run, results); err != nil {
		log.Warn().Err(err).Msg("failed to record run history")
		return
	}

	log.Info().Str("run_id", run.RunID).Msg("run recorded")
}
