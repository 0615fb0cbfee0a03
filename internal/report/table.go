package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/quantmind-br/winpack/internal/core"
	"github.com/quantmind-br/winpack/internal/ui"
)

const maxCommandWidth = 60

// RenderTable prints results as a compact console table
func RenderTable(w io.Writer, results []core.PackageResult) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"App", "Type", "Install Command", "Detection", "Status"}),
		tablewriter.WithAlignment(tw.MakeAlign(5, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleLight)),
	)

	for _, r := range results {
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(r.FileName)), ".")
		table.Append(
			r.AppName,
			ui.ColorizeExtension(core.Extension(ext)),
			truncate(r.InstallCommand, maxCommandWidth),
			detectionSummary(r.Detection),
			ui.ColorizeStatus(r.Status),
		)
	}

	table.Render()
}

// PrintSummary prints the run totals and, when present, the failure list
func PrintSummary(w io.Writer, summary core.RunSummary) {
	fmt.Fprintf(w, "\nProcessed %d installer(s): %d succeeded, %d failed\n",
		summary.Total, summary.Succeeded, summary.Failed)

	for _, f := range summary.Failures {
		fmt.Fprintf(w, "  %s %s: %s\n", ui.FailureMark(), f.AppName, f.Cause)
	}
}

func detectionSummary(d core.DetectionRule) string {
	switch d.Type {
	case core.DetectionMSI:
		return fmt.Sprintf("msi %s", d.ProductCode)
	case core.DetectionRegistry:
		return fmt.Sprintf("registry %s=%q", d.ValueName, d.Value)
	default:
		return "file (manual)"
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
