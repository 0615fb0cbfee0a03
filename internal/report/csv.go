// Package report renders packaging results as CSV and console tables.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/quantmind-br/winpack/internal/core"
	"github.com/spf13/afero"
)

// Columns is the fixed CSV column set, in order
var Columns = []string{
	"AppName",
	"FileName",
	"InstallCommand",
	"UninstallCommand",
	"DetectionType",
	"MSIProductCode",
	"RegistryKeyPath",
	"RegistryValueName",
	"RegistryOperator",
	"RegistryValue",
	"Is32BitApp",
	"Status",
}

// WriteCSV renders one row per result with the fixed column set
func WriteCSV(w io.Writer, results []core.PackageResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range results {
		row := []string{
			r.AppName,
			r.FileName,
			r.InstallCommand,
			r.UninstallCommand,
			string(r.Detection.Type),
			r.Detection.ProductCode,
			r.Detection.KeyPath,
			r.Detection.ValueName,
			r.Detection.Operator,
			r.Detection.Value,
			strconv.FormatBool(r.Detection.Is32Bit),
			string(r.Status),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row for %q: %w", r.AppName, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the report to a file on the given filesystem
func WriteCSVFile(fs afero.Fs, path string, results []core.PackageResult) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	return WriteCSV(f, results)
}
