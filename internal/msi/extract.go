// Package msi extracts product metadata from MSI installer databases.
// Property queries go through the WindowsInstaller COM automation interface
// via PowerShell, so the core never touches COM directly and the whole
// boundary is mockable through the command runner.
package msi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quantmind-br/winpack/internal/core"
	"github.com/quantmind-br/winpack/internal/helpers"
	"github.com/rs/zerolog"
)

// ExtractionError reports a failed metadata extraction. The caller treats
// it as "no MSI metadata", never as a fatal condition.
type ExtractionError struct {
	Path  string
	Cause string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("msi extraction failed for %s: %s", e.Path, e.Cause)
}

// Extractor is the narrow contract the pipeline consumes
type Extractor interface {
	Extract(ctx context.Context, msiPath string) (*core.MsiMetadata, error)
}

// The four fixed properties read from the installer Property table
var queriedProperties = []string{"ProductCode", "ProductName", "ProductVersion", "Manufacturer"}

// propertyScript queries the MSI Property table through the
// WindowsInstaller.Installer COM object and prints the result as JSON.
const propertyScript = `
$msi = "%s"
$installer = New-Object -ComObject WindowsInstaller.Installer
$db = $installer.GetType().InvokeMember('OpenDatabase', 'InvokeMethod', $null, $installer, @($msi, 0))
$view = $db.GetType().InvokeMember('OpenView', 'InvokeMethod', $null, $db, "SELECT Property, Value FROM Property")
$view.GetType().InvokeMember('Execute', 'InvokeMethod', $null, $view, $null)

$pairs = @{}
while ($rec = $view.GetType().InvokeMember('Fetch', 'InvokeMethod', $null, $view, $null)) {
    $prop = $rec.GetType().InvokeMember('StringData', 'GetProperty', $null, $rec, 1)
    $val = $rec.GetType().InvokeMember('StringData', 'GetProperty', $null, $rec, 2)
    $pairs[$prop] = $val
}
[PSCustomObject]@{
  ProductCode    = $pairs["ProductCode"]
  ProductName    = $pairs["ProductName"]
  ProductVersion = $pairs["ProductVersion"]
  Manufacturer   = $pairs["Manufacturer"]
} | ConvertTo-Json -Compress
`

// PowerShellExtractor extracts MSI properties by shelling out to PowerShell
type PowerShellExtractor struct {
	runner helpers.CommandRunner
	logger *zerolog.Logger
}

// NewPowerShellExtractor creates an extractor backed by the given runner
func NewPowerShellExtractor(runner helpers.CommandRunner, log *zerolog.Logger) *PowerShellExtractor {
	return &PowerShellExtractor{runner: runner, logger: log}
}

// Extract reads ProductCode, ProductName, ProductVersion and Manufacturer
// from the MSI at msiPath. Any failure (corrupt file, missing property,
// PowerShell unavailable) yields an ExtractionError.
func (e *PowerShellExtractor) Extract(ctx context.Context, msiPath string) (*core.MsiMetadata, error) {
	script := fmt.Sprintf(propertyScript, msiPath)

	out, err := e.runner.RunCommand(ctx, "powershell",
		"-NoProfile", "-NonInteractive", "-Command", script)
	if err != nil {
		e.logger.Debug().Err(err).Str("msi", msiPath).Msg("msi property query failed")
		return nil, &ExtractionError{Path: msiPath, Cause: err.Error()}
	}

	var props map[string]string
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &props); err != nil {
		return nil, &ExtractionError{Path: msiPath, Cause: fmt.Sprintf("unparseable property output: %v", err)}
	}

	meta := &core.MsiMetadata{
		ProductCode:    strings.TrimSpace(props["ProductCode"]),
		ProductName:    strings.TrimSpace(props["ProductName"]),
		ProductVersion: strings.TrimSpace(props["ProductVersion"]),
		Manufacturer:   strings.TrimSpace(props["Manufacturer"]),
	}

	if !core.IsProductCode(meta.ProductCode) {
		return nil, &ExtractionError{
			Path:  msiPath,
			Cause: fmt.Sprintf("product code %q is not a GUID", meta.ProductCode),
		}
	}

	e.logger.Debug().
		Str("msi", msiPath).
		Str("product_code", meta.ProductCode).
		Str("product_name", meta.ProductName).
		Msg("extracted msi metadata")

	return meta, nil
}

// QueriedProperties returns the fixed property names the extractor reads
func QueriedProperties() []string {
	out := make([]string, len(queriedProperties))
	copy(out, queriedProperties)
	return out
}
