package core

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Extension represents the recognized installer file extension
type Extension string

const (
	ExtensionEXE   Extension = "exe"
	ExtensionMSI   Extension = "msi"
	ExtensionOther Extension = "other"
)

// InstallerDescriptor describes one discovered installer file.
// Descriptors are immutable once created by discovery.
type InstallerDescriptor struct {
	FileName  string    `json:"file_name"`
	Extension Extension `json:"extension"`
	AppName   string    `json:"app_name"`
	Path      string    `json:"path"`
}

// Override holds user-supplied command corrections for one application.
// A non-empty field always wins over any derived value.
type Override struct {
	InstallCommand   string `yaml:"install_command" json:"install_command,omitempty"`
	UninstallCommand string `yaml:"uninstall_command" json:"uninstall_command,omitempty"`
}

// Overrides maps application names to their command corrections
type Overrides map[string]Override

// Lookup returns the override entry for an app name, if present.
// Names are compared case-insensitively since file base names and
// override keys rarely agree on casing.
func (o Overrides) Lookup(appName string) (Override, bool) {
	if o == nil {
		return Override{}, false
	}
	if ov, ok := o[appName]; ok {
		return ov, true
	}
	for name, ov := range o {
		if strings.EqualFold(name, appName) {
			return ov, true
		}
	}
	return Override{}, false
}

// MSIUninstallKeyPrefix is the uninstall registry key under which Windows
// Installer registers products by product code.
const MSIUninstallKeyPrefix = `HKEY_LOCAL_MACHINE\SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall\`

// MsiMetadata holds properties extracted from an MSI installer database
type MsiMetadata struct {
	ProductCode    string `json:"product_code"`
	ProductName    string `json:"product_name,omitempty"`
	ProductVersion string `json:"product_version,omitempty"`
	Manufacturer   string `json:"manufacturer,omitempty"`
}

// RegistryPath returns the uninstall key the product registers under
func (m MsiMetadata) RegistryPath() string {
	return MSIUninstallKeyPrefix + m.ProductCode
}

var productCodeRe = regexp.MustCompile(`^\{[0-9A-Fa-f]{8}-[0-9A-Fa-f]{4}-[0-9A-Fa-f]{4}-[0-9A-Fa-f]{4}-[0-9A-Fa-f]{12}\}$`)

// IsProductCode reports whether s is a braced GUID as used for MSI product codes
func IsProductCode(s string) bool {
	return productCodeRe.MatchString(s)
}

// RegistryMatch is an installed-application uninstall key located by a
// display-name search.
type RegistryMatch struct {
	KeyPath              string `json:"key_path"`
	DisplayName          string `json:"display_name"`
	DisplayVersion       string `json:"display_version,omitempty"`
	Publisher            string `json:"publisher,omitempty"`
	UninstallString      string `json:"uninstall_string,omitempty"`
	QuietUninstallString string `json:"quiet_uninstall_string,omitempty"`
	Is32BitOnWow64       bool   `json:"is_32bit_on_wow64"`
}

// DetectionType identifies the detection rule variant
type DetectionType string

const (
	DetectionMSI      DetectionType = "msi"
	DetectionRegistry DetectionType = "registry"
	DetectionFile     DetectionType = "file"
)

// FileFallbackNote is emitted when neither MSI nor registry information is
// available and the operator must supply detection criteria by hand.
const FileFallbackNote = "no MSI or registry detection available - supply a file or manual detection rule"

// DetectionRule is the synthesized detection output. Exactly one variant is
// populated, indicated by Type.
type DetectionRule struct {
	Type DetectionType `json:"type"`

	// MSI variant
	ProductCode string `json:"product_code,omitempty"`
	// UninstallKeyPath is the MSI-derived registry path, surfaced for
	// operator reference alongside the product-code rule.
	UninstallKeyPath string `json:"uninstall_key_path,omitempty"`

	// Registry variant
	KeyPath   string `json:"key_path,omitempty"`
	ValueName string `json:"value_name,omitempty"`
	Operator  string `json:"operator,omitempty"`
	Value     string `json:"value,omitempty"`
	Is32Bit   bool   `json:"is_32bit,omitempty"`

	// File fallback variant
	Note string `json:"note,omitempty"`
}

// NewMSIDetection builds the product-code detection rule
func NewMSIDetection(meta MsiMetadata) DetectionRule {
	return DetectionRule{
		Type:             DetectionMSI,
		ProductCode:      meta.ProductCode,
		UninstallKeyPath: meta.RegistryPath(),
	}
}

// NewRegistryDetection builds a DisplayName equality rule from a located
// uninstall key.
func NewRegistryDetection(match RegistryMatch) DetectionRule {
	return DetectionRule{
		Type:      DetectionRegistry,
		KeyPath:   match.KeyPath,
		ValueName: "DisplayName",
		Operator:  "Equals",
		Value:     match.DisplayName,
		Is32Bit:   match.Is32BitOnWow64,
	}
}

// NewFileFallbackDetection builds the terminal fallback rule
func NewFileFallbackDetection() DetectionRule {
	return DetectionRule{
		Type: DetectionFile,
		Note: FileFallbackNote,
	}
}

// Status is the terminal state of one installer's processing
type Status string

const (
	StatusSuccess Status = "Success"
	StatusFailed  Status = "Failed"
)

// PackageResult is the final per-installer record. It is created once
// synthesis and packaging complete and never mutated afterward.
type PackageResult struct {
	AppName          string        `json:"app_name"`
	FileName         string        `json:"file_name"`
	InstallCommand   string        `json:"install_command"`
	UninstallCommand string        `json:"uninstall_command"`
	Detection        DetectionRule `json:"detection"`
	Status           Status        `json:"status"`
	ErrorDetail      string        `json:"error_detail,omitempty"`
	ArtifactPath     string        `json:"artifact_path,omitempty"`
	PackagedAt       time.Time     `json:"packaged_at"`
}

// Failure identifies one failed installer and a short cause string
type Failure struct {
	AppName string `json:"app_name"`
	Cause   string `json:"cause"`
}

// RunSummary aggregates the outcome of a packaging run
type RunSummary struct {
	Total     int       `json:"total"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Failures  []Failure `json:"failures,omitempty"`
}

// Summarize builds a RunSummary from a result set
func Summarize(results []PackageResult) RunSummary {
	summary := RunSummary{Total: len(results)}
	for _, r := range results {
		if r.Status == StatusSuccess {
			summary.Succeeded++
			continue
		}
		summary.Failed++
		summary.Failures = append(summary.Failures, Failure{AppName: r.AppName, Cause: r.ErrorDetail})
	}
	return summary
}

// AppNameFor derives the application name from an installer file name by
// stripping the final extension.
func AppNameFor(fileName string) string {
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}

// Exit codes
const (
	ExitSuccess       = 0
	ExitGeneral       = 1
	ExitInvalidArgs   = 2
	ExitPackageFailed = 3
	ExitNoInstallers  = 4
	ExitDatabase      = 5
	ExitToolMissing   = 6
	ExitInterrupted   = 130
)
