// Package winreg locates installed applications through the Windows
// uninstall registry keys. The search walks two fixed roots, the native
// view before the WOW6432Node 32-bit-on-64-bit view, and the first
// display-name match wins.
package winreg

import (
	"context"
	"errors"
	"strings"

	"github.com/quantmind-br/winpack/internal/core"
)

// ErrNotFound means neither uninstall root contained a matching entry
var ErrNotFound = errors.New("no matching uninstall entry in registry")

// ErrUnsupported means registry access is not available on this platform
var ErrUnsupported = errors.New("registry search is only supported on windows")

// Root is one uninstall key root under HKEY_LOCAL_MACHINE
type Root struct {
	Path    string
	Wow6432 bool
}

// UninstallRoots are searched in order; the native view always comes first
var UninstallRoots = []Root{
	{Path: `Software\Microsoft\Windows\CurrentVersion\Uninstall`, Wow6432: false},
	{Path: `Software\Wow6432Node\Microsoft\Windows\CurrentVersion\Uninstall`, Wow6432: true},
}

// Application is one installed-application uninstall entry
type Application struct {
	KeyPath              string `json:"key_path"`
	DisplayName          string `json:"display_name"`
	DisplayVersion       string `json:"display_version,omitempty"`
	Publisher            string `json:"publisher,omitempty"`
	UninstallString      string `json:"uninstall_string,omitempty"`
	QuietUninstallString string `json:"quiet_uninstall_string,omitempty"`
	InstallLocation      string `json:"install_location,omitempty"`
	Is32BitOnWow64       bool   `json:"is_32bit_on_wow64"`
}

// ToMatch converts an uninstall entry into the core match type
func (a Application) ToMatch() core.RegistryMatch {
	return core.RegistryMatch{
		KeyPath:              a.KeyPath,
		DisplayName:          a.DisplayName,
		DisplayVersion:       a.DisplayVersion,
		Publisher:            a.Publisher,
		UninstallString:      a.UninstallString,
		QuietUninstallString: a.QuietUninstallString,
		Is32BitOnWow64:       a.Is32BitOnWow64,
	}
}

// Searcher finds zero-or-one installed application by display-name substring
type Searcher interface {
	FindByDisplayName(ctx context.Context, appName string) (*core.RegistryMatch, error)
}

// Enumerator lists every installed application across both uninstall roots
type Enumerator interface {
	ListInstalled(ctx context.Context) ([]Application, error)
}

// MatchDisplayName reports whether a display name matches an app name.
// Substring, not exact: installed display names rarely equal the installer
// file's base name. Known-imprecise ("Zoom" also matches "ZoomIt").
func MatchDisplayName(displayName, appName string) bool {
	if displayName == "" || appName == "" {
		return false
	}
	return strings.Contains(strings.ToLower(displayName), strings.ToLower(appName))
}

// selectMatch returns the first application whose display name matches,
// relying on apps being ordered native-root-first.
func selectMatch(apps []Application, appName string) *Application {
	for i := range apps {
		if MatchDisplayName(apps[i].DisplayName, appName) {
			return &apps[i]
		}
	}
	return nil
}
