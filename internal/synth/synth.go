// Package synth derives install commands, uninstall commands, and detection
// rules for one installer. Everything here is a deterministic function of
// its inputs; the only side-effecting path is candidate switch testing,
// which executes real installers and is strictly opt-in.
package synth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/quantmind-br/winpack/internal/core"
	"github.com/quantmind-br/winpack/internal/helpers"
	"github.com/rs/zerolog"
)

// UninstallNotAutomated is the sentinel returned when no uninstall method
// could be derived. It is a valid terminal output, not an error: the
// operator is expected to follow up manually.
const UninstallNotAutomated = "NOT AUTOMATED - supply uninstall command manually"

// Candidate is one silent-install switch set to try against an EXE installer
type Candidate struct {
	Name     string
	Switches []string
}

// installCandidates is the fixed, ordered switch table. Order matters:
// testing stops at the first candidate whose exit code counts as success.
var installCandidates = []Candidate{
	{Name: "inno", Switches: []string{"/VERYSILENT", "/NORESTART"}},
	{Name: "nsis", Switches: []string{"/S"}},
	{Name: "installshield", Switches: []string{"/silent", "/norestart"}},
	{Name: "generic", Switches: []string{"/q", "/norestart"}},
	{Name: "inno-allusers", Switches: []string{"/SP-", "/VERYSILENT", "/SUPPRESSMSGBOXES", "/NORESTART", "/ALLUSERS"}},
}

// InstallCandidates returns a copy of the candidate switch table
func InstallCandidates() []Candidate {
	out := make([]Candidate, len(installCandidates))
	copy(out, installCandidates)
	return out
}

// defaultEXESwitches is the fallback when testing is disabled or every
// candidate fails.
var defaultEXESwitches = []string{"/VERYSILENT", "/NORESTART"}

// InstallTester executes an installer with candidate switches and reports
// its exit code. Implementations run real installers on the host.
type InstallTester interface {
	TryInstall(ctx context.Context, installerPath string, switches []string) (int, error)
}

// RunnerTester adapts a CommandRunner into an InstallTester with a bounded
// per-attempt timeout.
type RunnerTester struct {
	Runner  helpers.CommandRunner
	Timeout time.Duration
}

// TryInstall runs the installer and waits for it, killing it on timeout
func (t *RunnerTester) TryInstall(ctx context.Context, installerPath string, switches []string) (int, error) {
	return t.Runner.RunInstaller(ctx, installerPath, switches, t.Timeout)
}

// Options controls the optional, destructive install-testing capability
type Options struct {
	// TestingEnabled allows candidate switch sets to be executed against
	// real installers. Must never be on without explicit operator intent.
	TestingEnabled bool
}

// Synthesizer derives commands and detection rules for installers
type Synthesizer struct {
	logger *zerolog.Logger
	tester InstallTester
	opts   Options
}

// New creates a Synthesizer. tester may be nil when testing is disabled.
func New(log *zerolog.Logger, tester InstallTester, opts Options) *Synthesizer {
	return &Synthesizer{logger: log, tester: tester, opts: opts}
}

// Input is everything synthesis may consume for one installer
type Input struct {
	Descriptor core.InstallerDescriptor
	Override   *core.Override
	MSI        *core.MsiMetadata
	Registry   *core.RegistryMatch
}

// Output is the full synthesis result for one installer
type Output struct {
	InstallCommand   string
	UninstallCommand string
	Detection        core.DetectionRule
}

// Synthesize runs all three synthesizers for one installer
func (s *Synthesizer) Synthesize(ctx context.Context, in Input) Output {
	return Output{
		InstallCommand:   s.InstallCommand(ctx, in.Descriptor, in.Override),
		UninstallCommand: UninstallCommand(in.Descriptor, in.Override, in.MSI, in.Registry),
		Detection:        DetectionRule(in.MSI, in.Registry),
	}
}

// InstallCommand derives the install command line, in strict precedence:
// override, MSI template, tested candidate switches, default fallback.
func (s *Synthesizer) InstallCommand(ctx context.Context, d core.InstallerDescriptor, ov *core.Override) string {
	if ov != nil && ov.InstallCommand != "" {
		return ov.InstallCommand
	}

	if d.Extension == core.ExtensionMSI {
		return fmt.Sprintf(`msiexec /i "%s" /qn /norestart`, d.FileName)
	}

	if s.opts.TestingEnabled && s.tester != nil {
		if cand, ok := s.testCandidates(ctx, d); ok {
			return commandLine(d.FileName, cand.Switches)
		}
	}

	return commandLine(d.FileName, defaultEXESwitches)
}

// testCandidates tries the switch table in order against the installer and
// returns the first candidate that exits 0 or 3010. A launch failure or
// timeout is a non-match for that candidate, never fatal.
func (s *Synthesizer) testCandidates(ctx context.Context, d core.InstallerDescriptor) (Candidate, bool) {
	path := d.Path
	if path == "" {
		path = d.FileName
	}

	for _, cand := range installCandidates {
		exitCode, err := s.tester.TryInstall(ctx, path, cand.Switches)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("installer", d.FileName).
				Str("candidate", cand.Name).
				Msg("install test attempt failed to complete, trying next candidate")
			continue
		}

		if helpers.IsInstallerSuccess(exitCode) {
			s.logger.Info().
				Str("installer", d.FileName).
				Str("candidate", cand.Name).
				Int("exit_code", exitCode).
				Msg("install switch candidate verified")
			return cand, true
		}

		s.logger.Debug().
			Str("installer", d.FileName).
			Str("candidate", cand.Name).
			Int("exit_code", exitCode).
			Msg("install switch candidate rejected")
	}

	return Candidate{}, false
}

// UninstallCommand derives the uninstall command line. Pure function.
// Precedence: override, MSI product code, quiet uninstall string, Inno
// uninstaller pattern, sentinel.
func UninstallCommand(d core.InstallerDescriptor, ov *core.Override, msi *core.MsiMetadata, reg *core.RegistryMatch) string {
	if ov != nil && ov.UninstallCommand != "" {
		return ov.UninstallCommand
	}

	if d.Extension == core.ExtensionMSI && msi != nil {
		return fmt.Sprintf(`msiexec /x "%s" /qn /norestart`, msi.ProductCode)
	}

	if reg != nil {
		if reg.QuietUninstallString != "" {
			return reg.QuietUninstallString
		}
		if isInnoUninstaller(reg.UninstallString) {
			return reg.UninstallString + " /VERYSILENT /NORESTART"
		}
	}

	return UninstallNotAutomated
}

// isInnoUninstaller recognizes Inno Setup uninstaller command lines, which
// can safely take the /VERYSILENT /NORESTART switches.
func isInnoUninstaller(uninstallString string) bool {
	lower := strings.ToLower(uninstallString)
	return strings.Contains(lower, "unins") && strings.HasSuffix(lower, ".exe")
}

// DetectionRule derives the detection rule by fixed priority: MSI metadata,
// then registry match, then file fallback. Pure and total: every input
// combination maps to exactly one variant.
func DetectionRule(msi *core.MsiMetadata, reg *core.RegistryMatch) core.DetectionRule {
	if msi != nil {
		return core.NewMSIDetection(*msi)
	}
	if reg != nil {
		return core.NewRegistryDetection(*reg)
	}
	return core.NewFileFallbackDetection()
}

// commandLine renders an executable name plus switches as one command line
func commandLine(fileName string, switches []string) string {
	return fileName + " " + strings.Join(switches, " ")
}
