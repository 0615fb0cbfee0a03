// Package intunewin wraps the Microsoft Win32 Content Prep Tool
// (IntuneWinAppUtil.exe). Each installer is packaged from its own staging
// directory so concurrent packaging never shares state.
package intunewin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quantmind-br/winpack/internal/core"
	"github.com/quantmind-br/winpack/internal/helpers"
	"github.com/rs/zerolog"
)

// ArtifactExtension is the container extension produced by the prep tool
const ArtifactExtension = ".intunewin"

// ErrToolMissing marks a missing or unusable packaging tool
var ErrToolMissing = errors.New("packaging tool unavailable")

// Packager shells out to the content prep tool
type Packager struct {
	runner   helpers.CommandRunner
	toolPath string
	logger   *zerolog.Logger
}

// New creates a Packager for the prep tool at toolPath
func New(runner helpers.CommandRunner, toolPath string, log *zerolog.Logger) *Packager {
	return &Packager{runner: runner, toolPath: toolPath, logger: log}
}

// CheckTool verifies the packaging tool exists. A missing tool is a fatal
// pre-run condition: nothing is processed without it.
func (p *Packager) CheckTool() error {
	if p.toolPath == "" {
		return fmt.Errorf("packaging tool path is not configured: %w", ErrToolMissing)
	}
	info, err := os.Stat(p.toolPath)
	if err != nil {
		return fmt.Errorf("packaging tool not found at %q: %w", p.toolPath, ErrToolMissing)
	}
	if info.IsDir() {
		return fmt.Errorf("packaging tool path %q is a directory: %w", p.toolPath, ErrToolMissing)
	}
	return nil
}

// Package wraps one installer into an .intunewin artifact named after the
// installer's app name, returning the artifact path. The installer is
// staged into a working directory owned exclusively by this call.
func (p *Packager) Package(ctx context.Context, d core.InstallerDescriptor, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	workDir, err := os.MkdirTemp(outputDir, "staging-"+d.AppName+"-*")
	if err != nil {
		return "", fmt.Errorf("create staging directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	stagedInstaller := filepath.Join(workDir, d.FileName)
	if err := helpers.CopyFile(d.Path, stagedInstaller); err != nil {
		return "", fmt.Errorf("stage installer: %w", err)
	}

	p.logger.Info().
		Str("installer", d.FileName).
		Str("staging_dir", workDir).
		Msg("invoking packaging tool")

	// -q keeps the tool from prompting when the artifact already exists
	_, err = p.runner.RunCommandInDir(ctx, workDir, p.toolPath,
		"-c", workDir,
		"-s", d.FileName,
		"-o", outputDir,
		"-q")
	if err != nil {
		return "", fmt.Errorf("packaging tool failed for %q: %w", d.FileName, err)
	}

	// the tool names the artifact after the setup file's base name
	artifact := filepath.Join(outputDir, d.AppName+ArtifactExtension)
	if _, err := os.Stat(artifact); err != nil {
		return "", fmt.Errorf("packaging tool reported success but artifact %q is missing: %w", artifact, err)
	}

	p.logger.Info().
		Str("installer", d.FileName).
		Str("artifact", artifact).
		Msg("packaged installer")

	return artifact, nil
}
