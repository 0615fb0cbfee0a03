// Package pipeline orchestrates a packaging run: discovery, metadata
// extraction, command synthesis, and artifact creation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/quantmind-br/winpack/internal/core"
	"github.com/quantmind-br/winpack/internal/discover"
	"github.com/quantmind-br/winpack/internal/intunewin"
	"github.com/quantmind-br/winpack/internal/msi"
	"github.com/quantmind-br/winpack/internal/synth"
	"github.com/quantmind-br/winpack/internal/winreg"
	"github.com/rs/zerolog"
)

// Deps are the components a Runner drives. All are required except Tester,
// which may be nil when live install testing is disabled.
type Deps struct {
	Scanner   *discover.Scanner
	Extractor msi.Extractor
	Searcher  winreg.Searcher
	Tester    synth.InstallTester
	Packager  *intunewin.Packager
}

// Options controls one packaging run
type Options struct {
	SourceDir string
	OutputDir string

	// TestingEnabled allows candidate install switches to be tried by
	// actually executing installers on this machine.
	TestingEnabled bool

	// SkipPackage synthesizes commands and detection rules without
	// invoking the packaging tool.
	SkipPackage bool

	// OnResult, when set, is called after each installer completes.
	OnResult func(done, total int, result core.PackageResult)
}

// Runner executes packaging runs sequentially, one installer at a time
type Runner struct {
	deps   Deps
	opts   Options
	synth  *synth.Synthesizer
	logger *zerolog.Logger

	// hostMu serializes operations that touch live host state: registry
	// reads and test installs must never overlap.
	hostMu sync.Mutex
}

// New creates a Runner. The install tester is wrapped so that test installs
// share the host mutex with registry searches.
func New(deps Deps, opts Options, log *zerolog.Logger) *Runner {
	r := &Runner{deps: deps, opts: opts, logger: log}

	var tester synth.InstallTester
	if deps.Tester != nil {
		tester = &lockedTester{mu: &r.hostMu, inner: deps.Tester}
	}
	r.synth = synth.New(log, tester, synth.Options{TestingEnabled: opts.TestingEnabled})

	return r
}

// Run processes every installer in the source directory and returns the
// per-installer results with an aggregate summary. Pre-run failures (missing
// packaging tool, unreadable source directory, zero installers) abort with an
// error; per-installer failures are recorded and never abort the run.
func (r *Runner) Run(ctx context.Context, overrides core.Overrides) ([]core.PackageResult, core.RunSummary, error) {
	if !r.opts.SkipPackage {
		if err := r.deps.Packager.CheckTool(); err != nil {
			return nil, core.RunSummary{}, err
		}
	}

	descriptors, err := r.deps.Scanner.Scan(r.opts.SourceDir)
	if err != nil {
		return nil, core.RunSummary{}, err
	}

	r.logger.Info().
		Int("count", len(descriptors)).
		Str("source", r.opts.SourceDir).
		Msg("starting packaging run")

	results := make([]core.PackageResult, 0, len(descriptors))
	for i, d := range descriptors {
		if err := ctx.Err(); err != nil {
			return results, core.Summarize(results), fmt.Errorf("run interrupted: %w", err)
		}

		result := r.processOne(ctx, d, overrides)
		results = append(results, result)

		if r.opts.OnResult != nil {
			r.opts.OnResult(i+1, len(descriptors), result)
		}
	}

	return results, core.Summarize(results), nil
}

// processOne takes a single installer through extraction, synthesis, and
// packaging. Every failure inside is recoverable and lands in the result.
func (r *Runner) processOne(ctx context.Context, d core.InstallerDescriptor, overrides core.Overrides) core.PackageResult {
	log := r.logger.With().Str("app", d.AppName).Str("file", d.FileName).Logger()

	var ov *core.Override
	if entry, ok := overrides.Lookup(d.AppName); ok {
		ov = &entry
		log.Debug().Msg("override entry found")
	}

	meta := r.extractMetadata(ctx, d, &log)

	var match *core.RegistryMatch
	if meta == nil {
		match = r.searchRegistry(ctx, d, &log)
	}

	out := r.synth.Synthesize(ctx, synth.Input{
		Descriptor: d,
		Override:   ov,
		MSI:        meta,
		Registry:   match,
	})

	result := core.PackageResult{
		AppName:          d.AppName,
		FileName:         d.FileName,
		InstallCommand:   out.InstallCommand,
		UninstallCommand: out.UninstallCommand,
		Detection:        out.Detection,
		Status:           core.StatusSuccess,
		PackagedAt:       time.Now().UTC(),
	}

	if r.opts.SkipPackage {
		log.Info().Msg("packaging skipped")
		return result
	}

	artifact, err := r.deps.Packager.Package(ctx, d, r.opts.OutputDir)
	if err != nil {
		log.Error().Err(err).Msg("packaging failed")
		result.Status = core.StatusFailed
		result.ErrorDetail = err.Error()
		return result
	}

	result.ArtifactPath = artifact
	log.Info().Str("artifact", artifact).Msg("packaged")
	return result
}

// extractMetadata queries MSI properties for MSI installers. Extraction
// failure is recoverable: the installer falls through to registry search and
// the default command templates.
func (r *Runner) extractMetadata(ctx context.Context, d core.InstallerDescriptor, log *zerolog.Logger) *core.MsiMetadata {
	if d.Extension != core.ExtensionMSI {
		return nil
	}

	meta, err := r.deps.Extractor.Extract(ctx, d.Path)
	if err != nil {
		log.Warn().Err(err).Msg("msi property extraction failed, falling back")
		return nil
	}

	log.Debug().Str("product_code", meta.ProductCode).Msg("msi properties extracted")
	return meta
}

// searchRegistry looks up the app in the uninstall registry. Not-found and
// not-supported are expected outcomes, anything else is logged and treated
// as no match.
func (r *Runner) searchRegistry(ctx context.Context, d core.InstallerDescriptor, log *zerolog.Logger) *core.RegistryMatch {
	r.hostMu.Lock()
	defer r.hostMu.Unlock()

	match, err := r.deps.Searcher.FindByDisplayName(ctx, d.AppName)
	if err != nil {
		switch {
		case errors.Is(err, winreg.ErrNotFound):
			log.Debug().Msg("no registry match")
		case errors.Is(err, winreg.ErrUnsupported):
			log.Debug().Msg("registry search unavailable on this platform")
		default:
			log.Warn().Err(err).Msg("registry search failed")
		}
		return nil
	}

	log.Debug().Str("key_path", match.KeyPath).Msg("registry match found")
	return match
}

// lockedTester serializes test installs with registry searches
type lockedTester struct {
	mu    *sync.Mutex
	inner synth.InstallTester
}

func (t *lockedTester) TryInstall(ctx context.Context, installerPath string, switches []string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inner.TryInstall(ctx, installerPath, switches)
}
