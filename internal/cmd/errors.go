package cmd

import (
	"context"
	"errors"

	"github.com/quantmind-br/winpack/internal/core"
	"github.com/quantmind-br/winpack/internal/discover"
	"github.com/quantmind-br/winpack/internal/intunewin"
)

// ErrPackagesFailed marks a run that completed with at least one failed
// installer.
var ErrPackagesFailed = errors.New("one or more installers failed to package")

// ErrDatabase marks a history database failure
var ErrDatabase = errors.New("history database unavailable")

// ExitCodeFor maps a command error to the process exit code
func ExitCodeFor(err error) int {
	switch {
	case err == nil:
		return core.ExitSuccess
	case errors.Is(err, intunewin.ErrToolMissing):
		return core.ExitToolMissing
	case errors.Is(err, discover.ErrNoInstallers):
		return core.ExitNoInstallers
	case errors.Is(err, ErrPackagesFailed):
		return core.ExitPackageFailed
	case errors.Is(err, ErrDatabase):
		return core.ExitDatabase
	case errors.Is(err, context.Canceled):
		return core.ExitInterrupted
	default:
		return core.ExitGeneral
	}
}
