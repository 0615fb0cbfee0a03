package cmd

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/quantmind-br/winpack/internal/core"
	"github.com/quantmind-br/winpack/internal/discover"
	"github.com/quantmind-br/winpack/internal/intunewin"
	"github.com/stretchr/testify/assert"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, core.ExitSuccess},
		{"tool missing", fmt.Errorf("check: %w", intunewin.ErrToolMissing), core.ExitToolMissing},
		{"no installers", fmt.Errorf("scan: %w", discover.ErrNoInstallers), core.ExitNoInstallers},
		{"packages failed", fmt.Errorf("2 of 5 installers failed: %w", ErrPackagesFailed), core.ExitPackageFailed},
		{"database", fmt.Errorf("open database: %w", ErrDatabase), core.ExitDatabase},
		{"interrupted", context.Canceled, core.ExitInterrupted},
		{"generic", errors.New("boom"), core.ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExitCodeFor(tt.err))
		})
	}
}
