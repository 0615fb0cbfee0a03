package cmd

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/quantmind-br/winpack/internal/ui"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDoctorCmd(t *testing.T) {
	t.Parallel()
	logger := zerolog.New(io.Discard)

	cmd := NewDoctorCmd(testConfig(t), &logger)

	assert.Equal(t, "doctor", cmd.Use)
	assert.NotNil(t, cmd.RunE)
}

func TestDoctorCmdNumbersEveryCheck(t *testing.T) {
	logger := zerolog.New(io.Discard)
	ui.DisableColors()
	defer ui.InitColors()

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	cmd := NewDoctorCmd(testConfig(t), &logger)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	execErr := cmd.Execute()

	w.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	out := string(data)

	// the configured tool does not exist, so the command reports issues
	require.Error(t, execErr)
	for _, marker := range []string{"[1/5]", "[2/5]", "[3/5]", "[4/5]", "[5/5]"} {
		assert.True(t, strings.Contains(out, marker), "missing %s in output:\n%s", marker, out)
	}
}
