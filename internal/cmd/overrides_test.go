package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/quantmind-br/winpack/internal/core"
	"github.com/quantmind-br/winpack/internal/synth"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNewOverridesCmd(t *testing.T) {
	t.Parallel()
	logger := zerolog.New(io.Discard)

	cmd := NewOverridesCmd(testConfig(t), &logger)

	assert.Equal(t, "overrides", cmd.Use)
	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Use)
	}
	assert.Contains(t, names, "init")
}

func TestOverridesInitScaffoldsDerivedCommands(t *testing.T) {
	t.Parallel()
	logger := zerolog.New(io.Discard)

	sourceDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(sourceDir, "Chrome.msi"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(sourceDir, "setup.exe"), []byte("x"), 0644))

	outPath := filepath.Join(t.TempDir(), "overrides.yaml")

	cmd := NewOverridesCmd(testConfig(t), &logger)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"init", "--source", sourceDir, "--output", outPath})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var doc core.Overrides
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.Len(t, doc, 2)

	assert.Equal(t, `msiexec /i "Chrome.msi" /qn /norestart`, doc["Chrome"].InstallCommand)
	assert.Equal(t, synth.UninstallNotAutomated, doc["Chrome"].UninstallCommand)
	assert.Equal(t, "setup.exe /VERYSILENT /NORESTART", doc["setup"].InstallCommand)
}

func TestOverridesInitRefusesToOverwrite(t *testing.T) {
	t.Parallel()
	logger := zerolog.New(io.Discard)

	outPath := filepath.Join(t.TempDir(), "overrides.yaml")
	require.NoError(t, os.WriteFile(outPath, []byte("Chrome: {}\n"), 0644))

	cmd := NewOverridesCmd(testConfig(t), &logger)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"init", "--source", t.TempDir(), "--output", outPath})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
