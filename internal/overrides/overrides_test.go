package overrides

import (
	"io"
	"testing"

	"github.com/quantmind-br/winpack/internal/core"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *zerolog.Logger {
	log := zerolog.New(io.Discard)
	return &log
}

func TestLoad(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	doc := `
Chrome:
  install_command: Chrome.msi /qn CUSTOM=1
  uninstall_command: msiexec /x "{11111111-2222-3333-4444-555555555555}" /qn /norestart
7zip-setup:
  install_command: 7zip-setup.exe /S
`
	require.NoError(t, afero.WriteFile(fs, "/overrides.yaml", []byte(doc), 0644))

	overrides := Load(fs, "/overrides.yaml", testLogger())
	require.Len(t, overrides, 2)

	ov, ok := overrides.Lookup("Chrome")
	require.True(t, ok)
	assert.Equal(t, "Chrome.msi /qn CUSTOM=1", ov.InstallCommand)
	assert.Contains(t, ov.UninstallCommand, "msiexec /x")

	ov, ok = overrides.Lookup("7zip-setup")
	require.True(t, ok)
	assert.Equal(t, "7zip-setup.exe /S", ov.InstallCommand)
	assert.Empty(t, ov.UninstallCommand)
}

func TestLoadEmptyPath(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Load(afero.NewMemMapFs(), "", testLogger()))
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	// never fatal: missing document degrades to no overrides
	assert.Nil(t, Load(afero.NewMemMapFs(), "/nope.yaml", testLogger()))
}

func TestLoadMalformedDocument(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bad.yaml", []byte("{not: [valid"), 0644))

	assert.Nil(t, Load(fs, "/bad.yaml", testLogger()))
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	overrides := core.Overrides{
		"App": {InstallCommand: "App.exe /VERYSILENT"},
	}

	require.NoError(t, Save(fs, "/out.yaml", overrides))

	loaded := Load(fs, "/out.yaml", testLogger())
	assert.Equal(t, overrides, loaded)
}
