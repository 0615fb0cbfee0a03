package discover

import (
	"io"
	"testing"

	"github.com/quantmind-br/winpack/internal/core"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		fileName string
		ext      core.Extension
		appName  string
	}{
		{"setup.exe", core.ExtensionEXE, "setup"},
		{"Setup.EXE", core.ExtensionEXE, "Setup"},
		{"Chrome.msi", core.ExtensionMSI, "Chrome"},
		{"chrome.MSI", core.ExtensionMSI, "chrome"},
		{"readme.txt", core.ExtensionOther, "readme"},
		{"archive.zip", core.ExtensionOther, "archive"},
		{"noext", core.ExtensionOther, "noext"},
		{"App 1.2.3.exe", core.ExtensionEXE, "App 1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			d := Classify(tt.fileName)
			assert.Equal(t, tt.ext, d.Extension)
			assert.Equal(t, tt.appName, d.AppName)
			assert.Equal(t, tt.fileName, d.FileName)
		})
	}
}

func newTestScanner(fs afero.Fs) *Scanner {
	log := zerolog.New(io.Discard)
	return NewScanner(fs, &log)
}

func TestScan(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/installers/sub", 0755))
	for _, name := range []string{
		"/installers/zeta.exe",
		"/installers/Alpha.msi",
		"/installers/notes.txt",
		"/installers/tool.ZIP",
	} {
		require.NoError(t, afero.WriteFile(fs, name, []byte("x"), 0644))
	}

	installers, err := newTestScanner(fs).Scan("/installers")
	require.NoError(t, err)

	require.Len(t, installers, 2)
	// sorted by file name, non-installer files filtered out
	assert.Equal(t, "Alpha.msi", installers[0].FileName)
	assert.Equal(t, core.ExtensionMSI, installers[0].Extension)
	assert.Equal(t, "zeta.exe", installers[1].FileName)
	assert.Equal(t, core.ExtensionEXE, installers[1].Extension)
	assert.NotEmpty(t, installers[0].Path)
}

func TestScanMissingDirectory(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	_, err := newTestScanner(fs).Scan("/does/not/exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not accessible")
}

func TestScanEmptyDirectory(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/empty", 0755))
	require.NoError(t, afero.WriteFile(fs, "/empty/readme.md", []byte("x"), 0644))

	_, err := newTestScanner(fs).Scan("/empty")
	assert.ErrorIs(t, err, ErrNoInstallers)
}
