package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/quantmind-br/winpack/internal/core"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() []core.PackageResult {
	return []core.PackageResult{
		{
			AppName:          "Chrome",
			FileName:         "Chrome.msi",
			InstallCommand:   `msiexec /i "Chrome.msi" /qn /norestart`,
			UninstallCommand: `msiexec /x "{AAAAAAAA-BBBB-CCCC-DDDD-EEEEEEEEEEEE}" /qn /norestart`,
			Detection: core.NewMSIDetection(core.MsiMetadata{
				ProductCode: "{AAAAAAAA-BBBB-CCCC-DDDD-EEEEEEEEEEEE}",
			}),
			Status:     core.StatusSuccess,
			PackagedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			AppName:          "Putty",
			FileName:         "Putty.exe",
			InstallCommand:   "Putty.exe /VERYSILENT /NORESTART",
			UninstallCommand: `"C:\Program Files\Putty\unins000.exe" /VERYSILENT /NORESTART`,
			Detection: core.NewRegistryDetection(core.RegistryMatch{
				KeyPath:        `HKEY_LOCAL_MACHINE\Software\Microsoft\Windows\CurrentVersion\Uninstall\Putty_is1`,
				DisplayName:    "PuTTY release 0.81",
				Is32BitOnWow64: false,
			}),
			Status:      core.StatusFailed,
			ErrorDetail: "packaging tool exited with code 1",
			PackagedAt:  time.Date(2025, 6, 1, 12, 1, 0, 0, time.UTC),
		},
	}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResults()))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Columns, records[0])

	chrome := records[1]
	assert.Equal(t, "Chrome", chrome[0])
	assert.Equal(t, "Chrome.msi", chrome[1])
	assert.Equal(t, `msiexec /i "Chrome.msi" /qn /norestart`, chrome[2])
	assert.Equal(t, "msi", chrome[4])
	assert.Equal(t, "{AAAAAAAA-BBBB-CCCC-DDDD-EEEEEEEEEEEE}", chrome[5])
	assert.Equal(t, "", chrome[6], "registry key path empty for MSI detection")
	assert.Equal(t, "Success", chrome[11])

	putty := records[2]
	assert.Equal(t, "Putty", putty[0])
	assert.Equal(t, "registry", putty[4])
	assert.Equal(t, "", putty[5], "product code empty for registry detection")
	assert.Equal(t, `HKEY_LOCAL_MACHINE\Software\Microsoft\Windows\CurrentVersion\Uninstall\Putty_is1`, putty[6])
	assert.Equal(t, "DisplayName", putty[7])
	assert.Equal(t, "Equals", putty[8])
	assert.Equal(t, "PuTTY release 0.81", putty[9])
	assert.Equal(t, "false", putty[10])
	assert.Equal(t, "Failed", putty[11])
}

func TestWriteCSVEmptyResults(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "header only")
	assert.Equal(t, Columns, records[0])
}

func TestWriteCSVFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, WriteCSVFile(fs, "/out/report.csv", sampleResults()))

	data, err := afero.ReadFile(fs, "/out/report.csv")
	require.NoError(t, err)
	assert.Contains(t, string(data), "AppName,FileName,InstallCommand")
	assert.Contains(t, string(data), "Chrome.msi")
}
