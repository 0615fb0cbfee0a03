package ui

import (
	"bytes"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/quantmind-br/winpack/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestInitColors(t *testing.T) {
	t.Run("with NO_COLOR", func(t *testing.T) {
		os.Setenv("NO_COLOR", "1")
		defer os.Unsetenv("NO_COLOR")

		color.NoColor = false
		InitColors()

		assert.True(t, color.NoColor)
	})

	t.Run("with TERM=dumb", func(t *testing.T) {
		os.Setenv("TERM", "dumb")
		defer os.Unsetenv("TERM")

		color.NoColor = false
		InitColors()

		assert.True(t, color.NoColor)
	})
}

func TestPrintFunctions(t *testing.T) {
	// Disable colors for consistent testing
	DisableColors()
	defer EnableColors()

	t.Run("PrintSuccess", func(t *testing.T) {
		oldStdout := os.Stdout
		r, w, _ := os.Pipe()
		os.Stdout = w

		PrintSuccess("packaged %s", "App.msi")

		w.Close()
		os.Stdout = oldStdout

		var buf bytes.Buffer
		buf.ReadFrom(r)
		output := buf.String()

		assert.Contains(t, output, "✓")
		assert.Contains(t, output, "packaged App.msi")
	})

	t.Run("PrintError", func(t *testing.T) {
		oldStderr := os.Stderr
		r, w, _ := os.Pipe()
		os.Stderr = w

		PrintError("tool %s missing", "IntuneWinAppUtil.exe")

		w.Close()
		os.Stderr = oldStderr

		var buf bytes.Buffer
		buf.ReadFrom(r)
		output := buf.String()

		assert.Contains(t, output, "✗")
		assert.Contains(t, output, "Error:")
		assert.Contains(t, output, "IntuneWinAppUtil.exe")
	})

	t.Run("PrintWarning", func(t *testing.T) {
		oldStderr := os.Stderr
		r, w, _ := os.Pipe()
		os.Stderr = w

		PrintWarning("overrides file %s is malformed", "overrides.yaml")

		w.Close()
		os.Stderr = oldStderr

		var buf bytes.Buffer
		buf.ReadFrom(r)
		output := buf.String()

		assert.Contains(t, output, "Warning:")
		assert.Contains(t, output, "overrides.yaml")
	})

	t.Run("PrintStep", func(t *testing.T) {
		oldStdout := os.Stdout
		r, w, _ := os.Pipe()
		os.Stdout = w

		PrintStep(2, 5, "processing %s", "Chrome.msi")

		w.Close()
		os.Stdout = oldStdout

		var buf bytes.Buffer
		buf.ReadFrom(r)
		output := buf.String()

		assert.Contains(t, output, "[2/5]")
		assert.Contains(t, output, "processing Chrome.msi")
	})
}

func TestColorizeStatus(t *testing.T) {
	DisableColors()
	defer EnableColors()

	tests := []struct {
		name     string
		status   core.Status
		expected string
	}{
		{"success", core.StatusSuccess, "Success"},
		{"failed", core.StatusFailed, "Failed"},
		{"unknown", core.Status("Pending"), "Pending"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ColorizeStatus(tt.status))
		})
	}
}

func TestColorizeExtension(t *testing.T) {
	DisableColors()
	defer EnableColors()

	tests := []struct {
		name     string
		ext      core.Extension
		expected string
	}{
		{"msi", core.ExtensionMSI, "msi"},
		{"exe", core.ExtensionEXE, "exe"},
		{"other", core.ExtensionOther, "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ColorizeExtension(tt.ext))
		})
	}
}

func TestColorControls(t *testing.T) {
	t.Run("DisableColors", func(t *testing.T) {
		color.NoColor = false
		DisableColors()
		assert.True(t, color.NoColor)
	})

	t.Run("EnableColors", func(t *testing.T) {
		color.NoColor = true
		EnableColors()
		assert.False(t, color.NoColor)
	})
}
