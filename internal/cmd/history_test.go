package cmd

import (
	"bytes"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()
	logger := zerolog.New(io.Discard)

	cmd := NewHistoryCmd(testConfig(t), &logger)

	assert.Equal(t, "history", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("json"))
	assert.NotNil(t, cmd.Flags().Lookup("run"))
}

func TestHistoryCmdEmptyDatabase(t *testing.T) {
	t.Parallel()
	logger := zerolog.New(io.Discard)

	var out bytes.Buffer
	cmd := NewHistoryCmd(testConfig(t), &logger)
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	require.NoError(t, cmd.Execute())
}

func TestHistoryCmdJSONOutput(t *testing.T) {
	t.Parallel()
	logger := zerolog.New(io.Discard)

	var out bytes.Buffer
	cmd := NewHistoryCmd(testConfig(t), &logger)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--json"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "null\n", out.String())
}
