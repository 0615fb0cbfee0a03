package cmd

import (
	"bytes"
	"io"
	"testing"

	"github.com/quantmind-br/winpack/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewProductCodeCmd(t *testing.T) {
	t.Parallel()
	logger := zerolog.New(io.Discard)

	cmd := NewProductCodeCmd(&config.Config{}, &logger)

	assert.Contains(t, cmd.Use, "productcode")
	assert.NotNil(t, cmd.Flags().Lookup("json"))
}

func TestProductCodeCmdRequiresArgs(t *testing.T) {
	t.Parallel()
	logger := zerolog.New(io.Discard)

	cmd := NewProductCodeCmd(&config.Config{}, &logger)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	assert.Error(t, cmd.Execute())
}
