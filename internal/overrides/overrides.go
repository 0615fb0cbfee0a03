// Package overrides loads the optional operator-supplied command override
// document. Overrides are read once before processing and treated as
// immutable for the run.
package overrides

import (
	"fmt"

	"github.com/quantmind-br/winpack/internal/core"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML override document mapping application names to install
// and uninstall command corrections:
//
//	Chrome:
//	  install_command: Chrome.msi /qn CUSTOM=1
//	  uninstall_command: msiexec /x "{...}" /qn
//
// A malformed or unreadable document is never fatal: the run proceeds with
// no overrides and a warning is logged.
func Load(fs afero.Fs, path string, log *zerolog.Logger) core.Overrides {
	if path == "" {
		return nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		log.Warn().
			Err(err).
			Str("path", path).
			Msg("cannot read override document, proceeding with no overrides")
		return nil
	}

	var overrides core.Overrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		log.Warn().
			Err(err).
			Str("path", path).
			Msg("malformed override document, proceeding with no overrides")
		return nil
	}

	log.Info().
		Int("entries", len(overrides)).
		Str("path", path).
		Msg("loaded command overrides")

	return overrides
}

// Save writes an override document back to disk, used by tooling that
// scaffolds an overrides file for the operator to edit.
func Save(fs afero.Fs, path string, overrides core.Overrides) error {
	data, err := yaml.Marshal(overrides)
	if err != nil {
		return fmt.Errorf("marshal overrides: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("write overrides file: %w", err)
	}
	return nil
}
