package discover

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/quantmind-br/winpack/internal/core"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// ErrNoInstallers is returned when the source directory contains no
// EXE or MSI files. This stops a run before any processing starts.
var ErrNoInstallers = errors.New("no installers found in source directory")

// Classify maps a file name to its descriptor. Pure function: the app name
// is the file name without its final extension, and the extension is a
// case-insensitive match on .exe/.msi.
func Classify(fileName string) core.InstallerDescriptor {
	ext := core.ExtensionOther
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".exe":
		ext = core.ExtensionEXE
	case ".msi":
		ext = core.ExtensionMSI
	}

	return core.InstallerDescriptor{
		FileName:  fileName,
		Extension: ext,
		AppName:   core.AppNameFor(fileName),
	}
}

// Scanner lists candidate installers from a source directory
type Scanner struct {
	fs     afero.Fs
	logger *zerolog.Logger
}

// NewScanner creates a Scanner over the given filesystem
func NewScanner(fs afero.Fs, log *zerolog.Logger) *Scanner {
	return &Scanner{fs: fs, logger: log}
}

// Scan returns descriptors for every EXE and MSI file directly inside
// sourceDir, sorted by file name. Files with any other extension are
// filtered out here and never reach synthesis. A missing or unreadable
// directory is a fatal pre-run error; an empty result is ErrNoInstallers.
func (s *Scanner) Scan(sourceDir string) ([]core.InstallerDescriptor, error) {
	info, err := s.fs.Stat(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("source directory %q not accessible: %w", sourceDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source path %q is not a directory", sourceDir)
	}

	entries, err := afero.ReadDir(s.fs, sourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list source directory %q: %w", sourceDir, err)
	}

	var installers []core.InstallerDescriptor
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		descriptor := Classify(entry.Name())
		if descriptor.Extension == core.ExtensionOther {
			s.logger.Debug().
				Str("file", entry.Name()).
				Msg("skipping file with unrecognized extension")
			continue
		}

		descriptor.Path = filepath.Join(sourceDir, entry.Name())
		installers = append(installers, descriptor)

		s.logger.Debug().
			Str("file", descriptor.FileName).
			Str("app_name", descriptor.AppName).
			Str("extension", string(descriptor.Extension)).
			Msg("discovered installer")
	}

	if len(installers) == 0 {
		return nil, ErrNoInstallers
	}

	sort.Slice(installers, func(i, j int) bool {
		return installers[i].FileName < installers[j].FileName
	})

	s.logger.Info().
		Int("count", len(installers)).
		Str("source_dir", sourceDir).
		Msg("installer discovery complete")

	return installers, nil
}
