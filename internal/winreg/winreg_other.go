//go:build !windows

package winreg

import (
	"context"

	"github.com/quantmind-br/winpack/internal/core"
	"github.com/rs/zerolog"
)

type unsupportedReader struct{}

// NewSearcher returns a searcher that always reports ErrUnsupported;
// callers degrade to the file-fallback detection path.
func NewSearcher(_ *zerolog.Logger) Searcher {
	return unsupportedReader{}
}

// NewEnumerator returns an enumerator that always reports ErrUnsupported
func NewEnumerator(_ *zerolog.Logger) Enumerator {
	return unsupportedReader{}
}

func (unsupportedReader) FindByDisplayName(context.Context, string) (*core.RegistryMatch, error) {
	return nil, ErrUnsupported
}

func (unsupportedReader) ListInstalled(context.Context) ([]Application, error) {
	return nil, ErrUnsupported
}
