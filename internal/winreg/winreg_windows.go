//go:build windows

package winreg

import (
	"context"
	"fmt"

	"github.com/quantmind-br/winpack/internal/core"
	"github.com/rs/zerolog"
	"golang.org/x/sys/windows/registry"
)

type registryReader struct {
	logger *zerolog.Logger
}

// NewSearcher creates the local-machine uninstall-key searcher
func NewSearcher(log *zerolog.Logger) Searcher {
	return &registryReader{logger: log}
}

// NewEnumerator creates the local-machine uninstall-key enumerator
func NewEnumerator(log *zerolog.Logger) Enumerator {
	return &registryReader{logger: log}
}

// FindByDisplayName searches both uninstall roots in order and returns the
// first entry whose DisplayName contains appName.
func (r *registryReader) FindByDisplayName(ctx context.Context, appName string) (*core.RegistryMatch, error) {
	apps, err := r.ListInstalled(ctx)
	if err != nil {
		return nil, err
	}

	if app := selectMatch(apps, appName); app != nil {
		r.logger.Debug().
			Str("app_name", appName).
			Str("display_name", app.DisplayName).
			Bool("wow6432", app.Is32BitOnWow64).
			Msg("registry match found")
		match := app.ToMatch()
		return &match, nil
	}

	return nil, ErrNotFound
}

// ListInstalled enumerates all uninstall entries with a DisplayName,
// native root first, then the WOW6432Node view.
func (r *registryReader) ListInstalled(ctx context.Context) ([]Application, error) {
	var apps []Application

	for _, root := range UninstallRoots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rootApps, err := r.listRoot(root)
		if err != nil {
			r.logger.Warn().
				Err(err).
				Str("root", root.Path).
				Msg("cannot read uninstall root, continuing")
			continue
		}
		apps = append(apps, rootApps...)
	}

	return apps, nil
}

func (r *registryReader) listRoot(root Root) ([]Application, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, root.Path, registry.READ)
	if err != nil {
		return nil, fmt.Errorf("open uninstall root %q: %w", root.Path, err)
	}
	defer key.Close()

	subKeys, err := key.ReadSubKeyNames(0)
	if err != nil {
		return nil, fmt.Errorf("read subkeys of %q: %w", root.Path, err)
	}

	var apps []Application
	for _, subKey := range subKeys {
		relPath := root.Path + `\` + subKey
		app, err := r.readEntry(relPath, root.Wow6432)
		if err != nil {
			r.logger.Debug().Err(err).Str("key", relPath).Msg("skipping unreadable uninstall key")
			continue
		}
		if app.DisplayName == "" {
			// entries without a display name are not applications
			continue
		}
		apps = append(apps, app)
	}

	return apps, nil
}

func (r *registryReader) readEntry(relPath string, wow6432 bool) (Application, error) {
	sub, err := registry.OpenKey(registry.LOCAL_MACHINE, relPath, registry.QUERY_VALUE)
	if err != nil {
		return Application{}, err
	}
	defer sub.Close()

	// detection rules want the hive-qualified path
	app := Application{KeyPath: `HKEY_LOCAL_MACHINE\` + relPath, Is32BitOnWow64: wow6432}

	if v, _, err := sub.GetStringValue("DisplayName"); err == nil {
		app.DisplayName = v
	}
	if v, _, err := sub.GetStringValue("DisplayVersion"); err == nil {
		app.DisplayVersion = v
	}
	if v, _, err := sub.GetStringValue("Publisher"); err == nil {
		app.Publisher = v
	}
	if v, _, err := sub.GetStringValue("UninstallString"); err == nil {
		app.UninstallString = v
	}
	if v, _, err := sub.GetStringValue("QuietUninstallString"); err == nil {
		app.QuietUninstallString = v
	}
	if v, _, err := sub.GetStringValue("InstallLocation"); err == nil {
		app.InstallLocation = v
	}

	return app, nil
}
