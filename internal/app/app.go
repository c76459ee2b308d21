// Package app wires configuration to a concrete host implementation.
package app

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/okvist/hatodo/internal/config"
	"github.com/okvist/hatodo/internal/hass"
	"github.com/okvist/hatodo/internal/localdb"
	"github.com/okvist/hatodo/internal/model"
)

// App holds the application state and dependencies.
type App struct {
	Config config.Config
	Host   model.Host

	store    io.Closer
	lockFile *flock.Flock
}

// New selects and connects the host for cfg: Home Assistant when a base
// URL is configured, the local SQLite provider otherwise. The local
// database is guarded by a file lock so only one writer runs at a time.
func New(cfg config.Config) (*App, error) {
	a := &App{Config: cfg}

	if cfg.Hass.BaseURL != "" && !cfg.Local.Enabled {
		a.Host = hass.New(cfg.Hass.BaseURL, cfg.Hass.Token)
		return a, nil
	}

	if err := a.acquireLock(filepath.Dir(cfg.Local.DBPath)); err != nil {
		return nil, err
	}
	store, err := localdb.Open(cfg.Local.DBPath)
	if err != nil {
		a.releaseLock()
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}
	a.Host = store
	a.store = store
	return a, nil
}

// acquireLock acquires an exclusive file lock to prevent multiple instances.
func (a *App) acquireLock(dataDir string) error {
	lockPath := filepath.Join(dataDir, "hatodo.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another instance of hatodo is already running")
	}
	return nil
}

func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close cleans up application resources.
func (a *App) Close() error {
	var errs []error
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close local database: %w", err))
		}
	}
	a.releaseLock()
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
