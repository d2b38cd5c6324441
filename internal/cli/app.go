package cli

import (
	"fmt"
	"time"

	"gran/internal/dispatch"
	"gran/internal/idmap"
	"gran/internal/storage"
)

// App bundles everything a command needs: loaded config, open storage,
// the synthetic id map, the dispatch cache and its replay router.
type App struct {
	Config  Config
	Sources ConfigSources
	Paths   storage.Paths

	Store    *storage.Store
	IDs      *idmap.Repository
	Dispatch *dispatch.Repository
	Router   *dispatch.Router

	IO  *IO
	Now func() time.Time
}

// Flush persists all dirty state. Called once at the end of a run so a
// failed command never leaves half-written files behind.
func (a *App) Flush() error {
	if err := a.Store.Flush(); err != nil {
		return fmt.Errorf("flush store: %w", err)
	}

	if err := a.IDs.Flush(); err != nil {
		return fmt.Errorf("flush id map: %w", err)
	}

	if err := a.Dispatch.Flush(); err != nil {
		return fmt.Errorf("flush dispatch cache: %w", err)
	}

	return nil
}
