package storage_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"gran/internal/dispatch"
	"gran/internal/entity"
	"gran/internal/idmap"
	"gran/internal/storage"
)

func openWorld(t *testing.T) (storage.Paths, *storage.Store, *idmap.Repository, *dispatch.Repository) {
	t.Helper()

	paths := storage.NewPaths(t.TempDir())

	return paths, storage.Open(paths), idmap.NewRepository(paths.IDMap), dispatch.NewRepository(paths.Dispatch)
}

func TestMigrationsRunOnceAndRecordHighWaterMark(t *testing.T) {
	t.Parallel()

	paths, store, ids, disp := openWorld(t)

	ran, err := storage.RunRequiredMigrations(paths, store, ids, disp)
	require.NoError(t, err)
	require.Equal(t, len(storage.Migrations()), ran)

	// Second run is a no-op.
	ran, err = storage.RunRequiredMigrations(paths, store, ids, disp)
	require.NoError(t, err)
	require.Zero(t, ran)
}

func TestMigrationConvertsLegacyIDsAndFixesReferences(t *testing.T) {
	t.Parallel()

	paths, store, ids, disp := openWorld(t)
	now := time.Now()

	legacyTracker := &entity.Tracker{ID: "3", Created: now, Updated: now}
	legacyEntry := &entity.Entry{ID: "7", TrackerID: "3", Value: 1, Created: now, Updated: now}
	modernTask := &entity.Task{ID: entity.NewID(), Created: now, Updated: now}

	require.NoError(t, store.Trackers.Append(legacyTracker))
	require.NoError(t, store.Entries.Append(legacyEntry))
	require.NoError(t, store.Tasks.Append(modernTask))

	originalTaskID := modernTask.ID

	_, err := storage.RunRequiredMigrations(paths, store, ids, disp)
	require.NoError(t, err)

	reopened := storage.Open(paths)

	trackers, err := reopened.Trackers.All()
	require.NoError(t, err)
	require.Len(t, trackers, 1)

	_, parseErr := uuid.Parse(trackers[0].ID)
	require.NoError(t, parseErr, "legacy id should be rewritten to a uuid")

	entries, err := reopened.Entries.All()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, trackers[0].ID, entries[0].TrackerID, "reference should follow the rewrite")

	tasks, err := reopened.Tasks.All()
	require.NoError(t, err)
	require.Equal(t, originalTaskID, tasks[0].ID, "uuid ids are left alone")
}

func TestMigrationResetsIDMapAndClearsDispatch(t *testing.T) {
	t.Parallel()

	paths, store, ids, disp := openWorld(t)

	synthetic, err := ids.Associate(entity.TypeTasks, "perm-a")
	require.NoError(t, err)
	require.NoError(t, ids.Flush())

	require.NoError(t, disp.Save(dispatch.ViewTasks, dispatch.TasksParams{}))
	require.NoError(t, disp.Flush())

	_, err = storage.RunRequiredMigrations(paths, store, ids, disp)
	require.NoError(t, err)

	_, err = idmap.NewRepository(paths.IDMap).Resolve(entity.TypeTasks, synthetic)
	require.ErrorIs(t, err, idmap.ErrUnknownOrStaleReference)

	_, ok, err := dispatch.NewRepository(paths.Dispatch).Get()
	require.NoError(t, err)
	require.False(t, ok)
}
