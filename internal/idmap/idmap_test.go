package idmap_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gran/internal/entity"
	"gran/internal/idmap"
)

func TestAssociateThenResolveRoundTrips(t *testing.T) {
	t.Parallel()

	m := idmap.New()

	for _, typ := range entity.Types {
		synthetic, err := m.Associate(typ, "perm-"+string(typ))
		require.NoError(t, err)
		require.Equal(t, 1, synthetic)

		resolved, err := m.Resolve(typ, synthetic)
		require.NoError(t, err)
		require.Equal(t, "perm-"+string(typ), resolved)
	}
}

func TestAssociateIsIdempotentWithinEpoch(t *testing.T) {
	t.Parallel()

	m := idmap.New()

	first, err := m.Associate(entity.TypeTasks, "perm-a")
	require.NoError(t, err)

	second, err := m.Associate(entity.TypeTasks, "perm-b")
	require.NoError(t, err)
	require.Equal(t, first+1, second)

	// Re-associating perm-a returns the same integer without counter churn.
	again, err := m.Associate(entity.TypeTasks, "perm-a")
	require.NoError(t, err)
	require.Equal(t, first, again)

	third, err := m.Associate(entity.TypeTasks, "perm-c")
	require.NoError(t, err)
	require.Equal(t, second+1, third)
}

func TestSyntheticIDsAreSequentialFromOne(t *testing.T) {
	t.Parallel()

	m := idmap.New()

	for i := 1; i <= 5; i++ {
		synthetic, err := m.Associate(entity.TypeNotes, entity.NewID())
		require.NoError(t, err)
		require.Equal(t, i, synthetic)
	}
}

func TestTypesHaveIndependentCounters(t *testing.T) {
	t.Parallel()

	m := idmap.New()

	taskSyn, err := m.Associate(entity.TypeTasks, "perm-task")
	require.NoError(t, err)

	eventSyn, err := m.Associate(entity.TypeEvents, "perm-event")
	require.NoError(t, err)

	require.Equal(t, 1, taskSyn)
	require.Equal(t, 1, eventSyn)
}

func TestResetEpochInvalidatesOldReferences(t *testing.T) {
	t.Parallel()

	m := idmap.New()

	synthetic, err := m.Associate(entity.TypeTasks, "perm-a")
	require.NoError(t, err)

	require.NoError(t, m.ResetEpoch(entity.TypeTasks))

	_, err = m.Resolve(entity.TypeTasks, synthetic)
	require.ErrorIs(t, err, idmap.ErrUnknownOrStaleReference)

	// Other types keep their epoch.
	noteSyn, err := m.Associate(entity.TypeNotes, "perm-n")
	require.NoError(t, err)

	require.NoError(t, m.ResetEpoch(entity.TypeTasks))

	resolved, err := m.Resolve(entity.TypeNotes, noteSyn)
	require.NoError(t, err)
	require.Equal(t, "perm-n", resolved)
}

func TestCounterRestartsAfterReset(t *testing.T) {
	t.Parallel()

	m := idmap.New()

	_, err := m.Associate(entity.TypeTasks, "perm-a")
	require.NoError(t, err)

	_, err = m.Associate(entity.TypeTasks, "perm-b")
	require.NoError(t, err)

	require.NoError(t, m.ResetEpoch(entity.TypeTasks))

	synthetic, err := m.Associate(entity.TypeTasks, "perm-c")
	require.NoError(t, err)
	require.Equal(t, 1, synthetic)
}

func TestUnknownEntityTypeRejected(t *testing.T) {
	t.Parallel()

	m := idmap.New()

	_, err := m.Associate("widgets", "perm-a")
	require.ErrorIs(t, err, idmap.ErrUnknownEntityType)

	_, err = m.Resolve("widgets", 1)
	require.ErrorIs(t, err, idmap.ErrUnknownEntityType)

	require.ErrorIs(t, m.ResetEpoch("widgets"), idmap.ErrUnknownEntityType)
}

func TestRepositoryPersistsAcrossProcessRestarts(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "id_map.yaml")

	repo := idmap.NewRepository(path)

	synthetic, err := repo.Associate(entity.TypeTasks, "perm-a")
	require.NoError(t, err)
	require.NoError(t, repo.Flush())

	// Same epoch, new process.
	reopened := idmap.NewRepository(path)

	resolved, err := reopened.Resolve(entity.TypeTasks, synthetic)
	require.NoError(t, err)
	require.Equal(t, "perm-a", resolved)

	// Counter continues where it left off.
	next, err := reopened.Associate(entity.TypeTasks, "perm-b")
	require.NoError(t, err)
	require.Equal(t, synthetic+1, next)
}

func TestRepositoryFlushIsSkippedWhenClean(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "id_map.yaml")

	repo := idmap.NewRepository(path)

	// Resolve on a fresh install fails but must not create the file.
	_, err := repo.Resolve(entity.TypeTasks, 1)
	require.ErrorIs(t, err, idmap.ErrUnknownOrStaleReference)
	require.NoError(t, repo.Flush())

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
}

func TestRepositoryResetAllStartsEmptyTemplate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "id_map.yaml")

	repo := idmap.NewRepository(path)

	synthetic, err := repo.Associate(entity.TypeTrackers, "perm-t")
	require.NoError(t, err)
	require.NoError(t, repo.Flush())

	require.NoError(t, repo.ResetAll())
	require.NoError(t, repo.Flush())

	reopened := idmap.NewRepository(path)

	_, err = reopened.Resolve(entity.TypeTrackers, synthetic)
	require.ErrorIs(t, err, idmap.ErrUnknownOrStaleReference)
}
