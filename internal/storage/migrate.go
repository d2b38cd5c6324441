package storage

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"gran/internal/dispatch"
	"gran/internal/idmap"
)

// Migration is one numbered, forward-only data migration.
type Migration struct {
	ID   int
	Name string
	Run  func(store *Store, paths Paths) error
}

// Migrations returns the registry in run order.
func Migrations() []Migration {
	return []Migration{
		{ID: 1, Name: "genesis", Run: migrateGenesis},
		{ID: 2, Name: "convert entity ids to uuid", Run: migrateIDsToUUID},
	}
}

// migrateState tracks the highest migration that has run.
type migrateState struct {
	Latest int `yaml:"latest"`
}

func loadMigrateState(paths Paths) (migrateState, error) {
	raw, err := os.ReadFile(paths.Migrate)
	if os.IsNotExist(err) {
		return migrateState{}, nil
	}

	if err != nil {
		return migrateState{}, fmt.Errorf("reading migration state: %w", err)
	}

	var state migrateState

	unmarshalErr := yaml.Unmarshal(raw, &state)
	if unmarshalErr != nil {
		return migrateState{}, fmt.Errorf("decoding migration state: %w", unmarshalErr)
	}

	return state, nil
}

// RunRequiredMigrations runs every migration above the persisted high-water
// mark. When any migration ran, the synthetic id map is reset to its empty
// template and the dispatch record is cleared: both may point at identifiers
// that no longer exist. Returns the number of migrations run.
func RunRequiredMigrations(
	paths Paths, store *Store, ids *idmap.Repository, disp *dispatch.Repository,
) (int, error) {
	state, err := loadMigrateState(paths)
	if err != nil {
		return 0, err
	}

	ran := 0

	for _, migration := range Migrations() {
		if migration.ID <= state.Latest {
			continue
		}

		runErr := migration.Run(store, paths)
		if runErr != nil {
			return ran, fmt.Errorf("migration %d (%s): %w", migration.ID, migration.Name, runErr)
		}

		state.Latest = migration.ID

		saveErr := writeYAML(paths.Migrate, state)
		if saveErr != nil {
			return ran, saveErr
		}

		ran++
	}

	if ran == 0 {
		return 0, nil
	}

	flushErr := store.Flush()
	if flushErr != nil {
		return ran, flushErr
	}

	resetErr := ids.ResetAll()
	if resetErr != nil {
		return ran, resetErr
	}

	if err := ids.Flush(); err != nil {
		return ran, err
	}

	if err := disp.Clear(); err != nil {
		return ran, err
	}

	return ran, nil
}

// migrateGenesis creates the data directory.
func migrateGenesis(_ *Store, paths Paths) error {
	mkdirErr := os.MkdirAll(paths.DataDir, DirPerms)
	if mkdirErr != nil {
		return fmt.Errorf("creating data directory: %w", mkdirErr)
	}

	return nil
}

// migrateIDsToUUID rewrites any non-UUID permanent id to a fresh UUID.
// Pre-UUID data used small integers, which collide across types and break
// the id map's uniqueness assumptions.
func migrateIDsToUUID(store *Store, _ Paths) error {
	// Old id -> new id, so cross-entity references can be fixed up after
	// the per-type passes.
	renamed := make(map[string]string)

	rewrite := func(id *string) {
		if _, err := uuid.Parse(*id); err != nil {
			fresh := uuid.NewString()
			renamed[*id] = fresh
			*id = fresh
		}
	}

	tasks, err := store.Tasks.All()
	if err != nil {
		return err
	}

	for _, t := range tasks {
		rewrite(&t.ID)
		store.Tasks.MarkDirty()
	}

	audits, err := store.TimeAudits.All()
	if err != nil {
		return err
	}

	for _, a := range audits {
		rewrite(&a.ID)
		store.TimeAudits.MarkDirty()
	}

	events, err := store.Events.All()
	if err != nil {
		return err
	}

	for _, e := range events {
		rewrite(&e.ID)
		store.Events.MarkDirty()
	}

	timespans, err := store.Timespans.All()
	if err != nil {
		return err
	}

	for _, s := range timespans {
		rewrite(&s.ID)
		store.Timespans.MarkDirty()
	}

	logs, err := store.Logs.All()
	if err != nil {
		return err
	}

	for _, l := range logs {
		rewrite(&l.ID)
		store.Logs.MarkDirty()
	}

	notes, err := store.Notes.All()
	if err != nil {
		return err
	}

	for _, n := range notes {
		rewrite(&n.ID)
		store.Notes.MarkDirty()
	}

	trackers, err := store.Trackers.All()
	if err != nil {
		return err
	}

	for _, t := range trackers {
		rewrite(&t.ID)
		store.Trackers.MarkDirty()
	}

	entries, err := store.Entries.All()
	if err != nil {
		return err
	}

	for _, e := range entries {
		rewrite(&e.ID)
		store.Entries.MarkDirty()
	}

	// Fix up references to rewritten ids.
	for _, a := range audits {
		for i, taskID := range a.TaskIDs {
			if fresh, ok := renamed[taskID]; ok {
				a.TaskIDs[i] = fresh
				store.TimeAudits.MarkDirty()
			}
		}
	}

	for _, e := range entries {
		if fresh, ok := renamed[e.TrackerID]; ok {
			e.TrackerID = fresh
			store.Entries.MarkDirty()
		}
	}

	for _, l := range logs {
		if l.ReferenceID != nil {
			if fresh, ok := renamed[*l.ReferenceID]; ok {
				l.ReferenceID = &fresh
				store.Logs.MarkDirty()
			}
		}
	}

	for _, n := range notes {
		if n.ReferenceID != nil {
			if fresh, ok := renamed[*n.ReferenceID]; ok {
				n.ReferenceID = &fresh
				store.Notes.MarkDirty()
			}
		}
	}

	return nil
}
