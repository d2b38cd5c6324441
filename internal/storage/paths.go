// Package storage persists entities, saved contexts, and migration state as
// per-type YAML files under a single data directory. Every write is a
// whole-file atomic rewrite; there is no locking protocol, because only one
// process is assumed to run at a time.
package storage

import "path/filepath"

// File permissions, matching how config and data files are created.
const (
	DirPerms  = 0o750
	FilePerms = 0o600
)

// Paths locates every data file under the data directory.
type Paths struct {
	DataDir string

	Tasks      string
	TimeAudits string
	Events     string
	Timespans  string
	Logs       string
	Notes      string
	Trackers   string
	Entries    string

	Contexts string
	IDMap    string
	Dispatch string
	Migrate  string
}

// NewPaths derives all file paths from a data directory.
func NewPaths(dataDir string) Paths {
	join := func(name string) string { return filepath.Join(dataDir, name) }

	return Paths{
		DataDir:    dataDir,
		Tasks:      join("tasks.yaml"),
		TimeAudits: join("time_audits.yaml"),
		Events:     join("events.yaml"),
		Timespans:  join("timespans.yaml"),
		Logs:       join("logs.yaml"),
		Notes:      join("notes.yaml"),
		Trackers:   join("trackers.yaml"),
		Entries:    join("entries.yaml"),
		Contexts:   join("contexts.yaml"),
		IDMap:      join("id_map.yaml"),
		Dispatch:   join("dispatch.yaml"),
		Migrate:    join("migrate.yaml"),
	}
}
