package storage

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"gran/internal/entity"
)

var errUnknownType = errors.New("unknown entity type")

// ListFile is a YAML-backed list of records of one entity type. Records are
// loaded lazily on first access and written back on Flush when dirty. A
// missing file means an empty list. Iteration order is file order; callers
// must not rely on any sort.
type ListFile[T any] struct {
	path   string
	items  []*T
	loaded bool
	dirty  bool
}

// NewListFile returns a list file backed by path.
func NewListFile[T any](path string) *ListFile[T] {
	return &ListFile[T]{path: path}
}

// All returns every record in storage order. The returned slice is shared;
// callers that mutate records must call MarkDirty.
func (f *ListFile[T]) All() ([]*T, error) {
	if err := f.load(); err != nil {
		return nil, err
	}

	return f.items, nil
}

// Append adds a record and marks the file dirty.
func (f *ListFile[T]) Append(item *T) error {
	if err := f.load(); err != nil {
		return err
	}

	f.items = append(f.items, item)
	f.dirty = true

	return nil
}

// Replace swaps the whole list and marks the file dirty.
func (f *ListFile[T]) Replace(items []*T) {
	f.items = items
	f.loaded = true
	f.dirty = true
}

// MarkDirty flags in-place record mutations for the next Flush.
func (f *ListFile[T]) MarkDirty() {
	f.dirty = true
}

// Flush rewrites the whole file if anything changed.
func (f *ListFile[T]) Flush() error {
	if !f.dirty {
		return nil
	}

	if err := writeYAML(f.path, f.items); err != nil {
		return err
	}

	f.dirty = false

	return nil
}

func (f *ListFile[T]) load() error {
	if f.loaded {
		return nil
	}

	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		f.items = []*T{}
		f.loaded = true

		return nil
	}

	if err != nil {
		return fmt.Errorf("reading %s: %w", filepath.Base(f.path), err)
	}

	var items []*T

	unmarshalErr := yaml.Unmarshal(raw, &items)
	if unmarshalErr != nil {
		return fmt.Errorf("decoding %s: %w", filepath.Base(f.path), unmarshalErr)
	}

	if items == nil {
		items = []*T{}
	}

	f.items = items
	f.loaded = true

	return nil
}

func writeYAML(path string, v any) error {
	mkdirErr := os.MkdirAll(filepath.Dir(path), DirPerms)
	if mkdirErr != nil {
		return fmt.Errorf("creating data directory: %w", mkdirErr)
	}

	raw, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}

	writeErr := atomic.WriteFile(path, bytes.NewReader(raw))
	if writeErr != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), writeErr)
	}

	// atomic.WriteFile doesn't set permissions for new files.
	chmodErr := os.Chmod(path, FilePerms)
	if chmodErr != nil {
		return fmt.Errorf("setting permissions on %s: %w", filepath.Base(path), chmodErr)
	}

	return nil
}

// Store bundles every entity repository behind one value, passed explicitly
// into commands instead of living in package state.
type Store struct {
	Tasks      *ListFile[entity.Task]
	TimeAudits *ListFile[entity.TimeAudit]
	Events     *ListFile[entity.Event]
	Timespans  *ListFile[entity.Timespan]
	Logs       *ListFile[entity.Log]
	Notes      *ListFile[entity.Note]
	Trackers   *ListFile[entity.Tracker]
	Entries    *ListFile[entity.Entry]
	Contexts   *ContextRepository
}

// Open returns a store over the given paths. Nothing is read until first
// access.
func Open(paths Paths) *Store {
	return &Store{
		Tasks:      NewListFile[entity.Task](paths.Tasks),
		TimeAudits: NewListFile[entity.TimeAudit](paths.TimeAudits),
		Events:     NewListFile[entity.Event](paths.Events),
		Timespans:  NewListFile[entity.Timespan](paths.Timespans),
		Logs:       NewListFile[entity.Log](paths.Logs),
		Notes:      NewListFile[entity.Note](paths.Notes),
		Trackers:   NewListFile[entity.Tracker](paths.Trackers),
		Entries:    NewListFile[entity.Entry](paths.Entries),
		Contexts:   NewContextRepository(paths.Contexts),
	}
}

// Records returns one type's entities as generic records, in storage order.
// This is the interface the query engine and list views consume.
func (s *Store) Records(t entity.Type) ([]entity.Record, error) {
	switch t {
	case entity.TypeTasks:
		return asRecords(s.Tasks)
	case entity.TypeTimeAudits:
		return asRecords(s.TimeAudits)
	case entity.TypeEvents:
		return asRecords(s.Events)
	case entity.TypeTimespans:
		return asRecords(s.Timespans)
	case entity.TypeLogs:
		return asRecords(s.Logs)
	case entity.TypeNotes:
		return asRecords(s.Notes)
	case entity.TypeTrackers:
		return asRecords(s.Trackers)
	case entity.TypeEntries:
		return asRecords(s.Entries)
	}

	return nil, fmt.Errorf("%w: %q", errUnknownType, t)
}

func asRecords[T any, PT interface {
	*T
	entity.Record
}](f *ListFile[T],
) ([]entity.Record, error) {
	items, err := f.All()
	if err != nil {
		return nil, err
	}

	records := make([]entity.Record, 0, len(items))
	for _, item := range items {
		records = append(records, PT(item))
	}

	return records, nil
}

// Flush writes every dirty file back to disk.
func (s *Store) Flush() error {
	flushers := []func() error{
		s.Tasks.Flush,
		s.TimeAudits.Flush,
		s.Events.Flush,
		s.Timespans.Flush,
		s.Logs.Flush,
		s.Notes.Flush,
		s.Trackers.Flush,
		s.Entries.Flush,
		s.Contexts.Flush,
	}

	for _, flush := range flushers {
		if err := flush(); err != nil {
			return err
		}
	}

	return nil
}
