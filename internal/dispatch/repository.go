package dispatch

import (
	"bytes"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// Repository persists the single dispatch record to a YAML file, fully
// overwritten on each save.
type Repository struct {
	path   string
	rec    *Record
	loaded bool
	dirty  bool
}

// NewRepository returns a repository backed by the YAML file at path.
func NewRepository(path string) *Repository {
	return &Repository{path: path}
}

func (r *Repository) load() error {
	if r.loaded {
		return nil
	}

	raw, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		// Fresh install or cleared by a migration.
		r.loaded = true

		return nil
	}

	if err != nil {
		return fmt.Errorf("reading dispatch record: %w", err)
	}

	var rec Record

	unmarshalErr := yaml.Unmarshal(raw, &rec)
	if unmarshalErr != nil {
		return fmt.Errorf("decoding dispatch record: %w", unmarshalErr)
	}

	r.rec = &rec
	r.loaded = true

	return nil
}

// Save overwrites the record with a new (kind, params) pair. Detail views
// are rejected: they are never the "last view" to replay.
func (r *Repository) Save(kind ViewKind, params any) error {
	if kind.IsDetail() {
		return fmt.Errorf("%w: %q", ErrDetailViewNotRecordable, kind)
	}

	encoded, err := EncodeParams(params)
	if err != nil {
		return err
	}

	r.rec = &Record{Kind: kind, Params: encoded}
	r.loaded = true
	r.dirty = true

	return nil
}

// Get returns the cached record, or ok=false when nothing has been cached.
func (r *Repository) Get() (Record, bool, error) {
	if err := r.load(); err != nil {
		return Record{}, false, err
	}

	if r.rec == nil {
		return Record{}, false, nil
	}

	return *r.rec, true, nil
}

// Clear removes the record. Called by data migrations, whose schema changes
// may leave the stored params undecodable.
func (r *Repository) Clear() error {
	err := os.Remove(r.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing dispatch record: %w", err)
	}

	r.rec = nil
	r.loaded = true
	r.dirty = false

	return nil
}

// Flush writes the record back to disk if it changed.
func (r *Repository) Flush() error {
	if !r.dirty || r.rec == nil {
		return nil
	}

	raw, err := yaml.Marshal(r.rec)
	if err != nil {
		return fmt.Errorf("encoding dispatch record: %w", err)
	}

	writeErr := atomic.WriteFile(r.path, bytes.NewReader(raw))
	if writeErr != nil {
		return fmt.Errorf("writing dispatch record: %w", writeErr)
	}

	r.dirty = false

	return nil
}
