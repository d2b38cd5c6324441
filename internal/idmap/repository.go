package idmap

import (
	"bytes"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"gran/internal/entity"
)

// Repository persists the synthetic id map to a YAML file so that id
// resolution survives process restarts within the same epoch. The map is
// loaded lazily and written back on Flush only when something changed.
type Repository struct {
	path  string
	m     *Map
	dirty bool
}

// NewRepository returns a repository backed by the YAML file at path.
func NewRepository(path string) *Repository {
	return &Repository{path: path}
}

func (r *Repository) load() (*Map, error) {
	if r.m != nil {
		return r.m, nil
	}

	raw, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		// Fresh install: empty template, persisted on first mutation.
		r.m = New()

		return r.m, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading id map: %w", err)
	}

	var m Map

	unmarshalErr := yaml.Unmarshal(raw, &m)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("decoding id map: %w", unmarshalErr)
	}

	r.m = &m

	return r.m, nil
}

// Associate returns the synthetic id for a permanent id, allocating one on
// first sight within the current epoch.
func (r *Repository) Associate(t entity.Type, permanentID string) (int, error) {
	m, err := r.load()
	if err != nil {
		return 0, err
	}

	synthetic, err := m.Associate(t, permanentID)
	if err != nil {
		return 0, err
	}

	r.dirty = true

	return synthetic, nil
}

// Resolve looks up the permanent id behind a synthetic id.
func (r *Repository) Resolve(t entity.Type, synthetic int) (string, error) {
	m, err := r.load()
	if err != nil {
		return "", err
	}

	return m.Resolve(t, synthetic)
}

// ResetEpoch starts a new epoch for one type.
func (r *Repository) ResetEpoch(t entity.Type) error {
	m, err := r.load()
	if err != nil {
		return err
	}

	resetErr := m.ResetEpoch(t)
	if resetErr != nil {
		return resetErr
	}

	r.dirty = true

	return nil
}

// ResetAll starts a new epoch for every type. Used by data migrations,
// whose id rewrites make every old mapping point at a stale identifier.
func (r *Repository) ResetAll() error {
	m, err := r.load()
	if err != nil {
		// A corrupt map is still safely resettable.
		r.m = New()
		r.dirty = true

		return nil
	}

	m.ResetAll()
	r.dirty = true

	return nil
}

// Flush writes the map back to disk if it changed. Writes happen only after
// successful resolution, so a failed command never corrupts the file.
func (r *Repository) Flush() error {
	if r.m == nil || !r.dirty {
		return nil
	}

	raw, err := yaml.Marshal(r.m)
	if err != nil {
		return fmt.Errorf("encoding id map: %w", err)
	}

	writeErr := atomic.WriteFile(r.path, bytes.NewReader(raw))
	if writeErr != nil {
		return fmt.Errorf("writing id map: %w", writeErr)
	}

	r.dirty = false

	return nil
}
