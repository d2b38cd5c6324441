package storage

import (
	"errors"
	"fmt"
	"time"

	"gran/internal/query"
)

// Context is a saved query: a named filter tree applied by every list view
// while the context is active, plus tags and a project stamped onto newly
// created entities.
type Context struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Active      bool        `yaml:"active"`
	AutoTags    []string    `yaml:"auto_added_tags"`
	AutoProject string      `yaml:"auto_added_project"`
	Filter      *query.Spec `yaml:"filter"`
	Created     time.Time   `yaml:"created"`
	Updated     time.Time   `yaml:"updated"`
}

// Context errors.
var (
	ErrContextNotFound = errors.New("context not found")
	ErrContextExists   = errors.New("context already exists")
)

// ContextRepository persists saved contexts. At most one context is active
// at a time.
type ContextRepository struct {
	file *ListFile[Context]
}

// NewContextRepository returns a repository backed by the YAML file at path.
func NewContextRepository(path string) *ContextRepository {
	return &ContextRepository{file: NewListFile[Context](path)}
}

// All returns every saved context in storage order.
func (r *ContextRepository) All() ([]*Context, error) {
	return r.file.All()
}

// Active returns the active context, or nil when none is active.
func (r *ContextRepository) Active() (*Context, error) {
	contexts, err := r.file.All()
	if err != nil {
		return nil, err
	}

	for _, ctx := range contexts {
		if ctx.Active {
			return ctx, nil
		}
	}

	return nil, nil //nolint:nilnil // no active context is a valid state
}

// Find returns the context with the given name.
func (r *ContextRepository) Find(name string) (*Context, error) {
	contexts, err := r.file.All()
	if err != nil {
		return nil, err
	}

	for _, ctx := range contexts {
		if ctx.Name == name {
			return ctx, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrContextNotFound, name)
}

// Add appends a new context. Names are unique.
func (r *ContextRepository) Add(ctx *Context) error {
	contexts, err := r.file.All()
	if err != nil {
		return err
	}

	for _, existing := range contexts {
		if existing.Name == ctx.Name {
			return fmt.Errorf("%w: %q", ErrContextExists, ctx.Name)
		}
	}

	return r.file.Append(ctx)
}

// Use activates the named context and deactivates every other.
func (r *ContextRepository) Use(name string, now time.Time) error {
	target, err := r.Find(name)
	if err != nil {
		return err
	}

	contexts, err := r.file.All()
	if err != nil {
		return err
	}

	for _, ctx := range contexts {
		if ctx.Active && ctx != target {
			ctx.Active = false
			ctx.Updated = now
		}
	}

	if !target.Active {
		target.Active = true
		target.Updated = now
	}

	r.file.MarkDirty()

	return nil
}

// Off deactivates the active context, if any.
func (r *ContextRepository) Off(now time.Time) error {
	contexts, err := r.file.All()
	if err != nil {
		return err
	}

	for _, ctx := range contexts {
		if ctx.Active {
			ctx.Active = false
			ctx.Updated = now
			r.file.MarkDirty()
		}
	}

	return nil
}

// Flush writes the contexts file back to disk if it changed.
func (r *ContextRepository) Flush() error {
	return r.file.Flush()
}
