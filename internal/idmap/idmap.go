// Package idmap maintains the session-scoped synthetic id map: small
// per-type integers standing in for permanent entity identifiers.
//
// Synthetic ids are assigned sequentially from 1 while entities are
// displayed and are only valid within the current epoch, the span between
// two resets for a type. List views reset the epoch before rendering
// (unless configured not to), so an integer a user types always refers to
// the most recently displayed list.
package idmap

import (
	"errors"
	"fmt"

	"gran/internal/entity"
)

// Sentinel errors.
var (
	// ErrUnknownOrStaleReference reports a synthetic id with no mapping in
	// the current epoch. The user must re-list to get fresh ids.
	ErrUnknownOrStaleReference = errors.New("unknown or stale id (run the list view again)")

	// ErrUnknownEntityType reports a type outside the closed entity set.
	ErrUnknownEntityType = errors.New("unknown entity type")
)

// TypeMap holds one entity type's mappings for the current epoch. Both
// directions are persisted; the reverse index makes re-assignment within an
// epoch idempotent. Counter tracks the next integer to hand out and is
// stored explicitly so an epoch survives process restarts.
type TypeMap struct {
	Counter         int            `yaml:"counter"`
	SyntheticToReal map[int]string `yaml:"synthetic_to_real"`
	RealToSynthetic map[string]int `yaml:"real_to_synthetic"`
}

// Map is the full synthetic id map, one TypeMap per entity type.
type Map struct {
	Types map[entity.Type]*TypeMap `yaml:"types"`
}

// New returns an empty map covering every entity type.
func New() *Map {
	m := &Map{Types: make(map[entity.Type]*TypeMap, len(entity.Types))}

	for _, t := range entity.Types {
		m.Types[t] = newTypeMap()
	}

	return m
}

func newTypeMap() *TypeMap {
	return &TypeMap{
		SyntheticToReal: make(map[int]string),
		RealToSynthetic: make(map[string]int),
	}
}

// typeMap returns the TypeMap for t, creating it when a persisted map
// predates the type (older schema).
func (m *Map) typeMap(t entity.Type) (*TypeMap, error) {
	if !entity.IsValidType(t) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntityType, t)
	}

	if m.Types == nil {
		m.Types = make(map[entity.Type]*TypeMap, len(entity.Types))
	}

	tm, ok := m.Types[t]
	if !ok || tm == nil {
		tm = newTypeMap()
		m.Types[t] = tm
	}

	if tm.SyntheticToReal == nil {
		tm.SyntheticToReal = make(map[int]string)
	}

	if tm.RealToSynthetic == nil {
		tm.RealToSynthetic = make(map[string]int)
	}

	return tm, nil
}

// Associate returns the synthetic id for a permanent id, allocating the next
// counter value on first sight. Calling it again for the same permanent id
// within one epoch returns the same integer without advancing the counter.
func (m *Map) Associate(t entity.Type, permanentID string) (int, error) {
	tm, err := m.typeMap(t)
	if err != nil {
		return 0, err
	}

	if synthetic, ok := tm.RealToSynthetic[permanentID]; ok {
		return synthetic, nil
	}

	tm.Counter++
	synthetic := tm.Counter

	tm.RealToSynthetic[permanentID] = synthetic
	tm.SyntheticToReal[synthetic] = permanentID

	return synthetic, nil
}

// Resolve looks up the permanent id behind a synthetic id.
func (m *Map) Resolve(t entity.Type, synthetic int) (string, error) {
	tm, err := m.typeMap(t)
	if err != nil {
		return "", err
	}

	permanentID, ok := tm.SyntheticToReal[synthetic]
	if !ok {
		return "", fmt.Errorf("%w: %s %d", ErrUnknownOrStaleReference, t, synthetic)
	}

	return permanentID, nil
}

// ResetEpoch clears one type's mappings and counter, starting a new epoch.
func (m *Map) ResetEpoch(t entity.Type) error {
	if !entity.IsValidType(t) {
		return fmt.Errorf("%w: %q", ErrUnknownEntityType, t)
	}

	if m.Types == nil {
		m.Types = make(map[entity.Type]*TypeMap, len(entity.Types))
	}

	m.Types[t] = newTypeMap()

	return nil
}

// ResetAll clears every type, starting a new epoch for all of them.
func (m *Map) ResetAll() {
	m.Types = make(map[entity.Type]*TypeMap, len(entity.Types))

	for _, t := range entity.Types {
		m.Types[t] = newTypeMap()
	}
}
