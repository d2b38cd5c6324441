// Package entity defines the concrete entity types stored by gran and the
// Record capability the query engine filters against.
//
// Every entity type has a fixed schema. Instead of open-ended property bags,
// each type implements Get with an explicit switch over its property names,
// so a property is either part of the schema (possibly null) or absent.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Type identifies an entity type. The set is closed.
type Type string

// Entity types.
const (
	TypeTasks      Type = "tasks"
	TypeTimeAudits Type = "time_audits"
	TypeEvents     Type = "events"
	TypeTimespans  Type = "timespans"
	TypeLogs       Type = "logs"
	TypeNotes      Type = "notes"
	TypeTrackers   Type = "trackers"
	TypeEntries    Type = "entries"
)

// Types lists every entity type in display order.
//
//nolint:gochecknoglobals // package-level constant
var Types = []Type{
	TypeTasks,
	TypeTimeAudits,
	TypeEvents,
	TypeTimespans,
	TypeLogs,
	TypeNotes,
	TypeTrackers,
	TypeEntries,
}

// IsValidType reports whether t is a known entity type.
func IsValidType(t Type) bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}

	return false
}

// Record is the capability list views and the query engine need from an
// entity: its permanent identifier, its tags, and tri-state property lookup.
type Record interface {
	// EntityID returns the permanent identifier. Unique within the type,
	// immutable once assigned, never reused.
	EntityID() string

	// Get looks up a property by name. The second return is false when the
	// property is not part of this type's schema. A property that is part of
	// the schema but unset yields a null Value.
	Get(property string) (Value, bool)

	// TagList returns the entity's tags, or nil when unset.
	TagList() []string
}

// NewID generates a permanent entity identifier.
func NewID() string {
	return uuid.NewString()
}

// Shared property names treated specially by the query engine.
const (
	PropertyID       = "id"
	PropertyTags     = "tags"
	PropertyProjects = "projects"
	PropertyDeleted  = "deleted"
)

// timeValue converts an optional timestamp field to a Value.
func timeValue(t *time.Time) Value {
	if t == nil {
		return Null()
	}

	return Time(*t)
}

// stringValue converts an optional string field to a Value.
func stringValue(s *string) Value {
	if s == nil {
		return Null()
	}

	return String(*s)
}

// listValue converts an optional string-list field to a Value.
func listValue(l []string) Value {
	if l == nil {
		return Null()
	}

	return StringList(l)
}

// intValue converts an optional integer field to a Value.
func intValue(n *int) Value {
	if n == nil {
		return Null()
	}

	return Number(float64(*n))
}
