// Package dispatch remembers the most recently rendered list-style view so
// it can be replayed after a mutation without re-supplying flags.
//
// A single (view kind, view params) record is persisted as YAML. Replaying
// re-invokes the registered handler for the stored kind, which re-runs the
// filter engine against current data and repopulates the synthetic id map.
// Single-entity detail views are never recorded.
package dispatch

import "errors"

// ViewKind identifies a view. The enumeration is closed; records written by
// a newer schema may carry kinds this build no longer recognizes, which is
// a soft failure at replay time.
type ViewKind string

// List-style views (recordable).
const (
	ViewTasks      ViewKind = "tasks"
	ViewTimeAudits ViewKind = "time_audits"
	ViewEvents     ViewKind = "events"
	ViewTimespans  ViewKind = "timespans"
	ViewLogs       ViewKind = "logs"
	ViewNotes      ViewKind = "notes"
	ViewTrackers   ViewKind = "trackers"
	ViewEntries    ViewKind = "entries"
	ViewAgenda     ViewKind = "agenda"
	ViewCalDay     ViewKind = "cal_day"
	ViewCalWeek    ViewKind = "cal_week"
	ViewCalMonth   ViewKind = "cal_month"
	ViewGantt      ViewKind = "gantt"
	ViewStory      ViewKind = "story"
)

// Single-entity detail views (never recorded).
const (
	ViewTask      ViewKind = "task"
	ViewTimeAudit ViewKind = "time_audit"
	ViewEvent     ViewKind = "event"
	ViewTimespan  ViewKind = "timespan"
	ViewLog       ViewKind = "log"
	ViewNote      ViewKind = "note"
	ViewTracker   ViewKind = "tracker"
	ViewEntry     ViewKind = "entry"
)

// detailViews is the set of views excluded from the dispatch record.
//
//nolint:gochecknoglobals // package-level constant
var detailViews = map[ViewKind]struct{}{
	ViewTask:      {},
	ViewTimeAudit: {},
	ViewEvent:     {},
	ViewTimespan:  {},
	ViewLog:       {},
	ViewNote:      {},
	ViewTracker:   {},
	ViewEntry:     {},
}

// IsDetail reports whether k is a single-entity detail view.
func (k ViewKind) IsDetail() bool {
	_, ok := detailViews[k]

	return ok
}

// Record is the persisted "last list view" selector.
type Record struct {
	Kind   ViewKind       `yaml:"view_kind"`
	Params map[string]any `yaml:"view_params"`
}

// Sentinel errors.
var (
	// ErrDetailViewNotRecordable reports an attempt to record a detail view.
	ErrDetailViewNotRecordable = errors.New("detail views are not recorded")

	// ErrDeprecatedViewKind reports a stored kind with no registered
	// handler. Replay soft-fails: skip, no data loss.
	ErrDeprecatedViewKind = errors.New("cached view kind is no longer supported")

	// ErrNoCachedView reports replay with nothing cached (fresh install or
	// cleared by a migration).
	ErrNoCachedView = errors.New("no cached view to replay")
)
