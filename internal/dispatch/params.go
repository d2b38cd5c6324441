package dispatch

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// View params are persisted as an open map so a record written by an older
// schema still replays: the handler decodes it onto a defaults-initialized
// struct and missing fields keep their documented defaults.

// EncodeParams turns a typed params struct into the persisted map form.
func EncodeParams(params any) (map[string]any, error) {
	raw, err := yaml.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encoding view params: %w", err)
	}

	var m map[string]any

	unmarshalErr := yaml.Unmarshal(raw, &m)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("encoding view params: %w", unmarshalErr)
	}

	return m, nil
}

// DecodeParams decodes persisted params onto a typed struct. The struct
// should be pre-filled with its defaults; only fields present in the record
// are overwritten, so older records replay with newer defaults filled in.
func DecodeParams(params map[string]any, into any) error {
	raw, err := yaml.Marshal(params)
	if err != nil {
		return fmt.Errorf("decoding view params: %w", err)
	}

	unmarshalErr := yaml.Unmarshal(raw, into)
	if unmarshalErr != nil {
		return fmt.Errorf("decoding view params: %w", unmarshalErr)
	}

	return nil
}

// ListParams are the options shared by every entity list view.
// Defaults: include nothing extra, filter nothing out beyond deleted.
type ListParams struct {
	IncludeDeleted bool     `yaml:"include_deleted"`
	Tags           []string `yaml:"tag,omitempty"`
	TagRegex       []string `yaml:"tag_regex,omitempty"`
	NoTags         []string `yaml:"no_tag,omitempty"`
	NoTagRegex     []string `yaml:"no_tag_regex,omitempty"`
	Project        string   `yaml:"project,omitempty"`
}

// TasksParams are the tasks view options.
type TasksParams struct {
	ListParams `yaml:",inline"`

	Scheduled string `yaml:"scheduled,omitempty"` // date token, empty = no filter
	Due       string `yaml:"due,omitempty"`       // date token, empty = no filter
}

// TimeAuditsParams are the time audits view options.
type TimeAuditsParams struct {
	ListParams `yaml:",inline"`

	TaskIDs []string `yaml:"task_ids,omitempty"` // permanent task ids
}

// EventsParams are the events view options.
type EventsParams struct {
	ListParams `yaml:",inline"`
}

// TimespansParams are the timespans view options.
type TimespansParams struct {
	ListParams `yaml:",inline"`
}

// ReferenceParams narrow logs and notes to entries referencing an entity.
type ReferenceParams struct {
	ReferenceType string `yaml:"reference_type,omitempty"`
	ReferenceID   string `yaml:"reference_id,omitempty"` // permanent id
}

// LogsParams are the logs view options.
type LogsParams struct {
	ListParams      `yaml:",inline"`
	ReferenceParams `yaml:",inline"`
}

// NotesParams are the notes view options.
type NotesParams struct {
	ListParams      `yaml:",inline"`
	ReferenceParams `yaml:",inline"`
}

// TrackersParams are the trackers view options.
type TrackersParams struct {
	IncludeDeleted bool `yaml:"include_deleted"`
	ShowArchived   bool `yaml:"show_archived"`
}

// DefaultEntriesDays is how far back the entries view reaches by default.
const DefaultEntriesDays = 30

// EntriesParams are the tracker entries view options.
type EntriesParams struct {
	TrackerID      string `yaml:"tracker_id"` // permanent id
	Days           int    `yaml:"days"`
	IncludeDeleted bool   `yaml:"include_deleted"`
}

// DefaultEntriesParams returns EntriesParams with documented defaults.
func DefaultEntriesParams() EntriesParams {
	return EntriesParams{Days: DefaultEntriesDays}
}

// DefaultAgendaDays is the agenda window when no --days flag is given.
const DefaultAgendaDays = 7

// AgendaParams are the agenda view options.
type AgendaParams struct {
	ListParams `yaml:",inline"`

	Days      int    `yaml:"days"`
	Start     string `yaml:"start,omitempty"` // date token, empty = today
	ShowTasks bool   `yaml:"show_tasks"`
	ShowDue   bool   `yaml:"show_due"`
	ShowLogs  bool   `yaml:"show_logs"`
	ShowNotes bool   `yaml:"show_notes"`
}

// DefaultAgendaParams returns AgendaParams with documented defaults.
func DefaultAgendaParams() AgendaParams {
	return AgendaParams{
		Days:      DefaultAgendaDays,
		ShowTasks: true,
		ShowDue:   true,
		ShowLogs:  true,
		ShowNotes: true,
	}
}

// CalDayParams are the day calendar options.
type CalDayParams struct {
	Date           string `yaml:"date,omitempty"` // date token, empty = today
	IncludeDeleted bool   `yaml:"include_deleted"`
	ShowTasks      bool   `yaml:"show_tasks"`
	ShowTimeAudits bool   `yaml:"show_time_audits"`
}

// DefaultCalDayParams returns CalDayParams with documented defaults.
func DefaultCalDayParams() CalDayParams {
	return CalDayParams{ShowTasks: true, ShowTimeAudits: true}
}

// DefaultCalWeekDays is the week calendar window.
const DefaultCalWeekDays = 7

// CalWeekParams are the week calendar options.
type CalWeekParams struct {
	Start          string `yaml:"start,omitempty"` // date token, empty = today
	Days           int    `yaml:"days"`
	IncludeDeleted bool   `yaml:"include_deleted"`
	ShowTasks      bool   `yaml:"show_tasks"`
}

// DefaultCalWeekParams returns CalWeekParams with documented defaults.
func DefaultCalWeekParams() CalWeekParams {
	return CalWeekParams{Days: DefaultCalWeekDays, ShowTasks: true}
}

// CalMonthParams are the month calendar options.
type CalMonthParams struct {
	Date           string `yaml:"date,omitempty"` // date token, empty = today
	IncludeDeleted bool   `yaml:"include_deleted"`
	ShowTasks      bool   `yaml:"show_tasks"`
}

// DefaultCalMonthParams returns CalMonthParams with documented defaults.
func DefaultCalMonthParams() CalMonthParams {
	return CalMonthParams{ShowTasks: true}
}

// GanttParams are the gantt view options.
type GanttParams struct {
	ListParams `yaml:",inline"`

	Start         string `yaml:"start,omitempty"` // date token
	End           string `yaml:"end,omitempty"`   // date token
	ShowTasks     bool   `yaml:"show_tasks"`
	ShowTimespans bool   `yaml:"show_timespans"`
	ShowEvents    bool   `yaml:"show_events"`
}

// DefaultGanttParams returns GanttParams with documented defaults.
func DefaultGanttParams() GanttParams {
	return GanttParams{ShowTasks: true, ShowTimespans: true, ShowEvents: true}
}

// StoryParams are the story view options.
type StoryParams struct {
	ListParams `yaml:",inline"`

	Start          string `yaml:"start,omitempty"` // date token
	End            string `yaml:"end,omitempty"`   // date token
	ShowTasks      bool   `yaml:"show_tasks"`
	ShowTimeAudits bool   `yaml:"show_time_audits"`
	ShowEvents     bool   `yaml:"show_events"`
	ShowLogs       bool   `yaml:"show_logs"`
	ShowNotes      bool   `yaml:"show_notes"`
}

// DefaultStoryParams returns StoryParams with documented defaults.
func DefaultStoryParams() StoryParams {
	return StoryParams{
		ShowTasks:      true,
		ShowTimeAudits: true,
		ShowEvents:     true,
		ShowLogs:       true,
		ShowNotes:      true,
	}
}
