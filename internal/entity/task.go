package entity

import "time"

// Task is a unit of work with optional scheduling and completion timestamps.
type Task struct {
	ID          string     `yaml:"id"`
	Description *string    `yaml:"description"`
	Projects    []string   `yaml:"projects"`
	Tags        []string   `yaml:"tags"`
	Priority    *int       `yaml:"priority"`
	Created     time.Time  `yaml:"created"`
	Updated     time.Time  `yaml:"updated"`
	Scheduled   *time.Time `yaml:"scheduled"`
	Due         *time.Time `yaml:"due"`
	Started     *time.Time `yaml:"started"`
	Completed   *time.Time `yaml:"completed"`
	Cancelled   *time.Time `yaml:"cancelled"`
	Deleted     *time.Time `yaml:"deleted"`
}

// EntityID implements Record.
func (t *Task) EntityID() string { return t.ID }

// TagList implements Record.
func (t *Task) TagList() []string { return t.Tags }

// Get implements Record.
func (t *Task) Get(property string) (Value, bool) {
	switch property {
	case PropertyID:
		return String(t.ID), true
	case "description":
		return stringValue(t.Description), true
	case PropertyProjects:
		return listValue(t.Projects), true
	case PropertyTags:
		return listValue(t.Tags), true
	case "priority":
		return intValue(t.Priority), true
	case "created":
		return Time(t.Created), true
	case "updated":
		return Time(t.Updated), true
	case "scheduled":
		return timeValue(t.Scheduled), true
	case "due":
		return timeValue(t.Due), true
	case "started":
		return timeValue(t.Started), true
	case "completed":
		return timeValue(t.Completed), true
	case "cancelled":
		return timeValue(t.Cancelled), true
	case PropertyDeleted:
		return timeValue(t.Deleted), true
	}

	return Value{}, false
}
