package entity

import "time"

// TimeAudit records time spent, optionally against one or more tasks.
type TimeAudit struct {
	ID          string     `yaml:"id"`
	Description *string    `yaml:"description"`
	TaskIDs     []string   `yaml:"task_ids"`
	Projects    []string   `yaml:"projects"`
	Tags        []string   `yaml:"tags"`
	Start       *time.Time `yaml:"start"`
	End         *time.Time `yaml:"end"`
	Created     time.Time  `yaml:"created"`
	Updated     time.Time  `yaml:"updated"`
	Deleted     *time.Time `yaml:"deleted"`
}

// EntityID implements Record.
func (a *TimeAudit) EntityID() string { return a.ID }

// TagList implements Record.
func (a *TimeAudit) TagList() []string { return a.Tags }

// Get implements Record.
func (a *TimeAudit) Get(property string) (Value, bool) {
	switch property {
	case PropertyID:
		return String(a.ID), true
	case "description":
		return stringValue(a.Description), true
	case "task_ids":
		return listValue(a.TaskIDs), true
	case PropertyProjects:
		return listValue(a.Projects), true
	case PropertyTags:
		return listValue(a.Tags), true
	case "start":
		return timeValue(a.Start), true
	case "end":
		return timeValue(a.End), true
	case "created":
		return Time(a.Created), true
	case "updated":
		return Time(a.Updated), true
	case PropertyDeleted:
		return timeValue(a.Deleted), true
	}

	return Value{}, false
}

// Active reports whether the audit has started but not ended.
func (a *TimeAudit) Active() bool {
	return a.Start != nil && a.End == nil
}
