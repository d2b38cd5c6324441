package entity

import "time"

// Event is a calendar entry with a start and optional end.
type Event struct {
	ID          string     `yaml:"id"`
	Description *string    `yaml:"description"`
	Projects    []string   `yaml:"projects"`
	Tags        []string   `yaml:"tags"`
	Start       *time.Time `yaml:"start"`
	End         *time.Time `yaml:"end"`
	AllDay      bool       `yaml:"all_day"`
	Created     time.Time  `yaml:"created"`
	Updated     time.Time  `yaml:"updated"`
	Deleted     *time.Time `yaml:"deleted"`
}

// EntityID implements Record.
func (e *Event) EntityID() string { return e.ID }

// TagList implements Record.
func (e *Event) TagList() []string { return e.Tags }

// Get implements Record.
func (e *Event) Get(property string) (Value, bool) {
	switch property {
	case PropertyID:
		return String(e.ID), true
	case "description":
		return stringValue(e.Description), true
	case PropertyProjects:
		return listValue(e.Projects), true
	case PropertyTags:
		return listValue(e.Tags), true
	case "start":
		return timeValue(e.Start), true
	case "end":
		return timeValue(e.End), true
	case "all_day":
		return Bool(e.AllDay), true
	case "created":
		return Time(e.Created), true
	case "updated":
		return Time(e.Updated), true
	case PropertyDeleted:
		return timeValue(e.Deleted), true
	}

	return Value{}, false
}
