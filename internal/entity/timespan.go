package entity

import "time"

// Timespan is a named date range, shown on gantt and story views.
type Timespan struct {
	ID          string     `yaml:"id"`
	Description *string    `yaml:"description"`
	Projects    []string   `yaml:"projects"`
	Tags        []string   `yaml:"tags"`
	Start       *time.Time `yaml:"start"`
	End         *time.Time `yaml:"end"`
	Created     time.Time  `yaml:"created"`
	Updated     time.Time  `yaml:"updated"`
	Deleted     *time.Time `yaml:"deleted"`
}

// EntityID implements Record.
func (s *Timespan) EntityID() string { return s.ID }

// TagList implements Record.
func (s *Timespan) TagList() []string { return s.Tags }

// Get implements Record.
func (s *Timespan) Get(property string) (Value, bool) {
	switch property {
	case PropertyID:
		return String(s.ID), true
	case "description":
		return stringValue(s.Description), true
	case PropertyProjects:
		return listValue(s.Projects), true
	case PropertyTags:
		return listValue(s.Tags), true
	case "start":
		return timeValue(s.Start), true
	case "end":
		return timeValue(s.End), true
	case "created":
		return Time(s.Created), true
	case "updated":
		return Time(s.Updated), true
	case PropertyDeleted:
		return timeValue(s.Deleted), true
	}

	return Value{}, false
}
