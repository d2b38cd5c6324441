package entity

import "time"

// Tracker is a named habit or metric that entries record values against.
type Tracker struct {
	ID       string     `yaml:"id"`
	Name     *string    `yaml:"name"`
	Unit     *string    `yaml:"unit"`
	Projects []string   `yaml:"projects"`
	Tags     []string   `yaml:"tags"`
	Archived *time.Time `yaml:"archived"`
	Created  time.Time  `yaml:"created"`
	Updated  time.Time  `yaml:"updated"`
	Deleted  *time.Time `yaml:"deleted"`
}

// EntityID implements Record.
func (t *Tracker) EntityID() string { return t.ID }

// TagList implements Record.
func (t *Tracker) TagList() []string { return t.Tags }

// Get implements Record.
func (t *Tracker) Get(property string) (Value, bool) {
	switch property {
	case PropertyID:
		return String(t.ID), true
	case "name":
		return stringValue(t.Name), true
	case "unit":
		return stringValue(t.Unit), true
	case PropertyProjects:
		return listValue(t.Projects), true
	case PropertyTags:
		return listValue(t.Tags), true
	case "archived":
		return timeValue(t.Archived), true
	case "created":
		return Time(t.Created), true
	case "updated":
		return Time(t.Updated), true
	case PropertyDeleted:
		return timeValue(t.Deleted), true
	}

	return Value{}, false
}
