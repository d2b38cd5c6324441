package entity

import "time"

// Entry records a value against a tracker at a point in time.
type Entry struct {
	ID        string     `yaml:"id"`
	TrackerID string     `yaml:"tracker_id"`
	Value     float64    `yaml:"value"`
	Note      *string    `yaml:"note"`
	Tags      []string   `yaml:"tags"`
	Occurred  *time.Time `yaml:"occurred"`
	Created   time.Time  `yaml:"created"`
	Updated   time.Time  `yaml:"updated"`
	Deleted   *time.Time `yaml:"deleted"`
}

// EntityID implements Record.
func (e *Entry) EntityID() string { return e.ID }

// TagList implements Record.
func (e *Entry) TagList() []string { return e.Tags }

// Get implements Record.
func (e *Entry) Get(property string) (Value, bool) {
	switch property {
	case PropertyID:
		return String(e.ID), true
	case "tracker_id":
		return String(e.TrackerID), true
	case "value":
		return Number(e.Value), true
	case "note":
		return stringValue(e.Note), true
	case PropertyTags:
		return listValue(e.Tags), true
	case "occurred":
		return timeValue(e.Occurred), true
	case "created":
		return Time(e.Created), true
	case "updated":
		return Time(e.Updated), true
	case PropertyDeleted:
		return timeValue(e.Deleted), true
	}

	return Value{}, false
}
