package entity

import "time"

// Log is a short timestamped message, optionally referencing another entity.
type Log struct {
	ID            string     `yaml:"id"`
	Message       *string    `yaml:"message"`
	Projects      []string   `yaml:"projects"`
	Tags          []string   `yaml:"tags"`
	ReferenceType *string    `yaml:"reference_type"`
	ReferenceID   *string    `yaml:"reference_id"`
	Created       time.Time  `yaml:"created"`
	Updated       time.Time  `yaml:"updated"`
	Deleted       *time.Time `yaml:"deleted"`
}

// EntityID implements Record.
func (l *Log) EntityID() string { return l.ID }

// TagList implements Record.
func (l *Log) TagList() []string { return l.Tags }

// Get implements Record.
func (l *Log) Get(property string) (Value, bool) {
	switch property {
	case PropertyID:
		return String(l.ID), true
	case "message":
		return stringValue(l.Message), true
	case PropertyProjects:
		return listValue(l.Projects), true
	case PropertyTags:
		return listValue(l.Tags), true
	case "reference_type":
		return stringValue(l.ReferenceType), true
	case "reference_id":
		return stringValue(l.ReferenceID), true
	case "created":
		return Time(l.Created), true
	case "updated":
		return Time(l.Updated), true
	case PropertyDeleted:
		return timeValue(l.Deleted), true
	}

	return Value{}, false
}
