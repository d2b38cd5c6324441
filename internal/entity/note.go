package entity

import "time"

// Note is a free-text note, optionally referencing another entity.
type Note struct {
	ID            string     `yaml:"id"`
	Title         *string    `yaml:"title"`
	Body          *string    `yaml:"body"`
	Projects      []string   `yaml:"projects"`
	Tags          []string   `yaml:"tags"`
	ReferenceType *string    `yaml:"reference_type"`
	ReferenceID   *string    `yaml:"reference_id"`
	Created       time.Time  `yaml:"created"`
	Updated       time.Time  `yaml:"updated"`
	Deleted       *time.Time `yaml:"deleted"`
}

// EntityID implements Record.
func (n *Note) EntityID() string { return n.ID }

// TagList implements Record.
func (n *Note) TagList() []string { return n.Tags }

// Get implements Record.
func (n *Note) Get(property string) (Value, bool) {
	switch property {
	case PropertyID:
		return String(n.ID), true
	case "title":
		return stringValue(n.Title), true
	case "body":
		return stringValue(n.Body), true
	case PropertyProjects:
		return listValue(n.Projects), true
	case PropertyTags:
		return listValue(n.Tags), true
	case "reference_type":
		return stringValue(n.ReferenceType), true
	case "reference_id":
		return stringValue(n.ReferenceID), true
	case "created":
		return Time(n.Created), true
	case "updated":
		return Time(n.Updated), true
	case PropertyDeleted:
		return timeValue(n.Deleted), true
	}

	return Value{}, false
}
