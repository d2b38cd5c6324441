// Package query compiles filter specifications into executable predicates
// and evaluates them against entity records.
//
// A filter specification is a tagged tree: boolean combinators (and, or,
// not) over leaf predicates (empty, str, str_regex, date, tag, tag_regex).
// Trees are persisted inside saved contexts, so the YAML field names here
// are part of the on-disk format.
package query

import "errors"

// FilterKind tags a node of a filter specification.
type FilterKind string

// Filter kinds. The set is closed; an unknown kind fails at compile time.
const (
	KindAnd      FilterKind = "and"
	KindOr       FilterKind = "or"
	KindNot      FilterKind = "not"
	KindEmpty    FilterKind = "empty"
	KindStr      FilterKind = "str"
	KindStrRegex FilterKind = "str_regex"
	KindDate     FilterKind = "date"
	KindTag      FilterKind = "tag"
	KindTagRegex FilterKind = "tag_regex"
)

// Spec is one node of a filter specification tree.
//
// Which fields are meaningful depends on Kind:
//   - and, or: Predicates (zero or more children)
//   - not: Predicate (exactly one child)
//   - empty: Property
//   - str, str_regex, date: Property and Filter
//   - tag, tag_regex: Filter
type Spec struct {
	Kind       FilterKind `yaml:"filter_type"`
	Predicates []*Spec    `yaml:"predicates,omitempty"`
	Predicate  *Spec      `yaml:"predicate,omitempty"`
	Property   string     `yaml:"property,omitempty"`
	Filter     string     `yaml:"filter,omitempty"`
}

// And builds an and-node over children.
func And(children ...*Spec) *Spec {
	return &Spec{Kind: KindAnd, Predicates: children}
}

// Or builds an or-node over children.
func Or(children ...*Spec) *Spec {
	return &Spec{Kind: KindOr, Predicates: children}
}

// Not builds a not-node around child.
func Not(child *Spec) *Spec {
	return &Spec{Kind: KindNot, Predicate: child}
}

// Empty builds an empty-node for property.
func Empty(property string) *Spec {
	return &Spec{Kind: KindEmpty, Property: property}
}

// Str builds a str-node with an instruction:value filter string.
func Str(property, filter string) *Spec {
	return &Spec{Kind: KindStr, Property: property, Filter: filter}
}

// StrRegex builds a str_regex-node with a pattern.
func StrRegex(property, pattern string) *Spec {
	return &Spec{Kind: KindStrRegex, Property: property, Filter: pattern}
}

// Date builds a date-node with an instruction:value filter string.
func Date(property, filter string) *Spec {
	return &Spec{Kind: KindDate, Property: property, Filter: filter}
}

// Tag builds a tag-node matching a literal tag.
func Tag(literal string) *Spec {
	return &Spec{Kind: KindTag, Filter: literal}
}

// TagRegex builds a tag_regex-node with a pattern.
func TagRegex(pattern string) *Spec {
	return &Spec{Kind: KindTagRegex, Filter: pattern}
}

// Sentinel errors surfaced by Compile and Evaluate.
var (
	// ErrUnsupportedFilterKind reports an unknown tag in a filter tree.
	ErrUnsupportedFilterKind = errors.New("unsupported filter kind")

	// ErrInvalidFilterTree reports a structurally invalid tree, such as a
	// not-node without a child.
	ErrInvalidFilterTree = errors.New("invalid filter tree")

	// ErrMalformedInstruction reports a bad instruction:value filter string.
	ErrMalformedInstruction = errors.New("malformed filter instruction")

	// ErrInvalidDateExpression reports an unparsable date token.
	ErrInvalidDateExpression = errors.New("invalid date expression")

	// ErrInvalidPattern reports an unparsable regular expression.
	ErrInvalidPattern = errors.New("invalid filter pattern")
)
