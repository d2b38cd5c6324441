package query

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gran/internal/entity"
)

// Predicate is a compiled, evaluable node of a filter specification tree.
type Predicate interface {
	// Evaluate returns the records matching the predicate. The input slice
	// is never mutated.
	Evaluate(items []entity.Record) []entity.Record
}

// Compiler compiles filter specifications. Now supplies the reference clock
// for relative date tokens; the zero Compiler uses time.Now.
type Compiler struct {
	Now func() time.Time
}

// Compile maps a filter specification to a Predicate using the real clock.
func Compile(spec *Spec) (Predicate, error) {
	return Compiler{}.Compile(spec)
}

// Compile recursively maps each node of the specification to an evaluator.
// All structural validation happens here: filters are compiled once per
// command, never per item.
func (c Compiler) Compile(spec *Spec) (Predicate, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: nil node", ErrInvalidFilterTree)
	}

	switch spec.Kind {
	case KindAnd, KindOr:
		children := make([]Predicate, 0, len(spec.Predicates))

		for _, child := range spec.Predicates {
			compiled, err := c.Compile(child)
			if err != nil {
				return nil, err
			}

			children = append(children, compiled)
		}

		if spec.Kind == KindAnd {
			return andPredicate{children: children}, nil
		}

		return orPredicate{children: children}, nil

	case KindNot:
		if spec.Predicate == nil {
			return nil, fmt.Errorf("%w: not node requires exactly one child", ErrInvalidFilterTree)
		}

		child, err := c.Compile(spec.Predicate)
		if err != nil {
			return nil, err
		}

		return notPredicate{child: child}, nil

	case KindEmpty:
		return emptyPredicate{property: spec.Property}, nil

	case KindStr:
		instruction, value, err := splitInstruction(spec.Filter)
		if err != nil {
			return nil, err
		}

		if !isStrInstruction(instruction) {
			return nil, fmt.Errorf("%w: unknown string instruction %q", ErrMalformedInstruction, instruction)
		}

		return strPredicate{property: spec.Property, instruction: instruction, value: value}, nil

	case KindStrRegex:
		pattern, err := compilePattern(spec.Filter)
		if err != nil {
			return nil, err
		}

		return strRegexPredicate{property: spec.Property, pattern: pattern}, nil

	case KindDate:
		instruction, token, err := splitInstruction(spec.Filter)
		if err != nil {
			return nil, err
		}

		if !isDateInstruction(instruction) {
			return nil, fmt.Errorf("%w: unknown date instruction %q", ErrMalformedInstruction, instruction)
		}

		// Validate the token now so a bad date fails the whole command
		// before anything is evaluated. Relative keywords resolve against
		// the clock at evaluation time.
		if !isRelativeKeyword(token) {
			if _, parseErr := parseAbsoluteDate(token); parseErr != nil {
				return nil, parseErr
			}
		}

		return datePredicate{property: spec.Property, instruction: instruction, token: token, now: c.clock()}, nil

	case KindTag:
		return tagPredicate{literal: spec.Filter}, nil

	case KindTagRegex:
		pattern, err := compilePattern(spec.Filter)
		if err != nil {
			return nil, err
		}

		return tagRegexPredicate{pattern: pattern}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFilterKind, spec.Kind)
}

func (c Compiler) clock() func() time.Time {
	if c.Now != nil {
		return c.Now
	}

	return time.Now
}

// splitInstruction separates an instruction:value filter string on its first
// colon. A missing delimiter is a compile error, never a silent non-match.
func splitInstruction(filter string) (string, string, error) {
	instruction, value, found := strings.Cut(filter, ":")
	if !found {
		return "", "", fmt.Errorf("%w: missing ':' delimiter in %q", ErrMalformedInstruction, filter)
	}

	return strings.TrimSpace(instruction), strings.TrimSpace(value), nil
}

func compilePattern(expr string) (*regexp.Regexp, error) {
	pattern, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, expr, err)
	}

	return pattern, nil
}

// String instructions.
const (
	instrEquals         = "equals"
	instrEqualsNoCase   = "equals_no_case"
	instrContains       = "contains"
	instrContainsNoCase = "contains_no_case"
)

func isStrInstruction(instruction string) bool {
	switch instruction {
	case instrEquals, instrEqualsNoCase, instrContains, instrContainsNoCase:
		return true
	}

	return false
}

// Date instructions.
const (
	instrOn     = "on"
	instrBefore = "before"
	instrAfter  = "after"
)

func isDateInstruction(instruction string) bool {
	switch instruction {
	case instrOn, instrBefore, instrAfter:
		return true
	}

	return false
}

// andPredicate evaluates every child against the original items list and
// intersects the result sets by identifier, preserving input order.
//
// This fan-out/intersect shape is load-bearing: saved contexts depend on it,
// so it must not be rewritten as sequential narrowing. The two are only
// equivalent while every predicate stays stateless.
type andPredicate struct {
	children []Predicate
}

func (p andPredicate) Evaluate(items []entity.Record) []entity.Record {
	keep := make(map[string]struct{}, len(items))
	for _, item := range items {
		keep[item.EntityID()] = struct{}{}
	}

	for _, child := range p.children {
		matched := make(map[string]struct{})
		for _, item := range child.Evaluate(items) {
			matched[item.EntityID()] = struct{}{}
		}

		for id := range keep {
			if _, ok := matched[id]; !ok {
				delete(keep, id)
			}
		}
	}

	result := make([]entity.Record, 0, len(keep))

	for _, item := range items {
		if _, ok := keep[item.EntityID()]; ok {
			result = append(result, item)
		}
	}

	return result
}

// orPredicate concatenates child results in child order. An item matching
// several children appears once per matching child; downstream counting may
// rely on the duplication, so it is preserved rather than deduped.
type orPredicate struct {
	children []Predicate
}

func (p orPredicate) Evaluate(items []entity.Record) []entity.Record {
	var result []entity.Record

	for _, child := range p.children {
		result = append(result, child.Evaluate(items)...)
	}

	if result == nil {
		return []entity.Record{}
	}

	return result
}

// notPredicate returns items minus the ids matched by its child.
type notPredicate struct {
	child Predicate
}

func (p notPredicate) Evaluate(items []entity.Record) []entity.Record {
	matched := make(map[string]struct{})
	for _, item := range p.child.Evaluate(items) {
		matched[item.EntityID()] = struct{}{}
	}

	result := make([]entity.Record, 0, len(items))

	for _, item := range items {
		if _, ok := matched[item.EntityID()]; !ok {
			result = append(result, item)
		}
	}

	return result
}

// emptyPredicate matches items whose named property exists and is null.
// A property absent from the type's schema does not match.
type emptyPredicate struct {
	property string
}

func (p emptyPredicate) Evaluate(items []entity.Record) []entity.Record {
	result := make([]entity.Record, 0)

	for _, item := range items {
		value, ok := item.Get(p.property)
		if ok && value.IsNull() {
			result = append(result, item)
		}
	}

	return result
}

type strPredicate struct {
	property    string
	instruction string
	value       string
}

func (p strPredicate) Evaluate(items []entity.Record) []entity.Record {
	result := make([]entity.Record, 0)

	for _, item := range items {
		if p.include(item) {
			result = append(result, item)
		}
	}

	return result
}

func (p strPredicate) include(item entity.Record) bool {
	value, ok := item.Get(p.property)
	if !ok || value.IsNull() {
		return false
	}

	text := value.StringForm()

	switch p.instruction {
	case instrEquals:
		return text == p.value
	case instrEqualsNoCase:
		return strings.EqualFold(text, p.value)
	case instrContains:
		return strings.Contains(text, p.value)
	case instrContainsNoCase:
		return strings.Contains(strings.ToLower(text), strings.ToLower(p.value))
	}

	return false
}

// strRegexPredicate matches when the pattern is found anywhere in the
// property's string form (search semantics, not full-match).
type strRegexPredicate struct {
	property string
	pattern  *regexp.Regexp
}

func (p strRegexPredicate) Evaluate(items []entity.Record) []entity.Record {
	result := make([]entity.Record, 0)

	for _, item := range items {
		value, ok := item.Get(p.property)
		if !ok || value.IsNull() {
			continue
		}

		if p.pattern.MatchString(value.StringForm()) {
			result = append(result, item)
		}
	}

	return result
}

type datePredicate struct {
	property    string
	instruction string
	token       string
	now         func() time.Time
}

func (p datePredicate) Evaluate(items []entity.Record) []entity.Record {
	reference, err := resolveDateToken(p.token, p.now())
	if err != nil {
		// Absolute tokens were validated at compile time; relative keywords
		// always resolve. Nothing can match an unresolvable reference.
		return []entity.Record{}
	}

	result := make([]entity.Record, 0)

	for _, item := range items {
		if p.include(item, reference) {
			result = append(result, item)
		}
	}

	return result
}

func (p datePredicate) include(item entity.Record, reference time.Time) bool {
	value, ok := item.Get(p.property)
	if !ok || value.IsNull() {
		return false
	}

	timestamp, isTime := value.TimeValue()
	if !isTime {
		return false
	}

	switch p.instruction {
	case instrOn:
		// [reference, reference+23:59:59]: inclusive start, inclusive of the
		// day's last second, exclusive of the following day's start.
		end := reference.Add(23*time.Hour + 59*time.Minute + 59*time.Second)

		return !timestamp.Before(reference) && !timestamp.After(end)
	case instrBefore:
		return timestamp.Before(reference)
	case instrAfter:
		return timestamp.After(reference)
	}

	return false
}

// tagPredicate matches items whose tags list is non-null and contains the
// literal filter string.
type tagPredicate struct {
	literal string
}

func (p tagPredicate) Evaluate(items []entity.Record) []entity.Record {
	result := make([]entity.Record, 0)

	for _, item := range items {
		tags := item.TagList()
		if tags == nil {
			continue
		}

		for _, tag := range tags {
			if tag == p.literal {
				result = append(result, item)

				break
			}
		}
	}

	return result
}

// tagRegexPredicate matches items with at least one tag found by the pattern.
type tagRegexPredicate struct {
	pattern *regexp.Regexp
}

func (p tagRegexPredicate) Evaluate(items []entity.Record) []entity.Record {
	result := make([]entity.Record, 0)

	for _, item := range items {
		tags := item.TagList()
		if tags == nil {
			continue
		}

		for _, tag := range tags {
			if p.pattern.MatchString(tag) {
				result = append(result, item)

				break
			}
		}
	}

	return result
}

// MatchesAnyTag reports whether the pattern finds a match in any tag.
// Helper for list views that filter tags outside a full filter tree.
func MatchesAnyTag(pattern *regexp.Regexp, tags []string) bool {
	for _, tag := range tags {
		if pattern.MatchString(tag) {
			return true
		}
	}

	return false
}
