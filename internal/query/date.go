package query

import (
	"fmt"
	"time"
)

// Relative date keywords resolved against the current local date.
const (
	tokenToday     = "today"
	tokenYesterday = "yesterday"
	tokenTomorrow  = "tomorrow"
)

func isRelativeKeyword(token string) bool {
	switch token {
	case tokenToday, tokenYesterday, tokenTomorrow:
		return true
	}

	return false
}

// absoluteDateLayouts are tried in order when parsing an absolute token.
//
//nolint:gochecknoglobals // package-level constant
var absoluteDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

func parseAbsoluteDate(token string) (time.Time, error) {
	for _, layout := range absoluteDateLayouts {
		parsed, err := time.ParseInLocation(layout, token, time.Local)
		if err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateExpression, token)
}

// ResolveDate turns a date token into a concrete local time. Calendar-style
// views use it to anchor their windows with the same token grammar the date
// predicates accept.
func ResolveDate(token string, now time.Time) (time.Time, error) {
	return resolveDateToken(token, now)
}

// resolveDateToken turns a date token into the reference point for a date
// predicate. Relative keywords resolve to local midnight of the named day.
func resolveDateToken(token string, now time.Time) (time.Time, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch token {
	case tokenToday:
		return midnight, nil
	case tokenYesterday:
		return midnight.AddDate(0, 0, -1), nil
	case tokenTomorrow:
		return midnight.AddDate(0, 0, 1), nil
	}

	return parseAbsoluteDate(token)
}
