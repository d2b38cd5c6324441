package query_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"gran/internal/entity"
	"gran/internal/query"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

// fixedNow is the reference clock used by date predicate tests.
var fixedNow = time.Date(2026, 3, 14, 15, 9, 0, 0, time.Local)

func compileAt(t *testing.T, spec *query.Spec) query.Predicate {
	t.Helper()

	pred, err := query.Compiler{Now: func() time.Time { return fixedNow }}.Compile(spec)
	require.NoError(t, err)

	return pred
}

func taskRecord(id string, tags []string) *entity.Task {
	return &entity.Task{ID: id, Tags: tags, Created: fixedNow, Updated: fixedNow}
}

func ids(records []entity.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.EntityID())
	}

	return out
}

func TestCompileRejectsUnknownKind(t *testing.T) {
	t.Parallel()

	_, err := query.Compile(&query.Spec{Kind: "fuzzy"})
	require.ErrorIs(t, err, query.ErrUnsupportedFilterKind)
}

func TestCompileRejectsNotWithoutChild(t *testing.T) {
	t.Parallel()

	_, err := query.Compile(&query.Spec{Kind: query.KindNot})
	require.ErrorIs(t, err, query.ErrInvalidFilterTree)
}

func TestCompileRejectsUnknownKindInNestedChild(t *testing.T) {
	t.Parallel()

	_, err := query.Compile(query.And(query.Tag("a"), &query.Spec{Kind: "num"}))
	require.ErrorIs(t, err, query.ErrUnsupportedFilterKind)
}

func TestEvaluateAnd(t *testing.T) {
	t.Parallel()

	items := []entity.Record{
		taskRecord("1", []string{"a", "b"}),
		taskRecord("2", []string{"b"}),
		taskRecord("3", []string{"a"}),
	}

	t.Run("zero children returns all items unchanged", func(t *testing.T) {
		t.Parallel()

		got := compileAt(t, query.And()).Evaluate(items)
		require.Equal(t, []string{"1", "2", "3"}, ids(got))
	})

	t.Run("intersects by identifier preserving input order", func(t *testing.T) {
		t.Parallel()

		got := compileAt(t, query.And(query.Tag("a"), query.Tag("b"))).Evaluate(items)
		require.Equal(t, []string{"1"}, ids(got))
	})

	t.Run("children see the original list not the narrowed one", func(t *testing.T) {
		t.Parallel()

		// NOT(tag a) alone matches {2}; if AND chained sequentially after
		// tag b, NOT would be evaluated against {1,2} with the same result,
		// but the intersect contract requires evaluating against all three.
		got := compileAt(t, query.And(query.Tag("b"), query.Not(query.Tag("a")))).Evaluate(items)
		require.Equal(t, []string{"2"}, ids(got))
	})
}

func TestEvaluateOr(t *testing.T) {
	t.Parallel()

	items := []entity.Record{
		taskRecord("1", []string{"a", "b"}),
		taskRecord("2", []string{"b"}),
	}

	t.Run("zero children returns empty list", func(t *testing.T) {
		t.Parallel()

		got := compileAt(t, query.Or()).Evaluate(items)
		require.Empty(t, got)
	})

	t.Run("concatenates child results in child order", func(t *testing.T) {
		t.Parallel()

		got := compileAt(t, query.Or(query.Tag("b"), query.Tag("a"))).Evaluate(items)
		// Item 1 matches both branches and appears once per branch. The
		// duplication is intentional; do not dedupe without checking saved
		// contexts that count results.
		require.Equal(t, []string{"1", "2", "1"}, ids(got))
	})
}

func TestEvaluateNot(t *testing.T) {
	t.Parallel()

	items := []entity.Record{
		taskRecord("1", []string{"a", "b"}),
		taskRecord("2", []string{"b"}),
		taskRecord("3", []string{}),
	}

	t.Run("set difference by identifier", func(t *testing.T) {
		t.Parallel()

		got := compileAt(t, query.Not(query.Tag("b"))).Evaluate(items)
		require.Equal(t, []string{"3"}, ids(got))
	})

	t.Run("negating a match-all yields empty", func(t *testing.T) {
		t.Parallel()

		got := compileAt(t, query.Not(query.And())).Evaluate(items)
		require.Empty(t, got)
	})
}

func TestEvaluateTag(t *testing.T) {
	t.Parallel()

	items := []entity.Record{
		taskRecord("1", []string{"a", "b"}),
		taskRecord("2", []string{"b"}),
		taskRecord("3", []string{}),
		taskRecord("4", nil),
	}

	got := compileAt(t, query.Tag("b")).Evaluate(items)
	require.Equal(t, []string{"1", "2"}, ids(got))

	// Null tags never match, not even through NOT-of-other-tags semantics.
	got = compileAt(t, query.Tag("a")).Evaluate(items)
	require.Equal(t, []string{"1"}, ids(got))
}

func TestEvaluateTagRegex(t *testing.T) {
	t.Parallel()

	items := []entity.Record{
		taskRecord("1", []string{"proj-alpha"}),
		taskRecord("2", []string{"alpha-proj"}),
		taskRecord("3", nil),
	}

	t.Run("anchored prefix", func(t *testing.T) {
		t.Parallel()

		got := compileAt(t, query.TagRegex("^proj-")).Evaluate(items)
		require.Equal(t, []string{"1"}, ids(got))
	})

	t.Run("substring search without anchor", func(t *testing.T) {
		t.Parallel()

		got := compileAt(t, query.TagRegex("proj")).Evaluate(items)
		require.Equal(t, []string{"1", "2"}, ids(got))
	})

	t.Run("invalid pattern fails compile", func(t *testing.T) {
		t.Parallel()

		_, err := query.Compile(query.TagRegex("("))
		require.ErrorIs(t, err, query.ErrInvalidPattern)
	})
}

func TestEvaluateEmpty(t *testing.T) {
	t.Parallel()

	withDesc := taskRecord("1", nil)
	withDesc.Description = strPtr("buy milk")
	nullDesc := taskRecord("2", nil)

	items := []entity.Record{withDesc, nullDesc}

	t.Run("matches null property", func(t *testing.T) {
		t.Parallel()

		got := compileAt(t, query.Empty("description")).Evaluate(items)
		require.Equal(t, []string{"2"}, ids(got))
	})

	t.Run("absent property does not match", func(t *testing.T) {
		t.Parallel()

		got := compileAt(t, query.Empty("no_such_property")).Evaluate(items)
		require.Empty(t, got)
	})
}

func TestEvaluateStr(t *testing.T) {
	t.Parallel()

	milk := taskRecord("1", nil)
	milk.Description = strPtr("Buy Milk")
	bread := taskRecord("2", nil)
	bread.Description = strPtr("buy bread")
	unset := taskRecord("3", nil)

	items := []entity.Record{milk, bread, unset}

	for _, tt := range []struct {
		name   string
		filter string
		want   []string
	}{
		{name: "equals case sensitive", filter: "equals:Buy Milk", want: []string{"1"}},
		{name: "equals misses different case", filter: "equals:buy milk", want: []string{}},
		{name: "equals_no_case", filter: "equals_no_case:BUY MILK", want: []string{"1"}},
		{name: "contains", filter: "contains:buy", want: []string{"2"}},
		{name: "contains_no_case", filter: "contains_no_case:BUY", want: []string{"1", "2"}},
		{name: "value containing extra colons", filter: "equals:Buy Milk:now", want: []string{}},
	} {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := compileAt(t, query.Str("description", tt.filter)).Evaluate(items)
			require.Equal(t, tt.want, ids(got))
		})
	}

	t.Run("missing delimiter fails compile", func(t *testing.T) {
		t.Parallel()

		_, err := query.Compile(query.Str("description", "equals buy milk"))
		require.ErrorIs(t, err, query.ErrMalformedInstruction)
	})

	t.Run("unknown instruction fails compile", func(t *testing.T) {
		t.Parallel()

		_, err := query.Compile(query.Str("description", "matches:milk"))
		require.ErrorIs(t, err, query.ErrMalformedInstruction)
	})
}

func TestEvaluateStrRegex(t *testing.T) {
	t.Parallel()

	alpha := taskRecord("1", nil)
	alpha.Description = strPtr("work on alpha milestone")
	beta := taskRecord("2", nil)
	beta.Description = strPtr("beta")
	unset := taskRecord("3", nil)

	items := []entity.Record{alpha, beta, unset}

	got := compileAt(t, query.StrRegex("description", "alpha")).Evaluate(items)
	require.Equal(t, []string{"1"}, ids(got))

	// Search semantics: the pattern need not cover the whole value.
	got = compileAt(t, query.StrRegex("description", "^work")).Evaluate(items)
	require.Equal(t, []string{"1"}, ids(got))
}

func TestEvaluateDate(t *testing.T) {
	t.Parallel()

	midnight := time.Date(fixedNow.Year(), fixedNow.Month(), fixedNow.Day(), 0, 0, 0, 0, time.Local)

	newTask := func(id string, due time.Time) *entity.Task {
		task := taskRecord(id, nil)
		task.Due = timePtr(due)

		return task
	}

	lastSecond := newTask("1", midnight.Add(23*time.Hour+59*time.Minute+59*time.Second))
	nextMidnight := newTask("2", midnight.AddDate(0, 0, 1))
	yesterday := newTask("3", midnight.AddDate(0, 0, -1).Add(12*time.Hour))
	unset := taskRecord("4", nil)

	items := []entity.Record{lastSecond, nextMidnight, yesterday, unset}

	for _, tt := range []struct {
		name   string
		filter string
		want   []string
	}{
		{name: "on today includes the day's last second", filter: "on:today", want: []string{"1"}},
		{name: "on tomorrow starts at next midnight", filter: "on:tomorrow", want: []string{"2"}},
		{name: "on yesterday", filter: "on:yesterday", want: []string{"3"}},
		{name: "before is a strict comparison", filter: "before:today", want: []string{"3"}},
		{name: "after is a strict comparison", filter: "after:today", want: []string{"1", "2"}},
		{
			name:   "absolute date",
			filter: "on:" + midnight.Format("2006-01-02"),
			want:   []string{"1"},
		},
	} {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := compileAt(t, query.Date("due", tt.filter)).Evaluate(items)
			require.Equal(t, tt.want, ids(got))
		})
	}

	t.Run("unparsable date fails compile", func(t *testing.T) {
		t.Parallel()

		_, err := query.Compile(query.Date("due", "on:next-blue-moon"))
		require.ErrorIs(t, err, query.ErrInvalidDateExpression)
	})

	t.Run("missing delimiter fails compile", func(t *testing.T) {
		t.Parallel()

		_, err := query.Compile(query.Date("due", "on today"))
		require.ErrorIs(t, err, query.ErrMalformedInstruction)
	})
}

func TestScenarioTagFilterWrappedInNot(t *testing.T) {
	t.Parallel()

	items := []entity.Record{
		taskRecord("1", []string{"a", "b"}),
		taskRecord("2", []string{"b"}),
		taskRecord("3", []string{}),
	}

	filtered := compileAt(t, query.Tag("b")).Evaluate(items)
	require.Equal(t, []string{"1", "2"}, ids(filtered))

	negated := compileAt(t, query.Not(query.Tag("b"))).Evaluate(items)
	require.Equal(t, []string{"3"}, ids(negated))
}

func TestSpecYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	tree := query.And(
		query.Or(query.Tag("home"), query.TagRegex("^proj-")),
		query.Not(query.Empty("due")),
		query.Str("description", "contains_no_case:review"),
		query.Date("due", "before:tomorrow"),
	)

	raw, err := yaml.Marshal(tree)
	require.NoError(t, err)

	var decoded query.Spec

	err = yaml.Unmarshal(raw, &decoded)
	require.NoError(t, err)

	if diff := cmp.Diff(tree, &decoded); diff != "" {
		t.Fatalf("filter tree changed across YAML round trip (-want +got):\n%s", diff)
	}

	// A persisted tree must still compile.
	_, err = query.Compile(&decoded)
	require.NoError(t, err)
}

func TestCompileErrorsAreDescriptive(t *testing.T) {
	t.Parallel()

	_, err := query.Compile(query.Str("description", "no-delimiter"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "no-delimiter")

	var target error = query.ErrMalformedInstruction
	require.True(t, errors.Is(err, target))
}
