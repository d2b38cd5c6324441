package cli_test

import (
	"strings"
	"testing"

	"gran/internal/cli"
)

func Test_Task_Add_Then_List(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("task", "add", "buy milk", "--tag", "home")

	stdout := c.MustRun("tasks")

	cli.AssertContains(t, stdout, "1  [ ] buy milk")
	cli.AssertContains(t, stdout, "+home")
}

func Test_Task_Add_Requires_Description(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("task", "add")

	cli.AssertContains(t, stderr, "description must not be empty")
}

func Test_Task_Done_Uses_Synthetic_Id(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("task", "add", "first")
	c.MustRun("task", "add", "second")
	c.MustRun("tasks")

	c.MustRun("task", "done", "2")

	stdout := c.MustRun("tasks")

	cli.AssertContains(t, stdout, "[ ] first")
	cli.AssertContains(t, stdout, "[x] second")
}

func Test_Task_Rm_Soft_Deletes(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("task", "add", "throwaway")
	c.MustRun("tasks")
	c.MustRun("task", "rm", "1")

	stdout := c.MustRun("tasks")
	cli.AssertNotContains(t, stdout, "throwaway")

	withDeleted := c.MustRun("tasks", "--deleted")
	cli.AssertContains(t, withDeleted, "throwaway")
	cli.AssertContains(t, withDeleted, "[D]")
}

func Test_Mutation_Replays_Last_View(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("tasks")

	// The replay after add re-renders the cached tasks view, so the new
	// task shows up with its id without running tasks again.
	stdout := c.MustRun("task", "add", "fresh")

	cli.AssertContains(t, stdout, "added: fresh")
	cli.AssertContains(t, stdout, "1  [ ] fresh")
}

func Test_Stale_Reference_After_New_View(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("task", "add", "only")
	c.MustRun("tasks")

	// A tasks view with no matches resets the epoch and leaves nothing
	// associated.
	c.MustRun("tasks", "--tag", "nope")

	stderr := c.MustFail("task", "done", "1")

	cli.AssertContains(t, stderr, "unknown or stale id")
}

func Test_Other_Type_View_Keeps_Task_References(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("task", "add", "keep me")
	c.MustRun("tasks")

	// Listing events resets only the events epoch.
	c.MustRun("events")

	stdout := c.MustRun("show", "task", "1")

	cli.AssertContains(t, stdout, "keep me")
}

func Test_Tasks_Due_Filter(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("task", "add", "pay rent", "--due", "today")
	c.MustRun("task", "add", "someday", "--due", "tomorrow")

	stdout := c.MustRun("tasks", "--due", "on:today")

	cli.AssertContains(t, stdout, "pay rent")
	cli.AssertNotContains(t, stdout, "someday")
}

func Test_Tasks_Tag_Filters_Combine(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("task", "add", "a", "--tag", "work", "--tag", "urgent")
	c.MustRun("task", "add", "b", "--tag", "work")
	c.MustRun("task", "add", "c", "--tag", "home")

	stdout := c.MustRun("tasks", "--tag", "work", "--no-tag", "urgent")

	lines := strings.Split(stdout, "\n")
	if got, want := len(lines), 1; got != want {
		t.Fatalf("got %d result lines, want %d\nstdout: %s", got, want, stdout)
	}

	cli.AssertContains(t, stdout, "b")
}

func Test_Tasks_Tag_Regex_Filter(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("task", "add", "x", "--tag", "proj-alpha")
	c.MustRun("task", "add", "y", "--tag", "alpha-proj")

	stdout := c.MustRun("tasks", "--tag-regex", "^proj-")

	cli.AssertContains(t, stdout, "x")
	cli.AssertNotContains(t, stdout, "y")
}

func Test_Tasks_Invalid_Date_Filter_Fails(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("tasks", "--due", "on:not-a-date")

	cli.AssertContains(t, stderr, "invalid date expression")
}

func Test_Tasks_Invalid_Tag_Regex_Fails(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("tasks", "--tag-regex", "[unclosed")

	cli.AssertContains(t, stderr, "invalid filter pattern")
}

func Test_Show_Task_Prints_All_Properties(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("task", "add", "detailed", "--tag", "deep", "--priority", "3")
	c.MustRun("tasks")

	stdout := c.MustRun("show", "task", "1")

	cli.AssertContains(t, stdout, "description: detailed")
	cli.AssertContains(t, stdout, "priority: 3")
	cli.AssertContains(t, stdout, "deep")
}
