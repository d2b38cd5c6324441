package cli_test

import (
	"testing"

	"gran/internal/cli"
)

func Test_Agenda_Groups_By_Day(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("task", "add", "today's work", "--scheduled", "today")
	c.MustRun("task", "add", "tomorrow's work", "--scheduled", "tomorrow")
	c.MustRun("task", "add", "rent", "--due", "today")
	c.MustRun("log", "add", "stood up")

	stdout := c.MustRun("agenda", "--days", "2")

	cli.AssertContains(t, stdout, "scheduled:")
	cli.AssertContains(t, stdout, "today's work")
	cli.AssertContains(t, stdout, "tomorrow's work")
	cli.AssertContains(t, stdout, "due:")
	cli.AssertContains(t, stdout, "rent")
	cli.AssertContains(t, stdout, "logs:")
	cli.AssertContains(t, stdout, "stood up")
}

func Test_Agenda_Empty_Window(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("agenda")

	cli.AssertContains(t, stdout, "nothing scheduled")
}

func Test_Cal_Day_Shows_Events_And_Scheduled(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("event", "add", "standup", "--start", "today")
	c.MustRun("task", "add", "deploy", "--scheduled", "today")

	stdout := c.MustRun("cal", "day")

	cli.AssertContains(t, stdout, "events:")
	cli.AssertContains(t, stdout, "standup")
	cli.AssertContains(t, stdout, "scheduled:")
	cli.AssertContains(t, stdout, "deploy")
}

func Test_Cal_Requires_Subcommand(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("cal")

	cli.AssertContains(t, stderr, "usage: cal")
}

func Test_Cal_Week_Spans_Days(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("event", "add", "later meeting", "--start", "tomorrow")

	stdout := c.MustRun("cal", "week")

	cli.AssertContains(t, stdout, "later meeting")
}

func Test_Gantt_Draws_Bars_In_Window(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("task", "add", "iterate", "--scheduled", "today", "--due", "tomorrow")
	c.MustRun("span", "add", "sprint", "--start", "today", "--end", "tomorrow")

	stdout := c.MustRun("gantt")

	cli.AssertContains(t, stdout, "iterate")
	cli.AssertContains(t, stdout, "sprint")
	cli.AssertContains(t, stdout, "##")
}

func Test_Story_Is_Chronological(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("task", "add", "begin")
	c.MustRun("log", "add", "made progress")
	c.MustRun("note", "add", "lesson learned")

	stdout := c.MustRun("story")

	cli.AssertContains(t, stdout, "created")
	cli.AssertContains(t, stdout, "begin")
	cli.AssertContains(t, stdout, "logged")
	cli.AssertContains(t, stdout, "made progress")
	cli.AssertContains(t, stdout, "noted")
	cli.AssertContains(t, stdout, "lesson learned")
}

func Test_Logs_Filtered_By_Task_Reference(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("task", "add", "the work")
	c.MustRun("tasks")
	c.MustRun("log", "add", "about the work", "--task", "1")
	c.MustRun("log", "add", "about nothing")

	c.MustRun("tasks")

	stdout := c.MustRun("logs", "--for-task", "1")

	cli.AssertContains(t, stdout, "about the work")
	cli.AssertNotContains(t, stdout, "about nothing")
}

func Test_Empty_List_Says_So(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	for _, view := range []string{"tasks", "audits", "events", "spans", "logs", "notes", "trackers", "entries"} {
		stdout := c.MustRun(view)
		cli.AssertContains(t, stdout, "nothing to show")
	}
}
