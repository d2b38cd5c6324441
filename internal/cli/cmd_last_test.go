package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"gran/internal/cli"
)

func Test_Last_With_Nothing_Cached(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("last")

	cli.AssertContains(t, stdout, "no cached view")
}

func Test_Last_Replays_Previous_List(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("task", "add", "replayed", "--tag", "keep")
	c.MustRun("task", "add", "filtered out")

	first := c.MustRun("tasks", "--tag", "keep")
	again := c.MustRun("last")

	if first != again {
		t.Errorf("replay output differs\nfirst: %s\nagain: %s", first, again)
	}

	cli.AssertContains(t, again, "replayed")
	cli.AssertNotContains(t, again, "filtered out")
}

func Test_Last_Reflects_Current_Data(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("tasks")
	c.MustRun("task", "add", "born later")

	stdout := c.MustRun("last")

	// Replay re-runs the filter against current data, it is not a
	// snapshot of the old output.
	cli.AssertContains(t, stdout, "born later")
}

func Test_Detail_View_Is_Not_Cached(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("task", "add", "target", "--tag", "keep")
	c.MustRun("tasks", "--tag", "keep")
	c.MustRun("show", "task", "1")

	stdout := c.MustRun("last")

	// last replays the tasks list, not the show.
	cli.AssertContains(t, stdout, "[ ] target")
}

func Test_Cache_View_Disabled_By_Config(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	writeFile(t, filepath.Join(c.Dir, ".gran.json"), `{"cache_view": false}`)

	c.MustRun("tasks")

	stdout := c.MustRun("last")

	cli.AssertContains(t, stdout, "no cached view")
}

func Test_Deprecated_Cached_Kind_Is_A_Soft_Failure(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("tasks")

	// Simulate a record written by a newer build.
	dispatchFile := filepath.Join(c.DataDir(), "dispatch.yaml")

	content := "view_kind: holograph\nview_params: {}\n"
	if err := os.WriteFile(dispatchFile, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := c.Run("last")

	if got, want := code, 1; got != want {
		t.Errorf("exitCode=%d, want=%d", got, want)
	}

	if got, want := stdout, ""; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}

	cli.AssertContains(t, stderr, "no longer supported")
	cli.AssertContains(t, stderr, "holograph")
}

func Test_Keep_Ids_Config_Preserves_References(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	writeFile(t, filepath.Join(c.Dir, ".gran.json"), `{"keep_ids": true}`)

	c.MustRun("task", "add", "stable")
	c.MustRun("tasks")

	// With keep_ids the epoch survives later views of the same type.
	c.MustRun("tasks", "--tag", "nomatch")

	stdout := c.MustRun("show", "task", "1")

	cli.AssertContains(t, stdout, "stable")
}
