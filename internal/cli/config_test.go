package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"gran/internal/cli"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func Test_Project_Config_Overrides_Defaults(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	writeFile(t, filepath.Join(c.Dir, ".gran.json"), `{
		// project-local data dir
		"data_dir": "mydata",
	}`)

	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, `"data_dir": "mydata"`)
	cli.AssertContains(t, stdout, "project config:")
}

func Test_Global_Config_Is_Read_From_XDG_Dir(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	writeFile(t, filepath.Join(c.Dir, "xdg", "gran", "config.json"), `{"cache_view": false}`)

	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, `"cache_view": false`)
	cli.AssertContains(t, stdout, "global config:")
}

func Test_Project_Config_Wins_Over_Global(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	writeFile(t, filepath.Join(c.Dir, "xdg", "gran", "config.json"), `{"data_dir": "global"}`)
	writeFile(t, filepath.Join(c.Dir, ".gran.json"), `{"data_dir": "project"}`)

	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, `"data_dir": "project"`)
}

func Test_Data_Dir_Flag_Wins_Over_Config(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	writeFile(t, filepath.Join(c.Dir, ".gran.json"), `{"data_dir": "project"}`)

	stdout := c.MustRun("--data-dir", "flagged", "print-config")

	cli.AssertContains(t, stdout, `"data_dir": "flagged"`)
}

func Test_Explicit_Config_File_Must_Exist(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("--config", "nope.json", "print-config")

	cli.AssertContains(t, stderr, "config file not found")
	cli.AssertContains(t, stderr, "nope.json")
}

func Test_Empty_Data_Dir_In_Config_Fails(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	writeFile(t, filepath.Join(c.Dir, ".gran.json"), `{"data_dir": ""}`)

	stderr := c.MustFail("print-config")

	cli.AssertContains(t, stderr, "data_dir must not be empty")
}

func Test_Invalid_JSONC_Fails(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	writeFile(t, filepath.Join(c.Dir, ".gran.json"), `{not json`)

	stderr := c.MustFail("print-config")

	cli.AssertContains(t, stderr, "invalid config file")
}
