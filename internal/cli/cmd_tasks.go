package cli

import (
	"gran/internal/dispatch"
	"gran/internal/query"

	flag "github.com/spf13/pflag"
)

func newTasksCommand() *Command {
	params := dispatch.TasksParams{}

	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	addListFlags(fs, &params.ListParams)
	fs.StringVar(&params.Scheduled, "scheduled", "", "scheduled date filter, e.g. on:today or before:2026-09-01")
	fs.StringVar(&params.Due, "due", "", "due date filter, e.g. on:today or after:tomorrow")

	return &Command{
		Flags: fs,
		Usage: "tasks [flags]",
		Short: "List tasks",
		Long: `List tasks matching the given filters.

Date filters take the form instruction:value where the instruction is one
of on, before, after and the value is an absolute date (2026-09-01) or one
of today, yesterday, tomorrow.`,
		Exec: func(app *App, _ []string) error {
			return runTasksView(app, params)
		},
	}
}

func runTasksView(app *App, params dispatch.TasksParams) error {
	var extra []*query.Spec

	if params.Scheduled != "" {
		extra = append(extra, query.Date("scheduled", params.Scheduled))
	}

	if params.Due != "" {
		extra = append(extra, query.Date("due", params.Due))
	}

	filter := listFilter(params.ListParams, extra...)

	return app.runListView(dispatch.ViewTasks, params, filter)
}
