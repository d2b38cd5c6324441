package cli

import (
	"gran/internal/dispatch"
	"gran/internal/entity"
	"gran/internal/query"

	flag "github.com/spf13/pflag"
)

// The remaining single-type list views. Each follows the tasks pattern:
// flags fill the persisted params struct, the run function derives the
// filter tree from the params, and replay goes through the same run
// function with decoded params.

func newAuditsCommand() *Command {
	params := dispatch.TimeAuditsParams{}

	fs := flag.NewFlagSet("audits", flag.ContinueOnError)
	addListFlags(fs, &params.ListParams)

	var taskRefs []int

	fs.IntSliceVar(&taskRefs, "task", nil, "only audits for the given task id (repeatable)")

	return &Command{
		Flags: fs,
		Usage: "audits [flags]",
		Short: "List time audits",
		Exec: func(app *App, _ []string) error {
			// Synthetic task ids resolve now; the record stores permanent ids
			// so replay survives an epoch reset.
			for _, ref := range taskRefs {
				taskID, err := app.resolveReference(entity.TypeTasks, ref)
				if err != nil {
					return err
				}

				params.TaskIDs = append(params.TaskIDs, taskID)
			}

			return runAuditsView(app, params)
		},
	}
}

func runAuditsView(app *App, params dispatch.TimeAuditsParams) error {
	var extra []*query.Spec

	if len(params.TaskIDs) > 0 {
		refs := make([]*query.Spec, 0, len(params.TaskIDs))
		for _, taskID := range params.TaskIDs {
			refs = append(refs, query.Str("task_ids", "contains:"+taskID))
		}

		extra = append(extra, query.Or(refs...))
	}

	filter := listFilter(params.ListParams, extra...)

	return app.runListView(dispatch.ViewTimeAudits, params, filter)
}

func newEventsCommand() *Command {
	params := dispatch.EventsParams{}

	fs := flag.NewFlagSet("events", flag.ContinueOnError)
	addListFlags(fs, &params.ListParams)

	return &Command{
		Flags: fs,
		Usage: "events [flags]",
		Short: "List events",
		Exec: func(app *App, _ []string) error {
			return runEventsView(app, params)
		},
	}
}

func runEventsView(app *App, params dispatch.EventsParams) error {
	return app.runListView(dispatch.ViewEvents, params, listFilter(params.ListParams))
}

func newSpansCommand() *Command {
	params := dispatch.TimespansParams{}

	fs := flag.NewFlagSet("spans", flag.ContinueOnError)
	addListFlags(fs, &params.ListParams)

	return &Command{
		Flags: fs,
		Usage: "spans [flags]",
		Short: "List timespans",
		Exec: func(app *App, _ []string) error {
			return runSpansView(app, params)
		},
	}
}

func runSpansView(app *App, params dispatch.TimespansParams) error {
	return app.runListView(dispatch.ViewTimespans, params, listFilter(params.ListParams))
}

func newLogsCommand() *Command {
	params := dispatch.LogsParams{}

	fs := flag.NewFlagSet("logs", flag.ContinueOnError)
	addListFlags(fs, &params.ListParams)

	var taskRef int

	fs.IntVar(&taskRef, "for-task", 0, "only logs referencing the given task id")

	return &Command{
		Flags: fs,
		Usage: "logs [flags]",
		Short: "List logs",
		Exec: func(app *App, _ []string) error {
			if taskRef != 0 {
				taskID, err := app.resolveReference(entity.TypeTasks, taskRef)
				if err != nil {
					return err
				}

				params.ReferenceType = string(entity.TypeTasks)
				params.ReferenceID = taskID
			}

			return runLogsView(app, params)
		},
	}
}

func runLogsView(app *App, params dispatch.LogsParams) error {
	filter := listFilter(params.ListParams, referenceFilter(params.ReferenceParams)...)

	return app.runListView(dispatch.ViewLogs, params, filter)
}

func newNotesCommand() *Command {
	params := dispatch.NotesParams{}

	fs := flag.NewFlagSet("notes", flag.ContinueOnError)
	addListFlags(fs, &params.ListParams)

	var taskRef int

	fs.IntVar(&taskRef, "for-task", 0, "only notes referencing the given task id")

	return &Command{
		Flags: fs,
		Usage: "notes [flags]",
		Short: "List notes",
		Exec: func(app *App, _ []string) error {
			if taskRef != 0 {
				taskID, err := app.resolveReference(entity.TypeTasks, taskRef)
				if err != nil {
					return err
				}

				params.ReferenceType = string(entity.TypeTasks)
				params.ReferenceID = taskID
			}

			return runNotesView(app, params)
		},
	}
}

func runNotesView(app *App, params dispatch.NotesParams) error {
	filter := listFilter(params.ListParams, referenceFilter(params.ReferenceParams)...)

	return app.runListView(dispatch.ViewNotes, params, filter)
}

func referenceFilter(p dispatch.ReferenceParams) []*query.Spec {
	var extra []*query.Spec

	if p.ReferenceType != "" {
		extra = append(extra, query.Str("reference_type", "equals:"+p.ReferenceType))
	}

	if p.ReferenceID != "" {
		extra = append(extra, query.Str("reference_id", "equals:"+p.ReferenceID))
	}

	return extra
}

func newTrackersCommand() *Command {
	params := dispatch.TrackersParams{}

	fs := flag.NewFlagSet("trackers", flag.ContinueOnError)
	fs.BoolVar(&params.IncludeDeleted, "deleted", false, "include soft-deleted trackers")
	fs.BoolVar(&params.ShowArchived, "archived", false, "include archived trackers")

	return &Command{
		Flags: fs,
		Usage: "trackers [flags]",
		Short: "List trackers",
		Exec: func(app *App, _ []string) error {
			return runTrackersView(app, params)
		},
	}
}

func runTrackersView(app *App, params dispatch.TrackersParams) error {
	var children []*query.Spec

	if !params.IncludeDeleted {
		children = append(children, query.Empty(entity.PropertyDeleted))
	}

	if !params.ShowArchived {
		children = append(children, query.Empty("archived"))
	}

	return app.runListView(dispatch.ViewTrackers, params, query.And(children...))
}

func newEntriesCommand() *Command {
	params := dispatch.DefaultEntriesParams()

	fs := flag.NewFlagSet("entries", flag.ContinueOnError)
	fs.IntVar(&params.Days, "days", params.Days, "how many days back to show")
	fs.BoolVar(&params.IncludeDeleted, "deleted", false, "include soft-deleted entries")

	var trackerRef int

	fs.IntVar(&trackerRef, "tracker", 0, "only entries for the given tracker id")

	return &Command{
		Flags: fs,
		Usage: "entries [flags]",
		Short: "List tracker entries",
		Exec: func(app *App, _ []string) error {
			if trackerRef != 0 {
				trackerID, err := app.resolveReference(entity.TypeTrackers, trackerRef)
				if err != nil {
					return err
				}

				params.TrackerID = trackerID
			}

			return runEntriesView(app, params)
		},
	}
}

func runEntriesView(app *App, params dispatch.EntriesParams) error {
	var children []*query.Spec

	if !params.IncludeDeleted {
		children = append(children, query.Empty(entity.PropertyDeleted))
	}

	if params.TrackerID != "" {
		children = append(children, query.Str("tracker_id", "equals:"+params.TrackerID))
	}

	if params.Days > 0 {
		since := app.Now().AddDate(0, 0, -params.Days).Format("2006-01-02")
		children = append(children, query.Date("occurred", "after:"+since))
	}

	return app.runListView(dispatch.ViewEntries, params, query.And(children...))
}
