package cli

import (
	"time"

	"gran/internal/dispatch"
	"gran/internal/entity"
	"gran/internal/query"

	flag "github.com/spf13/pflag"
)

func newAgendaCommand() *Command {
	params := dispatch.DefaultAgendaParams()

	fs := flag.NewFlagSet("agenda", flag.ContinueOnError)
	addListFlags(fs, &params.ListParams)
	fs.IntVar(&params.Days, "days", params.Days, "how many days to show")
	fs.StringVar(&params.Start, "start", "", "first day (date token, default today)")
	fs.BoolVar(&params.ShowTasks, "tasks", params.ShowTasks, "show scheduled tasks")
	fs.BoolVar(&params.ShowDue, "due", params.ShowDue, "show due tasks")
	fs.BoolVar(&params.ShowLogs, "logs", params.ShowLogs, "show logs")
	fs.BoolVar(&params.ShowNotes, "notes", params.ShowNotes, "show notes")

	return &Command{
		Flags: fs,
		Usage: "agenda [flags]",
		Short: "Day-by-day agenda of scheduled and due work",
		Exec: func(app *App, _ []string) error {
			return runAgendaView(app, params)
		},
	}
}

func runAgendaView(app *App, params dispatch.AgendaParams) error {
	start, err := agendaStart(app, params.Start)
	if err != nil {
		return err
	}

	ids := app.newAssigner()
	printed := false

	for day := 0; day < params.Days; day++ {
		date := start.AddDate(0, 0, day)
		token := date.Format("2006-01-02")

		sections := []struct {
			label    string
			enabled  bool
			entType  entity.Type
			property string
		}{
			{"scheduled", params.ShowTasks, entity.TypeTasks, "scheduled"},
			{"due", params.ShowDue, entity.TypeTasks, "due"},
			{"logs", params.ShowLogs, entity.TypeLogs, "created"},
			{"notes", params.ShowNotes, entity.TypeNotes, "created"},
		}

		headerDone := false

		for _, section := range sections {
			if !section.enabled {
				continue
			}

			filter := listFilter(params.ListParams, query.Date(section.property, "on:"+token))

			filter, err := app.contextFilter(filter)
			if err != nil {
				return err
			}

			results, err := app.evaluate(section.entType, filter)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				continue
			}

			if !headerDone {
				app.IO.Println(date.Format("Mon 2006-01-02"))

				headerDone = true
				printed = true
			}

			app.IO.Printf("  %s:\n", section.label)

			for _, rec := range results {
				id, err := ids.id(section.entType, rec)
				if err != nil {
					return err
				}

				app.IO.Printf("  %s\n", formatRecord(id, rec))
			}
		}
	}

	if !printed {
		app.IO.Println("nothing scheduled")
	}

	return app.recordView(dispatch.ViewAgenda, params)
}

func agendaStart(app *App, token string) (time.Time, error) {
	if token == "" {
		token = "today"
	}

	return query.ResolveDate(token, app.Now())
}
