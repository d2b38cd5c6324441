package cli

import (
	"errors"
	"fmt"
	"time"

	"gran/internal/dispatch"
	"gran/internal/entity"
	"gran/internal/query"

	flag "github.com/spf13/pflag"
)

var errCalUsage = errors.New("usage: cal <day|week|month> [flags]")

// newCalCommand dispatches to the day, week, and month calendars. The
// subcommand parses its own flags so each persists exactly its own params.
func newCalCommand() *Command {
	fs := flag.NewFlagSet("cal", flag.ContinueOnError)
	// The subcommand owns its flags: stop parsing at "day"/"week"/"month".
	fs.SetInterspersed(false)

	return &Command{
		Flags: fs,
		Usage: "cal <day|week|month> [flags]",
		Short: "Calendar views of events, timespans and scheduled tasks",
		Exec: func(app *App, args []string) error {
			if len(args) == 0 {
				return errCalUsage
			}

			switch args[0] {
			case "day":
				return execCalDay(app, args[1:])
			case "week":
				return execCalWeek(app, args[1:])
			case "month":
				return execCalMonth(app, args[1:])
			}

			return fmt.Errorf("%w: unknown subcommand %q", errCalUsage, args[0])
		},
	}
}

func execCalDay(app *App, args []string) error {
	params := dispatch.DefaultCalDayParams()

	fs := flag.NewFlagSet("cal day", flag.ContinueOnError)
	fs.StringVar(&params.Date, "date", "", "day to show (date token, default today)")
	fs.BoolVar(&params.IncludeDeleted, "deleted", false, "include soft-deleted entities")
	fs.BoolVar(&params.ShowTasks, "tasks", params.ShowTasks, "show scheduled tasks")
	fs.BoolVar(&params.ShowTimeAudits, "audits", params.ShowTimeAudits, "show time audits")

	if err := fs.Parse(args); err != nil {
		return err
	}

	return runCalDayView(app, params)
}

func runCalDayView(app *App, params dispatch.CalDayParams) error {
	date, err := resolveOrToday(app, params.Date)
	if err != nil {
		return err
	}

	token := date.Format("2006-01-02")
	base := dispatch.ListParams{IncludeDeleted: params.IncludeDeleted}
	ids := app.newAssigner()

	app.IO.Println(date.Format("Mon 2006-01-02"))

	sections := []daySection{
		{"events", true, entity.TypeEvents, "start"},
		{"timespans", true, entity.TypeTimespans, "start"},
		{"audits", params.ShowTimeAudits, entity.TypeTimeAudits, "start"},
		{"scheduled", params.ShowTasks, entity.TypeTasks, "scheduled"},
	}

	if err := app.printDaySections(ids, base, token, sections); err != nil {
		return err
	}

	return app.recordView(dispatch.ViewCalDay, params)
}

func execCalWeek(app *App, args []string) error {
	params := dispatch.DefaultCalWeekParams()

	fs := flag.NewFlagSet("cal week", flag.ContinueOnError)
	fs.StringVar(&params.Start, "start", "", "first day (date token, default today)")
	fs.IntVar(&params.Days, "days", params.Days, "how many days to show")
	fs.BoolVar(&params.IncludeDeleted, "deleted", false, "include soft-deleted entities")
	fs.BoolVar(&params.ShowTasks, "tasks", params.ShowTasks, "show scheduled tasks")

	if err := fs.Parse(args); err != nil {
		return err
	}

	return runCalWeekView(app, params)
}

func runCalWeekView(app *App, params dispatch.CalWeekParams) error {
	start, err := resolveOrToday(app, params.Start)
	if err != nil {
		return err
	}

	base := dispatch.ListParams{IncludeDeleted: params.IncludeDeleted}
	ids := app.newAssigner()

	for day := 0; day < params.Days; day++ {
		date := start.AddDate(0, 0, day)
		token := date.Format("2006-01-02")

		app.IO.Println(date.Format("Mon 2006-01-02"))

		sections := []daySection{
			{"events", true, entity.TypeEvents, "start"},
			{"scheduled", params.ShowTasks, entity.TypeTasks, "scheduled"},
		}

		if err := app.printDaySections(ids, base, token, sections); err != nil {
			return err
		}
	}

	return app.recordView(dispatch.ViewCalWeek, params)
}

func execCalMonth(app *App, args []string) error {
	params := dispatch.DefaultCalMonthParams()

	fs := flag.NewFlagSet("cal month", flag.ContinueOnError)
	fs.StringVar(&params.Date, "date", "", "any day of the month to show (date token, default today)")
	fs.BoolVar(&params.IncludeDeleted, "deleted", false, "include soft-deleted entities")
	fs.BoolVar(&params.ShowTasks, "tasks", params.ShowTasks, "show scheduled tasks")

	if err := fs.Parse(args); err != nil {
		return err
	}

	return runCalMonthView(app, params)
}

func runCalMonthView(app *App, params dispatch.CalMonthParams) error {
	anchor, err := resolveOrToday(app, params.Date)
	if err != nil {
		return err
	}

	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	base := dispatch.ListParams{IncludeDeleted: params.IncludeDeleted}
	ids := app.newAssigner()

	app.IO.Println(first.Format("January 2006"))

	for date := first; date.Month() == first.Month(); date = date.AddDate(0, 0, 1) {
		token := date.Format("2006-01-02")

		sections := []daySection{
			{"events", true, entity.TypeEvents, "start"},
			{"scheduled", params.ShowTasks, entity.TypeTasks, "scheduled"},
		}

		// Only days with something on them get printed.
		hasContent, err := app.daySectionsHaveContent(base, token, sections)
		if err != nil {
			return err
		}

		if !hasContent {
			continue
		}

		app.IO.Println(date.Format("Mon 2006-01-02"))

		if err := app.printDaySections(ids, base, token, sections); err != nil {
			return err
		}
	}

	return app.recordView(dispatch.ViewCalMonth, params)
}

type daySection struct {
	label    string
	enabled  bool
	entType  entity.Type
	property string
}

func (a *App) printDaySections(ids *assigner, base dispatch.ListParams, token string, sections []daySection) error {
	for _, section := range sections {
		if !section.enabled {
			continue
		}

		results, err := a.daySectionResults(base, token, section)
		if err != nil {
			return err
		}

		if len(results) == 0 {
			continue
		}

		a.IO.Printf("  %s:\n", section.label)

		for _, rec := range results {
			id, err := ids.id(section.entType, rec)
			if err != nil {
				return err
			}

			a.IO.Printf("  %s\n", formatRecord(id, rec))
		}
	}

	return nil
}

func (a *App) daySectionsHaveContent(base dispatch.ListParams, token string, sections []daySection) (bool, error) {
	for _, section := range sections {
		if !section.enabled {
			continue
		}

		results, err := a.daySectionResults(base, token, section)
		if err != nil {
			return false, err
		}

		if len(results) > 0 {
			return true, nil
		}
	}

	return false, nil
}

func (a *App) daySectionResults(base dispatch.ListParams, token string, section daySection) ([]entity.Record, error) {
	filter := listFilter(base, query.Date(section.property, "on:"+token))

	filter, err := a.contextFilter(filter)
	if err != nil {
		return nil, err
	}

	return a.evaluate(section.entType, filter)
}

func resolveOrToday(app *App, token string) (time.Time, error) {
	if token == "" {
		token = "today"
	}

	return query.ResolveDate(token, app.Now())
}
