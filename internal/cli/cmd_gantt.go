package cli

import (
	"strings"
	"time"

	"gran/internal/dispatch"
	"gran/internal/entity"
	"gran/internal/query"

	flag "github.com/spf13/pflag"
)

// DefaultGanttDays is the gantt window when no --start/--end is given.
const DefaultGanttDays = 14

func newGanttCommand() *Command {
	params := dispatch.DefaultGanttParams()

	fs := flag.NewFlagSet("gantt", flag.ContinueOnError)
	addListFlags(fs, &params.ListParams)
	fs.StringVar(&params.Start, "start", "", "window start (date token, default today)")
	fs.StringVar(&params.End, "end", "", "window end (date token, default start+13 days)")
	fs.BoolVar(&params.ShowTasks, "tasks", params.ShowTasks, "show tasks")
	fs.BoolVar(&params.ShowTimespans, "spans", params.ShowTimespans, "show timespans")
	fs.BoolVar(&params.ShowEvents, "events", params.ShowEvents, "show events")

	return &Command{
		Flags: fs,
		Usage: "gantt [flags]",
		Short: "Bar chart of tasks, timespans and events over a window",
		Exec: func(app *App, _ []string) error {
			return runGanttView(app, params)
		},
	}
}

type ganttRow struct {
	entType entity.Type
	rec     entity.Record
	start   *time.Time
	end     *time.Time
	label   string
}

func runGanttView(app *App, params dispatch.GanttParams) error {
	start, end, err := ganttWindow(app, params)
	if err != nil {
		return err
	}

	rows, err := app.ganttRows(params, start, end)
	if err != nil {
		return err
	}

	days := int(end.Sub(start).Hours()/24) + 1
	ids := app.newAssigner()

	app.IO.Printf("%s .. %s\n", start.Format("2006-01-02"), end.Format("2006-01-02"))

	for _, row := range rows {
		id, err := ids.id(row.entType, row.rec)
		if err != nil {
			return err
		}

		app.IO.Printf("%3d  %-30s |%s|\n", id, truncate(row.label, 30), ganttBar(row, start, days))
	}

	if len(rows) == 0 {
		app.IO.Println("nothing in window")
	}

	return app.recordView(dispatch.ViewGantt, params)
}

func ganttWindow(app *App, params dispatch.GanttParams) (time.Time, time.Time, error) {
	startToken := params.Start
	if startToken == "" {
		startToken = "today"
	}

	start, err := query.ResolveDate(startToken, app.Now())
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if params.End == "" {
		return start, start.AddDate(0, 0, DefaultGanttDays-1), nil
	}

	end, err := query.ResolveDate(params.End, app.Now())
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	return start, end, nil
}

func (a *App) ganttRows(params dispatch.GanttParams, start, end time.Time) ([]ganttRow, error) {
	var rows []ganttRow

	if params.ShowTasks {
		// A task lands in the window when its scheduled or due date does.
		inWindow := query.Or(
			dateWindow("scheduled", start, end),
			dateWindow("due", start, end),
		)

		results, err := a.evaluateListed(entity.TypeTasks, params.ListParams, inWindow)
		if err != nil {
			return nil, err
		}

		for _, rec := range results {
			task, ok := rec.(*entity.Task)
			if !ok {
				continue
			}

			rows = append(rows, ganttRow{
				entType: entity.TypeTasks,
				rec:     rec,
				start:   task.Scheduled,
				end:     task.Due,
				label:   deref(task.Description),
			})
		}
	}

	if params.ShowTimespans {
		spanRows, err := a.ganttSpanRows(entity.TypeTimespans, params.ListParams, start, end)
		if err != nil {
			return nil, err
		}

		rows = append(rows, spanRows...)
	}

	if params.ShowEvents {
		eventRows, err := a.ganttSpanRows(entity.TypeEvents, params.ListParams, start, end)
		if err != nil {
			return nil, err
		}

		rows = append(rows, eventRows...)
	}

	return rows, nil
}

func (a *App) ganttSpanRows(
	t entity.Type, base dispatch.ListParams, start, end time.Time,
) ([]ganttRow, error) {
	inWindow := query.Or(
		dateWindow("start", start, end),
		dateWindow("end", start, end),
	)

	results, err := a.evaluateListed(t, base, inWindow)
	if err != nil {
		return nil, err
	}

	rows := make([]ganttRow, 0, len(results))

	for _, rec := range results {
		row := ganttRow{entType: t, rec: rec}

		switch r := rec.(type) {
		case *entity.Timespan:
			row.start, row.end, row.label = r.Start, r.End, deref(r.Description)
		case *entity.Event:
			row.start, row.end, row.label = r.Start, r.End, deref(r.Description)
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// evaluateListed applies the shared list flags, the active context and one
// extra predicate to a type.
func (a *App) evaluateListed(t entity.Type, base dispatch.ListParams, extra *query.Spec) ([]entity.Record, error) {
	filter, err := a.contextFilter(listFilter(base, extra))
	if err != nil {
		return nil, err
	}

	return a.evaluate(t, filter)
}

// dateWindow matches property values in [start, end] (whole days). Built
// from the primitive date predicates: not-before start, before the day
// after end.
func dateWindow(property string, start, end time.Time) *query.Spec {
	return query.And(
		query.Not(query.Date(property, "before:"+start.Format("2006-01-02"))),
		query.Date(property, "before:"+end.AddDate(0, 0, 1).Format("2006-01-02")),
	)
}

func ganttBar(row ganttRow, windowStart time.Time, days int) string {
	cells := make([]byte, days)
	for i := range cells {
		cells[i] = ' '
	}

	from := 0
	if row.start != nil {
		from = dayOffset(windowStart, *row.start)
	}

	to := days - 1
	if row.end != nil {
		to = dayOffset(windowStart, *row.end)
	}

	for i := max(from, 0); i <= min(to, days-1); i++ {
		cells[i] = '#'
	}

	return string(cells)
}

func dayOffset(windowStart, t time.Time) int {
	return int(t.Sub(windowStart).Hours() / 24)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return strings.TrimSpace(s[:n-1]) + "…"
}
