package cli

import (
	"sort"
	"time"

	"gran/internal/dispatch"
	"gran/internal/entity"
	"gran/internal/query"

	flag "github.com/spf13/pflag"
)

// DefaultStoryDays is how far back the story reaches when no --start is
// given.
const DefaultStoryDays = 7

func newStoryCommand() *Command {
	params := dispatch.DefaultStoryParams()

	fs := flag.NewFlagSet("story", flag.ContinueOnError)
	addListFlags(fs, &params.ListParams)
	fs.StringVar(&params.Start, "start", "", "window start (date token, default 7 days ago)")
	fs.StringVar(&params.End, "end", "", "window end (date token, default today)")
	fs.BoolVar(&params.ShowTasks, "tasks", params.ShowTasks, "show task activity")
	fs.BoolVar(&params.ShowTimeAudits, "audits", params.ShowTimeAudits, "show time audits")
	fs.BoolVar(&params.ShowEvents, "events", params.ShowEvents, "show events")
	fs.BoolVar(&params.ShowLogs, "logs", params.ShowLogs, "show logs")
	fs.BoolVar(&params.ShowNotes, "notes", params.ShowNotes, "show notes")

	return &Command{
		Flags: fs,
		Usage: "story [flags]",
		Short: "Chronological stream of everything that happened",
		Exec: func(app *App, _ []string) error {
			return runStoryView(app, params)
		},
	}
}

type storyItem struct {
	when    time.Time
	verb    string
	entType entity.Type
	rec     entity.Record
}

func runStoryView(app *App, params dispatch.StoryParams) error {
	start, end, err := storyWindow(app, params)
	if err != nil {
		return err
	}

	items, err := app.storyItems(params, start, end)
	if err != nil {
		return err
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].when.Before(items[j].when)
	})

	ids := app.newAssigner()

	for _, item := range items {
		id, err := ids.id(item.entType, item.rec)
		if err != nil {
			return err
		}

		app.IO.Printf("%s  %-9s %s\n", item.when.Local().Format(displayTime), item.verb, formatRecord(id, item.rec))
	}

	if len(items) == 0 {
		app.IO.Println("nothing happened")
	}

	return app.recordView(dispatch.ViewStory, params)
}

func storyWindow(app *App, params dispatch.StoryParams) (time.Time, time.Time, error) {
	now := app.Now()

	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -(DefaultStoryDays - 1))

	if params.Start != "" {
		resolved, err := query.ResolveDate(params.Start, now)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}

		start = resolved
	}

	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if params.End != "" {
		resolved, err := query.ResolveDate(params.End, now)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}

		end = resolved
	}

	return start, end, nil
}

// storySource is one (type, timestamp property) pair contributing to the
// stream. A type appears once per property, so a task both created and
// completed in the window shows up twice with the same synthetic id.
type storySource struct {
	enabled  bool
	entType  entity.Type
	property string
	verb     string
}

func (a *App) storyItems(params dispatch.StoryParams, start, end time.Time) ([]storyItem, error) {
	sources := []storySource{
		{params.ShowTasks, entity.TypeTasks, "created", "created"},
		{params.ShowTasks, entity.TypeTasks, "started", "started"},
		{params.ShowTasks, entity.TypeTasks, "completed", "completed"},
		{params.ShowTasks, entity.TypeTasks, "cancelled", "cancelled"},
		{params.ShowTimeAudits, entity.TypeTimeAudits, "start", "tracked"},
		{params.ShowEvents, entity.TypeEvents, "start", "event"},
		{params.ShowLogs, entity.TypeLogs, "created", "logged"},
		{params.ShowNotes, entity.TypeNotes, "created", "noted"},
	}

	var items []storyItem

	for _, source := range sources {
		if !source.enabled {
			continue
		}

		results, err := a.evaluateListed(source.entType, params.ListParams, dateWindow(source.property, start, end))
		if err != nil {
			return nil, err
		}

		for _, rec := range results {
			value, ok := rec.Get(source.property)
			if !ok {
				continue
			}

			when, isTime := value.TimeValue()
			if !isTime {
				continue
			}

			items = append(items, storyItem{
				when:    when,
				verb:    source.verb,
				entType: source.entType,
				rec:     rec,
			})
		}
	}

	return items, nil
}
