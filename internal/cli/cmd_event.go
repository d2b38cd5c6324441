package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gran/internal/entity"
	"gran/internal/query"

	flag "github.com/spf13/pflag"
)

// Events and timespans are created the same way: a description plus an
// optional start/end pair of date tokens.

var errSpanLikeUsage = errors.New("usage: <event|span> add <description> [flags]")

func newEventCommand() *Command {
	var (
		tags       []string
		start, end string
		allDay     bool
	)

	fs := flag.NewFlagSet("event", flag.ContinueOnError)
	fs.StringArrayVar(&tags, "tag", nil, "tag the new event (repeatable)")
	fs.StringVar(&start, "start", "", "start (date token)")
	fs.StringVar(&end, "end", "", "end (date token)")
	fs.BoolVar(&allDay, "all-day", false, "mark as an all-day event")

	return &Command{
		Flags: fs,
		Usage: "event add <description> [flags]",
		Short: "Create an event",
		Exec: func(app *App, args []string) error {
			description, err := spanLikeArgs(args)
			if err != nil {
				return err
			}

			now := app.Now()

			event := &entity.Event{
				ID:          entity.NewID(),
				Description: &description,
				Tags:        tags,
				AllDay:      allDay,
				Created:     now,
				Updated:     now,
			}

			event.Start, event.End, err = spanLikeWindow(now, start, end)
			if err != nil {
				return err
			}

			if err := app.applyContextDefaults(&event.Tags, &event.Projects); err != nil {
				return err
			}

			if err := app.Store.Events.Append(event); err != nil {
				return err
			}

			app.IO.Println("added:", description)

			return app.replayAfterMutation()
		},
	}
}

func newSpanCommand() *Command {
	var (
		tags       []string
		start, end string
	)

	fs := flag.NewFlagSet("span", flag.ContinueOnError)
	fs.StringArrayVar(&tags, "tag", nil, "tag the new timespan (repeatable)")
	fs.StringVar(&start, "start", "", "start (date token)")
	fs.StringVar(&end, "end", "", "end (date token)")

	return &Command{
		Flags: fs,
		Usage: "span add <description> [flags]",
		Short: "Create a timespan",
		Exec: func(app *App, args []string) error {
			description, err := spanLikeArgs(args)
			if err != nil {
				return err
			}

			now := app.Now()

			span := &entity.Timespan{
				ID:          entity.NewID(),
				Description: &description,
				Tags:        tags,
				Created:     now,
				Updated:     now,
			}

			span.Start, span.End, err = spanLikeWindow(now, start, end)
			if err != nil {
				return err
			}

			if err := app.applyContextDefaults(&span.Tags, &span.Projects); err != nil {
				return err
			}

			if err := app.Store.Timespans.Append(span); err != nil {
				return err
			}

			app.IO.Println("added:", description)

			return app.replayAfterMutation()
		},
	}
}

func spanLikeArgs(args []string) (string, error) {
	if len(args) == 0 || args[0] != "add" {
		return "", errSpanLikeUsage
	}

	description := strings.TrimSpace(strings.Join(args[1:], " "))
	if description == "" {
		return "", fmt.Errorf("%w: %w", errSpanLikeUsage, errEmptyDescription)
	}

	return description, nil
}

func spanLikeWindow(now time.Time, startToken, endToken string) (*time.Time, *time.Time, error) {
	var start, end *time.Time

	if startToken != "" {
		resolved, err := query.ResolveDate(startToken, now)
		if err != nil {
			return nil, nil, err
		}

		start = &resolved
	}

	if endToken != "" {
		resolved, err := query.ResolveDate(endToken, now)
		if err != nil {
			return nil, nil, err
		}

		end = &resolved
	}

	return start, end, nil
}
