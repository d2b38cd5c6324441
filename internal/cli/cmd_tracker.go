package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gran/internal/entity"

	flag "github.com/spf13/pflag"
)

var (
	errTrackerUsage = errors.New("usage: tracker <add|archive> ...")
	errEntryUsage   = errors.New("usage: entry add <tracker-id> <value> [flags]")
)

func newTrackerCommand() *Command {
	var unit string

	fs := flag.NewFlagSet("tracker", flag.ContinueOnError)
	fs.StringVar(&unit, "unit", "", "unit of measurement, e.g. km or pages")

	return &Command{
		Flags: fs,
		Usage: "tracker <add|archive> ...",
		Short: "Create and archive trackers",
		Long: `Trackers accumulate numeric entries over time.

  tracker add <name> [--unit <unit>]
  tracker archive <id>`,
		Exec: func(app *App, args []string) error {
			if len(args) == 0 {
				return errTrackerUsage
			}

			switch args[0] {
			case "add":
				return trackerAdd(app, args[1:], unit)
			case "archive":
				return trackerArchive(app, args[1:])
			}

			return fmt.Errorf("%w: unknown subcommand %q", errTrackerUsage, args[0])
		},
	}
}

func trackerAdd(app *App, args []string, unit string) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return fmt.Errorf("%w: name must not be empty", errTrackerUsage)
	}

	now := app.Now()

	tracker := &entity.Tracker{
		ID:      entity.NewID(),
		Name:    &name,
		Created: now,
		Updated: now,
	}

	if unit != "" {
		tracker.Unit = &unit
	}

	if err := app.applyContextDefaults(&tracker.Tags, &tracker.Projects); err != nil {
		return err
	}

	if err := app.Store.Trackers.Append(tracker); err != nil {
		return err
	}

	app.IO.Println("added:", name)

	return app.replayAfterMutation()
}

func trackerArchive(app *App, args []string) error {
	if len(args) != 1 {
		return errTrackerUsage
	}

	synthetic, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: id must be a number", errTrackerUsage)
	}

	rec, err := app.findByReference(entity.TypeTrackers, synthetic)
	if err != nil {
		return err
	}

	tracker, ok := rec.(*entity.Tracker)
	if !ok {
		return fmt.Errorf("%w: tracker %d", errEntityGone, synthetic)
	}

	now := app.Now()
	tracker.Archived = &now
	tracker.Updated = now
	app.Store.Trackers.MarkDirty()

	return app.replayAfterMutation()
}

func newEntryCommand() *Command {
	var (
		note     string
		occurred string
	)

	fs := flag.NewFlagSet("entry", flag.ContinueOnError)
	fs.StringVar(&note, "note", "", "note attached to the entry")
	fs.StringVar(&occurred, "occurred", "", "when the entry happened (date token, default now)")

	return &Command{
		Flags: fs,
		Usage: "entry add <tracker-id> <value> [flags]",
		Short: "Record a tracker entry",
		Exec: func(app *App, args []string) error {
			if len(args) != 3 || args[0] != "add" {
				return errEntryUsage
			}

			synthetic, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: tracker id must be a number", errEntryUsage)
			}

			value, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("%w: value must be a number", errEntryUsage)
			}

			trackerID, err := app.resolveReference(entity.TypeTrackers, synthetic)
			if err != nil {
				return err
			}

			now := app.Now()
			when := now

			if occurred != "" {
				when, err = resolveOrToday(app, occurred)
				if err != nil {
					return err
				}
			}

			entry := &entity.Entry{
				ID:        entity.NewID(),
				TrackerID: trackerID,
				Value:     value,
				Occurred:  &when,
				Created:   now,
				Updated:   now,
			}

			if note != "" {
				entry.Note = &note
			}

			if err := app.Store.Entries.Append(entry); err != nil {
				return err
			}

			app.IO.Printf("recorded: %s\n", args[2])

			return app.replayAfterMutation()
		},
	}
}
