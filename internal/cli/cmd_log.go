package cli

import (
	"errors"
	"fmt"
	"strings"

	"gran/internal/entity"

	flag "github.com/spf13/pflag"
)

var (
	errLogUsage  = errors.New("usage: log add <message> [flags]")
	errNoteUsage = errors.New("usage: note add <title> [flags]")
)

func newLogCommand() *Command {
	var (
		tags    []string
		taskRef int
	)

	fs := flag.NewFlagSet("log", flag.ContinueOnError)
	fs.StringArrayVar(&tags, "tag", nil, "tag the new log (repeatable)")
	fs.IntVar(&taskRef, "task", 0, "reference a task by id")

	return &Command{
		Flags: fs,
		Usage: "log add <message> [flags]",
		Short: "Record a log line",
		Exec: func(app *App, args []string) error {
			if len(args) == 0 || args[0] != "add" {
				return errLogUsage
			}

			message := strings.TrimSpace(strings.Join(args[1:], " "))
			if message == "" {
				return fmt.Errorf("%w: message must not be empty", errLogUsage)
			}

			now := app.Now()

			entry := &entity.Log{
				ID:      entity.NewID(),
				Message: &message,
				Tags:    tags,
				Created: now,
				Updated: now,
			}

			if taskRef != 0 {
				taskID, err := app.resolveReference(entity.TypeTasks, taskRef)
				if err != nil {
					return err
				}

				refType := string(entity.TypeTasks)
				entry.ReferenceType = &refType
				entry.ReferenceID = &taskID
			}

			if err := app.applyContextDefaults(&entry.Tags, &entry.Projects); err != nil {
				return err
			}

			if err := app.Store.Logs.Append(entry); err != nil {
				return err
			}

			app.IO.Println("logged:", message)

			return app.replayAfterMutation()
		},
	}
}

func newNoteCommand() *Command {
	var (
		tags    []string
		body    string
		taskRef int
	)

	fs := flag.NewFlagSet("note", flag.ContinueOnError)
	fs.StringArrayVar(&tags, "tag", nil, "tag the new note (repeatable)")
	fs.StringVar(&body, "body", "", "note body")
	fs.IntVar(&taskRef, "task", 0, "reference a task by id")

	return &Command{
		Flags: fs,
		Usage: "note add <title> [flags]",
		Short: "Record a note",
		Exec: func(app *App, args []string) error {
			if len(args) == 0 || args[0] != "add" {
				return errNoteUsage
			}

			title := strings.TrimSpace(strings.Join(args[1:], " "))
			if title == "" {
				return fmt.Errorf("%w: title must not be empty", errNoteUsage)
			}

			now := app.Now()

			note := &entity.Note{
				ID:      entity.NewID(),
				Title:   &title,
				Tags:    tags,
				Created: now,
				Updated: now,
			}

			if body != "" {
				note.Body = &body
			}

			if taskRef != 0 {
				taskID, err := app.resolveReference(entity.TypeTasks, taskRef)
				if err != nil {
					return err
				}

				refType := string(entity.TypeTasks)
				note.ReferenceType = &refType
				note.ReferenceID = &taskID
			}

			if err := app.applyContextDefaults(&note.Tags, &note.Projects); err != nil {
				return err
			}

			if err := app.Store.Notes.Append(note); err != nil {
				return err
			}

			app.IO.Println("noted:", title)

			return app.replayAfterMutation()
		},
	}
}
