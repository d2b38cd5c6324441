package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gran/internal/entity"
	"gran/internal/query"

	flag "github.com/spf13/pflag"
)

var errTaskUsage = errors.New("usage: task <add|start|done|cancel|rm> ...")

var errEmptyDescription = errors.New("description must not be empty")

func newTaskCommand() *Command {
	var (
		tags      []string
		project   string
		scheduled string
		due       string
		priority  int
	)

	fs := flag.NewFlagSet("task", flag.ContinueOnError)
	fs.StringArrayVar(&tags, "tag", nil, "tag the new task (repeatable)")
	fs.StringVar(&project, "project", "", "assign the new task to a project")
	fs.StringVar(&scheduled, "scheduled", "", "scheduled date (date token)")
	fs.StringVar(&due, "due", "", "due date (date token)")
	fs.IntVar(&priority, "priority", 0, "priority, higher is more urgent")

	return &Command{
		Flags: fs,
		Usage: "task <add|start|done|cancel|rm> ...",
		Short: "Create and update tasks",
		Long: `Create a task or change its state. Mutations re-run the last list view
so the printed ids stay valid.

  task add <description> [flags]
  task start <id>
  task done <id>
  task cancel <id>
  task rm <id>`,
		Exec: func(app *App, args []string) error {
			if len(args) == 0 {
				return errTaskUsage
			}

			switch args[0] {
			case "add":
				return taskAdd(app, args[1:], tags, project, scheduled, due, priority)
			case "start":
				return taskStamp(app, args[1:], func(t *entity.Task, now time.Time) { t.Started = &now })
			case "done":
				return taskStamp(app, args[1:], func(t *entity.Task, now time.Time) { t.Completed = &now })
			case "cancel":
				return taskStamp(app, args[1:], func(t *entity.Task, now time.Time) { t.Cancelled = &now })
			case "rm":
				return taskStamp(app, args[1:], func(t *entity.Task, now time.Time) { t.Deleted = &now })
			}

			return fmt.Errorf("%w: unknown subcommand %q", errTaskUsage, args[0])
		},
	}
}

func taskAdd(app *App, args, tags []string, project, scheduled, due string, priority int) error {
	description := strings.TrimSpace(strings.Join(args, " "))
	if description == "" {
		return errEmptyDescription
	}

	now := app.Now()

	task := &entity.Task{
		ID:          entity.NewID(),
		Description: &description,
		Tags:        tags,
		Created:     now,
		Updated:     now,
	}

	if project != "" {
		task.Projects = []string{project}
	}

	if priority != 0 {
		task.Priority = &priority
	}

	if scheduled != "" {
		when, err := query.ResolveDate(scheduled, now)
		if err != nil {
			return err
		}

		task.Scheduled = &when
	}

	if due != "" {
		when, err := query.ResolveDate(due, now)
		if err != nil {
			return err
		}

		task.Due = &when
	}

	if err := app.applyContextDefaults(&task.Tags, &task.Projects); err != nil {
		return err
	}

	if err := app.Store.Tasks.Append(task); err != nil {
		return err
	}

	app.IO.Println("added:", description)

	return app.replayAfterMutation()
}

func taskStamp(app *App, args []string, stamp func(*entity.Task, time.Time)) error {
	if len(args) != 1 {
		return errTaskUsage
	}

	synthetic, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: id must be a number", errTaskUsage)
	}

	rec, err := app.findByReference(entity.TypeTasks, synthetic)
	if err != nil {
		return err
	}

	task, ok := rec.(*entity.Task)
	if !ok {
		return fmt.Errorf("%w: task %d", errEntityGone, synthetic)
	}

	now := app.Now()
	stamp(task, now)
	task.Updated = now
	app.Store.Tasks.MarkDirty()

	return app.replayAfterMutation()
}

// applyContextDefaults stamps the active context's auto tags and project
// onto a new entity.
func (a *App) applyContextDefaults(tags *[]string, projects *[]string) error {
	active, err := a.Store.Contexts.Active()
	if err != nil {
		return err
	}

	if active == nil {
		return nil
	}

	for _, tag := range active.AutoTags {
		if !contains(*tags, tag) {
			*tags = append(*tags, tag)
		}
	}

	if projects != nil && active.AutoProject != "" && !contains(*projects, active.AutoProject) {
		*projects = append(*projects, active.AutoProject)
	}

	return nil
}

func contains(list []string, want string) bool {
	for _, have := range list {
		if have == want {
			return true
		}
	}

	return false
}
