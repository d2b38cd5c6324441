package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gran/internal/entity"

	flag "github.com/spf13/pflag"
)

var (
	errAuditUsage     = errors.New("usage: audit <start|stop> ...")
	errAuditRunning   = errors.New("an audit is already running")
	errNoAuditRunning = errors.New("no audit is running")
)

func newAuditCommand() *Command {
	var (
		tags     []string
		taskRefs []int
	)

	fs := flag.NewFlagSet("audit", flag.ContinueOnError)
	fs.StringArrayVar(&tags, "tag", nil, "tag the new audit (repeatable)")
	fs.IntSliceVar(&taskRefs, "task", nil, "link the audit to a task id (repeatable)")

	return &Command{
		Flags: fs,
		Usage: "audit <start|stop> [description] [flags]",
		Short: "Start and stop time audits",
		Long: `Track time. At most one audit runs at a time.

  audit start [description] [--task <id>] [--tag <tag>]
  audit stop`,
		Exec: func(app *App, args []string) error {
			if len(args) == 0 {
				return errAuditUsage
			}

			switch args[0] {
			case "start":
				return auditStart(app, args[1:], tags, taskRefs)
			case "stop":
				return auditStop(app)
			}

			return fmt.Errorf("%w: unknown subcommand %q", errAuditUsage, args[0])
		},
	}
}

func auditStart(app *App, args, tags []string, taskRefs []int) error {
	running, err := runningAudit(app)
	if err != nil {
		return err
	}

	if running != nil {
		return fmt.Errorf("%w: %s", errAuditRunning, deref(running.Description))
	}

	now := app.Now()

	audit := &entity.TimeAudit{
		ID:      entity.NewID(),
		Tags:    tags,
		Start:   &now,
		Created: now,
		Updated: now,
	}

	if description := strings.TrimSpace(strings.Join(args, " ")); description != "" {
		audit.Description = &description
	}

	for _, ref := range taskRefs {
		taskID, resolveErr := app.resolveReference(entity.TypeTasks, ref)
		if resolveErr != nil {
			return resolveErr
		}

		audit.TaskIDs = append(audit.TaskIDs, taskID)
	}

	if err := app.applyContextDefaults(&audit.Tags, &audit.Projects); err != nil {
		return err
	}

	if err := app.Store.TimeAudits.Append(audit); err != nil {
		return err
	}

	app.IO.Println("audit started", now.Local().Format(displayTime))

	return app.replayAfterMutation()
}

func auditStop(app *App) error {
	running, err := runningAudit(app)
	if err != nil {
		return err
	}

	if running == nil {
		return errNoAuditRunning
	}

	now := app.Now()
	running.End = &now
	running.Updated = now
	app.Store.TimeAudits.MarkDirty()

	elapsed := now.Sub(*running.Start).Round(time.Second)
	app.IO.Println("audit stopped after", elapsed.String())

	return app.replayAfterMutation()
}

func runningAudit(app *App) (*entity.TimeAudit, error) {
	audits, err := app.Store.TimeAudits.All()
	if err != nil {
		return nil, err
	}

	for _, audit := range audits {
		if audit.Deleted == nil && audit.Active() {
			return audit, nil
		}
	}

	return nil, nil //nolint:nilnil // no running audit is a valid state
}
