package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"gran/internal/entity"

	flag "github.com/spf13/pflag"
)

var errShowUsage = errors.New("usage: show <task|audit|event|span|log|note|tracker|entry> <id>")

// typeAliases maps the singular names used on the command line to entity
// types.
//
//nolint:gochecknoglobals // package-level constant
var typeAliases = map[string]entity.Type{
	"task":    entity.TypeTasks,
	"audit":   entity.TypeTimeAudits,
	"event":   entity.TypeEvents,
	"span":    entity.TypeTimespans,
	"log":     entity.TypeLogs,
	"note":    entity.TypeNotes,
	"tracker": entity.TypeTrackers,
	"entry":   entity.TypeEntries,
}

// newShowCommand renders a single entity in full. Detail views never touch
// the dispatch cache and never shift the reference epoch, so "show task 3"
// followed by "task done 3" acts on the same task.
func newShowCommand() *Command {
	return &Command{
		Flags: flag.NewFlagSet("show", flag.ContinueOnError),
		Usage: "show <type> <id>",
		Short: "Show one entity in full",
		Long: `Show every property of a single entity, addressed by the id printed in
the most recent list view. Types: task, audit, event, span, log, note,
tracker, entry.`,
		Exec: func(app *App, args []string) error {
			if len(args) != 2 {
				return errShowUsage
			}

			t, ok := typeAliases[args[0]]
			if !ok {
				return fmt.Errorf("%w: unknown type %q", errShowUsage, args[0])
			}

			synthetic, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: id must be a number", errShowUsage)
			}

			rec, err := app.findByReference(t, synthetic)
			if err != nil {
				return err
			}

			raw, err := yaml.Marshal(rec)
			if err != nil {
				return fmt.Errorf("encoding %s: %w", args[0], err)
			}

			app.IO.Printf("%s\n", strings.TrimRight(string(raw), "\n"))

			return nil
		},
	}
}

var errEntityGone = errors.New("entity no longer exists")

// findByReference resolves a synthetic id and loads the matching record.
func (a *App) findByReference(t entity.Type, synthetic int) (entity.Record, error) {
	permanentID, err := a.resolveReference(t, synthetic)
	if err != nil {
		return nil, err
	}

	records, err := a.Store.Records(t)
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		if rec.EntityID() == permanentID {
			return rec, nil
		}
	}

	return nil, fmt.Errorf("%w: %s %d", errEntityGone, t, synthetic)
}
