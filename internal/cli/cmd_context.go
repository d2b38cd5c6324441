package cli

import (
	"errors"
	"fmt"
	"strings"

	"gran/internal/entity"
	"gran/internal/query"
	"gran/internal/storage"

	flag "github.com/spf13/pflag"
)

var errContextUsage = errors.New("usage: context <ls|add|use|off> ...")

func newContextCommand() *Command {
	var (
		tags        []string
		tagRegex    []string
		project     string
		autoTags    []string
		autoProject string
	)

	fs := flag.NewFlagSet("context", flag.ContinueOnError)
	fs.StringArrayVar(&tags, "tag", nil, "filter: require an exact tag (repeatable)")
	fs.StringArrayVar(&tagRegex, "tag-regex", nil, "filter: require a tag matching the pattern (repeatable)")
	fs.StringVar(&project, "project", "", "filter: require an exact project")
	fs.StringArrayVar(&autoTags, "auto-tag", nil, "tag stamped onto new entities (repeatable)")
	fs.StringVar(&autoProject, "auto-project", "", "project stamped onto new entities")

	return &Command{
		Flags: fs,
		Usage: "context <ls|add|use|off> ...",
		Short: "Manage saved contexts",
		Long: `A context is a named filter applied to every list view while active,
plus tags and a project stamped onto newly created entities.

  context ls
  context add <name> [filter flags]
  context use <name>
  context off`,
		Exec: func(app *App, args []string) error {
			if len(args) == 0 {
				return errContextUsage
			}

			switch args[0] {
			case "ls":
				return contextLs(app)
			case "add":
				return contextAdd(app, args[1:], tags, tagRegex, project, autoTags, autoProject)
			case "use":
				if len(args) != 2 {
					return errContextUsage
				}

				if err := app.Store.Contexts.Use(args[1], app.Now()); err != nil {
					return err
				}

				app.IO.Println("context:", args[1])

				return app.replayAfterMutation()
			case "off":
				if err := app.Store.Contexts.Off(app.Now()); err != nil {
					return err
				}

				app.IO.Println("context off")

				return app.replayAfterMutation()
			}

			return fmt.Errorf("%w: unknown subcommand %q", errContextUsage, args[0])
		},
	}
}

func contextLs(app *App) error {
	contexts, err := app.Store.Contexts.All()
	if err != nil {
		return err
	}

	for _, ctx := range contexts {
		marker := " "
		if ctx.Active {
			marker = "*"
		}

		app.IO.Printf("%s %s\n", marker, ctx.Name)
	}

	if len(contexts) == 0 {
		app.IO.Println("no contexts")
	}

	return nil
}

func contextAdd(
	app *App, args, tags, tagRegex []string, project string, autoTags []string, autoProject string,
) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return fmt.Errorf("%w: name must not be empty", errContextUsage)
	}

	filter := contextFilterSpec(tags, tagRegex, project)

	// Reject unusable filters now, not at first list view.
	if filter != nil {
		if _, err := query.Compile(filter); err != nil {
			return err
		}
	}

	now := app.Now()

	err := app.Store.Contexts.Add(&storage.Context{
		ID:          entity.NewID(),
		Name:        name,
		AutoTags:    autoTags,
		AutoProject: autoProject,
		Filter:      filter,
		Created:     now,
		Updated:     now,
	})
	if err != nil {
		return err
	}

	app.IO.Println("added context:", name)

	return nil
}

// contextFilterSpec builds the saved filter tree, or nil when the context
// has no filter flags at all.
func contextFilterSpec(tags, tagRegex []string, project string) *query.Spec {
	var children []*query.Spec

	for _, tag := range tags {
		children = append(children, query.Tag(tag))
	}

	for _, pattern := range tagRegex {
		children = append(children, query.TagRegex(pattern))
	}

	if project != "" {
		children = append(children, query.Str(entity.PropertyProjects, "contains:"+project))
	}

	if len(children) == 0 {
		return nil
	}

	return query.And(children...)
}
