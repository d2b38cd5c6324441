// Package cli implements the gran command line interface: global flag and
// config handling, the command registry, and the replay wiring between the
// dispatch cache and the list views.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gran/internal/dispatch"
	"gran/internal/idmap"
	"gran/internal/storage"
)

// globalFlags are parsed by hand before the command so they may appear
// anywhere in front of it.
type globalFlags struct {
	workDir    string
	configPath string
	dataDir    string
	remaining  []string
}

var errMissingFlagValue = errors.New("flag needs a value")

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	i := 0

	for i < len(args) {
		arg := args[i]

		takeValue := func(name string) (string, error) {
			if i+1 >= len(args) {
				return "", fmt.Errorf("%w: %s", errMissingFlagValue, name)
			}

			i++

			return args[i], nil
		}

		switch arg {
		case "-C":
			value, err := takeValue(arg)
			if err != nil {
				return globalFlags{}, err
			}

			flags.workDir = value
		case "--config":
			value, err := takeValue(arg)
			if err != nil {
				return globalFlags{}, err
			}

			flags.configPath = value
		case "--data-dir":
			value, err := takeValue(arg)
			if err != nil {
				return globalFlags{}, err
			}

			flags.dataDir = value
		default:
			flags.remaining = args[i:]

			return flags, nil
		}

		i++
	}

	return flags, nil
}

// commands returns a fresh registry. Commands hold parsed flag state, so
// the registry is rebuilt per invocation.
func commands() []*Command {
	return []*Command{
		newTasksCommand(),
		newAuditsCommand(),
		newEventsCommand(),
		newSpansCommand(),
		newLogsCommand(),
		newNotesCommand(),
		newTrackersCommand(),
		newEntriesCommand(),
		newAgendaCommand(),
		newCalCommand(),
		newGanttCommand(),
		newStoryCommand(),
		newShowCommand(),
		newTaskCommand(),
		newAuditCommand(),
		newEventCommand(),
		newSpanCommand(),
		newLogCommand(),
		newNoteCommand(),
		newTrackerCommand(),
		newEntryCommand(),
		newContextCommand(),
		newLastCommand(),
		newPrintConfigCommand(),
	}
}

// registerReplayHandlers wires every list view into the dispatch router.
// Each handler decodes the persisted params onto a defaults-initialized
// struct, so records written by an older build replay with current
// defaults filled in.
func registerReplayHandlers(app *App) {
	replay(app, dispatch.ViewTasks, dispatch.TasksParams{}, runTasksView)
	replay(app, dispatch.ViewTimeAudits, dispatch.TimeAuditsParams{}, runAuditsView)
	replay(app, dispatch.ViewEvents, dispatch.EventsParams{}, runEventsView)
	replay(app, dispatch.ViewTimespans, dispatch.TimespansParams{}, runSpansView)
	replay(app, dispatch.ViewLogs, dispatch.LogsParams{}, runLogsView)
	replay(app, dispatch.ViewNotes, dispatch.NotesParams{}, runNotesView)
	replay(app, dispatch.ViewTrackers, dispatch.TrackersParams{}, runTrackersView)
	replay(app, dispatch.ViewEntries, dispatch.DefaultEntriesParams(), runEntriesView)
	replay(app, dispatch.ViewAgenda, dispatch.DefaultAgendaParams(), runAgendaView)
	replay(app, dispatch.ViewCalDay, dispatch.DefaultCalDayParams(), runCalDayView)
	replay(app, dispatch.ViewCalWeek, dispatch.DefaultCalWeekParams(), runCalWeekView)
	replay(app, dispatch.ViewCalMonth, dispatch.DefaultCalMonthParams(), runCalMonthView)
	replay(app, dispatch.ViewGantt, dispatch.DefaultGanttParams(), runGanttView)
	replay(app, dispatch.ViewStory, dispatch.DefaultStoryParams(), runStoryView)
}

func replay[P any](app *App, kind dispatch.ViewKind, defaults P, run func(*App, P) error) {
	app.Router.Register(kind, func(params map[string]any) error {
		decoded := defaults

		if err := dispatch.DecodeParams(params, &decoded); err != nil {
			return err
		}

		return run(app, decoded)
	})
}

// Run is the main entry point. Returns exit code.
func Run(out, errOut io.Writer, args []string, env []string) int {
	ioCtx := NewIO(out, errOut)

	if len(args) < 2 {
		printUsage(ioCtx)

		return 0
	}

	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		ioCtx.ErrPrintln("error:", err)

		return 1
	}

	workDir := flags.workDir
	if workDir == "" {
		workDir, err = os.Getwd()
		if err != nil {
			ioCtx.ErrPrintln("error: cannot get working directory:", err)

			return 1
		}
	}

	cfg, sources, err := LoadConfig(workDir, flags.configPath, flags.dataDir, env)
	if err != nil {
		ioCtx.ErrPrintln("error:", err)

		return 1
	}

	if len(flags.remaining) == 0 {
		printUsage(ioCtx)

		return 0
	}

	name := flags.remaining[0]
	if name == "-h" || name == "--help" || name == "help" {
		printUsage(ioCtx)

		return 0
	}

	var cmd *Command

	for _, candidate := range commands() {
		if candidate.Name() == name {
			cmd = candidate

			break
		}
	}

	if cmd == nil {
		ioCtx.ErrPrintln("error: unknown command:", name)
		printUsage(ioCtx)

		return 1
	}

	app, err := newApp(cfg, sources, workDir, ioCtx)
	if err != nil {
		ioCtx.ErrPrintln("error:", err)

		return 1
	}

	code := cmd.Run(app, flags.remaining[1:])
	if code == 0 {
		if flushErr := app.Flush(); flushErr != nil {
			ioCtx.ErrPrintln("error:", flushErr)

			code = 1
		}
	}

	if finish := ioCtx.Finish(); code == 0 {
		code = finish
	}

	return code
}

// newApp opens storage, runs pending migrations, and wires the replay
// router.
func newApp(cfg Config, sources ConfigSources, workDir string, ioCtx *IO) (*App, error) {
	dataDir := cfg.DataDir
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(workDir, dataDir)
	}

	paths := storage.NewPaths(dataDir)

	app := &App{
		Config:   cfg,
		Sources:  sources,
		Paths:    paths,
		Store:    storage.Open(paths),
		IDs:      idmap.NewRepository(paths.IDMap),
		Dispatch: dispatch.NewRepository(paths.Dispatch),
		Router:   dispatch.NewRouter(),
		IO:       ioCtx,
		Now:      time.Now,
	}

	ran, err := storage.RunRequiredMigrations(paths, app.Store, app.IDs, app.Dispatch)
	if err != nil {
		return nil, fmt.Errorf("migrating data files: %w", err)
	}

	if ran > 0 {
		ioCtx.ErrPrintln("migrated data files:", ran, "migration(s) applied")
	}

	registerReplayHandlers(app)

	return app, nil
}

func printUsage(o *IO) {
	o.Println("Usage: gran [global flags] <command> [flags]")
	o.Println()
	o.Println("Global flags:")
	o.Println("  -C <dir>           run as if started in <dir>")
	o.Println("  --config <file>    explicit config file")
	o.Println("  --data-dir <dir>   override the data directory")
	o.Println()
	o.Println("Commands:")

	for _, cmd := range commands() {
		o.Println(cmd.HelpLine())
	}

	o.Println()
	o.Println("Run 'gran <command> --help' for command details.")
}
