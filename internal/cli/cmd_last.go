package cli

import (
	"errors"

	"gran/internal/dispatch"

	flag "github.com/spf13/pflag"
)

// newLastCommand re-renders the most recently recorded list view. A missing
// or unrecognized record is reported, never fatal: the cache is a
// convenience, not data.
func newLastCommand() *Command {
	return &Command{
		Flags: flag.NewFlagSet("last", flag.ContinueOnError),
		Usage: "last",
		Short: "Re-render the most recent list view",
		Exec: func(app *App, _ []string) error {
			rec, ok, err := app.Dispatch.Get()
			if err != nil {
				return err
			}

			if !ok {
				app.IO.Println("no cached view")

				return nil
			}

			replayErr := app.Router.Replay(rec)
			if errors.Is(replayErr, dispatch.ErrDeprecatedViewKind) {
				app.IO.Warn("%v", replayErr)

				return nil
			}

			return replayErr
		},
	}
}
