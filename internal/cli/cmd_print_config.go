package cli

import flag "github.com/spf13/pflag"

func newPrintConfigCommand() *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Print the effective configuration and its sources",
		Exec: func(app *App, _ []string) error {
			formatted, err := FormatConfig(app.Config)
			if err != nil {
				return err
			}

			app.IO.Println(formatted)

			if app.Sources.Global != "" {
				app.IO.Println("global config:", app.Sources.Global)
			}

			if app.Sources.Project != "" {
				app.IO.Println("project config:", app.Sources.Project)
			}

			return nil
		},
	}
}
