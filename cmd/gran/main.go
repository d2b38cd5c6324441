// Package main provides gran, a plain-file tracker for tasks, time and
// everything around them.
package main

import (
	"os"

	"gran/internal/cli"
)

func main() {
	exitCode := cli.Run(os.Stdout, os.Stderr, os.Args, os.Environ())

	os.Exit(exitCode)
}
