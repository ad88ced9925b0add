package main

import (
	"os"

	"github.com/modkit-labs/modkit/internal/cli"
)

// version, commit, and date are set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(cli.ExitCode(cli.Execute(version, commit, date)))
}
