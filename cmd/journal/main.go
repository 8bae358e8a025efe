// Package main is the entry point for the journal application.
// It loads configuration, opens the configured storage backend and runs
// either a scriptable subcommand or the TUI.
package main

import (
	"os"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd(&App{}).Execute(); err != nil {
		os.Exit(1)
	}
}
