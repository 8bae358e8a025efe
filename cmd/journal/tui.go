package main

import (
	"fmt"
	"runtime"

	"journal/internal/ui"

	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive dashboard (same as running journal with no command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(app)
		},
	}
}

func runTUI(app *App) error {
	j, err := app.openJournal()
	if err != nil {
		return err
	}
	// Save failures surface in the log; the dashboard keeps running.
	if err := ui.Run(ui.NewStore(j), ui.NewStyles(app.cfg), ui.AppConfigFrom(app.cfg)); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return app.saveErr
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "journal %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", date)
			fmt.Fprintf(cmd.OutOrStdout(), "  go:     %s\n", runtime.Version())
			return nil
		},
	}
}
