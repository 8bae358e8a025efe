package main

import (
	"fmt"

	"journal/internal/journal"
	"journal/internal/reports"

	"github.com/spf13/cobra"
)

type reportOptions struct {
	format string
	output string
	render bool
	style  string
	width  int
}

func newReportCmd(app *App) *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate daily and weekly reports (Markdown or JSON)",
	}
	cmd.PersistentFlags().StringVarP(&opts.format, "format", "f", "md", "Output format: md or json")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "", "Write to file instead of stdout")
	cmd.PersistentFlags().BoolVarP(&opts.render, "render", "r", false, "Render Markdown for the terminal")
	cmd.PersistentFlags().StringVar(&opts.style, "style", "", "Render style: dark, light, notty, ascii (default from config)")
	cmd.PersistentFlags().IntVar(&opts.width, "width", 0, "Render word-wrap width (default from config)")

	cmd.AddCommand(&cobra.Command{
		Use:   "daily [DATE]",
		Short: "Tasks, notes and habits for one day (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, app, opts, dateArg(args, 0), false)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "weekly [DATE]",
		Short: "The Sunday-to-Saturday week containing DATE (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, app, opts, dateArg(args, 0), true)
		},
	})
	return cmd
}

func runReport(cmd *cobra.Command, app *App, opts *reportOptions, arg string, weekly bool) error {
	format, err := reports.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	return app.withJournal(func(j *journal.Journal) error {
		gen := reports.NewGenerator(j)
		date := resolveDate(j, arg)

		var output string
		if weekly {
			report, err := gen.GenerateWeekly(date)
			if err != nil {
				return fmt.Errorf("generate weekly report: %w", err)
			}
			if format == reports.FormatJSON {
				data, err := reports.FormatWeeklyJSON(report)
				if err != nil {
					return fmt.Errorf("format JSON: %w", err)
				}
				output = string(data) + "\n"
			} else {
				output = reports.FormatWeeklyMarkdown(report)
			}
		} else {
			report, err := gen.GenerateDaily(date)
			if err != nil {
				return fmt.Errorf("generate daily report: %w", err)
			}
			if format == reports.FormatJSON {
				data, err := reports.FormatDailyJSON(report)
				if err != nil {
					return fmt.Errorf("format JSON: %w", err)
				}
				output = string(data) + "\n"
			} else {
				output = reports.FormatDailyMarkdown(report)
			}
		}

		if opts.render && format == reports.FormatMarkdown {
			style, width := opts.style, opts.width
			if style == "" {
				style = app.cfg.Reports.Style
			}
			if width == 0 {
				width = app.cfg.Reports.Width
			}
			rendered, err := reports.RenderTerminal(output, style, width)
			if err != nil {
				return err
			}
			output = rendered + "\n"
		}

		if opts.output != "" {
			if err := writeFile(opts.output, []byte(output)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", opts.output)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), output)
		return nil
	})
}
