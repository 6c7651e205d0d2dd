package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/taskboard/internal/board"
	"github.com/hay-kot/taskboard/internal/core/styles"
)

// TimeCmd implements the taskboard time command group.
type TimeCmd struct {
	flags *Flags
	app   *board.App

	// log flags
	logDate  string
	logHours float64

	// report flags
	reportLive bool
}

// NewTimeCmd creates a new time command.
func NewTimeCmd(flags *Flags, app *board.App) *TimeCmd {
	return &TimeCmd{flags: flags, app: app}
}

// Register adds the time command to the application.
func (cmd *TimeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "time",
		Usage: "Manual time logging and reporting",
		Description: `Automatic tracking follows tasks in and out of the "in progress"
status; these commands cover the rest.

Examples:
  taskboard time log <task id> --hours 1.5 --date 2026-08-28
  taskboard time report
  taskboard time report --live          # count still-open entries`,
		Commands: []*cli.Command{
			cmd.logCmd(),
			cmd.reportCmd(),
			cmd.recentCmd(),
		},
	})

	return app
}

func (cmd *TimeCmd) logCmd() *cli.Command {
	return &cli.Command{
		Name:      "log",
		Usage:     "Append a completed time entry to a task",
		UsageText: "taskboard time log <task id> --hours <n> [--date <YYYY-MM-DD>]",
		Flags: []cli.Flag{
			&cli.FloatFlag{Name: "hours", Usage: "duration in fractional hours", Destination: &cmd.logHours},
			&cli.StringFlag{Name: "date", Usage: "entry date (defaults to today)", Destination: &cmd.logDate},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one task id")
			}

			date := time.Now()
			if cmd.logDate != "" {
				var err error
				date, err = time.Parse("2006-01-02", cmd.logDate)
				if err != nil {
					return fmt.Errorf("invalid date %q: %w", cmd.logDate, err)
				}
			}

			user := cmd.app.Oracle.CurrentUser()
			entry, err := cmd.app.Tracker.LogManual(ctx, c.Args().First(), user.ID, date, cmd.logHours)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Writer, "logged %s on task %s\n", board.FormatHours(entry.Duration), entry.TaskID)
			return nil
		},
	}
}

func (cmd *TimeCmd) recentCmd() *cli.Command {
	return &cli.Command{
		Name:  "recent",
		Usage: "Most recent time entries across all tasks",
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cmd.app.Board.LoadAll(ctx); err != nil {
				return err
			}

			for _, e := range cmd.app.Board.RecentEntries() {
				dur := board.FormatHours(e.Duration)
				if e.Open() {
					dur = "open"
				}
				fmt.Fprintf(c.Writer, "%s  %s  %-8s  %s\n",
					e.StartTime.Format("2006-01-02 15:04"),
					styles.Muted().Render(shortID(e.TaskID)),
					dur,
					e.UserID,
				)
			}

			return nil
		},
	}
}

func (cmd *TimeCmd) reportCmd() *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "Per-task tracked time totals",
		UsageText: "taskboard time report [--live]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "live", Usage: "include elapsed time of still-open entries", Destination: &cmd.reportLive},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cmd.app.Board.LoadAll(ctx); err != nil {
				return err
			}

			var grandTotal float64
			for _, t := range cmd.app.Board.Visible() {
				total, err := cmd.app.Tracker.ReportHours(ctx, t.ID, cmd.reportLive)
				if err != nil {
					return err
				}
				if total <= 0 {
					continue
				}
				grandTotal += total
				fmt.Fprintf(c.Writer, "%s  %s  %s\n", styles.Muted().Render(shortID(t.ID)), board.FormatHours(total), t.Title)
			}

			fmt.Fprintf(c.Writer, "total: %s\n", board.FormatHours(grandTotal))
			return nil
		},
	}
}
