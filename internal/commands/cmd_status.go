package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/taskboard/internal/board"
	"github.com/hay-kot/taskboard/internal/core/auth"
	"github.com/hay-kot/taskboard/internal/core/status"
	"github.com/hay-kot/taskboard/internal/core/styles"
)

// StatusCmd implements the taskboard status command group.
type StatusCmd struct {
	flags *Flags
	app   *board.App

	// add/edit flags
	color string
	name  string
}

// NewStatusCmd creates a new status command.
func NewStatusCmd(flags *Flags, app *board.App) *StatusCmd {
	return &StatusCmd{flags: flags, app: app}
}

// Register adds the status command to the application.
func (cmd *StatusCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "status",
		Usage: "Manage workflow statuses (requires manage_tasks)",
		Description: `Status commands for the board's workflow columns.

A status named "in progress" (any casing) drives automatic time
tracking. Deleting a status hides, but does not delete, the tasks
referencing it.

Examples:
  taskboard status list
  taskboard status add "In Progress" --color "#22c55e"
  taskboard status move <id> up`,
		Commands: []*cli.Command{
			cmd.listCmd(),
			cmd.addCmd(),
			cmd.editCmd(),
			cmd.moveCmd(),
			cmd.rmCmd(),
		},
	})

	return app
}

func (cmd *StatusCmd) requireManager() error {
	if !cmd.app.Oracle.HasCapability(auth.CapManageTasks) {
		return fmt.Errorf("managing statuses requires the %s capability", auth.CapManageTasks)
	}
	return nil
}

func (cmd *StatusCmd) listCmd() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List statuses in board order",
		Action: func(ctx context.Context, c *cli.Command) error {
			statuses, err := cmd.app.Registry.List(ctx)
			if err != nil {
				return err
			}

			for _, st := range statuses {
				marker := ""
				if st.InProgress() {
					marker = styles.Muted().Render("  (time tracking)")
				}
				fmt.Fprintf(c.Writer, "%d. %s  %s%s\n", st.Order, styles.ColumnTitle(st.Color).Render(st.Name), styles.Muted().Render(st.ID), marker)
			}

			return nil
		},
	}
}

func (cmd *StatusCmd) addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a status as the last column",
		UsageText: "taskboard status add <name> [--color <hex>]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "color", Usage: "display color (hex)", Destination: &cmd.color},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cmd.requireManager(); err != nil {
				return err
			}
			name := strings.TrimSpace(c.Args().First())
			if name == "" {
				return fmt.Errorf("status name is required")
			}

			st, err := cmd.app.Registry.Create(ctx, name, cmd.color)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Writer, "added status %q (%s)\n", st.Name, st.ID)
			return nil
		},
	}
}

func (cmd *StatusCmd) editCmd() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Edit a status name or color",
		UsageText: "taskboard status edit <id> [--name <name>] [--color <hex>]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "new name", Destination: &cmd.name},
			&cli.StringFlag{Name: "color", Usage: "new display color (hex)", Destination: &cmd.color},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cmd.requireManager(); err != nil {
				return err
			}
			if c.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one status id")
			}

			st, err := cmd.resolve(ctx, c.Args().First())
			if err != nil {
				return err
			}

			name, color := st.Name, st.Color
			if cmd.name != "" {
				name = cmd.name
			}
			if cmd.color != "" {
				color = cmd.color
			}

			if err := cmd.app.Registry.Update(ctx, st.ID, name, color); err != nil {
				return err
			}

			fmt.Fprintf(c.Writer, "updated status %s\n", st.ID)
			return nil
		},
	}
}

func (cmd *StatusCmd) moveCmd() *cli.Command {
	return &cli.Command{
		Name:      "move",
		Usage:     "Swap a status with its neighbor",
		UsageText: "taskboard status move <id> <up|down>",
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cmd.requireManager(); err != nil {
				return err
			}
			if c.Args().Len() != 2 {
				return fmt.Errorf("expected <status id> <up|down>")
			}

			dir := board.Direction(c.Args().Get(1))
			if dir != board.DirectionUp && dir != board.DirectionDown {
				return fmt.Errorf("direction must be up or down, got %q", c.Args().Get(1))
			}

			st, err := cmd.resolve(ctx, c.Args().First())
			if err != nil {
				return err
			}

			if err := cmd.app.Registry.Move(ctx, st.ID, dir); err != nil {
				return err
			}

			fmt.Fprintf(c.Writer, "moved status %q %s\n", st.Name, dir)
			return nil
		},
	}
}

func (cmd *StatusCmd) rmCmd() *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "Delete a status (tasks referencing it are hidden, not deleted)",
		UsageText: "taskboard status rm <id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cmd.requireManager(); err != nil {
				return err
			}
			if c.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one status id")
			}

			st, err := cmd.resolve(ctx, c.Args().First())
			if err != nil {
				return err
			}

			if err := cmd.app.Registry.Delete(ctx, st.ID); err != nil {
				return err
			}

			fmt.Fprintf(c.Writer, "deleted status %q\n", st.Name)
			return nil
		},
	}
}

// resolve finds a status by id or case-insensitive name.
func (cmd *StatusCmd) resolve(ctx context.Context, ref string) (status.Status, error) {
	statuses, err := cmd.app.Registry.List(ctx)
	if err != nil {
		return status.Status{}, err
	}

	for _, st := range statuses {
		if st.ID == ref || strings.EqualFold(st.Name, ref) {
			return st, nil
		}
	}

	return status.Status{}, fmt.Errorf("no status matches %q", ref)
}
