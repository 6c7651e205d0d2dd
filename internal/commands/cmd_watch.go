package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/taskboard/internal/board"
	"github.com/hay-kot/taskboard/internal/core/eventbus"
	"github.com/hay-kot/taskboard/internal/core/logging"
	"github.com/hay-kot/taskboard/internal/tui"
)

// WatchCmd implements the taskboard watch command.
type WatchCmd struct {
	flags *Flags
	app   *board.App
}

// NewWatchCmd creates a new watch command.
func NewWatchCmd(flags *Flags, app *board.App) *WatchCmd {
	return &WatchCmd{flags: flags, app: app}
}

// Register adds the watch command to the application.
func (cmd *WatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "watch",
		Usage: "Live board view that follows realtime events",
		Action: func(ctx context.Context, c *cli.Command) error {
			log := logging.Component("watch")

			if err := cmd.app.Board.LoadAll(ctx); err != nil {
				return err
			}

			program := tea.NewProgram(tui.New(cmd.app), tea.WithAltScreen(), tea.WithContext(ctx))

			refresh := func() { program.Send(tui.RefreshMsg{}) }
			cmd.app.Bus.SubscribeTaskCreated(func(eventbus.TaskCreatedPayload) { refresh() })
			cmd.app.Bus.SubscribeTaskUpdated(func(eventbus.TaskUpdatedPayload) { refresh() })
			cmd.app.Bus.SubscribeTaskDeleted(func(eventbus.TaskDeletedPayload) { refresh() })
			cmd.app.Bus.SubscribeEntryOpened(func(eventbus.EntryOpenedPayload) { refresh() })
			cmd.app.Bus.SubscribeEntryClosed(func(eventbus.EntryClosedPayload) { refresh() })
			cmd.app.Bus.SubscribeRegistryChanged(func(eventbus.RegistryChangedPayload) { refresh() })

			log.Debug().Msg("starting live board view")
			_, err := program.Run()
			if err != nil {
				log.Error().Err(err).Msg("live board view exited")
			}
			return err
		},
	})

	return app
}
