package config

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/taskboard/internal/core/styles"
)

// Validate performs structural validation of the configuration.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("identity.id", c.Identity.ID, nonEmpty),
		criterio.Run("tui.theme", c.TUI.Theme, knownTheme),
		criterio.Run("database.max_open_conns", c.Database.MaxOpenConns, nonNegative),
		criterio.Run("database.max_idle_conns", c.Database.MaxIdleConns, nonNegative),
		criterio.Run("database.busy_timeout", c.Database.BusyTimeout, nonNegative),
		criterio.Run("board.task_limit", c.Board.TaskLimit, nonNegative),
		criterio.Run("board.time_entry_limit", c.Board.TimeEntryLimit, nonNegative),
	)
}

func nonEmpty(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("value is required")
	}
	return nil
}

func nonNegative(v int) error {
	if v < 0 {
		return fmt.Errorf("value must not be negative")
	}
	return nil
}

func knownTheme(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(styles.ThemeNames(), ", "))
	}
	return nil
}
