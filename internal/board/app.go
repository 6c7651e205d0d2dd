package board

import (
	"github.com/hay-kot/taskboard/internal/core/auth"
	"github.com/hay-kot/taskboard/internal/core/config"
	"github.com/hay-kot/taskboard/internal/core/eventbus"
	"github.com/hay-kot/taskboard/internal/core/status"
	"github.com/hay-kot/taskboard/internal/data/db"
)

// App is the central entry point for all board operations.
// Commands and the TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Board    *Service
	Registry *RegistryService
	Tracker  *Tracker

	Oracle auth.Oracle
	Bus    *eventbus.EventBus
	Config *config.Config
	DB     *db.DB
}

// NewApp constructs an App from explicit dependencies and wires the
// board's feed reconciliation and registry-change subscriptions.
func NewApp(
	boardSvc *Service,
	registrySvc *RegistryService,
	tracker *Tracker,
	oracle auth.Oracle,
	bus *eventbus.EventBus,
	cfg *config.Config,
	database *db.DB,
) *App {
	app := &App{
		Board:    boardSvc,
		Registry: registrySvc,
		Tracker:  tracker,
		Oracle:   oracle,
		Bus:      bus,
		Config:   cfg,
		DB:       database,
	}

	app.Board.AttachFeed(NewBusFeed(bus))
	bus.SubscribeRegistryChanged(func(p eventbus.RegistryChangedPayload) {
		app.Board.SetRegistry(status.NewRegistry(p.Statuses))
	})

	return app
}
