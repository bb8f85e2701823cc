package app

import (
	"database/sql"

	"github.com/Abdulbaasiterinkitola/tz-aware-events/internal/config"
	"github.com/Abdulbaasiterinkitola/tz-aware-events/internal/utils"
	"github.com/Abdulbaasiterinkitola/tz-aware-events/pkg/event"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventRepo    event.EventRepository
	EventService event.EventService
	Projector    *event.Projector
	EventHandler *event.EventHandler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}

	deps.EventRepo = event.NewEventRepo(db)
	deps.EventService = event.NewEventService(deps.EventRepo, deps.Clock)
	deps.Projector = event.NewProjector(deps.Clock)
	deps.EventHandler = event.NewEventHandler(deps.EventService, deps.Projector)

	return deps
}
