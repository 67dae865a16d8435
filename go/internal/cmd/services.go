package main

import (
	"database/sql"

	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/draftnight/go/internal/event"
	"github.com/mcdev12/draftnight/go/internal/pick"
	"github.com/mcdev12/draftnight/go/internal/player"
	"github.com/mcdev12/draftnight/go/internal/service"
	"github.com/mcdev12/draftnight/go/internal/sibling"
	"github.com/mcdev12/draftnight/go/internal/team"
	"github.com/mcdev12/draftnight/go/internal/trade"
)

func setupService(database *sql.DB) *service.Service {
	// Repository layer → App layer → HTTP service
	clock := clockwork.NewRealClock()

	eventApp := event.NewApp(event.NewRepository(database), clock)
	pickApp := pick.NewApp(pick.NewRepository(database), clock)
	tradeApp := trade.NewApp(trade.NewRepository(database), clock)
	playerApp := player.NewApp(player.NewRepository(database))
	teamApp := team.NewApp(team.NewRepository(database))
	siblingApp := sibling.NewApp(sibling.NewRepository(database))

	return service.NewService(eventApp, pickApp, tradeApp, playerApp, teamApp, siblingApp)
}
