package fx

import (
	"darts-tracker/internal/config"
	"darts-tracker/internal/database"
	"darts-tracker/internal/logger"
	"darts-tracker/internal/repository"
	"darts-tracker/internal/server"
	"darts-tracker/internal/service"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewMatchRepository),
	fx.Provide(repository.NewGameRepository),
	// svc
	fx.Provide(service.NewPlayerService),
	fx.Provide(service.NewMatchService),
	fx.Provide(service.NewRatingService),
	fx.Provide(service.NewGameService),
	// server
	fx.Provide(server.NewServer),
)
