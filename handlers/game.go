// handlers/game.go
package handlers

import (
	"card-match-backend/middleware"
	"card-match-backend/services"

	"github.com/gofiber/fiber/v2"
)

// SetupGameRoutes wires the public gameplay API.
func SetupGameRoutes(
	app *fiber.App,
	gameService *services.GameService,
	configService *services.ConfigService,
	leaderboardService *services.LeaderboardService,
	playerService *services.PlayerService,
	tournamentService *services.TournamentService,
	jwtSecret []byte,
) {
	api := app.Group("/api")

	// Public routes
	api.Get("/config/", configService.GetPublicConfig)
	api.Post("/session/start/", gameService.StartSession)
	api.Get("/leaderboard/", leaderboardService.GetLeaderboard)
	api.Get("/tournaments/", tournamentService.GetActiveTournaments)
	api.Get("/player/", middleware.OptionalPlayerAuthMiddleware(jwtSecret), playerService.GetProfile)

	// Authenticated routes
	secured := api.Group("/", middleware.PlayerAuthMiddleware(jwtSecret))
	secured.Post("/session/finish/", gameService.FinishSession)
	secured.Patch("/player/", playerService.UpdateSettings)
}
