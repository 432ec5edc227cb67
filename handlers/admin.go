// handlers/admin.go
package handlers

import (
	"card-match-backend/middleware"
	"card-match-backend/services"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes wires the admin panel API. Everything except login sits
// behind the staff gate; mutations on config, difficulty, players and promo
// generation additionally require superuser.
func SetupAdminRoutes(
	app *fiber.App,
	adminService *services.AdminService,
	configService *services.ConfigService,
	difficultyService *services.DifficultyService,
	cardService *services.CardService,
	promoService *services.PromoService,
	analyticsService *services.AnalyticsService,
	jwtSecret []byte,
) {
	admin := app.Group("/api/admin")

	admin.Post("/login/", adminService.Login)
	admin.Post("/logout/", adminService.Logout)

	staff := admin.Group("/", middleware.PlayerAuthMiddleware(jwtSecret), middleware.StaffOnlyMiddleware())
	super := staff.Group("/", middleware.SuperuserOnlyMiddleware())

	staff.Get("/profile/", adminService.Profile)

	// Difficulty settings
	staff.Get("/difficulty/", difficultyService.GetSettings)
	super.Post("/difficulty/", difficultyService.CreateSetting)
	super.Put("/difficulty/:id", difficultyService.UpdateSetting)
	super.Delete("/difficulty/:id", difficultyService.DeleteSetting)

	// Game config
	staff.Get("/config/", configService.GetAdminConfig)
	super.Put("/config/", configService.UpdateAdminConfig)

	// Card catalogs
	staff.Get("/cards/fruits/", cardService.GetFruitCards)
	staff.Post("/cards/fruits/", cardService.CreateFruitCard)
	staff.Put("/cards/fruits/:id", cardService.UpdateFruitCard)
	staff.Delete("/cards/fruits/:id", cardService.DeleteFruitCard)
	staff.Get("/cards/texts/", cardService.GetTextCards)
	staff.Post("/cards/texts/", cardService.CreateTextCard)
	staff.Put("/cards/texts/:id", cardService.UpdateTextCard)
	staff.Delete("/cards/texts/:id", cardService.DeleteTextCard)

	// Players
	staff.Get("/players/", adminService.GetPlayers)
	staff.Get("/players/export/", adminService.ExportPlayersCSV)
	super.Put("/players/:id", adminService.UpdatePlayer)

	// Promo codes
	staff.Get("/promos/", promoService.GetPromoCodes)
	staff.Get("/promos/export/", promoService.ExportPromoCodesCSV)
	super.Post("/promos/", promoService.GeneratePromoCodes)

	// Analytics
	staff.Get("/analytics/overview/", analyticsService.GetOverview)
	staff.Get("/analytics/players/", analyticsService.GetTopPlayers)
	staff.Get("/analytics/daily/", analyticsService.GetDailyStats)

	// Settings preview
	staff.Post("/preview/", difficultyService.PreviewSettings)
}
