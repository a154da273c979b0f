package routes

import (
	"inventar-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

// SetupStatsRoutes настраивает маршруты сводной статистики
func SetupStatsRoutes(app *fiber.App, statsController *controllers.StatsController) {
	api := app.Group("/api/stats")

	// Получение сводной статистики инвентаря
	api.Get("/", statsController.GetStats)
}
