package routes

import (
	"inventar-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

// SetupExtensionRoutes настраивает маршруты для дополнений инвентаря
func SetupExtensionRoutes(app *fiber.App, extensionController *controllers.ExtensionController) {
	items := app.Group("/items")

	// POST /items/:id/extensions - добавить дополнение (требует авторизации)
	items.Post("/:id/extensions", extensionController.AddExtension)

	// DELETE /items/:id/extensions/:extID - удалить дополнение (требует авторизации)
	items.Delete("/:id/extensions/:extID", extensionController.RemoveExtension)
}
