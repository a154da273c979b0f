package routes

import (
	"inventar-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

// SetupTagRoutes настраивает маршруты для меток инвентаря
func SetupTagRoutes(app *fiber.App, tagController *controllers.TagController) {
	tags := app.Group("/tags")

	// POST /tags - создать метку (требует авторизации)
	tags.Post("/", tagController.CreateTag)

	// GET /tags - список меток (публичный доступ)
	tags.Get("/", tagController.GetTags)

	items := app.Group("/items")

	// POST /items/:id/tags/:tagID - привязать метку (требует авторизации)
	items.Post("/:id/tags/:tagID", tagController.AttachTag)

	// DELETE /items/:id/tags/:tagID - отвязать метку (требует авторизации)
	items.Delete("/:id/tags/:tagID", tagController.DetachTag)
}
