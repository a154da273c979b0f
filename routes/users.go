package routes

import (
	"inventar-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes настраивает маршруты просмотра пользователей
func SetupUserRoutes(app *fiber.App, userController *controllers.UserController) {
	users := app.Group("/users")

	// GET /users - активные пользователи для выбора заказчика
	users.Get("/", userController.GetUsers)

	// GET /users/:id - пользователь со статистикой закрепленного инвентаря
	users.Get("/:id", userController.GetUser)
}
