package routes

import (
	"inventar-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

// SetupItemRoutes настраивает маршруты для управления инвентарем
func SetupItemRoutes(app *fiber.App, itemController *controllers.ItemController) {
	// Группа маршрутов для инвентаря
	items := app.Group("/items")

	// POST /items - создать единицу инвентаря (требует авторизации)
	items.Post("/", itemController.CreateItem)

	// GET /items - список с фильтрацией, сортировкой и пагинацией (публичный доступ)
	items.Get("/", itemController.GetItems)

	// GET /items/health - проверка работоспособности (должен быть перед параметрическим маршрутом)
	items.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Items service is running",
			"timestamp": fiber.Map{
				"unix": fiber.Map{
					"seconds": c.Context().Time().Unix(),
				},
			},
		})
	})

	// GET /items/:id - получить единицу инвентаря (публичный доступ)
	items.Get("/:id", itemController.GetItem)

	// PATCH /items/:id - частичное обновление с записью истории (требует авторизации)
	items.Patch("/:id", itemController.UpdateItem)

	// GET /items/:id/history - история изменений по возрастанию времени
	items.Get("/:id/history", itemController.GetItemHistory)

	// POST /items/:id/retire - списать единицу инвентаря (soft retire)
	items.Post("/:id/retire", itemController.RetireItem)

	// DELETE /items/:id - безвозвратное удаление (требует авторизации)
	items.Delete("/:id", itemController.DeleteItem)
}
