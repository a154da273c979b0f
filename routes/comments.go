package routes

import (
	"inventar-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

// SetupCommentRoutes настраивает маршруты для комментариев к инвентарю
func SetupCommentRoutes(app *fiber.App, commentController *controllers.CommentController) {
	items := app.Group("/items")

	// POST /items/:id/comments - добавить комментарий (требует авторизации)
	items.Post("/:id/comments", commentController.CreateComment)

	// GET /items/:id/comments - список комментариев (публичный доступ)
	items.Get("/:id/comments", commentController.GetComments)
}
