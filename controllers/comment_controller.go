package controllers

import (
	"strconv"
	"strings"

	"inventar-backend/models"
	"inventar-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CommentController контроллер для комментариев к инвентарю
type CommentController struct {
	DB *gorm.DB
}

// NewCommentController создает новый экземпляр CommentController
func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{DB: db}
}

// CreateCommentRequest структура запроса создания комментария
type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

// CommentResponse структура ответа с комментарием
type CommentResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Comment *models.ItemComment `json:"comment,omitempty"`
}

// CommentsResponse структура ответа со списком комментариев
type CommentsResponse struct {
	Success  bool                 `json:"success"`
	Message  string               `json:"message"`
	Comments []models.ItemComment `json:"comments"`
}

// CreateComment добавляет комментарий к единице инвентаря
func (cc *CommentController) CreateComment(c *fiber.Ctx) error {
	userID, err := cc.getUserIDFromToken(c)
	if err != nil {
		return c.Status(401).JSON(CommentResponse{
			Success: false,
			Message: "Необходима авторизация",
		})
	}

	itemID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(CommentResponse{
			Success: false,
			Message: "Неверный ID инвентаря",
		})
	}

	var req CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(CommentResponse{
			Success: false,
			Message: "Неверный формат данных",
		})
	}

	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return c.Status(400).JSON(CommentResponse{
			Success: false,
			Message: "Текст комментария обязателен",
		})
	}

	var item models.Item
	if err := cc.DB.First(&item, itemID).Error; err != nil {
		return c.Status(404).JSON(CommentResponse{
			Success: false,
			Message: "Единица инвентаря не найдена",
		})
	}

	comment := models.ItemComment{
		ItemID: item.ID,
		UserID: userID,
		Text:   req.Text,
	}

	if err := cc.DB.Create(&comment).Error; err != nil {
		return c.Status(500).JSON(CommentResponse{
			Success: false,
			Message: "Ошибка при создании комментария",
		})
	}

	cc.DB.Preload("User").First(&comment, comment.ID)

	return c.Status(201).JSON(CommentResponse{
		Success: true,
		Message: "Комментарий успешно создан",
		Comment: &comment,
	})
}

// GetComments возвращает комментарии единицы инвентаря по возрастанию
// времени создания
func (cc *CommentController) GetComments(c *fiber.Ctx) error {
	itemID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(CommentsResponse{
			Success: false,
			Message: "Неверный ID инвентаря",
		})
	}

	var item models.Item
	if err := cc.DB.First(&item, itemID).Error; err != nil {
		return c.Status(404).JSON(CommentsResponse{
			Success: false,
			Message: "Единица инвентаря не найдена",
		})
	}

	var comments []models.ItemComment
	err = cc.DB.Preload("User").
		Where("item_id = ?", itemID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return c.Status(500).JSON(CommentsResponse{
			Success: false,
			Message: "Ошибка при получении комментариев",
		})
	}

	if comments == nil {
		comments = []models.ItemComment{}
	}

	return c.JSON(CommentsResponse{
		Success:  true,
		Message:  "Комментарии получены успешно",
		Comments: comments,
	})
}

// getUserIDFromToken извлекает ID пользователя из JWT токена
func (cc *CommentController) getUserIDFromToken(c *fiber.Ctx) (uint, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0, fiber.NewError(401, "Отсутствует токен авторизации")
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return 0, fiber.NewError(401, "Неверный формат токена")
	}

	claims, err := utils.ValidateJWT(tokenParts[1])
	if err != nil {
		return 0, fiber.NewError(401, "Недействительный токен")
	}

	return claims.UserID, nil
}
