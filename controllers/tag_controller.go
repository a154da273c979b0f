package controllers

import (
	"strconv"
	"strings"

	"inventar-backend/models"
	"inventar-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TagController контроллер для управления метками инвентаря
type TagController struct {
	DB *gorm.DB
}

// NewTagController создает новый экземпляр TagController
func NewTagController(db *gorm.DB) *TagController {
	return &TagController{DB: db}
}

// CreateTagRequest структура запроса создания метки
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// TagResponse структура ответа с меткой
type TagResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Tag     *models.Tag `json:"tag,omitempty"`
}

// TagsResponse структура ответа со списком меток
type TagsResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Tags    []models.Tag `json:"tags"`
}

// CreateTag создает новую метку
func (tc *TagController) CreateTag(c *fiber.Ctx) error {
	_, err := tc.getUserIDFromToken(c)
	if err != nil {
		return c.Status(401).JSON(TagResponse{
			Success: false,
			Message: "Необходима авторизация",
		})
	}

	var req CreateTagRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(TagResponse{
			Success: false,
			Message: "Неверный формат данных",
		})
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.Status(400).JSON(TagResponse{
			Success: false,
			Message: "Название метки обязательно",
		})
	}

	var existing models.Tag
	if err := tc.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return c.Status(400).JSON(TagResponse{
			Success: false,
			Message: "Метка с таким названием уже существует",
		})
	}

	tag := models.Tag{Name: req.Name}
	if err := tc.DB.Create(&tag).Error; err != nil {
		return c.Status(500).JSON(TagResponse{
			Success: false,
			Message: "Ошибка при создании метки",
		})
	}

	return c.Status(201).JSON(TagResponse{
		Success: true,
		Message: "Метка успешно создана",
		Tag:     &tag,
	})
}

// GetTags возвращает все метки
func (tc *TagController) GetTags(c *fiber.Ctx) error {
	var tags []models.Tag
	if err := tc.DB.Order("name ASC").Find(&tags).Error; err != nil {
		return c.Status(500).JSON(TagsResponse{
			Success: false,
			Message: "Ошибка при получении меток",
		})
	}

	if tags == nil {
		tags = []models.Tag{}
	}

	return c.JSON(TagsResponse{
		Success: true,
		Message: "Метки получены успешно",
		Tags:    tags,
	})
}

// AttachTag привязывает метку к единице инвентаря
func (tc *TagController) AttachTag(c *fiber.Ctx) error {
	_, err := tc.getUserIDFromToken(c)
	if err != nil {
		return c.Status(401).JSON(TagResponse{
			Success: false,
			Message: "Необходима авторизация",
		})
	}

	itemID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(TagResponse{
			Success: false,
			Message: "Неверный ID инвентаря",
		})
	}

	tagID, err := strconv.Atoi(c.Params("tagID"))
	if err != nil {
		return c.Status(400).JSON(TagResponse{
			Success: false,
			Message: "Неверный ID метки",
		})
	}

	var item models.Item
	if err := tc.DB.First(&item, itemID).Error; err != nil {
		return c.Status(404).JSON(TagResponse{
			Success: false,
			Message: "Единица инвентаря не найдена",
		})
	}

	var tag models.Tag
	if err := tc.DB.First(&tag, tagID).Error; err != nil {
		return c.Status(404).JSON(TagResponse{
			Success: false,
			Message: "Метка не найдена",
		})
	}

	if err := tc.DB.Model(&item).Association("Tags").Append(&tag); err != nil {
		return c.Status(500).JSON(TagResponse{
			Success: false,
			Message: "Ошибка при привязке метки",
		})
	}

	return c.JSON(TagResponse{
		Success: true,
		Message: "Метка привязана",
		Tag:     &tag,
	})
}

// DetachTag отвязывает метку от единицы инвентаря
func (tc *TagController) DetachTag(c *fiber.Ctx) error {
	_, err := tc.getUserIDFromToken(c)
	if err != nil {
		return c.Status(401).JSON(TagResponse{
			Success: false,
			Message: "Необходима авторизация",
		})
	}

	itemID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(TagResponse{
			Success: false,
			Message: "Неверный ID инвентаря",
		})
	}

	tagID, err := strconv.Atoi(c.Params("tagID"))
	if err != nil {
		return c.Status(400).JSON(TagResponse{
			Success: false,
			Message: "Неверный ID метки",
		})
	}

	var item models.Item
	if err := tc.DB.First(&item, itemID).Error; err != nil {
		return c.Status(404).JSON(TagResponse{
			Success: false,
			Message: "Единица инвентаря не найдена",
		})
	}

	var tag models.Tag
	if err := tc.DB.First(&tag, tagID).Error; err != nil {
		return c.Status(404).JSON(TagResponse{
			Success: false,
			Message: "Метка не найдена",
		})
	}

	if err := tc.DB.Model(&item).Association("Tags").Delete(&tag); err != nil {
		return c.Status(500).JSON(TagResponse{
			Success: false,
			Message: "Ошибка при отвязке метки",
		})
	}

	return c.JSON(TagResponse{
		Success: true,
		Message: "Метка отвязана",
	})
}

// getUserIDFromToken извлекает ID пользователя из JWT токена
func (tc *TagController) getUserIDFromToken(c *fiber.Ctx) (uint, error) {
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
