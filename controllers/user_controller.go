package controllers

import (
	"strconv"

	"inventar-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserController контроллер для просмотра пользователей (заказчиков)
type UserController struct {
	db *gorm.DB
}

// NewUserController создает новый экземпляр UserController
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

// GetUsers возвращает активных пользователей для выбора заказчика
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	var users []models.User
	err := uc.db.Where("is_active = ?", true).Order("name ASC").Find(&users).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": "Ошибка при получении пользователей",
		})
	}

	if users == nil {
		users = []models.User{}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Пользователи получены успешно",
		"users":   users,
	})
}

// GetUser возвращает пользователя вместе с количеством закрепленного за ним
// инвентаря
func (uc *UserController) GetUser(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Неверный ID пользователя",
		})
	}

	var user models.User
	if err := uc.db.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{
				"success": false,
				"message": "Пользователь не найден",
			})
		}
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": "Ошибка при получении пользователя",
		})
	}

	// Статистика по закрепленному инвентарю
	var stats struct {
		ItemCount    int64   `json:"item_count"`
		ActiveCount  int64   `json:"active_count"`
		TotalPrice   float64 `json:"total_price"`
		CommentCount int64   `json:"comment_count"`
	}

	uc.db.Model(&models.Item{}).Where("orderer_id = ?", userID).Count(&stats.ItemCount)
	uc.db.Model(&models.Item{}).Where("orderer_id = ? AND deinventoried = ?", userID, false).Count(&stats.ActiveCount)
	uc.db.Model(&models.Item{}).Where("orderer_id = ?", userID).
		Select("COALESCE(SUM(price), 0)").Scan(&stats.TotalPrice)
	uc.db.Model(&models.ItemComment{}).Where("user_id = ?", userID).Count(&stats.CommentCount)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Пользователь получен успешно",
		"user":    user,
		"stats":   stats,
	})
}
