package controllers

import (
	"strconv"
	"strings"

	"inventar-backend/models"
	"inventar-backend/services"
	"inventar-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ExtensionController контроллер для управления дополнениями инвентаря
type ExtensionController struct {
	DB  *gorm.DB
	Hub *services.Hub
}

// NewExtensionController создает новый экземпляр ExtensionController
func NewExtensionController(db *gorm.DB, hub *services.Hub) *ExtensionController {
	return &ExtensionController{DB: db, Hub: hub}
}

// CreateExtensionRequest структура запроса добавления дополнения
type CreateExtensionRequest struct {
	Description  string   `json:"description" validate:"max=255"`
	SerialNumber string   `json:"serial_number" validate:"max=255"`
	Price        *float64 `json:"price"`
	Company      string   `json:"company"`
}

// ExtensionResponse структура ответа с дополнением
type ExtensionResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Extension *models.Extension `json:"extension,omitempty"`
	Item      *models.Item      `json:"item,omitempty"`
}

// AddExtension добавляет дополнение к единице инвентаря. Цена предмета
// корректируется на цену дополнения, поисковая строка пересчитывается.
func (ec *ExtensionController) AddExtension(c *fiber.Ctx) error {
	_, err := ec.getUserIDFromToken(c)
	if err != nil {
		return c.Status(401).JSON(ExtensionResponse{
			Success: false,
			Message: "Необходима авторизация",
		})
	}

	itemID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(ExtensionResponse{
			Success: false,
			Message: "Неверный ID инвентаря",
		})
	}

	var req CreateExtensionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(ExtensionResponse{
			Success: false,
			Message: "Неверный формат данных",
		})
	}

	var item models.Item
	err = ec.DB.
		Preload("Company").
		Preload("CostCenter").
		Preload("Orderer").
		Preload("Extensions").
		Preload("Extensions.Company").
		First(&item, itemID).Error
	if err != nil {
		return c.Status(404).JSON(ExtensionResponse{
			Success: false,
			Message: "Единица инвентаря не найдена",
		})
	}

	// Начинаем транзакцию
	tx := ec.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	ext := models.Extension{
		ItemID:       item.ID,
		Description:  req.Description,
		SerialNumber: req.SerialNumber,
		Price:        req.Price,
	}

	if req.Company != "" {
		company, err := services.ResolveCompany(tx, req.Company)
		if err != nil {
			tx.Rollback()
			return c.Status(500).JSON(ExtensionResponse{
				Success: false,
				Message: "Ошибка при разрешении фирмы",
			})
		}
		ext.CompanyID = &company.ID
		ext.Company = company
	}

	if err := tx.Create(&ext).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(ExtensionResponse{
			Success: false,
			Message: "Ошибка при создании дополнения",
		})
	}

	// Инкрементальная коррекция цены и пересборка поисковой строки
	services.AddExtensionPrice(&item, &ext)
	item.Extensions = append(item.Extensions, ext)
	item.RecomputeSearchText()

	if err := tx.Save(&item).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(ExtensionResponse{
			Success: false,
			Message: "Ошибка при сохранении единицы инвентаря",
		})
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return c.Status(500).JSON(ExtensionResponse{
			Success: false,
			Message: "Ошибка при сохранении дополнения",
		})
	}

	ec.Hub.NotifyItemEvent("item.updated", item.ID, []string{"extensions"})

	return c.Status(201).JSON(ExtensionResponse{
		Success:   true,
		Message:   "Дополнение успешно добавлено",
		Extension: &ext,
		Item:      &item,
	})
}

// RemoveExtension удаляет дополнение. Цена предмета уменьшается на цену
// дополнения, если обе цены заданы.
func (ec *ExtensionController) RemoveExtension(c *fiber.Ctx) error {
	_, err := ec.getUserIDFromToken(c)
	if err != nil {
		return c.Status(401).JSON(ExtensionResponse{
			Success: false,
			Message: "Необходима авторизация",
		})
	}

	itemID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(ExtensionResponse{
			Success: false,
			Message: "Неверный ID инвентаря",
		})
	}

	extID, err := strconv.Atoi(c.Params("extID"))
	if err != nil {
		return c.Status(400).JSON(ExtensionResponse{
			Success: false,
			Message: "Неверный ID дополнения",
		})
	}

	var item models.Item
	err = ec.DB.
		Preload("Company").
		Preload("CostCenter").
		Preload("Orderer").
		Preload("Extensions").
		Preload("Extensions.Company").
		First(&item, itemID).Error
	if err != nil {
		return c.Status(404).JSON(ExtensionResponse{
			Success: false,
			Message: "Единица инвентаря не найдена",
		})
	}

	var ext models.Extension
	if err := ec.DB.Where("id = ? AND item_id = ?", extID, itemID).First(&ext).Error; err != nil {
		return c.Status(404).JSON(ExtensionResponse{
			Success: false,
			Message: "Дополнение не найдено",
		})
	}

	// Начинаем транзакцию
	tx := ec.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Delete(&ext).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(ExtensionResponse{
			Success: false,
			Message: "Ошибка при удалении дополнения",
		})
	}

	services.SubtractExtensionPrice(&item, &ext)

	// Убираем дополнение из коллекции перед пересборкой поисковой строки
	for idx, existing := range item.Extensions {
		if existing.ID == ext.ID {
			item.Extensions = append(item.Extensions[:idx], item.Extensions[idx+1:]...)
			break
		}
	}
	item.RecomputeSearchText()

	if err := tx.Save(&item).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(ExtensionResponse{
			Success: false,
			Message: "Ошибка при сохранении единицы инвентаря",
		})
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return c.Status(500).JSON(ExtensionResponse{
			Success: false,
			Message: "Ошибка при удалении дополнения",
		})
	}

	ec.Hub.NotifyItemEvent("item.updated", item.ID, []string{"extensions"})

	return c.JSON(ExtensionResponse{
		Success: true,
		Message: "Дополнение удалено",
		Item:    &item,
	})
}

// getUserIDFromToken извлекает ID пользователя из JWT токена
func (ec *ExtensionController) getUserIDFromToken(c *fiber.Ctx) (uint, error) {
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
