package controllers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"inventar-backend/models"
	"inventar-backend/services"
	"inventar-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ItemController контроллер для управления инвентарем
type ItemController struct {
	DB  *gorm.DB
	Hub *services.Hub
}

// NewItemController создает новый экземпляр ItemController
func NewItemController(db *gorm.DB, hub *services.Hub) *ItemController {
	return &ItemController{DB: db, Hub: hub}
}

// CreateItemRequest структура запроса создания единицы инвентаря.
// ID (инвентарный номер) задается вызывающей стороной.
type CreateItemRequest struct {
	ID           uint        `json:"id" validate:"required"`
	Description  string      `json:"description" validate:"max=255"`
	SerialNumber string      `json:"serial_number" validate:"max=255"`
	Price        *float64    `json:"price"`
	Location     string      `json:"location" validate:"max=255"`
	Company      string      `json:"company" validate:"required"`
	CostCenter   string      `json:"cost_center"`
	Orderer      interface{} `json:"orderer" validate:"required"`
	TagIDs       []uint      `json:"tag_ids"`
}

// ItemResponse структура ответа с единицей инвентаря
type ItemResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Item    *models.Item `json:"item,omitempty"`
}

// ItemsResponse структура ответа со списком инвентаря
type ItemsResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Items   []models.Item `json:"items"`
	Total   int64         `json:"total"`
	Page    int           `json:"page"`
	Limit   int           `json:"limit"`
}

// HistoryResponse структура ответа с историей изменений
type HistoryResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	History []models.HistoryEntry `json:"history"`
}

// CreateItem создает новую единицу инвентаря с заданным инвентарным
// номером. История при полном создании не пишется.
func (ic *ItemController) CreateItem(c *fiber.Ctx) error {
	_, err := ic.getUserIDFromToken(c)
	if err != nil {
		return c.Status(401).JSON(ItemResponse{
			Success: false,
			Message: "Необходима авторизация",
		})
	}

	var req CreateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(ItemResponse{
			Success: false,
			Message: "Неверный формат данных",
		})
	}

	if req.ID == 0 {
		return c.Status(400).JSON(ItemResponse{
			Success: false,
			Message: "Инвентарный номер обязателен",
		})
	}

	if strings.TrimSpace(req.Company) == "" {
		return c.Status(400).JSON(ItemResponse{
			Success: false,
			Message: "Фирма обязательна",
		})
	}

	// Проверяем, что номер еще не занят - до любых изменений
	var existing models.Item
	if err := ic.DB.First(&existing, req.ID).Error; err == nil {
		return c.Status(400).JSON(ItemResponse{
			Success: false,
			Message: "Инвентарный номер " + strconv.Itoa(int(req.ID)) + " уже занят",
		})
	}

	ordererRef, err := services.ParseOrdererRef(req.Orderer)
	if err != nil {
		return c.Status(400).JSON(ItemResponse{
			Success: false,
			Message: "Неверный формат заказчика",
		})
	}

	// Начинаем транзакцию
	tx := ic.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	item := models.Item{
		ID:           req.ID,
		Description:  req.Description,
		SerialNumber: req.SerialNumber,
		Price:        req.Price,
		Location:     req.Location,
	}

	// Фирма создается по требованию
	company, err := services.ResolveCompany(tx, req.Company)
	if err != nil {
		tx.Rollback()
		return c.Status(500).JSON(ItemResponse{
			Success: false,
			Message: "Ошибка при разрешении фирмы",
		})
	}
	item.CompanyID = &company.ID
	item.Company = company

	// Кост-центр необязателен
	if req.CostCenter != "" {
		costCenter, err := services.ResolveCostCenter(tx, req.CostCenter)
		if err != nil {
			tx.Rollback()
			return c.Status(500).JSON(ItemResponse{
				Success: false,
				Message: "Ошибка при разрешении кост-центра",
			})
		}
		item.CostCenterID = &costCenter.ID
		item.CostCenter = costCenter
	}

	orderer, err := services.ResolveOrderer(tx, ordererRef)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(ItemResponse{
				Success: false,
				Message: "Заказчик не найден",
			})
		}
		return c.Status(500).JSON(ItemResponse{
			Success: false,
			Message: "Ошибка при разрешении заказчика",
		})
	}
	item.OrdererID = &orderer.ID
	item.Orderer = orderer

	// Метки должны существовать заранее
	for _, tagID := range req.TagIDs {
		var tag models.Tag
		if err := tx.First(&tag, tagID).Error; err != nil {
			tx.Rollback()
			return c.Status(400).JSON(ItemResponse{
				Success: false,
				Message: "Метка с ID " + strconv.Itoa(int(tagID)) + " не найдена",
			})
		}
		item.Tags = append(item.Tags, tag)
	}

	item.RecomputeSearchText()

	if err := tx.Create(&item).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(ItemResponse{
			Success: false,
			Message: "Ошибка при создании единицы инвентаря",
		})
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return c.Status(500).JSON(ItemResponse{
			Success: false,
			Message: "Ошибка при сохранении единицы инвентаря",
		})
	}

	full, err := ic.loadItem(item.ID)
	if err != nil {
		return c.Status(500).JSON(ItemResponse{
			Success: false,
			Message: "Ошибка при загрузке данных инвентаря",
		})
	}

	ic.Hub.NotifyItemEvent("item.created", item.ID, nil)

	return c.Status(201).JSON(ItemResponse{
		Success: true,
		Message: "Единица инвентаря успешно создана",
		Item:    full,
	})
}

// GetItems возвращает список инвентаря с фильтрацией, сортировкой и
// пагинацией. Все критерии необязательны; их отсутствие дает полный скан.
func (ic *ItemController) GetItems(c *fiber.Ctx) error {
	filter, err := ic.parseItemFilter(c)
	if err != nil {
		return c.Status(400).JSON(ItemsResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	page, limit := ic.getPaginationParams(c)

	items, total, err := services.FindItems(ic.DB, filter, page, limit)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSortField) {
			return c.Status(400).JSON(ItemsResponse{
				Success: false,
				Message: "Недопустимое поле сортировки: " + filter.OrderBy,
			})
		}
		return c.Status(500).JSON(ItemsResponse{
			Success: false,
			Message: "Ошибка при получении списка инвентаря",
		})
	}

	if items == nil {
		items = []models.Item{}
	}

	return c.JSON(ItemsResponse{
		Success: true,
		Message: "Список инвентаря получен успешно",
		Items:   items,
		Total:   total,
		Page:    page,
		Limit:   limit,
	})
}

// GetItem возвращает одну единицу инвентаря со всеми связями
func (ic *ItemController) GetItem(c *fiber.Ctx) error {
	itemID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(ItemResponse{
			Success: false,
			Message: "Неверный ID инвентаря",
		})
	}

	item, err := ic.loadItem(uint(itemID))
	if err != nil {
		return c.Status(404).JSON(ItemResponse{
			Success: false,
			Message: "Единица инвентаря не найдена",
		})
	}

	return c.JSON(ItemResponse{
		Success: true,
		Message: "Единица инвентаря получена успешно",
		Item:    item,
	})
}

// UpdateItem выполняет частичное обновление. Распознанные ключи:
// cost_center, description, company, price, serial_number, location,
// orderer; прочие молча игнорируются. На каждый измененный отслеживаемый
// атрибут пишется одна запись истории - в той же транзакции.
func (ic *ItemController) UpdateItem(c *fiber.Ctx) error {
	userID, err := ic.getUserIDFromToken(c)
	if err != nil {
		return c.Status(401).JSON(ItemResponse{
			Success: false,
			Message: "Необходима авторизация",
		})
	}

	itemID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(ItemResponse{
			Success: false,
			Message: "Неверный ID инвентаря",
		})
	}

	var patch map[string]interface{}
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(400).JSON(ItemResponse{
			Success: false,
			Message: "Неверный формат данных",
		})
	}

	var item models.Item
	err = ic.DB.
		Preload("Company").
		Preload("CostCenter").
		Preload("Orderer").
		Preload("Extensions").
		Preload("Extensions.Company").
		First(&item, itemID).Error
	if err != nil {
		return c.Status(404).JSON(ItemResponse{
			Success: false,
			Message: "Единица инвентаря не найдена",
		})
	}

	// Снимок до мутации
	before := services.TakeSnapshot(&item)

	// Начинаем транзакцию: мутация, смена связей и история - одно целое
	tx := ic.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if status, message := ic.applyPatch(tx, &item, patch); status != 0 {
		tx.Rollback()
		return c.Status(status).JSON(ItemResponse{
			Success: false,
			Message: message,
		})
	}

	item.RecomputeSearchText()

	if err := tx.Save(&item).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(ItemResponse{
			Success: false,
			Message: "Ошибка при сохранении единицы инвентаря",
		})
	}

	// Снимок после мутации и фиксация различий в истории
	after := services.TakeSnapshot(&item)
	changes := services.Diff(before, after)

	if err := services.RecordHistory(tx, userID, item.ID, changes); err != nil {
		tx.Rollback()
		return c.Status(500).JSON(ItemResponse{
			Success: false,
			Message: "Ошибка при записи истории изменений",
		})
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return c.Status(500).JSON(ItemResponse{
			Success: false,
			Message: "Ошибка при сохранении изменений",
		})
	}

	full, err := ic.loadItem(item.ID)
	if err != nil {
		return c.Status(500).JSON(ItemResponse{
			Success: false,
			Message: "Ошибка при загрузке данных инвентаря",
		})
	}

	if len(changes) > 0 {
		attributes := make([]string, 0, len(changes))
		for _, change := range changes {
			attributes = append(attributes, change.Attribute)
		}
		ic.Hub.NotifyItemEvent("item.updated", item.ID, attributes)
	}

	return c.JSON(ItemResponse{
		Success: true,
		Message: "Единица инвентаря успешно обновлена",
		Item:    full,
	})
}

// applyPatch применяет распознанные ключи патча к предмету. Возвращает
// HTTP-статус и сообщение при ошибке, либо (0, "") при успехе.
func (ic *ItemController) applyPatch(tx *gorm.DB, item *models.Item, patch map[string]interface{}) (int, string) {
	for key, value := range patch {
		switch key {
		case "description":
			text, ok := value.(string)
			if !ok {
				return 400, "Поле description должно быть строкой"
			}
			item.Description = text

		case "serial_number":
			text, ok := value.(string)
			if !ok {
				return 400, "Поле serial_number должно быть строкой"
			}
			item.SerialNumber = text

		case "location":
			text, ok := value.(string)
			if !ok {
				return 400, "Поле location должно быть строкой"
			}
			item.Location = text

		case "price":
			if value == nil {
				item.Price = nil
				continue
			}
			number, ok := value.(float64)
			if !ok {
				return 400, "Поле price должно быть числом"
			}
			item.Price = &number

		case "cost_center":
			label, ok := value.(string)
			if !ok {
				return 400, "Поле cost_center должно быть строкой"
			}
			costCenter, err := services.ResolveCostCenter(tx, label)
			if err != nil {
				return 500, "Ошибка при разрешении кост-центра"
			}

			// Перенос между коллекциями - до присвоения нового ключа
			var oldItems *[]models.Item
			if item.CostCenter != nil {
				oldItems = &item.CostCenter.Items
			}
			services.SwitchItemCollection(oldItems, &costCenter.Items, item)

			item.CostCenterID = &costCenter.ID
			item.CostCenter = costCenter

		case "company":
			name, ok := value.(string)
			if !ok {
				return 400, "Поле company должно быть строкой"
			}
			company, err := services.ResolveCompany(tx, name)
			if err != nil {
				return 500, "Ошибка при разрешении фирмы"
			}

			var oldItems *[]models.Item
			if item.Company != nil {
				oldItems = &item.Company.Items
			}
			services.SwitchItemCollection(oldItems, &company.Items, item)

			item.CompanyID = &company.ID
			item.Company = company

		case "orderer":
			ref, err := services.ParseOrdererRef(value)
			if err != nil {
				return 400, "Неверный формат заказчика"
			}
			orderer, err := services.ResolveOrderer(tx, ref)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return 404, "Заказчик не найден"
				}
				return 500, "Ошибка при разрешении заказчика"
			}

			var oldItems *[]models.Item
			if item.Orderer != nil {
				oldItems = &item.Orderer.Items
			}
			services.SwitchItemCollection(oldItems, &orderer.Items, item)

			item.OrdererID = &orderer.ID
			item.Orderer = orderer

		default:
			// Нераспознанные ключи молча игнорируются
		}
	}

	return 0, ""
}

// GetItemHistory возвращает историю изменений по возрастанию времени
func (ic *ItemController) GetItemHistory(c *fiber.Ctx) error {
	itemID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(HistoryResponse{
			Success: false,
			Message: "Неверный ID инвентаря",
		})
	}

	var item models.Item
	if err := ic.DB.First(&item, itemID).Error; err != nil {
		return c.Status(404).JSON(HistoryResponse{
			Success: false,
			Message: "Единица инвентаря не найдена",
		})
	}

	var history []models.HistoryEntry
	err = ic.DB.Preload("User").
		Where("item_id = ?", itemID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&history).Error
	if err != nil {
		return c.Status(500).JSON(HistoryResponse{
			Success: false,
			Message: "Ошибка при получении истории",
		})
	}

	if history == nil {
		history = []models.HistoryEntry{}
	}

	return c.JSON(HistoryResponse{
		Success: true,
		Message: "История получена успешно",
		History: history,
	})
}

// RetireItem помечает единицу инвентаря списанной (soft retire): флаг плюс
// момент списания, строка остается в базе
func (ic *ItemController) RetireItem(c *fiber.Ctx) error {
	_, err := ic.getUserIDFromToken(c)
	if err != nil {
		return c.Status(401).JSON(ItemResponse{
			Success: false,
			Message: "Необходима авторизация",
		})
	}

	itemID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(ItemResponse{
			Success: false,
			Message: "Неверный ID инвентаря",
		})
	}

	var item models.Item
	if err := ic.DB.First(&item, itemID).Error; err != nil {
		return c.Status(404).JSON(ItemResponse{
			Success: false,
			Message: "Единица инвентаря не найдена",
		})
	}

	item.Deinventoried = true
	if item.DeletedAt == nil {
		now := time.Now()
		item.DeletedAt = &now
	}

	if err := ic.DB.Save(&item).Error; err != nil {
		return c.Status(500).JSON(ItemResponse{
			Success: false,
			Message: "Ошибка при списании единицы инвентаря",
		})
	}

	ic.Hub.NotifyItemEvent("item.retired", item.ID, nil)

	return c.JSON(ItemResponse{
		Success: true,
		Message: "Единица инвентаря списана",
		Item:    &item,
	})
}

// DeleteItem безвозвратно удаляет единицу инвентаря вместе с дополнениями,
// комментариями, историей и связями с метками
func (ic *ItemController) DeleteItem(c *fiber.Ctx) error {
	_, err := ic.getUserIDFromToken(c)
	if err != nil {
		return c.Status(401).JSON(ItemResponse{
			Success: false,
			Message: "Необходима авторизация",
		})
	}

	itemID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(ItemResponse{
			Success: false,
			Message: "Неверный ID инвентаря",
		})
	}

	var item models.Item
	if err := ic.DB.First(&item, itemID).Error; err != nil {
		return c.Status(404).JSON(ItemResponse{
			Success: false,
			Message: "Единица инвентаря не найдена",
		})
	}

	// Начинаем транзакцию
	tx := ic.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("item_id = ?", item.ID).Delete(&models.HistoryEntry{}).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(ItemResponse{
			Success: false,
			Message: "Ошибка при удалении истории",
		})
	}

	if err := tx.Where("item_id = ?", item.ID).Delete(&models.ItemComment{}).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(ItemResponse{
			Success: false,
			Message: "Ошибка при удалении комментариев",
		})
	}

	if err := tx.Where("item_id = ?", item.ID).Delete(&models.Extension{}).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(ItemResponse{
			Success: false,
			Message: "Ошибка при удалении дополнений",
		})
	}

	if err := tx.Model(&item).Association("Tags").Clear(); err != nil {
		tx.Rollback()
		return c.Status(500).JSON(ItemResponse{
			Success: false,
			Message: "Ошибка при удалении связей с метками",
		})
	}

	if err := tx.Delete(&item).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(ItemResponse{
			Success: false,
			Message: "Ошибка при удалении единицы инвентаря",
		})
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return c.Status(500).JSON(ItemResponse{
			Success: false,
			Message: "Ошибка при удалении единицы инвентаря",
		})
	}

	ic.Hub.NotifyItemEvent("item.deleted", item.ID, nil)

	return c.JSON(ItemResponse{
		Success: true,
		Message: "Единица инвентаря удалена",
	})
}

// loadItem загружает единицу инвентаря со всеми связями
func (ic *ItemController) loadItem(itemID uint) (*models.Item, error) {
	var item models.Item
	err := ic.DB.
		Preload("Company").
		Preload("CostCenter").
		Preload("Orderer").
		Preload("Tags").
		Preload("Extensions").
		Preload("Extensions.Company").
		Preload("Comments").
		Preload("Comments.User").
		First(&item, itemID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// parseItemFilter извлекает критерии фильтрации из query параметров
func (ic *ItemController) parseItemFilter(c *fiber.Ctx) (services.ItemFilter, error) {
	filter := services.ItemFilter{
		OrderBy:    c.Query("orderBy", "id"),
		Direction:  c.Query("direction", "asc"),
		SearchText: c.Query("searchText"),
	}

	// Метки могут повторяться: ?tags=1&tags=2
	for _, raw := range c.Context().QueryArgs().PeekMulti("tags") {
		tagID, err := strconv.Atoi(string(raw))
		if err != nil || tagID < 0 {
			return filter, errors.New("Неверный формат параметра tags")
		}
		filter.TagIDs = append(filter.TagIDs, uint(tagID))
	}

	if raw := c.Query("minId"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errors.New("Неверный формат параметра minId")
		}
		id := uint(value)
		filter.MinID = &id
	}
	if raw := c.Query("maxId"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errors.New("Неверный формат параметра maxId")
		}
		id := uint(value)
		filter.MaxID = &id
	}

	if raw := c.Query("minPrice"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, errors.New("Неверный формат параметра minPrice")
		}
		filter.MinPrice = &value
	}
	if raw := c.Query("maxPrice"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, errors.New("Неверный формат параметра maxPrice")
		}
		filter.MaxPrice = &value
	}

	if raw := c.Query("isDeinventoried"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, errors.New("Неверный формат параметра isDeinventoried")
		}
		filter.Deinventoried = &value
	}

	for param, target := range map[string]**string{
		"orderer":      &filter.Orderer,
		"company":      &filter.Company,
		"location":     &filter.Location,
		"costCenter":   &filter.CostCenter,
		"serialNumber": &filter.SerialNumber,
	} {
		if raw := c.Query(param); raw != "" {
			value := raw
			*target = &value
		}
	}

	// Даты включительны по границам суток
	if raw := c.Query("createdAfter"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, errors.New("Неверный формат параметра createdAfter")
		}
		filter.CreatedAfter = &day
	}
	if raw := c.Query("createdBefore"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, errors.New("Неверный формат параметра createdBefore")
		}
		endOfDay := day.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.CreatedBefore = &endOfDay
	}

	return filter, nil
}

// getPaginationParams извлекает параметры пагинации из запроса
func (ic *ItemController) getPaginationParams(c *fiber.Ctx) (int, int) {
	page := 1
	limit := 50

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	if sizeStr := c.Query("size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 200 {
			limit = s
		}
	}

	return page, limit
}

// getUserIDFromToken извлекает ID пользователя из JWT токена
func (ic *ItemController) getUserIDFromToken(c *fiber.Ctx) (uint, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0, fiber.NewError(401, "Отсутствует токен авторизации")
	}

	// Извлекаем токен из заголовка "Bearer <token>"
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
