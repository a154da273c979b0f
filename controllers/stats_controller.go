package controllers

import (
	"inventar-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StatsController контроллер сводной статистики инвентаря
type StatsController struct {
	DB *gorm.DB
}

// NewStatsController создает новый экземпляр StatsController
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{DB: db}
}

// CompanyStat статистика по одной фирме
type CompanyStat struct {
	Name       string  `json:"name"`
	ItemCount  int64   `json:"item_count"`
	TotalPrice float64 `json:"total_price"`
}

// CostCenterStat статистика по одному кост-центру
type CostCenterStat struct {
	Label      string  `json:"label"`
	ItemCount  int64   `json:"item_count"`
	TotalPrice float64 `json:"total_price"`
}

// GetStats возвращает сводную статистику по всему инвентарю.
// Многошаговая агрегация: любая ошибка хранилища по пути дает общий 500
// без деталей.
func (sc *StatsController) GetStats(c *fiber.Ctx) error {
	var stats struct {
		TotalItems     int64   `json:"total_items"`
		ActiveItems    int64   `json:"active_items"`
		RetiredItems   int64   `json:"retired_items"`
		TotalPrice     float64 `json:"total_price"`
		TotalTags      int64   `json:"total_tags"`
		TotalUsers     int64   `json:"total_users"`
		TotalCompanies int64   `json:"total_companies"`
	}

	if err := sc.DB.Model(&models.Item{}).Count(&stats.TotalItems).Error; err != nil {
		return sc.internalError(c)
	}
	if err := sc.DB.Model(&models.Item{}).Where("deinventoried = ?", false).Count(&stats.ActiveItems).Error; err != nil {
		return sc.internalError(c)
	}
	if err := sc.DB.Model(&models.Item{}).Where("deinventoried = ?", true).Count(&stats.RetiredItems).Error; err != nil {
		return sc.internalError(c)
	}
	if err := sc.DB.Model(&models.Item{}).Select("COALESCE(SUM(price), 0)").Scan(&stats.TotalPrice).Error; err != nil {
		return sc.internalError(c)
	}
	if err := sc.DB.Model(&models.Tag{}).Count(&stats.TotalTags).Error; err != nil {
		return sc.internalError(c)
	}
	if err := sc.DB.Model(&models.User{}).Where("is_active = ?", true).Count(&stats.TotalUsers).Error; err != nil {
		return sc.internalError(c)
	}
	if err := sc.DB.Model(&models.Company{}).Count(&stats.TotalCompanies).Error; err != nil {
		return sc.internalError(c)
	}

	// Разбивка по фирмам
	var companyStats []CompanyStat
	err := sc.DB.Model(&models.Item{}).
		Select("companies.name AS name, COUNT(items.id) AS item_count, COALESCE(SUM(items.price), 0) AS total_price").
		Joins("JOIN companies ON companies.id = items.company_id").
		Group("companies.name").
		Order("item_count DESC").
		Scan(&companyStats).Error
	if err != nil {
		return sc.internalError(c)
	}

	// Разбивка по кост-центрам
	var costCenterStats []CostCenterStat
	err = sc.DB.Model(&models.Item{}).
		Select("cost_centers.label AS label, COUNT(items.id) AS item_count, COALESCE(SUM(items.price), 0) AS total_price").
		Joins("JOIN cost_centers ON cost_centers.id = items.cost_center_id").
		Group("cost_centers.label").
		Order("item_count DESC").
		Scan(&costCenterStats).Error
	if err != nil {
		return sc.internalError(c)
	}

	if companyStats == nil {
		companyStats = []CompanyStat{}
	}
	if costCenterStats == nil {
		costCenterStats = []CostCenterStat{}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Статистика получена успешно",
		"data": fiber.Map{
			"totals":       stats,
			"companies":    companyStats,
			"cost_centers": costCenterStats,
		},
	})
}

// internalError отвечает общим сообщением без внутренних деталей
func (sc *StatsController) internalError(c *fiber.Ctx) error {
	return c.Status(500).JSON(fiber.Map{
		"success": false,
		"message": "Ошибка при вычислении статистики",
	})
}
