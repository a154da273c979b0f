package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Item представляет единицу инвентаря в системе.
// ID задается снаружи (инвентарный номер), а не автоинкрементом.
type Item struct {
	ID            uint       `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Description   string     `json:"description" gorm:"size:255"`
	SerialNumber  string     `json:"serial_number" gorm:"size:255"`
	Price         *float64   `json:"price"`
	Location      string     `json:"location" gorm:"size:255"`
	Deinventoried bool       `json:"deinventoried" gorm:"default:false"`
	DeletedAt     *time.Time `json:"deleted_at"` // Момент списания (soft retire), не gorm.DeletedAt
	SearchText    string     `json:"-" gorm:"type:text"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	CostCenterID *uint `json:"cost_center_id"`
	CompanyID    *uint `json:"company_id"`
	OrdererID    *uint `json:"orderer_id"`

	// Связи
	CostCenter *CostCenter    `json:"cost_center,omitempty" gorm:"foreignKey:CostCenterID"`
	Company    *Company       `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	Orderer    *User          `json:"orderer,omitempty" gorm:"foreignKey:OrdererID"`
	Tags       []Tag          `json:"tags" gorm:"many2many:item_tags;"`
	Extensions []Extension    `json:"extensions" gorm:"foreignKey:ItemID"`
	Comments   []ItemComment  `json:"comments" gorm:"foreignKey:ItemID"`
	History    []HistoryEntry `json:"-" gorm:"foreignKey:ItemID"`
}

// RecomputeSearchText пересобирает поисковую строку целиком из текущих полей
// и связей. Вызывается после каждой мутации, которая может их затронуть;
// инкрементально строка никогда не правится.
func (i *Item) RecomputeSearchText() {
	parts := []string{i.Description, i.SerialNumber, i.Location}

	if i.Company != nil {
		parts = append(parts, i.Company.Name)
	}
	if i.CostCenter != nil {
		parts = append(parts, i.CostCenter.Label)
	}
	if i.Orderer != nil {
		parts = append(parts, i.Orderer.Name)
	}
	for _, ext := range i.Extensions {
		parts = append(parts, ext.Description)
		if ext.Company != nil {
			parts = append(parts, ext.Company.Name)
		}
	}

	i.SearchText = strings.ToLower(strings.Join(parts, " "))
}

// BeforeCreate хук для установки времени создания
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.CreatedAt.IsZero() {
		i.CreatedAt = time.Now()
	}
	i.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate хук для обновления времени изменения
func (i *Item) BeforeUpdate(tx *gorm.DB) error {
	i.UpdatedAt = time.Now()
	return nil
}
