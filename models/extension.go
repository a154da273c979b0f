package models

import (
	"time"

	"gorm.io/gorm"
)

// Extension представляет дополнение к единице инвентаря (докупленный
// компонент). Цена дополнения входит в цену родительского Item.
type Extension struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ItemID       uint      `json:"item_id" gorm:"not null;index"`
	CompanyID    *uint     `json:"company_id"`
	Description  string    `json:"description" gorm:"size:255"`
	SerialNumber string    `json:"serial_number" gorm:"size:255"`
	Price        *float64  `json:"price"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Связи
	Item    *Item    `json:"-" gorm:"foreignKey:ItemID"`
	Company *Company `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
}

// BeforeCreate хук для установки времени создания
func (e *Extension) BeforeCreate(tx *gorm.DB) error {
	e.CreatedAt = time.Now()
	e.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate хук для обновления времени изменения
func (e *Extension) BeforeUpdate(tx *gorm.DB) error {
	e.UpdatedAt = time.Now()
	return nil
}
