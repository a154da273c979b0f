package models

import (
	"time"

	"gorm.io/gorm"
)

// Company представляет фирму-владельца инвентаря
type Company struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:255;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Связи
	Items []Item `json:"items,omitempty" gorm:"foreignKey:CompanyID"`
}

// CostCenter представляет место возникновения затрат (кост-центр)
type CostCenter struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Label     string    `json:"label" gorm:"not null;size:255;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Связи
	Items []Item `json:"items,omitempty" gorm:"foreignKey:CostCenterID"`
}

// BeforeCreate хук для установки времени создания
func (co *Company) BeforeCreate(tx *gorm.DB) error {
	co.CreatedAt = time.Now()
	co.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate хук для обновления времени изменения
func (co *Company) BeforeUpdate(tx *gorm.DB) error {
	co.UpdatedAt = time.Now()
	return nil
}

// BeforeCreate хук для CostCenter
func (cc *CostCenter) BeforeCreate(tx *gorm.DB) error {
	cc.CreatedAt = time.Now()
	cc.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate хук для CostCenter
func (cc *CostCenter) BeforeUpdate(tx *gorm.DB) error {
	cc.UpdatedAt = time.Now()
	return nil
}
