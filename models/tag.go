package models

import (
	"time"

	"gorm.io/gorm"
)

// Tag представляет метку инвентаря. Связь с Item - прямая many2many
// через таблицу item_tags.
type Tag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:255;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Связи
	Items []Item `json:"-" gorm:"many2many:item_tags;"`
}

// BeforeCreate хук для установки времени создания
func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate хук для обновления времени изменения
func (t *Tag) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	return nil
}
