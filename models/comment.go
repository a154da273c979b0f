package models

import (
	"time"

	"gorm.io/gorm"
)

// ItemComment представляет комментарий к единице инвентаря
type ItemComment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ItemID    uint      `json:"item_id" gorm:"not null;index"`
	UserID    uint      `json:"user_id" gorm:"not null"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Связи
	Item *Item `json:"-" gorm:"foreignKey:ItemID"`
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// BeforeCreate хук для установки времени создания
func (ic *ItemComment) BeforeCreate(tx *gorm.DB) error {
	ic.CreatedAt = time.Now()
	ic.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate хук для обновления времени изменения
func (ic *ItemComment) BeforeUpdate(tx *gorm.DB) error {
	ic.UpdatedAt = time.Now()
	return nil
}
