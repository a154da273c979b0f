package models

import (
	"time"

	"gorm.io/gorm"
)

// HistoryEntry представляет одну неизменяемую запись истории изменений:
// один измененный атрибут одной единицы инвентаря. Записи создаются только
// при частичном обновлении и никогда не редактируются и не удаляются
// обычным потоком.
type HistoryEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ItemID    uint      `json:"item_id" gorm:"not null;index"`
	UserID    uint      `json:"user_id" gorm:"not null"`
	Attribute string    `json:"attribute" gorm:"not null;size:64"`
	ValueFrom string    `json:"value_from" gorm:"size:255"`
	ValueTo   string    `json:"value_to" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`

	// Связи
	Item *Item `json:"-" gorm:"foreignKey:ItemID"`
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// BeforeCreate хук для установки времени создания
func (h *HistoryEntry) BeforeCreate(tx *gorm.DB) error {
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}
	return nil
}
