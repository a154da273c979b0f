package services

import (
	"inventar-backend/models"
)

// SwitchItemCollection переносит предмет из старой коллекции владельца в
// новую при смене связи (фирма, кост-центр, заказчик). Контракт:
//   - nil-предмет - no-op;
//   - из старой коллекции удаляем только если она задана и содержит предмет;
//   - в новую добавляем только если она задана и предмета там еще нет.
//
// Вызывается до присвоения нового внешнего ключа, чтобы коллекции в памяти
// и сохраненный ключ оставались согласованными в одной транзакции.
func SwitchItemCollection(oldCollection, newCollection *[]models.Item, item *models.Item) {
	if item == nil {
		return
	}

	if oldCollection != nil {
		for idx, existing := range *oldCollection {
			if existing.ID == item.ID {
				*oldCollection = append((*oldCollection)[:idx], (*oldCollection)[idx+1:]...)
				break
			}
		}
	}

	if newCollection != nil {
		for _, existing := range *newCollection {
			if existing.ID == item.ID {
				return
			}
		}
		*newCollection = append(*newCollection, *item)
	}
}
