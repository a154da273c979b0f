package services

import (
	"inventar-backend/models"
)

// AddExtensionPrice прибавляет цену дополнения к цене предмета.
// Коррекция всегда инкрементальная, цена не пересчитывается по списку
// дополнений. Дополнение без цены не меняет цену предмета.
func AddExtensionPrice(item *models.Item, ext *models.Extension) {
	if ext.Price == nil {
		return
	}
	if item.Price == nil {
		zero := 0.0
		item.Price = &zero
	}
	total := *item.Price + *ext.Price
	item.Price = &total
}

// SubtractExtensionPrice вычитает цену дополнения при его удалении.
// Если цена предмета или дополнения не задана, цена остается как есть.
func SubtractExtensionPrice(item *models.Item, ext *models.Extension) {
	if item.Price == nil || ext.Price == nil {
		return
	}
	total := *item.Price - *ext.Price
	item.Price = &total
}
