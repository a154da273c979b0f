package services

import (
	"strconv"

	"inventar-backend/models"

	"gorm.io/gorm"
)

// NullValue - сентинел для отсутствующего значения в истории изменений
const NullValue = "null"

// Snapshot - плоская проекция отслеживаемых полей Item до/после мутации.
// Поля, которых здесь нет (поисковая строка, таймстемпы), для истории
// невидимы - это сделано намеренно.
type Snapshot struct {
	ID           uint
	Description  string
	SerialNumber string
	Price        *float64
	Location     string
	CostCenter   *string
	Company      *string
	OrdererID    *uint
}

// Change описывает одно зафиксированное изменение атрибута
type Change struct {
	Attribute string
	ValueFrom string
	ValueTo   string
}

// TakeSnapshot снимает проекцию отслеживаемых полей. Для связей берется
// отображаемое поле (имя фирмы, метка кост-центра), для заказчика - его ID,
// чтобы ловить смену личности при совпадающих именах.
func TakeSnapshot(item *models.Item) Snapshot {
	snap := Snapshot{
		ID:           item.ID,
		Description:  item.Description,
		SerialNumber: item.SerialNumber,
		Price:        item.Price,
		Location:     item.Location,
		OrdererID:    item.OrdererID,
	}

	if item.CostCenter != nil {
		label := item.CostCenter.Label
		snap.CostCenter = &label
	}
	if item.Company != nil {
		name := item.Company.Name
		snap.Company = &name
	}

	return snap
}

// formatPrice сериализует цену без хвостовых нулей: 1000.0 -> "1000"
func formatPrice(price *float64) string {
	if price == nil {
		return NullValue
	}
	return strconv.FormatFloat(*price, 'f', -1, 64)
}

func formatString(value *string) string {
	if value == nil {
		return NullValue
	}
	return *value
}

func formatID(id *uint) string {
	if id == nil {
		return NullValue
	}
	return strconv.FormatUint(uint64(*id), 10)
}

// Diff сравнивает два снимка по значению и возвращает по одному Change на
// каждый различающийся атрибут. Равные снимки дают пустой результат.
func Diff(before, after Snapshot) []Change {
	var changes []Change

	if before.Description != after.Description {
		changes = append(changes, Change{"description", before.Description, after.Description})
	}
	if before.SerialNumber != after.SerialNumber {
		changes = append(changes, Change{"serial_number", before.SerialNumber, after.SerialNumber})
	}
	if formatPrice(before.Price) != formatPrice(after.Price) {
		changes = append(changes, Change{"price", formatPrice(before.Price), formatPrice(after.Price)})
	}
	if before.Location != after.Location {
		changes = append(changes, Change{"location", before.Location, after.Location})
	}
	if formatString(before.CostCenter) != formatString(after.CostCenter) {
		changes = append(changes, Change{"cost_center", formatString(before.CostCenter), formatString(after.CostCenter)})
	}
	if formatString(before.Company) != formatString(after.Company) {
		changes = append(changes, Change{"company", formatString(before.Company), formatString(after.Company)})
	}
	if formatID(before.OrdererID) != formatID(after.OrdererID) {
		changes = append(changes, Change{"orderer", formatID(before.OrdererID), formatID(after.OrdererID)})
	}

	return changes
}

// RecordHistory сохраняет по одной записи истории на каждое изменение.
// Вызывается внутри транзакции обновления: записи либо коммитятся вместе
// с мутацией, либо откатываются вместе с ней.
func RecordHistory(tx *gorm.DB, userID, itemID uint, changes []Change) error {
	for _, change := range changes {
		entry := models.HistoryEntry{
			ItemID:    itemID,
			UserID:    userID,
			Attribute: change.Attribute,
			ValueFrom: change.ValueFrom,
			ValueTo:   change.ValueTo,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
	}
	return nil
}
