package main

import (
	"testing"

	"inventar-backend/models"
	"inventar-backend/services"

	"github.com/stretchr/testify/assert"
)

func TestDiffEqualSnapshots(t *testing.T) {
	item := models.Item{
		ID:           1,
		Description:  "Laptop",
		SerialNumber: "SN-1",
		Price:        ptrFloat(1000),
		Location:     "Office 1",
	}

	before := services.TakeSnapshot(&item)
	after := services.TakeSnapshot(&item)

	// Равные снимки не дают изменений
	assert.Empty(t, services.Diff(before, after))
}

func TestDiffSingleAttribute(t *testing.T) {
	item := models.Item{ID: 1, Description: "Laptop", Price: ptrFloat(1000)}
	before := services.TakeSnapshot(&item)

	item.Price = ptrFloat(1200)
	after := services.TakeSnapshot(&item)

	changes := services.Diff(before, after)
	assert.Len(t, changes, 1)
	assert.Equal(t, "price", changes[0].Attribute)
	assert.Equal(t, "1000", changes[0].ValueFrom)
	assert.Equal(t, "1200", changes[0].ValueTo)
}

func TestDiffPriceFormatting(t *testing.T) {
	item := models.Item{ID: 1, Price: nil}
	before := services.TakeSnapshot(&item)

	// Дробная часть сохраняется, хвостовые нули отбрасываются
	item.Price = ptrFloat(1234.5)
	after := services.TakeSnapshot(&item)

	changes := services.Diff(before, after)
	assert.Len(t, changes, 1)
	assert.Equal(t, "null", changes[0].ValueFrom)
	assert.Equal(t, "1234.5", changes[0].ValueTo)
}

func TestDiffNullSentinels(t *testing.T) {
	item := models.Item{ID: 1}
	before := services.TakeSnapshot(&item)

	item.CostCenter = &models.CostCenter{Label: "IT"}
	item.Company = &models.Company{Name: "Acme"}
	after := services.TakeSnapshot(&item)

	changes := services.Diff(before, after)
	assert.Len(t, changes, 2)
	assert.Equal(t, "cost_center", changes[0].Attribute)
	assert.Equal(t, "null", changes[0].ValueFrom)
	assert.Equal(t, "IT", changes[0].ValueTo)
	assert.Equal(t, "company", changes[1].Attribute)
	assert.Equal(t, "null", changes[1].ValueFrom)
	assert.Equal(t, "Acme", changes[1].ValueTo)
}

func TestDiffStableOrder(t *testing.T) {
	item := models.Item{
		ID:           1,
		Description:  "Laptop",
		SerialNumber: "SN-1",
		Price:        ptrFloat(100),
		Location:     "Office 1",
		OrdererID:    ptrUint(5),
	}
	before := services.TakeSnapshot(&item)

	item.Description = "Desktop"
	item.SerialNumber = "SN-2"
	item.Price = ptrFloat(200)
	item.Location = "Office 2"
	item.OrdererID = ptrUint(6)
	after := services.TakeSnapshot(&item)

	// Порядок атрибутов фиксирован независимо от порядка мутаций
	changes := services.Diff(before, after)
	attributes := make([]string, len(changes))
	for i, change := range changes {
		attributes[i] = change.Attribute
	}
	assert.Equal(t, []string{"description", "serial_number", "price", "location", "orderer"}, attributes)
}

func TestDiffOrdererByIdentityNotName(t *testing.T) {
	// Смена заказчика с совпадающим именем все равно фиксируется:
	// снимок держит ID, а не имя
	item := models.Item{ID: 1, OrdererID: ptrUint(5)}
	before := services.TakeSnapshot(&item)

	item.OrdererID = ptrUint(9)
	after := services.TakeSnapshot(&item)

	changes := services.Diff(before, after)
	assert.Len(t, changes, 1)
	assert.Equal(t, "orderer", changes[0].Attribute)
	assert.Equal(t, "5", changes[0].ValueFrom)
	assert.Equal(t, "9", changes[0].ValueTo)
}

func TestRecordHistoryPersistsEntries(t *testing.T) {
	db := setupTestDB()
	userID := createTestUser(db, "Admin", "admin@test.com")
	db.Create(&models.Item{ID: 1, Description: "Laptop"})

	changes := []services.Change{
		{Attribute: "description", ValueFrom: "Laptop", ValueTo: "Desktop"},
		{Attribute: "location", ValueFrom: "null", ValueTo: "Office 1"},
	}
	assert.NoError(t, services.RecordHistory(db, userID, 1, changes))

	var entries []models.HistoryEntry
	db.Where("item_id = ?", 1).Order("id ASC").Find(&entries)
	assert.Len(t, entries, 2)
	assert.Equal(t, "description", entries[0].Attribute)
	assert.Equal(t, userID, entries[0].UserID)
	assert.Equal(t, "location", entries[1].Attribute)
	assert.False(t, entries[0].CreatedAt.IsZero())
}
