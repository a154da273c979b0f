package main

import (
	"testing"
	"time"

	"inventar-backend/models"
	"inventar-backend/services"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func ptrFloat(v float64) *float64 { return &v }
func ptrUint(v uint) *uint        { return &v }
func ptrBool(v bool) *bool        { return &v }
func ptrString(v string) *string  { return &v }

// seedFilterItems создает набор предметов с разными фирмами, ценами и метками
func seedFilterItems(db *gorm.DB) {
	acme := models.Company{Name: "Acme"}
	globex := models.Company{Name: "Globex"}
	db.Create(&acme)
	db.Create(&globex)

	hardware := models.Tag{Name: "Железо"}
	furniture := models.Tag{Name: "Мебель"}
	db.Create(&hardware)
	db.Create(&furniture)

	items := []models.Item{
		{ID: 1, Description: "Laptop", SerialNumber: "SN-1", Price: ptrFloat(1500), Location: "Office 1", CompanyID: &acme.ID, Company: &acme, Tags: []models.Tag{hardware}},
		{ID: 2, Description: "Monitor", SerialNumber: "SN-2", Price: ptrFloat(300), Location: "Office 1", CompanyID: &globex.ID, Company: &globex, Tags: []models.Tag{hardware}},
		{ID: 3, Description: "Desk", SerialNumber: "SN-3", Price: ptrFloat(450), Location: "Office 2", CompanyID: &acme.ID, Company: &acme, Tags: []models.Tag{furniture}},
		{ID: 4, Description: "Chair", SerialNumber: "SN-4", Price: nil, Location: "Office 2", Deinventoried: true},
	}
	for i := range items {
		items[i].RecomputeSearchText()
		db.Create(&items[i])
	}
}

func TestFindItemsEmptyFilter(t *testing.T) {
	db := setupTestDB()
	seedFilterItems(db)

	// Пустой фильтр эквивалентен полному скану
	items, total, err := services.FindItems(db, services.ItemFilter{}, 1, 50)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, items, 4)
	assert.Equal(t, uint(1), items[0].ID)
	assert.Equal(t, uint(4), items[3].ID)
}

func TestFindItemsPriceRange(t *testing.T) {
	db := setupTestDB()
	seedFilterItems(db)

	items, total, err := services.FindItems(db, services.ItemFilter{
		MinPrice: ptrFloat(300),
		MaxPrice: ptrFloat(500),
	}, 1, 50)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, uint(2), items[0].ID)
	assert.Equal(t, uint(3), items[1].ID)
}

func TestFindItemsIDRange(t *testing.T) {
	db := setupTestDB()
	seedFilterItems(db)

	items, total, err := services.FindItems(db, services.ItemFilter{
		MinID: ptrUint(2),
		MaxID: ptrUint(3),
	}, 1, 50)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)
}

func TestFindItemsByTags(t *testing.T) {
	db := setupTestDB()
	seedFilterItems(db)

	var hardware models.Tag
	db.Where("name = ?", "Железо").First(&hardware)
	var furniture models.Tag
	db.Where("name = ?", "Мебель").First(&furniture)

	// Достаточно принадлежности хотя бы одной метке из набора
	items, total, err := services.FindItems(db, services.ItemFilter{
		TagIDs: []uint{hardware.ID, furniture.ID},
	}, 1, 50)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, items, 3)

	_, total, err = services.FindItems(db, services.ItemFilter{
		TagIDs: []uint{furniture.ID},
	}, 1, 50)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestFindItemsByCompanyName(t *testing.T) {
	db := setupTestDB()
	seedFilterItems(db)

	items, total, err := services.FindItems(db, services.ItemFilter{
		Company: ptrString("Acme"),
	}, 1, 50)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, item := range items {
		assert.Equal(t, "Acme", item.Company.Name)
	}
}

func TestFindItemsByDeinventoried(t *testing.T) {
	db := setupTestDB()
	seedFilterItems(db)

	items, total, err := services.FindItems(db, services.ItemFilter{
		Deinventoried: ptrBool(true),
	}, 1, 50)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, uint(4), items[0].ID)
}

func TestFindItemsBySearchText(t *testing.T) {
	db := setupTestDB()
	seedFilterItems(db)

	// Поиск без учета регистра по предвычисленной строке
	items, total, err := services.FindItems(db, services.ItemFilter{
		SearchText: "LAPTOP",
	}, 1, 50)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, uint(1), items[0].ID)

	// Поиск захватывает и имя фирмы
	_, total, err = services.FindItems(db, services.ItemFilter{
		SearchText: "acme",
	}, 1, 50)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestFindItemsCombinedCriteria(t *testing.T) {
	db := setupTestDB()
	seedFilterItems(db)

	// Критерии соединяются через AND
	items, total, err := services.FindItems(db, services.ItemFilter{
		Company:  ptrString("Acme"),
		MaxPrice: ptrFloat(500),
	}, 1, 50)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, uint(3), items[0].ID)
}

func TestFindItemsSortByPriceDesc(t *testing.T) {
	db := setupTestDB()
	seedFilterItems(db)

	items, _, err := services.FindItems(db, services.ItemFilter{
		OrderBy:   "price",
		Direction: "desc",
	}, 1, 50)
	assert.NoError(t, err)
	assert.Len(t, items, 4)
	assert.Equal(t, uint(1), items[0].ID)
	assert.Equal(t, uint(3), items[1].ID)
	assert.Equal(t, uint(2), items[2].ID)
}

func TestFindItemsSortByCompanyName(t *testing.T) {
	db := setupTestDB()
	seedFilterItems(db)

	// Сортировка по полю связанной сущности через JOIN
	items, total, err := services.FindItems(db, services.ItemFilter{
		OrderBy:   "company.name",
		Direction: "asc",
	}, 1, 50)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, items, 4)

	// Acme (id 1, 3) раньше Globex (id 2); предмет без фирмы через LEFT JOIN
	// не выпадает из выборки
	positions := map[uint]int{}
	for i, item := range items {
		positions[item.ID] = i
	}
	assert.Less(t, positions[1], positions[2])
	assert.Less(t, positions[3], positions[2])
	assert.Less(t, positions[1], positions[3])
}

func TestFindItemsInvalidSortField(t *testing.T) {
	db := setupTestDB()
	seedFilterItems(db)

	// Поле вне allow-list отклоняется до обращения к базе
	_, _, err := services.FindItems(db, services.ItemFilter{
		OrderBy: "password_hash",
	}, 1, 50)
	assert.ErrorIs(t, err, services.ErrInvalidSortField)
}

func TestFindItemsPagination(t *testing.T) {
	db := setupTestDB()
	seedFilterItems(db)

	items, total, err := services.FindItems(db, services.ItemFilter{}, 1, 2)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, items, 2)
	assert.Equal(t, uint(1), items[0].ID)

	items, total, err = services.FindItems(db, services.ItemFilter{}, 2, 2)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, items, 2)
	assert.Equal(t, uint(3), items[0].ID)

	// Страница за пределами данных пуста, но не ошибка
	items, total, err = services.FindItems(db, services.ItemFilter{}, 5, 2)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, items, 0)
}

func TestFindItemsCreatedRange(t *testing.T) {
	db := setupTestDB()

	old := models.Item{ID: 1, Description: "Old"}
	db.Create(&old)
	db.Model(&models.Item{}).Where("id = ?", 1).
		Update("created_at", time.Date(2020, 1, 15, 12, 0, 0, 0, time.UTC))

	recent := models.Item{ID: 2, Description: "Recent"}
	db.Create(&recent)

	cutoff := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	items, total, err := services.FindItems(db, services.ItemFilter{
		CreatedAfter: &cutoff,
	}, 1, 50)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, uint(2), items[0].ID)
}
