package main

import (
	"fmt"
	"net/http"
	"testing"

	"inventar-backend/controllers"
	"inventar-backend/models"
	"inventar-backend/services"

	"github.com/stretchr/testify/assert"
)

func TestExtensionPriceRoundTrip(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db)
	userID := createTestUser(db, "Admin", "admin@test.com")
	token := generateTestJWT(userID)

	resp, err := app.Test(jsonRequest("POST", "/items", map[string]interface{}{
		"id":      1,
		"price":   100,
		"company": "Acme",
		"orderer": "Alice",
	}, token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(jsonRequest("POST", "/items/1/extensions", map[string]interface{}{
		"description": "RAM upgrade",
		"price":       25,
	}, token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var body controllers.ExtensionResponse
	assert.NoError(t, decodeResponse(resp, &body))
	assert.True(t, body.Success)
	assert.NotNil(t, body.Item.Price)
	assert.Equal(t, 125.0, *body.Item.Price)

	// Удаление дополнения возвращает цену к исходной
	resp, err = app.Test(jsonRequest("DELETE",
		fmt.Sprintf("/items/1/extensions/%d", body.Extension.ID), nil, token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var item models.Item
	assert.NoError(t, db.First(&item, 1).Error)
	assert.NotNil(t, item.Price)
	assert.Equal(t, 100.0, *item.Price)
}

func TestExtensionNilPriceNoOp(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db)
	userID := createTestUser(db, "Admin", "admin@test.com")
	token := generateTestJWT(userID)

	app.Test(jsonRequest("POST", "/items", map[string]interface{}{
		"id":      2,
		"price":   500,
		"company": "Acme",
		"orderer": "Alice",
	}, token))

	// Дополнение без цены не трогает цену предмета
	resp, err := app.Test(jsonRequest("POST", "/items/2/extensions", map[string]interface{}{
		"description": "Cable",
	}, token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var item models.Item
	assert.NoError(t, db.First(&item, 2).Error)
	assert.Equal(t, 500.0, *item.Price)
}

func TestExtensionInitializesNilItemPrice(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db)
	userID := createTestUser(db, "Admin", "admin@test.com")
	token := generateTestJWT(userID)

	app.Test(jsonRequest("POST", "/items", map[string]interface{}{
		"id":      3,
		"company": "Acme",
		"orderer": "Alice",
	}, token))

	// Предмет без цены получает цену дополнения как начальную
	resp, err := app.Test(jsonRequest("POST", "/items/3/extensions", map[string]interface{}{
		"description": "SSD",
		"price":       80,
	}, token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var item models.Item
	assert.NoError(t, db.First(&item, 3).Error)
	assert.NotNil(t, item.Price)
	assert.Equal(t, 80.0, *item.Price)
}

func TestSubtractExtensionPriceBothRequired(t *testing.T) {
	// Вычитание выполняется только когда обе цены заданы
	item := models.Item{ID: 1, Price: nil}
	ext := models.Extension{Price: ptrFloat(25)}
	services.SubtractExtensionPrice(&item, &ext)
	assert.Nil(t, item.Price)

	item.Price = ptrFloat(100)
	ext.Price = nil
	services.SubtractExtensionPrice(&item, &ext)
	assert.Equal(t, 100.0, *item.Price)

	ext.Price = ptrFloat(25)
	services.SubtractExtensionPrice(&item, &ext)
	assert.Equal(t, 75.0, *item.Price)
}

func TestExtensionFeedsSearchText(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db)
	userID := createTestUser(db, "Admin", "admin@test.com")
	token := generateTestJWT(userID)

	app.Test(jsonRequest("POST", "/items", map[string]interface{}{
		"id":      4,
		"company": "Acme",
		"orderer": "Alice",
	}, token))
	app.Test(jsonRequest("POST", "/items/4/extensions", map[string]interface{}{
		"description": "Docking station",
		"company":     "Globex",
	}, token))

	// Описание и фирма дополнения попадают в поисковую строку предмета
	_, total, err := services.FindItems(db, services.ItemFilter{SearchText: "docking"}, 1, 50)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = services.FindItems(db, services.ItemFilter{SearchText: "globex"}, 1, 50)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestRemoveExtensionWrongItem(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db)
	userID := createTestUser(db, "Admin", "admin@test.com")
	token := generateTestJWT(userID)

	app.Test(jsonRequest("POST", "/items", map[string]interface{}{
		"id":      5,
		"company": "Acme",
		"orderer": "Alice",
	}, token))
	app.Test(jsonRequest("POST", "/items", map[string]interface{}{
		"id":      6,
		"company": "Acme",
		"orderer": "Alice",
	}, token))

	resp, err := app.Test(jsonRequest("POST", "/items/5/extensions", map[string]interface{}{
		"description": "Mouse",
	}, token))
	assert.NoError(t, err)

	var body controllers.ExtensionResponse
	assert.NoError(t, decodeResponse(resp, &body))

	// Дополнение другого предмета недоступно по чужому маршруту
	resp, err = app.Test(jsonRequest("DELETE",
		fmt.Sprintf("/items/6/extensions/%d", body.Extension.ID), nil, token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
