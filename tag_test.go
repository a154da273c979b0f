package main

import (
	"net/http"
	"testing"

	"inventar-backend/controllers"
	"inventar-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestCreateTag(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db)
	userID := createTestUser(db, "Admin", "admin@test.com")
	token := generateTestJWT(userID)

	resp, err := app.Test(jsonRequest("POST", "/tags", map[string]interface{}{
		"name": "Ноутбук",
	}, token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var body controllers.TagResponse
	assert.NoError(t, decodeResponse(resp, &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Ноутбук", body.Tag.Name)
}

func TestCreateTagDuplicate(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db)
	userID := createTestUser(db, "Admin", "admin@test.com")
	token := generateTestJWT(userID)

	payload := map[string]interface{}{"name": "Монитор"}

	resp, err := app.Test(jsonRequest("POST", "/tags", payload, token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(jsonRequest("POST", "/tags", payload, token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetTagsSorted(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db)

	db.Create(&models.Tag{Name: "Сервер"})
	db.Create(&models.Tag{Name: "Мебель"})

	resp, err := app.Test(jsonRequest("GET", "/tags", nil, ""))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body controllers.TagsResponse
	assert.NoError(t, decodeResponse(resp, &body))
	assert.Len(t, body.Tags, 2)
	assert.Equal(t, "Мебель", body.Tags[0].Name)
	assert.Equal(t, "Сервер", body.Tags[1].Name)
}

func TestAttachAndDetachTag(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db)
	userID := createTestUser(db, "Admin", "admin@test.com")
	token := generateTestJWT(userID)

	tag := models.Tag{Name: "Периферия"}
	db.Create(&tag)
	db.Create(&models.Item{ID: 1, Description: "Keyboard"})

	resp, err := app.Test(jsonRequest("POST", "/items/1/tags/1", nil, token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var item models.Item
	assert.NoError(t, db.Preload("Tags").First(&item, 1).Error)
	assert.Len(t, item.Tags, 1)

	resp, err = app.Test(jsonRequest("DELETE", "/items/1/tags/1", nil, token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	item = models.Item{}
	assert.NoError(t, db.Preload("Tags").First(&item, 1).Error)
	assert.Len(t, item.Tags, 0)

	// Метка пережила отвязку
	var count int64
	db.Model(&models.Tag{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAttachTagUnknownTag(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db)
	userID := createTestUser(db, "Admin", "admin@test.com")
	token := generateTestJWT(userID)

	db.Create(&models.Item{ID: 1})

	resp, err := app.Test(jsonRequest("POST", "/items/1/tags/99", nil, token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
