package main

import (
	"net/http"
	"testing"

	"inventar-backend/models"

	"github.com/stretchr/testify/assert"
)

// usersBody зеркалит JSON списка пользователей
type usersBody struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Users   []models.User `json:"users"`
}

// userBody зеркалит JSON одного пользователя со статистикой
type userBody struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	User    models.User `json:"user"`
	Stats   struct {
		ItemCount    int64   `json:"item_count"`
		ActiveCount  int64   `json:"active_count"`
		TotalPrice   float64 `json:"total_price"`
		CommentCount int64   `json:"comment_count"`
	} `json:"stats"`
}

func TestGetUsersOnlyActive(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db)

	createTestUser(db, "Bob", "bob@test.com")
	createTestUser(db, "Alice", "alice@test.com")
	db.Create(&models.User{Name: "Ghost", Email: "ghost@test.com", PasswordHash: "hash", IsActive: false})

	resp, err := app.Test(jsonRequest("GET", "/users/", nil, ""))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body usersBody
	assert.NoError(t, decodeResponse(resp, &body))
	assert.Len(t, body.Users, 2)
	assert.Equal(t, "Alice", body.Users[0].Name)
	assert.Equal(t, "Bob", body.Users[1].Name)
}

func TestGetUserWithItemStats(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db)

	aliceID := createTestUser(db, "Alice", "alice@test.com")

	db.Create(&models.Item{ID: 1, Price: ptrFloat(100), OrdererID: &aliceID})
	db.Create(&models.Item{ID: 2, Price: ptrFloat(50), OrdererID: &aliceID, Deinventoried: true})

	resp, err := app.Test(jsonRequest("GET", "/users/1", nil, ""))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body userBody
	assert.NoError(t, decodeResponse(resp, &body))
	assert.Equal(t, "Alice", body.User.Name)
	assert.Equal(t, int64(2), body.Stats.ItemCount)
	assert.Equal(t, int64(1), body.Stats.ActiveCount)
	assert.Equal(t, 150.0, body.Stats.TotalPrice)
}

func TestGetUserNotFound(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db)

	resp, err := app.Test(jsonRequest("GET", "/users/99", nil, ""))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
