package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"inventar-backend/controllers"
	"inventar-backend/models"
	"inventar-backend/routes"
	"inventar-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB создает тестовую базу данных в памяти
func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("Failed to connect to test database")
	}
	db.AutoMigrate(&models.User{}, &models.Company{}, &models.CostCenter{}, &models.Tag{}, &models.Item{}, &models.Extension{}, &models.ItemComment{}, &models.HistoryEntry{})
	return db
}

// createTestApp создает тестовое приложение со всеми маршрутами
func createTestApp(db *gorm.DB) *fiber.App {
	app := fiber.New()

	hub := services.NewHub()

	authController := controllers.NewAuthController(db)
	itemController := controllers.NewItemController(db, hub)
	extensionController := controllers.NewExtensionController(db, hub)
	tagController := controllers.NewTagController(db)
	commentController := controllers.NewCommentController(db)
	statsController := controllers.NewStatsController(db)
	userController := controllers.NewUserController(db)

	routes.SetupAuthRoutes(app, authController)
	routes.SetupItemRoutes(app, itemController)
	routes.SetupExtensionRoutes(app, extensionController)
	routes.SetupTagRoutes(app, tagController)
	routes.SetupCommentRoutes(app, commentController)
	routes.SetupStatsRoutes(app, statsController)
	routes.SetupUserRoutes(app, userController)

	return app
}

// createTestUser создает тестового пользователя и возвращает его ID
func createTestUser(db *gorm.DB, name, email string) uint {
	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "hash",
		IsActive:     true,
	}
	db.Create(&user)
	return user.ID
}

// generateTestJWT создает тестовый JWT токен для указанного пользователя
func generateTestJWT(userID uint) string {
	secretKey := "inventar-secret-key-change-in-production"
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(secretKey))
	return tokenString
}

// validateTestJWT проверяет тестовый JWT токен и возвращает user_id
func validateTestJWT(tokenString string) (uint, error) {
	secretKey := "inventar-secret-key-change-in-production"

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})

	if err != nil {
		return 0, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		if userID, ok := claims["user_id"].(float64); ok {
			return uint(userID), nil
		}
	}

	return 0, jwt.ErrTokenMalformed
}

// jsonRequest собирает HTTP запрос с JSON телом и токеном авторизации
func jsonRequest(method, target string, body interface{}, token string) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req, _ := http.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// decodeResponse разбирает JSON тело ответа в указанную структуру
func decodeResponse(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(target)
}
