package main

import (
	"log"
	"os"
	"time"

	"inventar-backend/controllers"
	"inventar-backend/models"
	"inventar-backend/routes"
	"inventar-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"
)

func main() {
	// Инициализация базы данных
	db, err := models.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Автомиграция
	db.AutoMigrate(&models.User{}, &models.Company{}, &models.CostCenter{}, &models.Tag{}, &models.Item{}, &models.Extension{}, &models.ItemComment{}, &models.HistoryEntry{})

	// Инициализация базовых меток
	initDefaultTags(db)

	// Создание Fiber приложения
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
				"code":    code,
			})
		},
	})

	// Middleware
	app.Use(logger.New())

	// CORS настройки
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000,http://127.0.0.1:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Инициализация WebSocket хаба
	hub := services.NewHub()
	go hub.Run()

	// Инициализация контроллеров
	authController := controllers.NewAuthController(db)
	itemController := controllers.NewItemController(db, hub)
	extensionController := controllers.NewExtensionController(db, hub)
	tagController := controllers.NewTagController(db)
	commentController := controllers.NewCommentController(db)
	statsController := controllers.NewStatsController(db)
	userController := controllers.NewUserController(db)

	// Настройка маршрутов
	routes.SetupAuthRoutes(app, authController)
	routes.SetupItemRoutes(app, itemController)
	routes.SetupExtensionRoutes(app, extensionController)
	routes.SetupTagRoutes(app, tagController)
	routes.SetupCommentRoutes(app, commentController)
	routes.SetupStatsRoutes(app, statsController)
	routes.SetupUserRoutes(app, userController)

	// WebSocket маршрут для живой ленты изменений инвентаря
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		hub.HandleWebSocket(c)
	}))

	// Общий health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"message":   "Inventar Backend is running",
			"timestamp": time.Now().Unix(),
		})
	})

	// Запуск сервера
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	log.Fatal(app.Listen(":" + port))
}

// initDefaultTags инициализирует базовые метки инвентаря
func initDefaultTags(db *gorm.DB) {
	defaultTags := []models.Tag{
		{Name: "Ноутбук"},
		{Name: "Монитор"},
		{Name: "Периферия"},
		{Name: "Мебель"},
		{Name: "Сервер"},
		{Name: "Сетевое оборудование"},
		{Name: "Телефон"},
		{Name: "Лицензия"},
	}

	// Проверяем, есть ли уже метки в базе
	var count int64
	db.Model(&models.Tag{}).Count(&count)

	if count == 0 {
		log.Println("Инициализация базовых меток...")
		for _, tag := range defaultTags {
			if err := db.Create(&tag).Error; err != nil {
				log.Printf("Ошибка при создании метки '%s': %v", tag.Name, err)
			}
		}
		log.Println("Базовые метки инициализированы")
	} else {
		log.Printf("Базовые метки уже существуют (%d элементов)", count)
	}
}
