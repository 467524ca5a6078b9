package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/roomvoice/feedback_backend/controllers"
	"github.com/roomvoice/feedback_backend/database"
	"github.com/roomvoice/feedback_backend/docs"
	"github.com/roomvoice/feedback_backend/middleware"
	"github.com/roomvoice/feedback_backend/notify"
	"github.com/roomvoice/feedback_backend/relay"
	"github.com/roomvoice/feedback_backend/stores"
)

// @title           Room Feedback API
// @version         1.0
// @description     Backend for QR-coded room feedback with Telegram notifications
// @host            localhost:8080
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the service token.
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables")
	}

	if os.Getenv("APP_ENV") == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	// Initialize database
	database.Connect()
	database.Migrate()
	database.SeedAdmins()

	// Set up Swagger info
	docs.SwaggerInfo.Title = "Room Feedback API"
	docs.SwaggerInfo.Description = "Backend for QR-coded room feedback with Telegram notifications"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:" + os.Getenv("PORT")
	if docs.SwaggerInfo.Host == "localhost:" {
		docs.SwaggerInfo.Host = "localhost:8080"
	}
	docs.SwaggerInfo.BasePath = "/"
	docs.SwaggerInfo.Schemes = []string{"http"}

	// Outbound notification transport
	notifier, err := notify.NewTelegramNotifier(os.Getenv("BOT_TOKEN"))
	if err != nil {
		logrus.Fatalf("Failed to initialize Telegram notifier: %v", err)
	}

	// Wire stores, relay and controllers
	locationStore := stores.NewLocationStore(database.DB)
	roomStore := stores.NewRoomStore(database.DB)
	messageStore := stores.NewMessageStore(database.DB)
	adminStore := stores.NewAdminStore(database.DB)

	feedbackRelay := relay.New(roomStore, messageStore, notifier)
	feedbackController := controllers.NewFeedbackController(feedbackRelay, roomStore)
	adminController := controllers.NewAdminController(locationStore, roomStore, adminStore)

	// Set up router
	router := gin.Default()

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public visitor-facing routes (token is the capability)
	feedback := router.Group("/feedback")
	{
		feedback.POST("/:token", feedbackController.SubmitFeedback)
		feedback.GET("/room/:token", feedbackController.GetRoomInfo)
	}

	// Admin routes, gated by the service token
	admin := router.Group("/feedback/admin")
	admin.Use(middleware.ServiceAuth())
	{
		admin.POST("/create_room", adminController.CreateRoom)
		admin.GET("/is_authorized/:identity", adminController.IsAuthorized)
		admin.POST("/add_location", adminController.AddLocation)
		admin.GET("/locations", adminController.ListLocations)
		admin.GET("/rooms/by_location", adminController.RoomsByLocation)
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logrus.Infof("Server running on port %s", port)
	logrus.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", port)
	if err := router.Run(":" + port); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}
