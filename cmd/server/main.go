package main

import (
	"net/http"

	"pingpal/backend/internal/auth"
	"pingpal/backend/internal/config"
	"pingpal/backend/internal/database"
	"pingpal/backend/internal/handler"
	"pingpal/backend/internal/hub"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	// Swagger imports
	_ "pingpal/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Pingpal API
// @version         1.0
// @description     This is the API for the Pingpal friend and messaging service.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	// Fan deliveries out across processes when Redis is configured; a single
	// process works with the in-memory registry alone.
	if addr := config.AppConfig.RedisAddr; addr != "" {
		hub.GlobalHub.SetBridge(hub.NewBridge(addr))
		logrus.WithField("addr", addr).Info("event bridge enabled")
	}

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/signup", handler.Signup)
			authRoutes.POST("/signin", handler.Signin)
			authRoutes.POST("/logout", auth.AuthMiddleware(), handler.Logout)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("", handler.SearchUsers)
			userRoutes.GET("/me", handler.GetMe)
			userRoutes.GET("/me/friends", handler.ListFriends)
		}

		// Friendship routes (protected)
		friendRoutes := apiV1.Group("/friends")
		friendRoutes.Use(auth.AuthMiddleware())
		{
			friendRoutes.POST("/request", handler.SendFriendRequest)
			friendRoutes.POST("/respond", handler.RespondFriendRequest)
		}

		// Message routes (protected)
		messageRoutes := apiV1.Group("/messages")
		messageRoutes.Use(auth.AuthMiddleware())
		{
			messageRoutes.POST("", handler.SendMessage)
			messageRoutes.GET("/:peerID", handler.GetMessages)
		}

		// Real-time event stream (protected)
		apiV1.GET("/events", auth.AuthMiddleware(), handler.StreamEvents)
	}

	addr := ":" + config.AppConfig.Port
	logrus.WithField("addr", addr).Info("server is running")
	logrus.Info("Swagger UI is available at http://localhost" + addr + "/swagger/index.html")
	logrus.Fatal(router.Run(addr))
}
