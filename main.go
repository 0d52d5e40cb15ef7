package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/harshith2312008/leon-chat-app/chat"
	"github.com/harshith2312008/leon-chat-app/config"
	"github.com/harshith2312008/leon-chat-app/database"
	"github.com/harshith2312008/leon-chat-app/handlers"
	"github.com/harshith2312008/leon-chat-app/logger"
	"github.com/harshith2312008/leon-chat-app/middleware"
	"github.com/harshith2312008/leon-chat-app/store"
	"github.com/harshith2312008/leon-chat-app/websocket"
)

func main() {
	_ = godotenv.Load()

	config.Load()

	logger.Init(config.Cfg.LogLevel)
	defer logger.Sync()

	if err := database.Connect(); err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}
	defer database.Close()

	if err := database.CreateTables(); err != nil {
		logger.Fatal("failed to create tables", "error", err)
	}

	hub := websocket.InitHub(config.Cfg.PublishTimeout)

	service := chat.NewService(
		store.NewFriendRequestDatabase(database.DB),
		store.NewMessageDatabase(database.DB),
		hub,
	)
	websocket.BindService(service)
	handlers.Init(service)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
	}

	users := r.Group("/api/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/search", handlers.SearchUsers)
	}

	friends := r.Group("/api/friends")
	friends.Use(middleware.AuthMiddleware())
	{
		friends.GET("", handlers.GetFriends)
		friends.GET("/requests", handlers.GetFriendRequests)
		friends.POST("/request", handlers.SendFriendRequest)
		friends.PUT("/requests/:id", handlers.RespondToFriendRequest)
	}

	messages := r.Group("/api/messages")
	messages.Use(middleware.AuthMiddleware())
	{
		messages.GET("/:user_id", handlers.GetConversation)
	}

	r.GET("/ws", websocket.HandleWebSocket)

	logger.Info("server starting", "addr", config.Cfg.ServerAddr)
	if err := r.Run(config.Cfg.ServerAddr); err != nil {
		logger.Fatal("server exited", "error", err)
	}
}
