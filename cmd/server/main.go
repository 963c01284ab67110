package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"grill-ekstraklasa/internal/auth"
	"grill-ekstraklasa/internal/database"
	"grill-ekstraklasa/internal/handlers"
	"grill-ekstraklasa/internal/services"
	"grill-ekstraklasa/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Connect to database
	dbConfig := database.LoadConfig()
	if err := database.Connect(dbConfig); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Initialize and start background workers
	workerService := worker.NewWorkerService(database.DB)
	if err := workerService.Start(); err != nil {
		log.Fatal("Failed to start background workers:", err)
	}

	setupGracefulShutdown(workerService)
	setupServer(workerService)
}

func setupGracefulShutdown(workerService *worker.WorkerService) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Received shutdown signal, gracefully shutting down...")
		workerService.Stop()
		database.Close()
		log.Println("Shutdown complete")
		os.Exit(0)
	}()
}

func setupServer(workerService *worker.WorkerService) {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Initialize handlers
	tokens := auth.NewTokenServiceFromEnv()
	throttleConfig := services.LoadThrottleConfig()

	authHandler := handlers.NewAuthHandler(database.DB, tokens)
	clubsHandler := handlers.NewClubsHandler(database.DB)
	playersHandler := handlers.NewPlayersHandlerWithAI(database.DB)
	commentsHandler := handlers.NewCommentsHandler(database.DB)
	ratingsHandler := handlers.NewRatingsHandler(database.DB, throttleConfig)
	rankingsHandler := handlers.NewRankingsHandler(database.DB)
	liveHandler := handlers.NewLiveHandler(database.DB, 0)
	docsHandler := handlers.NewDocsHandler()

	// Health check
	r.GET("/health", rankingsHandler.HealthCheck)

	// Worker status
	r.GET("/api/worker/status", func(c *gin.Context) {
		c.JSON(200, gin.H{"worker_status": workerService.GetStatus()})
	})

	// Serve Markdown documentation as HTML
	r.GET("/doc/:doc", docsHandler.ServeMarkdownAsHTML)

	// Live lowest-ratings board over websocket
	r.GET("/ws/live", liveHandler.Serve)

	// API routes
	api := r.Group("/api", tokens.OptionalAuth())
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		clubs := api.Group("/clubs")
		{
			clubs.GET("", clubsHandler.List)
			clubs.GET("/:id", clubsHandler.Get)
			clubs.GET("/:id/players", clubsHandler.Players)
		}

		players := api.Group("/players")
		{
			players.GET("", playersHandler.List)
			players.GET("/top_rated", playersHandler.TopRated)
			players.GET("/:player", playersHandler.Get)
			players.GET("/:player/comments", playersHandler.Comments)
			players.GET("/:player/media", playersHandler.Media)
			players.POST("/:player/rate", tokens.RequireAuth(), playersHandler.Rate)
			players.POST("/:player/comment", tokens.RequireAuth(), playersHandler.Comment)
			players.POST("/:player/media", tokens.RequireAuth(), auth.RequireStaff(), playersHandler.AddMedia)
		}

		comments := api.Group("/comments")
		{
			comments.GET("", commentsHandler.List)
			comments.GET("/latest", commentsHandler.Latest)
			comments.GET("/club_latest", commentsHandler.ClubLatest)
			comments.POST("/:id/like", tokens.RequireAuth(), commentsHandler.Like)
			comments.DELETE("/:id", tokens.RequireAuth(), commentsHandler.Delete)
		}

		ratings := api.Group("/ratings", tokens.RequireAuth())
		{
			ratings.GET("", ratingsHandler.List)
			ratings.POST("", ratingsHandler.Create)
			ratings.DELETE("/:id", ratingsHandler.Delete)
			ratings.POST("/recalculate", auth.RequireStaff(), ratingsHandler.Recalculate)
		}

		api.DELETE("/media/:id", tokens.RequireAuth(), auth.RequireStaff(), playersHandler.DeleteMedia)

		// Public ranking boards
		api.GET("/dramaty-tygodnia", rankingsHandler.WeeklyDramas)
		api.GET("/najnizsze-live", rankingsHandler.LiveLowest)
		api.GET("/latest-media", rankingsHandler.LatestMedia)
		api.GET("/latest-cards", rankingsHandler.LatestCards)
	}

	// Get port from environment or default to 8080
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
