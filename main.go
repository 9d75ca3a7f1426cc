package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"main/config"
	"main/handler"
	"main/middleware"
	"main/repository"
	"main/services"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Fatalf("Error loading .env file: %v", err)
	}

	// Check required environment variables
	requiredEnvVars := []string{
		"MONGO_URI",
		"MONGO_DB",
		"JWT_SECRET_KEY",
		"JWT_EXPIRATION_TIME",
		"PORT",
	}

	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	utils.InitValidator()
	// Initialize JWT
	utils.InitJWT()
	// Initialize MongoDB connection
	utils.InitMongoClient()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := utils.EnsureIndexes(ctx, utils.MongoClient); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
}

func setupRouter() *gin.Engine {
	router := gin.Default()

	// Repositories
	userRepo := repository.GetUserRepo(utils.MongoClient)
	habitsRepo := repository.GetHabitsRepo(utils.MongoClient)
	entriesRepo := repository.GetEntriesRepo(utils.MongoClient)
	notesRepo := repository.GetNotesRepo(utils.MongoClient)
	subsRepo := repository.GetSubscriptionsRepo(utils.MongoClient)

	// Supporting services
	mediaStore := services.NewDiskMediaStore(utils.GetEnvAsString("MEDIA_ROOT", "./media"))

	cacheCfg := config.LoadCacheConfig()
	entryCache, err := services.NewCompletionCache(cacheCfg.RedisURL, cacheCfg.TodayTTL)
	if err != nil {
		// The today-window cache is an optimization; run without it
		log.Printf("Redis unavailable, entries cache disabled: %v", err)
	}

	pusher := services.NewWebPusher(utils.GetEnvAsString("PUSH_RELAY_URL", "http://localhost:9100/push"))

	// Use cases
	habitService := &usecase.HabitService{
		Habits:  habitsRepo,
		Entries: entriesRepo,
		Notes:   notesRepo,
		Media:   mediaStore,
	}
	entryService := &usecase.EntryService{
		Entries: entriesRepo,
		Habits:  habitsRepo,
		Notes:   notesRepo,
		Media:   mediaStore,
	}
	if entryCache != nil {
		entryService.Cache = entryCache
	}
	noteService := &usecase.NoteService{
		Notes: notesRepo,
		Media: mediaStore,
	}
	reminderService := &usecase.ReminderService{
		Subs:    subsRepo,
		Habits:  habitsRepo,
		Entries: entriesRepo,
		Pusher:  pusher,
	}

	// Handlers
	habitHandler := handler.NewHabitHandler(habitService)
	entryHandler := handler.NewEntryHandler(entryService)
	noteHandler := handler.NewNoteHandler(noteService)

	// Global middleware
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.EnhancedRecoveryMiddleware())
	router.Use(middleware.RequestSizeLimiter(int64(utils.GetEnvAsInt("MAX_REQUEST_SIZE", 10<<20))))

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes (no authentication required)
	public := router.Group("/api")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/register", func(c *gin.Context) {
				handler.RegistrationHandler(c, userRepo)
			})
			auth.POST("/login", func(c *gin.Context) {
				handler.LoginHandler(c, userRepo)
			})
		}

		// Reminder dispatch, guarded by a service key instead of a user token
		public.POST("/internal/reminders/run", func(c *gin.Context) {
			handler.RunReminders(c, reminderService)
		})
	}

	// Protected routes (authentication required)
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		habits := protected.Group("/habits")
		{
			habits.GET("", habitHandler.GetHabits)
			habits.POST("", habitHandler.CreateHabit)
			habits.PUT("/:id", habitHandler.UpdateHabit)
			habits.DELETE("/:id", habitHandler.DeleteHabit)

			habits.POST("/:id/entries", entryHandler.MarkEntry)
			habits.DELETE("/:id/entries/:date", entryHandler.UnmarkEntry)
		}

		protected.GET("/entries", entryHandler.GetEntries)

		notes := protected.Group("/entries/:entryId/note")
		{
			notes.GET("", noteHandler.GetNote)
			notes.POST("", noteHandler.CreateNote)
			notes.DELETE("", noteHandler.DeleteNote)
		}

		subs := protected.Group("/subscriptions")
		{
			subs.POST("", func(c *gin.Context) {
				handler.Subscribe(c, subsRepo)
			})
			subs.DELETE("", func(c *gin.Context) {
				handler.Unsubscribe(c, subsRepo)
			})
		}
	}

	return router
}

func main() {
	utils.StartSystemMetrics(15 * time.Second)

	router := setupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	serverAddr := fmt.Sprintf(":%s", port)
	log.Printf("Server starting on %s", serverAddr)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
