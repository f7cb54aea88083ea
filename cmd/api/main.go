package main

import (
	"log"
	"os"
	"strings"
	"time"

	"aidagent_go_backend/cmd/api/config"
	"aidagent_go_backend/internal/api"
	"aidagent_go_backend/internal/auth"
	"aidagent_go_backend/internal/database"
	"aidagent_go_backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	if cfg.OpenAIAPIKey == "" {
		log.Fatal("OPENAI_API_KEY is not set in the environment")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set in the environment")
	}

	database.InitDB()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Gateways
	chatStore := services.NewChatStoreDB(database.DB)
	completionService := services.NewOpenAICompletionService(
		cfg.OpenAIAPIKey,
		cfg.CompletionModel,
		cfg.CompletionMaxTokens,
		cfg.CompletionTemperature,
	)

	// Identity and orchestration
	sessionState := auth.NewSessionState()
	userService := services.NewUserService(database.DB)
	assistantService := services.NewAssistantService(chatStore, completionService, sessionState, logger)
	chatStateService := services.NewChatStateService(assistantService)

	// Dashboard data
	walletService := services.NewWalletService()
	taskboardService := services.NewTaskboardService()
	learningService := services.NewLearningService()

	r := gin.Default()

	// CORS middleware configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(
		r,
		assistantService,
		chatStateService,
		walletService,
		taskboardService,
		learningService,
		sessionState,
		cfg.JWTSecret,
	)
	auth.SetupRoutes(r, userService, sessionState, cfg.JWTSecret)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
