package config

import (
	"os"
	"strconv"
)

// Completion parameters are fixed configuration, never user-supplied.
const (
	DefaultCompletionModel = "gpt-3.5-turbo"
	CompletionMaxTokens    = 1000
	CompletionTemperature  = 0.7
)

type Config struct {
	Port                  string
	AllowedOrigins        string
	JWTSecret             string
	OpenAIAPIKey          string
	CompletionModel       string
	CompletionMaxTokens   int
	CompletionTemperature float32
}

func Load() *Config {
	return &Config{
		Port:                  getEnv("PORT", "3000"),
		AllowedOrigins:        getEnv("ALLOWED_ORIGINS", "http://localhost:5173"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		OpenAIAPIKey:          os.Getenv("OPENAI_API_KEY"),
		CompletionModel:       getEnv("COMPLETION_MODEL", DefaultCompletionModel),
		CompletionMaxTokens:   getEnvInt("COMPLETION_MAX_TOKENS", CompletionMaxTokens),
		CompletionTemperature: CompletionTemperature,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
