package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// PayHero gateway configs
	PayHeroBaseURL   string
	PayHeroAuthToken string
	PayHeroChannelID string
	CallbackURL      string

	// Admin dashboard shared secret
	AdminPassword string

	// Transaction store configs
	DatabaseURL        string // when set, transactions go to Postgres
	TransactionLogFile string

	// Server configs
	Port        string
	Environment string

	// Additional configs
	CorsAllowedOrigins []string
	LogLevel           string
}

// Load initializes configuration from environment variables and .env file
func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	// Initialize with default values
	config := &Config{
		Port:               getEnv("PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		TransactionLogFile: getEnv("TRANSACTION_LOG_FILE", "transactions.log"),
	}

	// Required gateway credentials and admin secret. No hardcoded fallbacks:
	// the process refuses to start without them.
	config.PayHeroBaseURL = mustGetEnv("PAYHERO_BASE_URL")
	config.PayHeroAuthToken = mustGetEnv("PAYHERO_AUTH_TOKEN")
	config.PayHeroChannelID = mustGetEnv("PAYHERO_CHANNEL_ID")
	config.CallbackURL = mustGetEnv("PAYHERO_CALLBACK_URL")
	config.AdminPassword = mustGetEnv("ADMIN_PASSWORD")

	// Parse CORS allowed origins
	corsOrigins := getEnv("CORS_ALLOWED_ORIGINS", "")
	if corsOrigins != "" {
		config.CorsAllowedOrigins = strings.Split(corsOrigins, ",")
	} else {
		config.CorsAllowedOrigins = []string{"*"}
	}

	return config
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// mustGetEnv gets an environment variable or exits if it's not set
func mustGetEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("Required environment variable not set: %s", key)
	}
	return value
}
