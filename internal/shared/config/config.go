package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL      string
	WhatsAppStoreURL string
	Port             string
	Env              string
	VerifyToken      string

	ConfidenceThreshold int
	FollowUpDelay       time.Duration
	TaxRate             float64
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		WhatsAppStoreURL: os.Getenv("WHATSAPP_STORE_URL"),
		Port:             os.Getenv("PORT"),
		Env:              os.Getenv("ENV"),
		VerifyToken:      os.Getenv("WEBHOOK_VERIFY_TOKEN"),

		ConfidenceThreshold: envInt("CONFIDENCE_THRESHOLD", 70),
		FollowUpDelay:       envDuration("FOLLOW_UP_DELAY", 2*time.Second),
		TaxRate:             envFloat("TAX_RATE", 0.09),
	}

	// Default values
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.WhatsAppStoreURL == "" {
		// Default to main database if not specified
		cfg.WhatsAppStoreURL = cfg.DatabaseURL
	}

	return cfg
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("⚠️ Invalid %s=%q, using default %d", key, os.Getenv(key), def)
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("⚠️ Invalid %s=%q, using default %g", key, os.Getenv(key), def)
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("⚠️ Invalid %s=%q, using default %s", key, os.Getenv(key), def)
	}
	return def
}
