package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Addr string

	DBUrl  string
	DBNs   string
	DBDb   string
	DBUser string
	DBPass string

	JWTSecret string
	JWTTTL    time.Duration

	AllowOrigin string

	EmailProvider string
	EmailSender   string
	EmailAPIKey   string

	AssistantURL    string
	AssistantAPIKey string
	AssistantModel  string

	PhotoDir string
}

// New loads configuration from environment variables.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		Addr:            getEnv("ADDR", ":3000"),
		DBUrl:           os.Getenv("SURREAL_URL"),
		DBUser:          os.Getenv("SURREAL_USER"),
		DBPass:          os.Getenv("SURREAL_PASS"),
		DBNs:            os.Getenv("SURREAL_NS"),
		DBDb:            os.Getenv("SURREAL_DB"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTTTL:          getDuration("JWT_TTL", 24*time.Hour),
		AllowOrigin:     getEnv("ALLOW_ORIGIN", "http://localhost:5173"),
		EmailProvider:   getEnv("EMAIL_PROVIDER", "log"),
		EmailSender:     getEnv("EMAIL_SENDER", "no-reply@brightmind.local"),
		EmailAPIKey:     os.Getenv("EMAIL_API_KEY"),
		AssistantURL:    os.Getenv("ASSISTANT_URL"),
		AssistantAPIKey: os.Getenv("ASSISTANT_API_KEY"),
		AssistantModel:  getEnv("ASSISTANT_MODEL", "gpt-4o-mini"),
		PhotoDir:        getEnv("PHOTO_DIR", "data/photos"),
	}

	if cfg.DBUrl == "" || cfg.DBNs == "" || cfg.DBDb == "" {
		log.Fatal("Required environment variables SURREAL_URL, SURREAL_NS, or SURREAL_DB are not set.")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("Required environment variable JWT_SECRET is not set.")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid duration in %s (%q), using default %s", key, v, fallback)
		return fallback
	}
	return d
}
