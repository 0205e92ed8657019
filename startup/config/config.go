package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	Port               string
	Environment        string
	DBHost             string
	DBPort             string
	JWTSecret          string
	TokenLifetime      time.Duration
	AllowedOrigins     []string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	ImageKitPrivateKey string
	JaegerAddress      string
}

func NewConfig() *Config {
	return &Config{
		Port:               envOr("PORT", "8000"),
		Environment:        envOr("ENVIRONMENT", "development"),
		DBHost:             os.Getenv("DB_HOST"),
		DBPort:             os.Getenv("DB_PORT"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		TokenLifetime:      lifetime(os.Getenv("TOKEN_LIFETIME")),
		AllowedOrigins:     origins(os.Getenv("ALLOWED_ORIGINS")),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		ImageKitPrivateKey: os.Getenv("IMAGEKIT_PRIVATE_KEY"),
		JaegerAddress:      os.Getenv("JAEGER_ADDRESS"),
	}
}

func (config *Config) Production() bool {
	return config.Environment == "production"
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// lifetime parses the session credential lifetime; it defaults to a day.
func lifetime(value string) time.Duration {
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return 24 * time.Hour
	}
	return parsed
}

func origins(value string) []string {
	if value == "" {
		return []string{"http://localhost:5173"}
	}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
