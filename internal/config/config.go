package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	AppPort           string
	DBDriver          string
	DBDSN             string
	JWTSecret         string
	JWTExpiresMin     int
	CORSOrigins       string
	LogLevel          string
	RedisAddr         string
	RedisPassword     string
	RabbitMQURL       string
	StrictTransitions bool
	GoogleClientID    string
	GoogleSecret      string
	GoogleRedirect    string
	FrontendBaseURL   string
}

func Load() Config {
	expires, _ := strconv.Atoi(get("JWT_EXPIRES_MIN", "60"))
	strict, _ := strconv.ParseBool(get("STRICT_TRANSITIONS", "false"))
	return Config{
		AppPort:           get("APP_PORT", "8080"),
		DBDriver:          strings.ToLower(get("DB_DRIVER", "postgres")),
		DBDSN:             must("DB_DSN"),
		JWTSecret:         must("JWT_SECRET"),
		JWTExpiresMin:     expires,
		CORSOrigins:       get("CORS_ORIGINS", "http://localhost:5173, http://localhost:3000"),
		LogLevel:          get("LOG_LEVEL", "info"),
		RedisAddr:         get("REDIS_ADDR", ""),
		RedisPassword:     get("REDIS_PASSWORD", ""),
		RabbitMQURL:       get("RABBITMQ_URL", ""),
		StrictTransitions: strict,
		GoogleClientID:    get("GOOGLE_CLIENT_ID", ""),
		GoogleSecret:      get("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirect:    get("GOOGLE_REDIRECT_URL", ""),
		FrontendBaseURL:   get("FRONTEND_BASE_URL", "http://localhost:5173"),
	}
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTExpiresMin <= 0 {
		return fmt.Errorf("JWT_EXPIRES_MIN must be positive, got %d", c.JWTExpiresMin)
	}
	return nil
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleSecret != "" && c.GoogleRedirect != ""
}

func get(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
