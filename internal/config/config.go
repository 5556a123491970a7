package config

import (
	"log"
	"os"
	"strconv"
)

// Defaults match the original service configuration.
const (
	DefaultJWTSecret         = "kkreal-secret-key"
	DefaultJWTExpirationSecs = 3600
	DefaultServerPort        = "8080"
)

// AppConfig holds process-wide settings, initialized once at startup and
// never mutated afterwards.
type AppConfig struct {
	JWTSecret         string
	JWTExpirationSecs int64
	ServerPort        string
}

// LoadAppConfig reads app settings from environment variables, falling back
// to the defaults above.
func LoadAppConfig() *AppConfig {
	cfg := &AppConfig{
		JWTSecret:         DefaultJWTSecret,
		JWTExpirationSecs: DefaultJWTExpirationSecs,
		ServerPort:        DefaultServerPort,
	}

	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("JWT_EXPIRATION_SECONDS"); v != "" {
		secs, err := strconv.ParseInt(v, 10, 64)
		if err != nil || secs <= 0 {
			log.Printf("Invalid JWT_EXPIRATION_SECONDS %q, defaulting to %d", v, DefaultJWTExpirationSecs)
		} else {
			cfg.JWTExpirationSecs = secs
		}
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		cfg.ServerPort = v
	}
	return cfg
}
