package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Auth
		Global
		Maintenance
	}

	HTTP struct {
		Port           int32
		Host           string
		AllowedOrigins string // Comma-separated CORS origins
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret     string
		TokenTTL      time.Duration
		BcryptCost    int
		SecureCookies bool // Set to false for local dev without HTTPS
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Maintenance struct {
		Enabled  bool
		Schedule string // Cron format: "0 * * * *" = hourly
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("allowed_origins", "*")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", "./library.db")

	// Auth defaults
	v.SetDefault("jwt_secret", "")      // Must be set to serve
	v.SetDefault("token_ttl", "1h")     // Session token lifetime
	v.SetDefault("bcrypt_cost", 12)     // bcrypt cost factor
	v.SetDefault("secure_cookies", false)

	// Maintenance defaults
	v.SetDefault("maintenance_enabled", true)
	v.SetDefault("maintenance_schedule", "0 * * * *") // Hourly at :00

	return &Config{
		HTTP: HTTP{
			Port:           v.GetInt32("PORT"),
			Host:           v.GetString("HOST"),
			AllowedOrigins: v.GetString("ALLOWED_ORIGINS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Auth: Auth{
			JWTSecret:     v.GetString("JWT_SECRET"),
			TokenTTL:      v.GetDuration("TOKEN_TTL"),
			BcryptCost:    v.GetInt("BCRYPT_COST"),
			SecureCookies: v.GetBool("SECURE_COOKIES"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Maintenance: Maintenance{
			Enabled:  v.GetBool("MAINTENANCE_ENABLED"),
			Schedule: v.GetString("MAINTENANCE_SCHEDULE"),
		},
	}
}
