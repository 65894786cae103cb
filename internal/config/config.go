package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	// ActivationTokenTTL is how long an emailed activation link stays valid.
	ActivationTokenTTL = time.Hour
	// SessionTokenTTL is the lifetime of the token returned at signup.
	SessionTokenTTL = 7 * 24 * time.Hour
)

// Config holds application level configuration loaded from environment variables.
// It is read once at startup and must not be mutated afterwards.
type Config struct {
	ServerPort     string `env:"SERVER_PORT" env-default:"8080"`
	MySQLDSN       string `env:"MYSQL_DSN" env-default:"user:password@tcp(localhost:3306)/app?charset=utf8mb4&parseTime=True&loc=Local"`
	ResetDB        bool   `env:"RESET_DB" env-default:"false"`
	RedisAddr      string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisDB        int    `env:"REDIS_DB" env-default:"0"`
	RedisPass      string `env:"REDIS_PASSWORD"`
	JWTSecret      string `env:"JWT_SECRET" env-required:"true"`
	BaseURL        string `env:"BASE_URL" env-required:"true"`
	ClientURL      string `env:"CLIENT_URL" env-default:"*"`
	SenderEmail    string `env:"EMAIL" env-default:"no-reply@localhost"`
	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	SwaggerHost    string `env:"SWAGGER_HOST"`
	LogLevel       string `env:"LOG_LEVEL" env-default:"info"`
	LogMode        string `env:"LOG_MODE" env-default:"development"`
}

// Load builds Config from environment with sensible defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config from env: %w", err)
	}
	return &cfg, nil
}

// MailEnabled reports whether verification emails go through SendGrid.
func (c *Config) MailEnabled() bool {
	return c.SendGridAPIKey != ""
}
