package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config is the environment-driven configuration of the assistant service.
type Config struct {
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"assistant-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash-exp"`

	// TelegramToken enables the Telegram delivery channel when set.
	TelegramToken   string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramAdminID int64  `env:"TELEGRAM_ADMIN_CHAT_ID"`

	// AdminToken guards the catalog import endpoints when set.
	AdminToken string `env:"ADMIN_API_TOKEN"`

	// ChatDBPath is the SQLite history database; empty keeps history
	// in memory only.
	ChatDBPath      string `env:"CHAT_DB_PATH" envDefault:"data/chat.db"`
	MaxContextSize  int    `env:"MAX_CONTEXT_SIZE" envDefault:"20"`
	MaxHistoryTurns int    `env:"MAX_HISTORY_TURNS" envDefault:"10"`
}

// Load reads .env (when present) and the process environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
