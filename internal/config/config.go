package config

import (
	"fmt"
	"time"

	"remindbot/internal/domain"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	BotToken string         `envconfig:"BOT_TOKEN" required:"true"`
	LogLevel string         `envconfig:"LOG_LEVEL" default:"info"`
	Database DatabaseConfig `envconfig:"DB"`
	Dispatch DispatchConfig `envconfig:"DISPATCH"`

	DefaultLanguage string `envconfig:"DEFAULT_LANGUAGE" default:"ENG"`
	DefaultTimezone string `envconfig:"DEFAULT_TIMEZONE" default:"Etc/GMT-5"`
}

// DatabaseConfig holds database connection settings.
// Keys are DB_ plus the upper-cased field name.
type DatabaseConfig struct {
	Host     string `default:"localhost"`
	Port     string `default:"5432"`
	Name     string `default:"reminders"`
	User     string `default:"reminders"`
	Password string `required:"true"`
}

// DispatchConfig tunes the delivery loop
type DispatchConfig struct {
	Interval time.Duration `default:"10s"`
	// Rate is sends per second across all chats
	Rate  float64 `default:"25"`
	Batch int     `default:"100"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot
func (c *Config) Validate() error {
	if _, ok := domain.ParseLanguage(c.DefaultLanguage); !ok {
		return fmt.Errorf("DEFAULT_LANGUAGE %q is not supported", c.DefaultLanguage)
	}
	if _, err := domain.LoadZone(c.DefaultTimezone); err != nil {
		return fmt.Errorf("DEFAULT_TIMEZONE: %w", err)
	}
	if c.Dispatch.Interval <= 0 {
		return fmt.Errorf("DISPATCH_INTERVAL must be positive")
	}
	if c.Dispatch.Batch <= 0 {
		return fmt.Errorf("DISPATCH_BATCH must be positive")
	}
	return nil
}

// DefaultSettings returns the settings used for chats without their own
func (c *Config) DefaultSettings() domain.UserSettings {
	lang, _ := domain.ParseLanguage(c.DefaultLanguage)
	return domain.UserSettings{Language: lang, Timezone: c.DefaultTimezone}
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}
