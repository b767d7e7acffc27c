package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/dailybalance/internal/database"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"Daily Balance"`
		Port     int    `envconfig:"PORT" default:"8080"`
		Currency string `envconfig:"CURRENCY" default:"LKR"`
	}

	DB struct {
		Driver   database.Driver `envconfig:"DB_DRIVER" default:"sqlite3"`
		Path     string          `envconfig:"DB_PATH" default:"transactions.db"` // sqlite3 only
		Host     string          `envconfig:"DB_HOST" default:"localhost"`
		Port     int             `envconfig:"DB_PORT" default:"5432"`
		User     string          `envconfig:"DB_USER" default:"postgres"`
		Password string          `envconfig:"DB_PASSWORD" default:""`
		Name     string          `envconfig:"DB_NAME" default:"dailybalance"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"*"`
	}

	Log struct {
		Level string `envconfig:"LOG_LEVEL" default:"info"`
	}
}

func (c *Config) ConnectionString() string {
	if c.DB.Driver == database.DriverPostgres {
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
	}

	return database.SQLiteDSN(c.DB.Path)
}

// LogLevel maps LOG_LEVEL to a slog level, falling back to info.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.Log.Level))); err != nil {
		return slog.LevelInfo
	}

	return level
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case database.DriverSQLite, database.DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}

	if c.DB.Driver == database.DriverSQLite && c.DB.Path == "" {
		return fmt.Errorf("DB_PATH is required for %s", c.DB.Driver)
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
