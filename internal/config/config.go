package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Lobo"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host        string `envconfig:"DB_HOST" default:"localhost"`
		Port        int    `envconfig:"DB_PORT" default:"5432"`
		User        string `envconfig:"DB_USER" default:"postgres"`
		Password    string `envconfig:"DB_PASSWORD" default:""`
		Name        string `envconfig:"DB_NAME" default:"lobo"`
		SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
		AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Auth struct {
		JWTSecret string `envconfig:"JWT_SECRET"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	}

	Log struct {
		Level slog.Level `envconfig:"LOG_LEVEL" default:"INFO"`
	}

	// TUI is the scope the terminal client works in.
	TUI struct {
		UserID    uuid.UUID `envconfig:"TUI_USER_ID"`
		CompanyID uuid.UUID `envconfig:"TUI_COMPANY_ID"`
	}
}

func (c *Config) ConnectionString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DB.User, c.DB.Password),
		Host:     fmt.Sprintf("%s:%d", c.DB.Host, c.DB.Port),
		Path:     c.DB.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.DB.SSLMode),
	}

	return u.String()
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
