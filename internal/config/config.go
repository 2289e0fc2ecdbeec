package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"DJETracker"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"djetracker"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Auth struct {
		JWTSecret string        `envconfig:"JWT_SECRET" default:"default-secret"`
		TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"168h"`
	}

	Scraper struct {
		BaseURL string        `envconfig:"SCRAPER_URL" default:"http://localhost:5002"`
		Timeout time.Duration `envconfig:"SCRAPER_TIMEOUT" default:"120s"`
	}

	Crawl struct {
		StartDate  string        `envconfig:"CRAWL_START_DATE" default:"2025-03-17"`
		DayPause   time.Duration `envconfig:"CRAWL_DAY_PAUSE" default:"1s"`
		ErrorPause time.Duration `envconfig:"CRAWL_ERROR_PAUSE" default:"3s"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
