// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Host          string
	Port          int
	DBPath        string
	FoodsPath     string // optional YAML food table; built-in table when empty
	UpstreamURL   string // optional remote analyzer; local only when empty
	AnalysisDelay time.Duration
}

func Default() *Config {
	return &Config{
		Host:   "0.0.0.0",
		Port:   8012,
		DBPath: "/data/meal-score.db",
	}
}

// Load reads envFile (if it exists) into the environment and then builds a
// Config from defaults overridden by environment variables.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := Default()
	if v := os.Getenv("MEAL_SCORE_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("MEAL_SCORE_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("invalid MEAL_SCORE_PORT %q", v)
		}
		cfg.Port = port
	}
	if v := os.Getenv("MEAL_SCORE_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	cfg.FoodsPath = os.Getenv("MEAL_SCORE_FOODS")
	cfg.UpstreamURL = os.Getenv("UPSTREAM_URL")
	if v := os.Getenv("ANALYSIS_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("invalid ANALYSIS_DELAY %q", v)
		}
		cfg.AnalysisDelay = d
	}
	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
