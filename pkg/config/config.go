// Package config loads runtime configuration for the settlement daemon.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Postgres PostgresConfig `yaml:"postgres"`
	Feed     FeedConfig     `yaml:"feed"`
	Settler  SettlerConfig  `yaml:"settler"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type FeedConfig struct {
	BaseURL       string  `yaml:"base_url"`
	APIKey        string  `yaml:"api_key"`
	RatePerSecond float64 `yaml:"rate_per_second"`
	RateBurst     int     `yaml:"rate_burst"`
}

type SettlerConfig struct {
	PollInterval     time.Duration `yaml:"poll_interval"`
	FetchConcurrency int           `yaml:"fetch_concurrency"`
}

// Load reads the YAML config file and applies defaults and environment
// overrides. API_FOOTBALL_KEY and POSTGRES_DSN take precedence over the
// file so secrets can stay out of it.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if key := os.Getenv("API_FOOTBALL_KEY"); key != "" {
		config.Feed.APIKey = key
	}
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		config.Postgres.DSN = dsn
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Feed.RatePerSecond <= 0 {
		c.Feed.RatePerSecond = 5
	}
	if c.Feed.RateBurst <= 0 {
		c.Feed.RateBurst = 5
	}
	if c.Settler.PollInterval <= 0 {
		c.Settler.PollInterval = 2 * time.Minute
	}
	if c.Settler.FetchConcurrency <= 0 {
		c.Settler.FetchConcurrency = 4
	}
}
