package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Source  string `yaml:"source"` // "backend", "yahoo" or "mock"
	Backend struct {
		BaseURL string        `yaml:"base_url"`
		Proxy   string        `yaml:"proxy"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"backend"`
	Storage struct {
		Driver     string `yaml:"driver"` // "file", "sqlite" or "redis"
		Dir        string `yaml:"dir"`
		SQLitePath string `yaml:"sqlite_path"`
		Redis      struct {
			Host     string `yaml:"host"`
			Port     string `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"storage"`
	Recorder struct {
		SQLitePath string        `yaml:"sqlite_path"`
		Retention  time.Duration `yaml:"retention"`
	} `yaml:"recorder"`
	Labels struct {
		File string `yaml:"file"`
	} `yaml:"labels"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Dashboard struct {
		PreviewSymbol string `yaml:"preview_symbol"`
		Horizon       int    `yaml:"horizon"`
		CardCount     int    `yaml:"card_count"`
	} `yaml:"dashboard"`
}

// Load reads config from a YAML file, then a .env file if present, then
// applies environment variable overrides and defaults. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] load .env: %v", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := map[string]*string{
		"DATA_SOURCE":      &c.Source,
		"BACKEND_BASE_URL": &c.Backend.BaseURL,
		"HTTPS_PROXY":      &c.Backend.Proxy,
		"STORAGE_DRIVER":   &c.Storage.Driver,
		"STORAGE_DIR":      &c.Storage.Dir,
		"STORAGE_SQLITE":   &c.Storage.SQLitePath,
		"REDIS_HOST":       &c.Storage.Redis.Host,
		"REDIS_PORT":       &c.Storage.Redis.Port,
		"REDIS_PASSWORD":   &c.Storage.Redis.Password,
		"SQLITE_PATH":      &c.Recorder.SQLitePath,
		"LABELS_FILE":      &c.Labels.File,
		"SERVER_ADDR":      &c.Server.Addr,
		"CRON_REFRESH":     &c.Schedule.RefreshCron,
		"PREVIEW_SYMBOL":   &c.Dashboard.PreviewSymbol,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("BACKEND_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("BACKEND_TIMEOUT: %w", err)
		}
		c.Backend.Timeout = d
	}
	if v := os.Getenv("RECORDER_RETENTION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("RECORDER_RETENTION: %w", err)
		}
		c.Recorder.Retention = d
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		c.Storage.Redis.DB = n
	}
	if v := os.Getenv("PREDICTION_HORIZON"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PREDICTION_HORIZON: %w", err)
		}
		c.Dashboard.Horizon = n
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Source == "" {
		c.Source = "backend"
	}
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = "http://localhost:8000"
	}
	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = 5 * time.Second
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "file"
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = "data"
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = "data/stocklens.db"
	}
	if c.Storage.Redis.Host == "" {
		c.Storage.Redis.Host = "localhost"
	}
	if c.Storage.Redis.Port == "" {
		c.Storage.Redis.Port = "6379"
	}
	if c.Recorder.SQLitePath == "" {
		c.Recorder.SQLitePath = "data/loads.db"
	}
	if c.Recorder.Retention == 0 {
		c.Recorder.Retention = 30 * 24 * time.Hour
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Schedule.RefreshCron == "" {
		c.Schedule.RefreshCron = "0 */5 * * * *"
	}
	if c.Dashboard.PreviewSymbol == "" {
		c.Dashboard.PreviewSymbol = "AAPL"
	}
	if c.Dashboard.Horizon == 0 {
		c.Dashboard.Horizon = 30
	}
	if c.Dashboard.CardCount == 0 {
		c.Dashboard.CardCount = 10
	}
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	switch c.Source {
	case "backend", "yahoo", "mock":
	default:
		return fmt.Errorf("source must be backend, yahoo or mock, got %q", c.Source)
	}
	switch c.Storage.Driver {
	case "file", "sqlite", "redis":
	default:
		return fmt.Errorf("storage.driver must be file, sqlite or redis, got %q", c.Storage.Driver)
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout must not be negative")
	}
	if c.Dashboard.Horizon < 1 || c.Dashboard.Horizon > 365 {
		return fmt.Errorf("dashboard.horizon must be between 1 and 365")
	}
	if c.Dashboard.CardCount < 1 {
		return fmt.Errorf("dashboard.card_count must be positive")
	}
	return nil
}
