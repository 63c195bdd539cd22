package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App           AppConfig           `yaml:"app"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	Backup        BackupConfig        `yaml:"backup"`
	Monitoring    MonitoringConfig    `yaml:"monitoring"`
	Logging       LoggingConfig       `yaml:"logging"`
	Accessibility AccessibilityConfig `yaml:"accessibility"`
	Reservation   ReservationConfig   `yaml:"reservation"`
	Menu          MenuConfig          `yaml:"menu"`
	Exports       ExportConfig        `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

// AccessibilityConfig replaces the original process-wide flags: it is
// passed into constructors so sessions can be tested with independent
// settings.
type AccessibilityConfig struct {
	TTSEnabled   bool `yaml:"tts_enabled"`
	HighContrast bool `yaml:"high_contrast"`
}

type ReservationConfig struct {
	RefreshSeconds int `yaml:"refresh_seconds"`
}

type MenuConfig struct {
	URL            string  `yaml:"url"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	RequestsPerMin float64 `yaml:"requests_per_min"`
	CacheMinutes   int     `yaml:"cache_minutes"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; when present its variables feed os.ExpandEnv below.
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}
	if c.Redis.Enabled && c.Redis.Address == "" {
		return errors.New("redis address is required when redis is enabled")
	}
	if c.Reservation.RefreshSeconds < 0 {
		return errors.New("reservation refresh interval must not be negative")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "haksik"
	}
	if c.Reservation.RefreshSeconds == 0 {
		c.Reservation.RefreshSeconds = 60
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Menu.URL == "" {
		c.Menu.URL = "https://www.cbnucoop.com/service/restaurant/"
	}
	if c.Menu.TimeoutSeconds == 0 {
		c.Menu.TimeoutSeconds = 10
	}
	if c.Menu.RequestsPerMin == 0 {
		c.Menu.RequestsPerMin = 6
	}
	if c.Menu.CacheMinutes == 0 {
		c.Menu.CacheMinutes = 30
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}
