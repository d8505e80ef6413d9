package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/radhian/payment-statistics/consts"
	"gopkg.in/yaml.v3"
)

const configPathEnv = "PAYMENT_STATISTICS_CONFIG"

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
}

// DSN renders the lib/pq connection string used by the gorm postgres dialect.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s password=%s",
		d.Host, d.Port, d.User, d.Name, d.SSLMode, d.Password)
}

type CronConfig struct {
	Workers         int    `yaml:"workers"`
	IntervalSeconds int    `yaml:"interval_seconds"`
	MetricsPort     string `yaml:"metrics_port"`
}

func (c CronConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

type Config struct {
	Database  DatabaseConfig `yaml:"database"`
	Port      string         `yaml:"port"`
	BatchSize int            `yaml:"batch_size"`
	Workers   int            `yaml:"workers"`
	Cron      CronConfig     `yaml:"cron"`
	Timezone  string         `yaml:"timezone"`
	LogLevel  string         `yaml:"log_level"`
}

// Load reads defaults, then the yaml file named by PAYMENT_STATISTICS_CONFIG, then env overrides.
func Load() (Config, error) {
	return LoadFrom(os.Getenv(configPathEnv))
}

// LoadFrom is Load with an explicit yaml path. An empty path skips the file.
func LoadFrom(path string) (Config, error) {
	cfg := Config{
		Database: DatabaseConfig{
			Port:    "5432",
			SSLMode: "disable",
		},
		Port:      "8080",
		BatchSize: consts.DefaultBatchSize,
		Workers:   consts.DefaultWorkerNumber,
		Cron: CronConfig{
			Workers:         consts.DefaultWorkerNumber,
			IntervalSeconds: consts.DefaultIntervalInSec,
			MetricsPort:     consts.DefaultMetricsPort,
		},
		Timezone: "UTC",
		LogLevel: "info",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.Database.Host = getenvDefault("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getenvDefault("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getenvDefault("DB_USER", cfg.Database.User)
	cfg.Database.Name = getenvDefault("DB_NAME", cfg.Database.Name)
	cfg.Database.Password = getenvDefault("DB_PASSWORD", cfg.Database.Password)
	cfg.Port = getenvDefault("PORT", cfg.Port)
	cfg.BatchSize = getenvIntDefault("BATCH_SIZE", cfg.BatchSize)
	cfg.Workers = getenvIntDefault("WORKERS", cfg.Workers)
	cfg.Cron.Workers = getenvIntDefault("CRON_WORKERS", cfg.Cron.Workers)
	cfg.Cron.IntervalSeconds = getenvIntDefault("CRON_INTERVAL", cfg.Cron.IntervalSeconds)
	cfg.Cron.MetricsPort = getenvDefault("METRICS_PORT", cfg.Cron.MetricsPort)
	cfg.Timezone = getenvDefault("TIMEZONE", cfg.Timezone)
	cfg.LogLevel = getenvDefault("LOG_LEVEL", cfg.LogLevel)

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.BatchSize <= 0 {
		return errors.New("config: batch_size must be positive")
	}
	if c.Workers <= 0 {
		return errors.New("config: workers must be positive")
	}
	if c.Cron.Workers <= 0 {
		return errors.New("config: cron.workers must be positive")
	}
	if c.Cron.IntervalSeconds <= 0 {
		return errors.New("config: cron.interval_seconds must be positive")
	}
	if c.Cron.MetricsPort == "" {
		return errors.New("config: cron.metrics_port must be set")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Location is the zone payment days are bucketed in.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ApplyLogLevel sets the gommon global log level.
func (c Config) ApplyLogLevel() {
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		lvl = log.INFO
	}
	log.SetLevel(lvl)
}

func parseLevel(value string) (log.Lvl, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return log.DEBUG, nil
	case "", "info":
		return log.INFO, nil
	case "warn":
		return log.WARN, nil
	case "error":
		return log.ERROR, nil
	case "off":
		return log.OFF, nil
	default:
		return log.INFO, fmt.Errorf("config: invalid log level %q", value)
	}
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
