package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// ServerConfig contains HTTP server configuration. Timeouts are settable
// through the environment only; yaml.v2 cannot decode duration strings.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"-" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"-" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"-" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"-" envconfig:"SHUTDOWN_TIMEOUT"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// RateLimitConfig contains rate limiting configuration for the query endpoint.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
}

// DataConfig points at the four source tables. Each path may name a
// delimiter-separated text file or an .xlsx workbook.
type DataConfig struct {
	Dir     string `yaml:"dir" envconfig:"DIR"`
	Actuals string `yaml:"actuals" envconfig:"ACTUALS"`
	Budget  string `yaml:"budget" envconfig:"BUDGET"`
	FX      string `yaml:"fx" envconfig:"FX"`
	Cash    string `yaml:"cash" envconfig:"CASH"`
}

// ActualsPath returns the resolved path of the actuals table.
func (d DataConfig) ActualsPath() string { return d.resolve(d.Actuals) }

// BudgetPath returns the resolved path of the budget table.
func (d DataConfig) BudgetPath() string { return d.resolve(d.Budget) }

// FXPath returns the resolved path of the FX rate table.
func (d DataConfig) FXPath() string { return d.resolve(d.FX) }

// CashPath returns the resolved path of the cash balance table.
func (d DataConfig) CashPath() string { return d.resolve(d.Cash) }

func (d DataConfig) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(d.Dir, name)
}

// Default returns the built-in configuration defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/finsight.log",
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     50,
			Burst:   25,
		},
		Data: DataConfig{
			Dir:     "fixtures",
			Actuals: "actuals.csv",
			Budget:  "budget.csv",
			FX:      "fx.csv",
			Cash:    "cash.csv",
		},
	}
}

// Load layers configuration in increasing precedence: built-in defaults, an
// optional YAML file named by FINSIGHT_CONFIG_FILE (default config.yaml),
// then FINSIGHT_* environment variables.
func Load() (*Config, error) {
	cfg := Default()

	configFile := os.Getenv("FINSIGHT_CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}
	if _, err := os.Stat(configFile); err == nil {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Environment wins over the file.
	if err := envconfig.Process("FINSIGHT", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	return nil
}
