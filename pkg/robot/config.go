package robot

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFile = "chady.yaml"
	DefaultServer     = "http://172.20.10.7:5001"
)

var validate = validator.New()

// Config holds the console configuration
type Config struct {
	Server         string        `yaml:"server" validate:"required,url"`
	PollInterval   time.Duration `yaml:"pollInterval" validate:"gt=0"`
	HistorySize    int           `yaml:"historySize" validate:"min=1,max=1000"`
	NotifyDelay    time.Duration `yaml:"notifyDelay" validate:"gt=0"`
	RequestTimeout time.Duration `yaml:"requestTimeout" validate:"gt=0"`
	CommandRate    float64       `yaml:"commandRate" validate:"gte=0"` // commands per second, 0 = unlimited
	LogLevel       string        `yaml:"logLevel" validate:"omitempty,oneof=debug info warn error"`
	LogFile        string        `yaml:"logFile,omitempty"`
	Charts         ChartConfig   `yaml:"charts"`
}

// ChartConfig holds the vertical ranges of the telemetry charts
type ChartConfig struct {
	Pitch    Range `yaml:"pitch"`
	Velocity Range `yaml:"velocity"`
}

// Range is a closed interval for a chart axis
type Range struct {
	Min float64 `yaml:"min" validate:"ltfield=Max"`
	Max float64 `yaml:"max"`
}

// DefaultConfig returns the configuration used when a file omits a setting
func DefaultConfig() *Config {
	return &Config{
		Server:         DefaultServer,
		PollInterval:   time.Second,
		HistorySize:    20,
		NotifyDelay:    time.Second,
		RequestTimeout: 5 * time.Second,
		LogLevel:       "info",
		Charts: ChartConfig{
			Pitch:    Range{Min: -45, Max: 45},
			Velocity: Range{Min: -100, Max: 100},
		},
	}
}

// LoadConfig loads configuration from the default config file
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultConfigFile)
}

// LoadConfigFrom loads configuration from a specific file
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for missing or out of range settings
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save saves configuration to the default config file
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigFile)
}

// SaveTo saves configuration to a specific file
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ConfigExists returns true if the given config file exists
func ConfigExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
