package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Upload   UploadConfig   `yaml:"upload" envconfig:"UPLOAD"`
	Layout   LayoutConfig   `yaml:"layout" envconfig:"LAYOUT"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s" validate:"gt=0"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s" validate:"gt=0"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"60s" validate:"gt=0"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080" validate:"min=1"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"20" validate:"gt=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"10" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// UploadConfig bounds the document upload endpoint
type UploadConfig struct {
	MaxBytes          int64    `yaml:"max_bytes" envconfig:"MAX_BYTES" default:"10485760" validate:"gt=0"`
	AllowedExtensions []string `yaml:"allowed_extensions" envconfig:"ALLOWED_EXTENSIONS" default:".pdf" validate:"min=1"`
}

// LayoutConfig names the layout constants of the grid-reconstruction
// algorithm. They are tuned to one report template; a template revision
// means recalibrating these values, never editing the algorithm.
type LayoutConfig struct {
	Sentinel       string  `yaml:"sentinel" envconfig:"SENTINEL" default:"Payment History" validate:"required"`
	WindowAbove    float64 `yaml:"window_above" envconfig:"WINDOW_ABOVE" default:"100" validate:"gt=0"`
	WindowBelow    float64 `yaml:"window_below" envconfig:"WINDOW_BELOW" default:"20" validate:"gte=0"`
	RowGranularity float64 `yaml:"row_granularity" envconfig:"ROW_GRANULARITY" default:"1" validate:"gt=0"`
}

// Load loads configuration from environment variables and config file.
// Environment variables (prefix CREDITSCAN) take precedence over the
// optional YAML file.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("CREDITSCAN", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile := findConfigFile(); configFile != "" {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileCfg, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileCfg, envCfg Config) Config {
	def := Default()

	// An env value still at its default is treated as unset and yields
	// to a file value that differs from the default.
	if envCfg.Server.Port == def.Server.Port && fileCfg.Server.Port != 0 {
		envCfg.Server.Port = fileCfg.Server.Port
	}
	if envCfg.Logging.Level == def.Logging.Level && fileCfg.Logging.Level != "" {
		envCfg.Logging.Level = fileCfg.Logging.Level
	}
	if envCfg.Logging.Output == def.Logging.Output && fileCfg.Logging.Output != "" {
		envCfg.Logging.Output = fileCfg.Logging.Output
	}
	if envCfg.Upload.MaxBytes == def.Upload.MaxBytes && fileCfg.Upload.MaxBytes != 0 {
		envCfg.Upload.MaxBytes = fileCfg.Upload.MaxBytes
	}
	if envCfg.Layout.Sentinel == def.Layout.Sentinel && fileCfg.Layout.Sentinel != "" {
		envCfg.Layout.Sentinel = fileCfg.Layout.Sentinel
	}
	if envCfg.Layout.WindowAbove == def.Layout.WindowAbove && fileCfg.Layout.WindowAbove != 0 {
		envCfg.Layout.WindowAbove = fileCfg.Layout.WindowAbove
	}
	if envCfg.Layout.WindowBelow == def.Layout.WindowBelow && fileCfg.Layout.WindowBelow != 0 {
		envCfg.Layout.WindowBelow = fileCfg.Layout.WindowBelow
	}
	if envCfg.Layout.RowGranularity == def.Layout.RowGranularity && fileCfg.Layout.RowGranularity != 0 {
		envCfg.Layout.RowGranularity = fileCfg.Layout.RowGranularity
	}

	return envCfg
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Structured logs only; anything else is normalized rather than
	// rejected so a stale config file cannot block startup.
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}
	c.Logging.Level = strings.ToLower(c.Logging.Level)

	if c.Layout.WindowAbove <= c.Layout.WindowBelow {
		return fmt.Errorf("layout window above (%v) must exceed window below (%v)",
			c.Layout.WindowAbove, c.Layout.WindowBelow)
	}

	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// findConfigFile returns the path to the config file, checking common
// locations
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  60 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   10,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/app.log",
		},
		Upload: UploadConfig{
			MaxBytes:          10 << 20,
			AllowedExtensions: []string{".pdf"},
		},
		Layout: LayoutConfig{
			Sentinel:       "Payment History",
			WindowAbove:    100,
			WindowBelow:    20,
			RowGranularity: 1,
		},
	}
}
