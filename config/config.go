// Package config provides configuration loading for the attendance server.
//
// Configuration is loaded from a single YAML file specified by:
//   - the --config flag, or
//   - the ATTENDANCE_CONFIG environment variable
//
// When neither is set the built-in defaults are used. There is no automatic
// discovery. Command-line flags may override the port and database path
// after loading.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable holding the config path.
const EnvVar = "ATTENDANCE_CONFIG"

// Config is the server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Report    ReportConfig    `yaml:"report"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`

	// Timeouts are Go duration strings ("15s", "1m").
	ReadTimeout     string `yaml:"read_timeout"`
	WriteTimeout    string `yaml:"write_timeout"`
	IdleTimeout     string `yaml:"idle_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// DatabaseConfig configures the SQLite store.
type DatabaseConfig struct {
	// Path is the SQLite file, or ":memory:". ${VAR} and ${VAR:-default}
	// are expanded.
	Path string `yaml:"path"`
}

// SchedulerConfig configures background evaluation.
type SchedulerConfig struct {
	Enabled bool `yaml:"enabled"`

	// Interval between runs, as a duration string.
	Interval string `yaml:"interval"`

	// LookbackDays is how many days before today each run covers.
	LookbackDays int `yaml:"lookback_days"`
}

// ReportConfig configures the reporting service.
type ReportConfig struct {
	// Workers evaluating users in parallel. 1 disables fan-out.
	Workers int `yaml:"workers"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			AllowedOrigins:  []string{"http://localhost:3000", "http://localhost:5173"},
			ReadTimeout:     "15s",
			WriteTimeout:    "15s",
			IdleTimeout:     "60s",
			ShutdownTimeout: "30s",
		},
		Database: DatabaseConfig{
			Path: "attendance.db",
		},
		Scheduler: SchedulerConfig{
			Enabled:      true,
			Interval:     "1h",
			LookbackDays: 7,
		},
		Report: ReportConfig{
			Workers: 4,
		},
	}
}

// Load resolves the config path from path or ATTENDANCE_CONFIG and loads it.
// With neither set, Default() is returned.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path on top of the
// defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.Database.Path = expandVars(cfg.Database.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	for name, value := range map[string]string{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.idle_timeout":     c.Server.IdleTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"scheduler.interval":      c.Scheduler.Interval,
	} {
		if d, err := time.ParseDuration(value); err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be a positive duration, got %q", name, value))
		}
	}
	if c.Database.Path == "" {
		errs = append(errs, fmt.Errorf("database.path is required"))
	}
	if c.Scheduler.LookbackDays < 1 {
		errs = append(errs, fmt.Errorf("scheduler.lookback_days must be at least 1"))
	}
	if c.Report.Workers < 1 {
		errs = append(errs, fmt.Errorf("report.workers must be at least 1"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Durations. Validate has already checked the strings, so errors are ignored.

func (s ServerConfig) ReadTimeoutDuration() time.Duration     { return mustDuration(s.ReadTimeout) }
func (s ServerConfig) WriteTimeoutDuration() time.Duration    { return mustDuration(s.WriteTimeout) }
func (s ServerConfig) IdleTimeoutDuration() time.Duration     { return mustDuration(s.IdleTimeout) }
func (s ServerConfig) ShutdownTimeoutDuration() time.Duration { return mustDuration(s.ShutdownTimeout) }
func (s SchedulerConfig) IntervalDuration() time.Duration     { return mustDuration(s.Interval) }

func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}
