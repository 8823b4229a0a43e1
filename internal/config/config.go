//-------------------------------------------------------------------------
//
// Customer Churn Warehouse
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for churn-warehouse.
// Configuration is loaded from config files and CLI flags (no environment
// variables). CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// DateLayout is the layout for date-valued configuration fields.
const DateLayout = "2006-01-02"

// Config holds all configuration for churn-warehouse.
type Config struct {
	// Connection is the PostgreSQL connection string for the warehouse.
	Connection string `mapstructure:"connection"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Init holds configuration for the init subcommand.
	Init InitConfig `mapstructure:"init"`

	// Seed holds configuration for the seed subcommand.
	Seed SeedConfig `mapstructure:"seed"`

	// Run holds configuration for the run subcommand.
	Run RunConfig `mapstructure:"run"`
}

// InitConfig holds configuration for warehouse initialization.
type InitConfig struct {
	// DropExisting drops existing staging and warehouse schemas first.
	DropExisting bool `mapstructure:"drop_existing"`
}

// SeedConfig holds configuration for synthetic extract generation.
type SeedConfig struct {
	// Customers is the number of customers to generate extracts for.
	Customers int `mapstructure:"customers"`

	// TruncateFirst clears the staging tables before seeding.
	TruncateFirst bool `mapstructure:"truncate_first"`
}

// RunConfig holds configuration for pipeline execution.
type RunConfig struct {
	// StageTimeout is the maximum duration for a single pipeline stage.
	// A breach aborts the whole run; previously committed tables stay intact.
	StageTimeout time.Duration `mapstructure:"stage_timeout"`

	// Interval enables scheduled mode when non-zero: the pipeline is
	// re-run on this cadence until interrupted.
	Interval time.Duration `mapstructure:"interval"`

	// CalendarStart is the first date of the time dimension span.
	CalendarStart string `mapstructure:"calendar_start"`

	// CalendarEnd is the last date of the time dimension span.
	CalendarEnd string `mapstructure:"calendar_end"`

	// AnchorDate is the reference date used to estimate contract start
	// (anchor minus tenure). Empty means the current date.
	AnchorDate string `mapstructure:"anchor_date"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Init: InitConfig{
			DropExisting: false,
		},
		Seed: SeedConfig{
			Customers:     5000,
			TruncateFirst: true,
		},
		Run: RunConfig{
			StageTimeout:  30 * time.Minute,
			CalendarStart: "2010-01-01",
			CalendarEnd:   "2030-12-31",
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./churn-warehouse.yaml
// 3. ~/.config/churn-warehouse/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("churn-warehouse")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "churn-warehouse"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Connection == "" {
		return fmt.Errorf("connection string is required")
	}
	return nil
}

// ValidateSeed checks configuration required for the seed command.
func (c *Config) ValidateSeed() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Seed.Customers < 1 {
		return fmt.Errorf("seed customer count must be at least 1")
	}
	return nil
}

// ValidateRun checks configuration required for the run command.
func (c *Config) ValidateRun() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Run.StageTimeout <= 0 {
		return fmt.Errorf("stage_timeout must be positive")
	}
	if c.Run.Interval < 0 {
		return fmt.Errorf("interval must be non-negative")
	}
	if _, _, err := c.CalendarSpan(); err != nil {
		return err
	}
	if c.Run.AnchorDate != "" {
		if _, err := time.Parse(DateLayout, c.Run.AnchorDate); err != nil {
			return fmt.Errorf("invalid anchor_date %q: %w", c.Run.AnchorDate, err)
		}
	}
	return nil
}

// CalendarSpan parses the configured time dimension span.
func (c *Config) CalendarSpan() (time.Time, time.Time, error) {
	start, err := time.Parse(DateLayout, c.Run.CalendarStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid calendar_start %q: %w", c.Run.CalendarStart, err)
	}
	end, err := time.Parse(DateLayout, c.Run.CalendarEnd)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid calendar_end %q: %w", c.Run.CalendarEnd, err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("calendar_end %q precedes calendar_start %q", c.Run.CalendarEnd, c.Run.CalendarStart)
	}
	return start, end, nil
}

// Anchor returns the configured anchor date, or now truncated to a date
// when no anchor is configured.
func (c *Config) Anchor(now time.Time) time.Time {
	if c.Run.AnchorDate != "" {
		anchor, err := time.Parse(DateLayout, c.Run.AnchorDate)
		if err == nil {
			return anchor
		}
	}
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
