package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/gyeh/outlierstats/internal/dataset"
	"github.com/gyeh/outlierstats/internal/normalize"
)

// Config holds all runtime configuration for an outliers run.
type Config struct {
	DSN              string
	LogFormat        string // "text" or "json"
	LogLevel         string
	ClaimsPath       string
	MemberMonthsPath string
	FemaleMarker     string
	CacheSize        int
	Year             string // raw selector; blank means no selection
	FromDB           bool
	Force            bool
	OutputPath       string
}

// Env is the environment-variable layer. Its values seed flag defaults.
type Env struct {
	DSN       string `env:"OUTLIERS_DB_URL"`
	LogFormat string `env:"OUTLIERS_LOG_FORMAT" envDefault:"text"`
	LogLevel  string `env:"OUTLIERS_LOG_LEVEL" envDefault:"info"`
	CacheSize int    `env:"OUTLIERS_CACHE_SIZE" envDefault:"256"`
}

// LoadEnv reads the OUTLIERS_* environment variables.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	ClaimsPath       string `yaml:"claims_path"`
	MemberMonthsPath string `yaml:"member_months_path"`
	FemaleMarker     string `yaml:"female_marker"`
	CacheSize        int    `yaml:"cache_size"`
}

// LoadFromFile reads a YAML config file and fills any field not already set
// by a flag.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if yc.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", yc.CacheSize)
	}
	if c.ClaimsPath == "" {
		c.ClaimsPath = yc.ClaimsPath
	}
	if c.MemberMonthsPath == "" {
		c.MemberMonthsPath = yc.MemberMonthsPath
	}
	if c.FemaleMarker == "" {
		c.FemaleMarker = yc.FemaleMarker
	}
	if yc.CacheSize > 0 {
		c.CacheSize = yc.CacheSize
	}
	return nil
}

// SelectedYear parses the year selector; 0 means none.
func (c *Config) SelectedYear() int {
	return normalize.ParseYear(c.Year)
}

// Validate checks the logging settings shared by every command.
func (c *Config) Validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("--log-format must be text or json, got %q", c.LogFormat)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("--cache-size must not be negative")
	}
	return nil
}

// ValidateFiles checks that at least one input file is named and every named
// file is readable in a supported format.
func (c *Config) ValidateFiles() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.ClaimsPath == "" && c.MemberMonthsPath == "" {
		return fmt.Errorf("--claims or --member-months is required")
	}
	for _, p := range []string{c.ClaimsPath, c.MemberMonthsPath} {
		if p == "" {
			continue
		}
		if _, err := dataset.DetectFormat(p); err != nil {
			return err
		}
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("file not accessible: %w", err)
		}
	}
	return nil
}

// ValidateWithDSN checks the input files and the DSN.
func (c *Config) ValidateWithDSN() error {
	if err := c.ValidateFiles(); err != nil {
		return err
	}
	return c.ValidateDSN()
}

// ValidateDSN checks only that a connection string is present.
func (c *Config) ValidateDSN() error {
	if strings.TrimSpace(c.DSN) == "" {
		return fmt.Errorf("--dsn or OUTLIERS_DB_URL is required")
	}
	return nil
}

// ValidateSource checks the settings needed to read a dataset, from Postgres
// when FromDB is set and from files otherwise.
func (c *Config) ValidateSource() error {
	if c.FromDB {
		if err := c.Validate(); err != nil {
			return err
		}
		return c.ValidateDSN()
	}
	return c.ValidateFiles()
}
