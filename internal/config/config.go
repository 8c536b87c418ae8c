package config

import (
	"fmt"
	"time"

	"github.com/quantmind-br/modclean/internal/output"
	"github.com/quantmind-br/modclean/internal/utils"
)

// Config represents the application configuration
type Config struct {
	Manifest ManifestConfig `mapstructure:"manifest" yaml:"manifest"`
	Graph    GraphConfig    `mapstructure:"graph" yaml:"graph"`
	Cache    CacheConfig    `mapstructure:"cache" yaml:"cache"`
	Checks   ChecksConfig   `mapstructure:"checks" yaml:"checks"`
	Report   ReportConfig   `mapstructure:"report" yaml:"report"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// ManifestConfig locates the go.mod file and its rewrite destination
type ManifestConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
	// SumPath defaults to go.sum next to Path
	SumPath string `mapstructure:"sum_path" yaml:"sum_path"`
	// Output is where a rewrite goes; empty overwrites Path
	Output     string `mapstructure:"output" yaml:"output"`
	RequireSum bool   `mapstructure:"require_sum" yaml:"require_sum"`
}

// GraphConfig contains dependency graph query settings
type GraphConfig struct {
	Command  []string      `mapstructure:"command" yaml:"command"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Progress bool          `mapstructure:"progress" yaml:"progress"`
}

// CacheConfig contains graph cache settings
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Directory string        `mapstructure:"directory" yaml:"directory"`
}

// ChecksConfig toggles the cleanup passes
type ChecksConfig struct {
	Obsolete     bool `mapstructure:"obsolete" yaml:"obsolete"`
	Unreferenced bool `mapstructure:"unreferenced" yaml:"unreferenced"`
}

// ReportConfig contains run report settings
type ReportConfig struct {
	// Path of the report; the extension selects YAML or JSON. Empty disables it.
	Path string `mapstructure:"path" yaml:"path"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate validates the configuration, filling in derived and default values
func (c *Config) Validate() error {
	if c.Manifest.Path == "" {
		c.Manifest.Path = DefaultManifestPath
	}
	c.Manifest.Path = utils.ExpandPath(c.Manifest.Path)
	if c.Manifest.SumPath == "" {
		c.Manifest.SumPath = utils.Sibling(c.Manifest.Path, DefaultSumFile)
	}
	c.Manifest.SumPath = utils.ExpandPath(c.Manifest.SumPath)
	c.Manifest.Output = utils.ExpandPath(c.Manifest.Output)

	if len(c.Graph.Command) == 0 {
		c.Graph.Command = append([]string(nil), DefaultGraphCommand...)
	}
	if c.Graph.Timeout < 0 {
		return fmt.Errorf("invalid graph.timeout: %s", c.Graph.Timeout)
	}

	if c.Cache.TTL < time.Minute {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Cache.Directory == "" {
		c.Cache.Directory = CacheDir()
	}
	c.Cache.Directory = utils.ExpandPath(c.Cache.Directory)
	c.Report.Path = utils.ExpandPath(c.Report.Path)
	if c.Report.Path != "" {
		if err := output.CheckPath(c.Report.Path); err != nil {
			return fmt.Errorf("invalid report.path: %w", err)
		}
	}

	switch c.Logging.Level {
	case "":
		c.Logging.Level = DefaultLogLevel
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	if c.Logging.Format != "pretty" && c.Logging.Format != "json" {
		c.Logging.Format = DefaultLogFormat
	}
	return nil
}
