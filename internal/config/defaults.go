package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	// Manifest defaults
	DefaultManifestPath = "go.mod"
	DefaultSumFile      = "go.sum"
	DefaultRequireSum   = true

	// Graph defaults
	DefaultGraphTimeout  = 0
	DefaultGraphProgress = true

	// Cache defaults
	DefaultCacheEnabled = true
	DefaultCacheTTL     = 24 * time.Hour

	// Check defaults
	DefaultCheckObsolete     = true
	DefaultCheckUnreferenced = true

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"

	// ProjectConfigFile is looked up in the working directory before ConfigFilePath
	ProjectConfigFile = ".modclean.yaml"

	// EnvPrefix prefixes environment overrides, e.g. MODCLEAN_CACHE_ENABLED
	EnvPrefix = "MODCLEAN"
)

// DefaultGraphCommand prints the module requirement graph
var DefaultGraphCommand = []string{"go", "mod", "graph"}

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".modclean"
	}
	return filepath.Join(home, ".modclean")
}

// CacheDir returns the cache directory path
func CacheDir() string {
	return filepath.Join(ConfigDir(), "cache")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Manifest: ManifestConfig{
			Path:       DefaultManifestPath,
			SumPath:    DefaultSumFile,
			RequireSum: DefaultRequireSum,
		},
		Graph: GraphConfig{
			Command:  append([]string(nil), DefaultGraphCommand...),
			Timeout:  DefaultGraphTimeout,
			Progress: DefaultGraphProgress,
		},
		Cache: CacheConfig{
			Enabled:   DefaultCacheEnabled,
			TTL:       DefaultCacheTTL,
			Directory: CacheDir(),
		},
		Checks: ChecksConfig{
			Obsolete:     DefaultCheckObsolete,
			Unreferenced: DefaultCheckUnreferenced,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
