package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"

	"github.com/quantmind-br/modclean/internal/utils"
)

// LoadFrom loads configuration from file, environment, and defaults into v.
// Flags bound to v with BindPFlag take precedence over all three.
// An empty configFile searches the default locations.
func LoadFrom(v *viper.Viper, configFile string) (*Config, error) {
	setDefaults(v)

	v.SetConfigType("yaml")
	switch {
	case configFile != "":
		v.SetConfigFile(configFile)
	case utils.FileExists(ProjectConfigFile):
		v.SetConfigFile(ProjectConfigFile)
	default:
		v.SetConfigName("config")
		v.AddConfigPath(ConfigDir())
	}

	// A missing config file is fine unless it was named explicitly
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	// Environment variables (MODCLEAN_*)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	v.SetDefault("manifest.path", DefaultManifestPath)
	v.SetDefault("manifest.sum_path", "")
	v.SetDefault("manifest.output", "")
	v.SetDefault("manifest.require_sum", DefaultRequireSum)

	v.SetDefault("graph.command", DefaultGraphCommand)
	v.SetDefault("graph.timeout", DefaultGraphTimeout)
	v.SetDefault("graph.progress", DefaultGraphProgress)

	v.SetDefault("cache.enabled", DefaultCacheEnabled)
	v.SetDefault("cache.ttl", DefaultCacheTTL)
	v.SetDefault("cache.directory", CacheDir())

	v.SetDefault("checks.obsolete", DefaultCheckObsolete)
	v.SetDefault("checks.unreferenced", DefaultCheckUnreferenced)

	v.SetDefault("report.path", "")

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}
