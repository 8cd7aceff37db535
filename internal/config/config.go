package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Dataset   DatasetConfig   `yaml:"dataset" mapstructure:"dataset"`
	Sources   []SourceConfig  `yaml:"sources" mapstructure:"sources"`
	Loader    LoaderConfig    `yaml:"loader" mapstructure:"loader"`
	Ranking   RankingConfig   `yaml:"ranking" mapstructure:"ranking"`
	Discovery DiscoveryConfig `yaml:"discovery" mapstructure:"discovery"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ServerConfig configures the read-only listings API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	RateLimit   float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst   int      `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// DatasetConfig points at the base directory dataset and where merged output goes.
type DatasetConfig struct {
	BasePath   string `yaml:"base_path" mapstructure:"base_path"`
	OutputPath string `yaml:"output_path" mapstructure:"output_path"`
}

// SourceConfig is one provider source file and the trust its rows default to.
type SourceConfig struct {
	Path         string `yaml:"path" mapstructure:"path"`
	DefaultTrust string `yaml:"default_trust" mapstructure:"default_trust"`
}

// LoaderConfig bounds the free-text fields the provider loader keeps.
type LoaderConfig struct {
	MaxListItems  int `yaml:"max_list_items" mapstructure:"max_list_items"`
	MaxItemLength int `yaml:"max_item_length" mapstructure:"max_item_length"`
	MaxTextLength int `yaml:"max_text_length" mapstructure:"max_text_length"`
}

// RankingConfig configures location listing selection. PolicyFile, when set,
// replaces the inline values.
type RankingConfig struct {
	PolicyFile          string   `yaml:"policy_file" mapstructure:"policy_file"`
	TrustFirstLocations []string `yaml:"trust_first_locations" mapstructure:"trust_first_locations"`
	MinVerified         int      `yaml:"min_verified" mapstructure:"min_verified"`
	MinListed           int      `yaml:"min_listed" mapstructure:"min_listed"`
}

// DiscoveryConfig configures candidate screening.
type DiscoveryConfig struct {
	DirectoryBlocklist []string `yaml:"directory_blocklist" mapstructure:"directory_blocklist"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DIRECTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "directory.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("loader.max_list_items", 12)
	v.SetDefault("loader.max_item_length", 80)
	v.SetDefault("loader.max_text_length", 2000)
	v.SetDefault("ranking.min_verified", 3)
	v.SetDefault("ranking.min_listed", 2)
	v.SetDefault("discovery.directory_blocklist", []string{
		"yelp.com", "facebook.com", "linkedin.com", "yellowpages.com", "bbb.org",
		"google.com", "mapquest.com", "instagram.com", "angi.com", "thumbtack.com",
	})

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on. Modes: "validate",
// "resolve", "merge", "rank", "export", "serve".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "validate", "resolve", "rank", "export":
	case "merge":
		if c.Dataset.BasePath == "" {
			errs = append(errs, "dataset.base_path is required")
		}
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
		if c.Server.RateLimit < 0 {
			errs = append(errs, "server.rate_limit must be >= 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	switch c.Store.Driver {
	case "sqlite", "postgres":
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
	default:
		errs = append(errs, "store.driver must be sqlite or postgres")
	}

	if c.Loader.MaxListItems < 0 || c.Loader.MaxItemLength < 0 || c.Loader.MaxTextLength < 0 {
		errs = append(errs, "loader limits must be >= 0")
	}
	if c.Ranking.MinVerified < 0 || c.Ranking.MinListed < 0 {
		errs = append(errs, "ranking thresholds must be >= 0")
	}
	for i, s := range c.Sources {
		if s.Path == "" {
			errs = append(errs, fmt.Sprintf("sources[%d].path is required", i))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
