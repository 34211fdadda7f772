package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration. It is constructed once
// at process start and passed explicitly into component constructors.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Discovery DiscoveryConfig `yaml:"discovery" mapstructure:"discovery"`
	Scrape    ScrapeConfig    `yaml:"scrape" mapstructure:"scrape"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the persistence backend. An empty driver selects
// the no-op store: validation still runs, results are only logged.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // "", "sqlite", "postgres"
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Path        string `yaml:"path" mapstructure:"path"`
}

// AnthropicConfig holds analysis backend settings.
type AnthropicConfig struct {
	Key        string `yaml:"key" mapstructure:"key"`
	HaikuModel string `yaml:"haiku_model" mapstructure:"haiku_model"`
	MaxTokens  int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// DiscoveryConfig configures competitor discovery.
type DiscoveryConfig struct {
	MaxAppsPerStore   int `yaml:"max_apps_per_store" mapstructure:"max_apps_per_store"`
	MaxReviewsPerApp  int `yaml:"max_reviews_per_app" mapstructure:"max_reviews_per_app"`
	MaxWebCompetitors int `yaml:"max_web_competitors" mapstructure:"max_web_competitors"`
}

// ScrapeConfig configures the community evidence scraper.
type ScrapeConfig struct {
	Enabled          bool          `yaml:"enabled" mapstructure:"enabled"`
	TwitterEnabled   bool          `yaml:"twitter_enabled" mapstructure:"twitter_enabled"`
	StealthyEnabled  bool          `yaml:"stealthy_enabled" mapstructure:"stealthy_enabled"`
	RequestDelay     time.Duration `yaml:"request_delay" mapstructure:"request_delay"`
	MaxPerSource     int           `yaml:"max_per_source" mapstructure:"max_per_source"`
	BodyCap          int           `yaml:"body_cap" mapstructure:"body_cap"`
	ProductHuntToken string        `yaml:"producthunt_token" mapstructure:"producthunt_token"`
}

// PipelineConfig configures orchestration behavior.
type PipelineConfig struct {
	Workers        int `yaml:"workers" mapstructure:"workers"`
	EvidenceSample int `yaml:"evidence_sample" mapstructure:"evidence_sample"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("VENTURE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "")
	v.SetDefault("store.path", "venture.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("anthropic.haiku_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 2048)
	v.SetDefault("discovery.max_apps_per_store", 3)
	v.SetDefault("discovery.max_reviews_per_app", 100)
	v.SetDefault("discovery.max_web_competitors", 8)
	v.SetDefault("scrape.enabled", true)
	v.SetDefault("scrape.twitter_enabled", true)
	v.SetDefault("scrape.stealthy_enabled", true)
	v.SetDefault("scrape.request_delay", 1500*time.Millisecond)
	v.SetDefault("scrape.max_per_source", 20)
	v.SetDefault("scrape.body_cap", 500)
	v.SetDefault("pipeline.workers", 4)
	v.SetDefault("pipeline.evidence_sample", 200)

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
