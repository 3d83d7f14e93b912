package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration. Provider credentials are
// explicit fields handed to components at construction; nothing reads the
// process environment directly.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Gemini    GeminiConfig    `yaml:"gemini" mapstructure:"gemini"`
	Places    PlacesConfig    `yaml:"places" mapstructure:"places"`
	Yelp      YelpConfig      `yaml:"yelp" mapstructure:"yelp"`
	Valuation ValuationConfig `yaml:"valuation" mapstructure:"valuation"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// GeminiConfig holds generative-text provider settings. An empty key means
// the provider client short-circuits to its static fallback text.
type GeminiConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"` // explicit model, tried first
}

// PlacesConfig holds Google Places (New) settings.
type PlacesConfig struct {
	Key       string  `yaml:"key" mapstructure:"key"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second
}

// YelpConfig holds Yelp Fusion settings (fallback geo provider).
type YelpConfig struct {
	Key string `yaml:"key" mapstructure:"key"`
}

// ValuationConfig holds baseline metal prices (INR per gram) used when the
// upstream text yields no parseable price.
type ValuationConfig struct {
	GoldPrice   float64 `yaml:"gold_price" mapstructure:"gold_price"`
	CopperPrice float64 `yaml:"copper_price" mapstructure:"copper_price"`
	SilverPrice float64 `yaml:"silver_price" mapstructure:"silver_price"`
}

// SearchConfig configures nearby-center search behavior.
type SearchConfig struct {
	DefaultRadiusKm float64 `yaml:"default_radius_km" mapstructure:"default_radius_km"`
	MaxResults      int     `yaml:"max_results" mapstructure:"max_results"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ECOSPARK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "ecospark.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("places.rate_limit", 10)
	v.SetDefault("valuation.gold_price", 7000.0)
	v.SetDefault("valuation.copper_price", 0.9)
	v.SetDefault("valuation.silver_price", 90.0)
	v.SetDefault("search.default_radius_km", 10)
	v.SetDefault("search.max_results", 20)

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
