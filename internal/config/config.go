// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Catalog sources.
const (
	SourceBackend = "backend"
	SourceFixture = "fixture"
)

// Session store backends.
const (
	SessionFile   = "file"
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// Filter modes.
const (
	FilterModeLocal  = "local"
	FilterModeRemote = "remote"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Session   SessionConfig   `mapstructure:"session"`
	Screening ScreeningConfig `mapstructure:"screening"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Health    HealthConfig    `mapstructure:"health"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// CatalogConfig holds product catalog source configuration.
type CatalogConfig struct {
	Source            string        `mapstructure:"source"` // backend | fixture
	BaseURL           string        `mapstructure:"base_url"`
	APIToken          string        `mapstructure:"api_token"`
	FixturePath       string        `mapstructure:"fixture_path"`
	FilterMode        string        `mapstructure:"filter_mode"` // local | remote
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	FeedEnabled       bool          `mapstructure:"feed_enabled"`
	FeedURL           string        `mapstructure:"feed_url"`
	MaxReconnects     int           `mapstructure:"max_reconnects"`
	InitialBackoff    time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff        time.Duration `mapstructure:"max_backoff"`
}

// SessionConfig holds filter-state persistence configuration.
type SessionConfig struct {
	Backend string        `mapstructure:"backend"` // file | memory | redis
	TTL     time.Duration `mapstructure:"ttl"`
	// Dir holds one document per session for the file backend. Empty means
	// the user cache directory.
	Dir           string `mapstructure:"dir"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	KeyPrefix     string `mapstructure:"key_prefix"`
}

// ScreeningConfig holds the thresholds behind the boolean filter preferences.
type ScreeningConfig struct {
	LightweightMaxWeightKg   float64  `mapstructure:"lightweight_max_weight_kg"`
	LightweightMaxPrice      float64  `mapstructure:"lightweight_max_price"`
	LowCompetitionMaxReviews uint64   `mapstructure:"low_competition_max_reviews"`
	ReviewGrowthSalesRatio   float64  `mapstructure:"review_growth_sales_ratio"`
	HighMarginMin            float64  `mapstructure:"high_margin_min"`
	NonBrandSentinels        []string `mapstructure:"non_brand_sentinels"`
}

// LightweightMaxPriceDecimal returns the lightweight price proxy as decimal.Decimal.
func (c *ScreeningConfig) LightweightMaxPriceDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.LightweightMaxPrice)
}

// ScoringConfig holds opportunity scoring weights and curve parameters.
type ScoringConfig struct {
	WeightDemand          float64 `mapstructure:"weight_demand"`
	WeightCompetition     float64 `mapstructure:"weight_competition"`
	WeightMargin          float64 `mapstructure:"weight_margin"`
	WeightGrowth          float64 `mapstructure:"weight_growth"`
	DemandSaturationUnits float64 `mapstructure:"demand_saturation_units"`
	ReviewCeiling         float64 `mapstructure:"review_ceiling"`
	BSRCeiling            float64 `mapstructure:"bsr_ceiling"`
	ReviewWeight          float64 `mapstructure:"review_weight"`
	MarginSaturation      float64 `mapstructure:"margin_saturation"`
	MinScore              float64 `mapstructure:"min_score"`
	ParallelThreshold     int     `mapstructure:"parallel_threshold"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	TraceExporter  string `mapstructure:"trace_exporter"` // zipkin | otlp-grpc | otlp-http | console | none
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	MetricsOTLP    bool   `mapstructure:"metrics_otlp"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// HealthConfig holds health server configuration.
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("SCOUT")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "SCOUT_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "SCOUT_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "SCOUT_LOG_LEVEL", "LOG_LEVEL")

	// Catalog
	v.BindEnv("catalog.source", "SCOUT_CATALOG_SOURCE")
	v.BindEnv("catalog.base_url", "SCOUT_CATALOG_URL", "CATALOG_URL")
	v.BindEnv("catalog.api_token", "SCOUT_CATALOG_TOKEN", "CATALOG_TOKEN")
	v.BindEnv("catalog.fixture_path", "SCOUT_CATALOG_FIXTURE")
	v.BindEnv("catalog.filter_mode", "SCOUT_FILTER_MODE")
	v.BindEnv("catalog.feed_enabled", "SCOUT_FEED_ENABLED")
	v.BindEnv("catalog.feed_url", "SCOUT_FEED_URL")

	// Session
	v.BindEnv("session.backend", "SCOUT_SESSION_BACKEND")
	v.BindEnv("session.dir", "SCOUT_SESSION_DIR")
	v.BindEnv("session.redis_addr", "SCOUT_REDIS_ADDR", "REDIS_ADDR")
	v.BindEnv("session.redis_password", "SCOUT_REDIS_PASSWORD", "REDIS_PASSWORD")

	// Telemetry
	v.BindEnv("telemetry.enabled", "SCOUT_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "SCOUT_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "SCOUT_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
	v.BindEnv("telemetry.otlp_headers", "SCOUT_OTEL_HEADERS", "OTEL_EXPORTER_OTLP_HEADERS")
	v.BindEnv("telemetry.trace_exporter", "SCOUT_TRACE_EXPORTER")

	// Health
	v.BindEnv("health.port", "SCOUT_HEALTH_PORT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "seller-scout")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Catalog defaults
	v.SetDefault("catalog.source", SourceFixture)
	v.SetDefault("catalog.fixture_path", "testdata/products.json")
	v.SetDefault("catalog.filter_mode", FilterModeLocal)
	v.SetDefault("catalog.request_timeout", "10s")
	v.SetDefault("catalog.requests_per_minute", 120)
	v.SetDefault("catalog.cache_ttl", "5m")
	v.SetDefault("catalog.feed_enabled", false)
	v.SetDefault("catalog.max_reconnects", 0) // infinite
	v.SetDefault("catalog.initial_backoff", "1s")
	v.SetDefault("catalog.max_backoff", "30s")

	// Session defaults
	v.SetDefault("session.backend", SessionFile)
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.redis_addr", "localhost:6379")
	v.SetDefault("session.redis_db", 0)
	v.SetDefault("session.key_prefix", "scout:")

	// Screening defaults
	v.SetDefault("screening.lightweight_max_weight_kg", 1.0)
	v.SetDefault("screening.lightweight_max_price", 500)
	v.SetDefault("screening.low_competition_max_reviews", 200)
	v.SetDefault("screening.review_growth_sales_ratio", 0.5)
	v.SetDefault("screening.high_margin_min", 0.30)
	v.SetDefault("screening.non_brand_sentinels", []string{"generic", "unbranded", "no brand", "no-brand", "nobrand", "unknown"})

	// Scoring defaults
	v.SetDefault("scoring.weight_demand", 0.25)
	v.SetDefault("scoring.weight_competition", 0.25)
	v.SetDefault("scoring.weight_margin", 0.25)
	v.SetDefault("scoring.weight_growth", 0.25)
	v.SetDefault("scoring.demand_saturation_units", 5000)
	v.SetDefault("scoring.review_ceiling", 10000)
	v.SetDefault("scoring.bsr_ceiling", 100000)
	v.SetDefault("scoring.review_weight", 0.5)
	v.SetDefault("scoring.margin_saturation", 0.30)
	v.SetDefault("scoring.min_score", 0)
	v.SetDefault("scoring.parallel_threshold", 256)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "seller-scout")
	v.SetDefault("telemetry.trace_exporter", "zipkin")
	v.SetDefault("telemetry.otlp_endpoint", "http://localhost:9411/api/v2/spans")
	v.SetDefault("telemetry.prometheus_port", 9090)

	// Health defaults
	v.SetDefault("health.enabled", true)
	v.SetDefault("health.port", 8081)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Catalog.Source {
	case SourceBackend:
		if c.Catalog.BaseURL == "" {
			return fmt.Errorf("catalog.base_url is required for the backend source")
		}
	case SourceFixture:
		if c.Catalog.FixturePath == "" {
			return fmt.Errorf("catalog.fixture_path is required for the fixture source")
		}
	default:
		return fmt.Errorf("invalid catalog.source: %q", c.Catalog.Source)
	}
	if c.Catalog.FilterMode != FilterModeLocal && c.Catalog.FilterMode != FilterModeRemote {
		return fmt.Errorf("invalid catalog.filter_mode: %q", c.Catalog.FilterMode)
	}
	if c.Catalog.FeedEnabled && c.Catalog.FeedURL == "" {
		return fmt.Errorf("catalog.feed_url is required when the feed is enabled")
	}
	switch c.Session.Backend {
	case SessionFile, SessionMemory, SessionRedis:
	default:
		return fmt.Errorf("invalid session.backend: %q", c.Session.Backend)
	}

	s := c.Scoring
	weights := []float64{s.WeightDemand, s.WeightCompetition, s.WeightMargin, s.WeightGrowth}
	sum := 0.0
	for _, w := range weights {
		if w < 0 {
			return fmt.Errorf("scoring weights must be non-negative")
		}
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %.6f", sum)
	}
	if s.ReviewWeight < 0 || s.ReviewWeight > 1 {
		return fmt.Errorf("scoring.review_weight must be within [0, 1]")
	}
	if s.DemandSaturationUnits <= 0 || s.ReviewCeiling <= 0 || s.BSRCeiling <= 1 || s.MarginSaturation <= 0 {
		return fmt.Errorf("scoring curve parameters must be positive")
	}
	if s.MinScore < 0 || s.MinScore > 100 {
		return fmt.Errorf("scoring.min_score must be within [0, 100]")
	}
	if c.Screening.HighMarginMin < 0 || c.Screening.LightweightMaxWeightKg <= 0 {
		return fmt.Errorf("screening thresholds must be positive")
	}
	return nil
}
