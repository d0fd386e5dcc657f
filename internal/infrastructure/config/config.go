package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Log      LogConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Square   SquareConfig
	Cache    CacheConfig
	Shipping ShippingConfig
	SMTP     SMTPConfig
	HTTP     HTTPConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// DatabaseConfig holds the embedded sqlite settings
type DatabaseConfig struct {
	Path string
}

// RedisConfig holds Redis connection settings for the idempotency store
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SquareConfig holds vendor platform credentials
type SquareConfig struct {
	AccessToken    string
	Environment    string // sandbox or production
	LocationID     string
	TimeoutSeconds int
	RedirectURL    string
}

// CacheConfig holds snapshot staleness tolerances. Changing these only
// affects how stale a served snapshot may be, never correctness.
type CacheConfig struct {
	CatalogTTL   time.Duration
	InventoryTTL time.Duration
}

// ShippingConfig holds default shipping settings (dollars), applied
// until the admin edits the stored shop settings
type ShippingConfig struct {
	FlatRate              float64
	FreeShippingThreshold float64
}

// SMTPConfig holds outbound mail settings; an empty Host disables mail
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	CORSAllowOrigins []string
}

// Load loads configuration from a TOML file and environment variables.
// Priority (highest to lowest): SUGARPLUM_-prefixed environment
// variables, config.toml, built-in defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine, defaults and env vars apply
	}

	v.SetEnvPrefix("SUGARPLUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Database: DatabaseConfig{
			Path: v.GetString("database.path"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Square: SquareConfig{
			AccessToken:    v.GetString("square.access_token"),
			Environment:    v.GetString("square.environment"),
			LocationID:     v.GetString("square.location_id"),
			TimeoutSeconds: v.GetInt("square.timeout_seconds"),
			RedirectURL:    v.GetString("square.redirect_url"),
		},
		Cache: CacheConfig{
			CatalogTTL:   v.GetDuration("cache.catalog_ttl"),
			InventoryTTL: v.GetDuration("cache.inventory_ttl"),
		},
		Shipping: ShippingConfig{
			FlatRate:              v.GetFloat64("shipping.flat_rate"),
			FreeShippingThreshold: v.GetFloat64("shipping.free_threshold"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("smtp.host"),
			Port:     v.GetInt("smtp.port"),
			User:     v.GetString("smtp.user"),
			Password: v.GetString("smtp.password"),
			From:     v.GetString("smtp.from"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "sugarplum-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "3000"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "sugarplum.db"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Square.Environment == "" {
		cfg.Square.Environment = "sandbox"
	}
	if cfg.Square.TimeoutSeconds == 0 {
		cfg.Square.TimeoutSeconds = 30
	}
	if cfg.Cache.CatalogTTL == 0 {
		cfg.Cache.CatalogTTL = 24 * time.Hour
	}
	if cfg.Cache.InventoryTTL == 0 {
		cfg.Cache.InventoryTTL = 5 * time.Minute
	}
	if cfg.Shipping.FlatRate == 0 {
		cfg.Shipping.FlatRate = 7.99
	}
	if cfg.Shipping.FreeShippingThreshold == 0 {
		cfg.Shipping.FreeShippingThreshold = 75
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Cache.CatalogTTL <= 0 {
		return fmt.Errorf("cache.catalog_ttl must be positive")
	}
	if c.Cache.InventoryTTL <= 0 {
		return fmt.Errorf("cache.inventory_ttl must be positive")
	}
	if c.Square.Environment != "sandbox" && c.Square.Environment != "production" {
		return fmt.Errorf("square.environment must be sandbox or production, got %q", c.Square.Environment)
	}
	if c.App.Env == "production" {
		if c.Square.AccessToken == "" {
			return fmt.Errorf("square.access_token is required in production")
		}
		if c.Square.LocationID == "" {
			return fmt.Errorf("square.location_id is required in production")
		}
	}
	return nil
}

// FlatRateAmount returns the flat shipping rate as a decimal dollar
// amount
func (s *ShippingConfig) FlatRateAmount() decimal.Decimal {
	return decimal.NewFromFloat(s.FlatRate)
}

// FreeThresholdAmount returns the free-shipping threshold as a decimal
// dollar amount
func (s *ShippingConfig) FreeThresholdAmount() decimal.Decimal {
	return decimal.NewFromFloat(s.FreeShippingThreshold)
}

// Addr returns the Redis host:port address
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
