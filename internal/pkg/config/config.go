package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Routing   RoutingConfig   `mapstructure:"routing"`
	Geocoding GeocodingConfig `mapstructure:"geocoding"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

// RoutingConfig configures the OpenRouteService directions client.
type RoutingConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	Profile        string `mapstructure:"profile"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// GeocodingConfig configures the Nominatim client. ContactEmail is sent in
// the User-Agent header per the Nominatim usage policy.
type GeocodingConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	ContactEmail   string `mapstructure:"contact_email"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// CacheConfig holds TTLs for the two provider caches plus the corridor
// sampling stride.
type CacheConfig struct {
	RouteTTLSeconds   int `mapstructure:"route_ttl_seconds"`
	GeocodeTTLSeconds int `mapstructure:"geocode_ttl_seconds"`
	CorridorStride    int `mapstructure:"corridor_stride"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "saferoute")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "saferoute")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("routing.base_url", "https://api.openrouteservice.org")
	v.SetDefault("routing.profile", "driving-car")
	v.SetDefault("routing.timeout_seconds", 10)
	v.SetDefault("geocoding.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoding.timeout_seconds", 5)
	v.SetDefault("cache.route_ttl_seconds", 86400)    // 24 hours
	v.SetDefault("cache.geocode_ttl_seconds", 604800) // 7 days
	v.SetDefault("cache.corridor_stride", 5)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: SAFEROUTE_ROUTING_API_KEY → routing.api_key
	v.SetEnvPrefix("SAFEROUTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Database.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	if c.Routing.BaseURL == "" {
		errs = append(errs, "routing.base_url is required")
	}
	if c.Routing.APIKey == "" {
		errs = append(errs, "routing.api_key is required")
	}
	if c.Routing.Profile == "" {
		errs = append(errs, "routing.profile is required")
	}
	if c.Routing.TimeoutSeconds <= 0 {
		errs = append(errs, "routing.timeout_seconds must be positive")
	}
	if c.Geocoding.BaseURL == "" {
		errs = append(errs, "geocoding.base_url is required")
	}
	if c.Geocoding.ContactEmail == "" {
		errs = append(errs, "geocoding.contact_email is required")
	}
	if c.Geocoding.TimeoutSeconds <= 0 {
		errs = append(errs, "geocoding.timeout_seconds must be positive")
	}
	if c.Cache.RouteTTLSeconds <= 0 {
		errs = append(errs, "cache.route_ttl_seconds must be positive")
	}
	if c.Cache.GeocodeTTLSeconds <= 0 {
		errs = append(errs, "cache.geocode_ttl_seconds must be positive")
	}
	if c.Cache.CorridorStride <= 0 {
		errs = append(errs, "cache.corridor_stride must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
