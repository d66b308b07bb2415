package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Env       string          `mapstructure:"env"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Temporal  TemporalConfig  `mapstructure:"temporal"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Log       LogConfig       `mapstructure:"log"`
	Depot     DepotConfig     `mapstructure:"depot"`
	Kakao     KakaoConfig     `mapstructure:"kakao"`
	Geocode   GeocodeConfig   `mapstructure:"geocode"`
	Messaging MessagingConfig `mapstructure:"messaging"`
}

// Production reports whether the service runs with production safeguards.
func (c *Config) Production() bool { return c.Env == "production" }

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
	// DraftTTL is how long an untouched editing draft survives, in minutes.
	DraftTTL int `mapstructure:"draft_ttl"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr   string `mapstructure:"addr"`
	Prefix string `mapstructure:"prefix"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	OTLPAddr    string `mapstructure:"otlp_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DepotConfig is the fixed starting point of every route.
type DepotConfig struct {
	Lat float64 `mapstructure:"lat"`
	Lng float64 `mapstructure:"lng"`
}

type KakaoConfig struct {
	RESTKey     string  `mapstructure:"rest_key"`
	LocalURL    string  `mapstructure:"local_url"`
	MobilityURL string  `mapstructure:"mobility_url"`
	RatePerSec  float64 `mapstructure:"rate_per_sec"`
}

type GeocodeConfig struct {
	Concurrency int `mapstructure:"concurrency"`
	// Timeout per lookup, in seconds.
	Timeout int `mapstructure:"timeout"`
	// CacheTTL in hours.
	CacheTTL int `mapstructure:"cache_ttl"`
}

func (g GeocodeConfig) TimeoutDuration() time.Duration {
	return time.Duration(g.Timeout) * time.Second
}

type MessagingConfig struct {
	URL       string `mapstructure:"url"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
	Sender    string `mapstructure:"sender"`
	ProfileID string `mapstructure:"profile_id"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("env", "development")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.draft_ttl", 240)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "routedesk")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "routedesk")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("valkey.prefix", "routedesk:")
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "delivery-notices")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.otlp_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("depot.lat", 37.7853)
	v.SetDefault("depot.lng", 127.0458)
	v.SetDefault("kakao.local_url", "https://dapi.kakao.com")
	v.SetDefault("kakao.mobility_url", "https://apis-navi.kakaomobility.com")
	v.SetDefault("kakao.rate_per_sec", 10)
	v.SetDefault("messaging.url", "https://api.solapi.com")
	v.SetDefault("geocode.concurrency", 8)
	v.SetDefault("geocode.timeout", 5)
	v.SetDefault("geocode.cache_ttl", 24*7)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: ROUTEDESK_DATABASE_HOST → database.host
	v.SetEnvPrefix("ROUTEDESK")
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
	if c.Server.DraftTTL <= 0 {
		errs = append(errs, "server.draft_ttl must be positive")
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
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Temporal.TaskQueue == "" {
		errs = append(errs, "temporal.task_queue is required")
	}
	if c.Depot.Lat < -90 || c.Depot.Lat > 90 {
		errs = append(errs, fmt.Sprintf("depot.lat must be -90..90, got %g", c.Depot.Lat))
	}
	if c.Depot.Lng < -180 || c.Depot.Lng > 180 {
		errs = append(errs, fmt.Sprintf("depot.lng must be -180..180, got %g", c.Depot.Lng))
	}
	if c.Geocode.Concurrency < 1 {
		errs = append(errs, "geocode.concurrency must be at least 1")
	}
	if c.Geocode.Timeout <= 0 {
		errs = append(errs, "geocode.timeout must be positive")
	}
	if c.Production() {
		if c.Kakao.RESTKey == "" {
			errs = append(errs, "kakao.rest_key is required in production")
		}
		if c.Messaging.URL == "" || c.Messaging.APIKey == "" || c.Messaging.APISecret == "" {
			errs = append(errs, "messaging.url, messaging.api_key and messaging.api_secret are required in production")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
