package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SIGNAGE_BACKEND_API_KEY.
const EnvPrefix = "SIGNAGE"

// Error policies for transport failures while a doctor card is shown.
const (
	ErrorPolicyPreserve = "preserve"
	ErrorPolicyClear    = "clear"
)

// Storage drivers for the device KV.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

type Config struct {
	Log          LogConfig          `mapstructure:"log"`
	Backend      BackendConfig      `mapstructure:"backend"`
	Poll         PollConfig         `mapstructure:"poll"`
	Storage      StorageConfig      `mapstructure:"storage"`
	API          APIConfig          `mapstructure:"api"`
	Connectivity ConnectivityConfig `mapstructure:"connectivity"`
	MQTT         MQTTConfig         `mapstructure:"mqtt"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console | json
}

type BackendConfig struct {
	BaseURL  string        `mapstructure:"base_url"` // schedule endpoint, query params are appended
	APIKey   string        `mapstructure:"api_key"`  // sent as X-Api-Key
	Timezone string        `mapstructure:"timezone"` // business timezone for currentTime
	Timeout  time.Duration `mapstructure:"timeout"`
}

type PollConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	ErrorPolicy string        `mapstructure:"error_policy"` // preserve | clear
}

type StorageConfig struct {
	Driver string      `mapstructure:"driver"` // sqlite | redis
	Path   string      `mapstructure:"path"`   // sqlite file, also holds the event log
	Redis  RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type APIConfig struct {
	Port string `mapstructure:"port"`
	Key  string `mapstructure:"key"` // optional; protects /api/v1 and /ws
}

type ConnectivityConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type MQTTConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Broker      string `mapstructure:"broker"`
	ClientID    string `mapstructure:"client_id"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	TopicPrefix string `mapstructure:"topic_prefix"`
	QoS         byte   `mapstructure:"qos"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("backend.base_url", "")
	v.SetDefault("backend.api_key", "")
	v.SetDefault("backend.timezone", "Asia/Dubai")
	v.SetDefault("backend.timeout", 10*time.Second)

	v.SetDefault("poll.interval", 30*time.Second)
	v.SetDefault("poll.error_policy", ErrorPolicyPreserve)

	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.path", "signage.db")
	v.SetDefault("storage.redis.addr", "127.0.0.1:6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.prefix", "signage:")

	v.SetDefault("api.port", "8080")
	v.SetDefault("api.key", "")

	v.SetDefault("connectivity.enabled", true)
	v.SetDefault("connectivity.interval", 15*time.Second)
	v.SetDefault("connectivity.timeout", 3*time.Second)

	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.client_id", "")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.topic_prefix", "signage")
	v.SetDefault("mqtt.qos", 1)
}

// Load reads the config file (path, or configs/config.yml when empty),
// applies SIGNAGE_* environment overrides and validates the result.
// A missing default config file is not an error; env and defaults still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs") // configs/config.yml
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values the poller cannot run without.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required and must be a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend.base_url: unsupported scheme %q", u.Scheme)
	}
	if _, err := time.LoadLocation(c.Backend.Timezone); err != nil {
		return fmt.Errorf("backend.timezone %q: %w", c.Backend.Timezone, err)
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be > 0")
	}
	if c.Poll.Interval <= 0 {
		return fmt.Errorf("poll.interval must be > 0")
	}
	switch c.Poll.ErrorPolicy {
	case ErrorPolicyPreserve, ErrorPolicyClear:
	default:
		return fmt.Errorf("poll.error_policy must be %q or %q, got %q", ErrorPolicyPreserve, ErrorPolicyClear, c.Poll.ErrorPolicy)
	}
	switch c.Storage.Driver {
	case DriverSQLite, DriverRedis:
	default:
		return fmt.Errorf("storage.driver must be %q or %q, got %q", DriverSQLite, DriverRedis, c.Storage.Driver)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}
	if c.Storage.Driver == DriverRedis && c.Storage.Redis.Addr == "" {
		return fmt.Errorf("storage.redis.addr is required for the redis driver")
	}
	if c.Connectivity.Enabled && (c.Connectivity.Interval <= 0 || c.Connectivity.Timeout <= 0) {
		return fmt.Errorf("connectivity.interval and connectivity.timeout must be > 0")
	}
	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker is required when mqtt is enabled")
	}
	if c.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt.qos must be 0, 1 or 2")
	}
	return nil
}

// Location returns the business timezone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Backend.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RequestTimeout is the backend timeout clamped to one poll interval.
func (c *Config) RequestTimeout() time.Duration {
	if c.Backend.Timeout > c.Poll.Interval {
		return c.Poll.Interval
	}
	return c.Backend.Timeout
}
