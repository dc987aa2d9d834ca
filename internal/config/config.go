package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	CacheBackendDiskv = "diskv"
	CacheBackendRedis = "redis"
)

type Config struct {
	SQLitePath string `env:"SQLITE_PATH" envDefault:"./data/streak.db"`
	Timezone   string `env:"TIMEZONE" envDefault:"Local"`

	// Local cache
	CacheBackend  string `env:"CACHE_BACKEND" envDefault:"diskv"`
	CacheDir      string `env:"CACHE_DIR" envDefault:"./data/cache"`
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"streak_limpo:"`

	// Chat
	GroupID         string `env:"GROUP_ID"`
	BotPhone        string `env:"BOT_PHONE"`
	OwnerID         string `env:"OWNER_ID"`
	ReplyDelayMinMs int    `env:"REPLY_DELAY_MIN_MS" envDefault:"0"` // Minimum delay before reply (milliseconds)
	ReplyDelayMaxMs int    `env:"REPLY_DELAY_MAX_MS" envDefault:"0"` // 0 = use min as fixed
	ShowTyping      bool   `env:"SHOW_TYPING" envDefault:"false"`

	MirrorTimeoutMs int `env:"MIRROR_TIMEOUT_MS" envDefault:"10000"`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"false"`
	MetricsPort    int  `env:"METRICS_PORT" envDefault:"8080"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads .env if present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using defaults/environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.CacheBackend {
	case CacheBackendDiskv, CacheBackendRedis:
	default:
		return fmt.Errorf("invalid CACHE_BACKEND: %q (must be %s or %s)", c.CacheBackend, CacheBackendDiskv, CacheBackendRedis)
	}
	if c.MetricsEnabled && (c.MetricsPort < 1 || c.MetricsPort > 65535) {
		return fmt.Errorf("invalid METRICS_PORT: %d (must be 1-65535)", c.MetricsPort)
	}
	if c.ReplyDelayMinMs < 0 || c.ReplyDelayMaxMs < 0 {
		return fmt.Errorf("reply delays must be non-negative")
	}
	if c.MirrorTimeoutMs <= 0 {
		return fmt.Errorf("invalid MIRROR_TIMEOUT_MS: %d", c.MirrorTimeoutMs)
	}
	return nil
}

func (c *Config) MirrorTimeout() time.Duration {
	return time.Duration(c.MirrorTimeoutMs) * time.Millisecond
}

func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// ConfigureLogging applies LOG_LEVEL and LOG_FORMAT to the logrus standard logger.
func (c *Config) ConfigureLogging() {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logrus.Warnf("invalid LOG_LEVEL %q, using info", c.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if c.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
