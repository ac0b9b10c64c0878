package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPPort   string `env:"HTTP_PORT" envDefault:"8080"`
	Env        string `env:"ENV" envDefault:"development"`
	DB         DBConfig
	Cache      CacheConfig
	Redis      RedisConfig
	Submission SubmissionConfig
	Tenancy    TenancyConfig
	RateLimit  RateLimitConfig
	Metrics    MetricsConfig
	CORS       CORSConfig
}

type DBConfig struct {
	DSN             string        `env:"DB_DSN"`
	Host            string        `env:"DB_HOST" envDefault:"localhost"`
	Port            string        `env:"DB_PORT" envDefault:"5432"`
	User            string        `env:"DB_USER" envDefault:"postgres"`
	Password        string        `env:"DB_PASSWORD" envDefault:"postgres"`
	Name            string        `env:"DB_NAME" envDefault:"feedback360"`
	SSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	TimeZone        string        `env:"DB_TIMEZONE" envDefault:"UTC"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// CacheConfig controls the emailing list cache. Entries slide on every read
// but never outlive AbsoluteTTL from the moment they were computed.
type CacheConfig struct {
	Backend     string        `env:"EMAILING_CACHE_BACKEND" envDefault:"memory"`
	SlidingTTL  time.Duration `env:"EMAILING_CACHE_SLIDING_TTL" envDefault:"5m"`
	AbsoluteTTL time.Duration `env:"EMAILING_CACHE_ABSOLUTE_TTL" envDefault:"30m"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	Prefix   string `env:"REDIS_PREFIX" envDefault:"feedback360"`
}

type SubmissionConfig struct {
	AllowEditAfterCompletion bool `env:"SUBMISSION_ALLOW_EDIT_AFTER_COMPLETION" envDefault:"false"`
}

type TenancyConfig struct {
	Header   string        `env:"TENANT_HEADER" envDefault:"X-Tenant-ID"`
	CacheTTL time.Duration `env:"TENANT_CACHE_TTL" envDefault:"1m"`
}

type RateLimitConfig struct {
	Enabled bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	Rate    string `env:"RATE_LIMIT_RATE" envDefault:"600-M"`
	Storage string `env:"RATE_LIMIT_STORAGE" envDefault:"memory"`
}

type MetricsConfig struct {
	Enabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	Path    string `env:"METRICS_PATH" envDefault:"/metrics"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
}

func Load() (Config, error) {
	if _, err := loadDotEnv([]string{".env", ".env.local"}); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("EMAILING_CACHE_BACKEND must be 'memory' or 'redis', got %q", c.Cache.Backend)
	}
	if c.Cache.SlidingTTL < 0 || c.Cache.AbsoluteTTL < 0 {
		return fmt.Errorf("emailing cache ttl must be non-negative")
	}
	if c.Cache.AbsoluteTTL > 0 && c.Cache.SlidingTTL > c.Cache.AbsoluteTTL {
		return fmt.Errorf("EMAILING_CACHE_SLIDING_TTL (%s) exceeds EMAILING_CACHE_ABSOLUTE_TTL (%s)", c.Cache.SlidingTTL, c.Cache.AbsoluteTTL)
	}
	switch c.RateLimit.Storage {
	case "memory", "redis":
	default:
		return fmt.Errorf("RATE_LIMIT_STORAGE must be 'memory' or 'redis', got %q", c.RateLimit.Storage)
	}
	return nil
}

// UsesRedis reports whether any component needs a redis client.
func (c Config) UsesRedis() bool {
	return c.Cache.Backend == "redis" || (c.RateLimit.Enabled && c.RateLimit.Storage == "redis")
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
