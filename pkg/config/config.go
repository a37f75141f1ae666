package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	API     APIConfig
	Storage StorageConfig
	Redis   RedisConfig
	Metrics MetricsConfig
	DevAPI  DevAPIConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.API.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	if cfg.Storage.Driver == StorageDriverRedis && cfg.Redis.URL == "" && cfg.Redis.Address == "" {
		return nil, fmt.Errorf("%s or %s is required for the redis storage driver", EnvRedisURL, EnvRedisAddr)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"STOREFRONT_LOG_FORMAT" default:"console"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// APIConfig points the client at the storefront backend.
type APIConfig struct {
	BaseURL string        `envconfig:"STOREFRONT_API_BASE_URL" default:"http://localhost:5555"`
	Timeout time.Duration `envconfig:"STOREFRONT_API_TIMEOUT" default:"10s"`
}

func (a *APIConfig) validate() error {
	a.BaseURL = strings.TrimRight(strings.TrimSpace(a.BaseURL), "/")
	parsed, err := url.Parse(a.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", EnvAPIBaseURL, a.BaseURL)
	}
	if a.Timeout < 0 {
		return fmt.Errorf("%s must not be negative", EnvAPITimeout)
	}
	return nil
}

// StorageConfig selects the durable store that mirrors client state between runs.
type StorageConfig struct {
	Driver      string `envconfig:"STOREFRONT_STORAGE_DRIVER" default:"sqlite"`
	Path        string `envconfig:"STOREFRONT_STORAGE_PATH" default:"storefront.db"`
	AutoMigrate bool   `envconfig:"STOREFRONT_STORAGE_AUTO_MIGRATE" default:"true"`
}

func (s *StorageConfig) validate() error {
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))
	switch s.Driver {
	case StorageDriverMemory, StorageDriverRedis:
		return nil
	case StorageDriverSQLite:
		if strings.TrimSpace(s.Path) == "" {
			return fmt.Errorf("%s is required for the sqlite storage driver", EnvStoragePath)
		}
		return nil
	default:
		return fmt.Errorf("%s must be one of %s, %s, %s; got %q", EnvStorageDriver, StorageDriverSQLite, StorageDriverRedis, StorageDriverMemory, s.Driver)
	}
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"4"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"1"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"3s"`
}

type MetricsConfig struct {
	Textfile string `envconfig:"STOREFRONT_METRICS_TEXTFILE"`
}

// DevAPIConfig configures the local development backend.
type DevAPIConfig struct {
	Port       string        `envconfig:"STOREFRONT_DEVAPI_PORT" default:"5555"`
	JWTSecret  string        `envconfig:"STOREFRONT_DEVAPI_JWT_SECRET" default:"dev-only-secret"`
	JWTIssuer  string        `envconfig:"STOREFRONT_DEVAPI_JWT_ISSUER" default:"storefront-devapi"`
	SessionTTL time.Duration `envconfig:"STOREFRONT_DEVAPI_SESSION_TTL" default:"24h"`
	// SessionBackend is "memory" or "redis"; redis reuses the Redis* settings.
	SessionBackend string   `envconfig:"STOREFRONT_DEVAPI_SESSION_BACKEND" default:"memory"`
	CORSOrigins    []string `envconfig:"STOREFRONT_DEVAPI_CORS_ORIGINS" default:"http://localhost:3000"`
	Seed           bool     `envconfig:"STOREFRONT_DEVAPI_SEED" default:"true"`
	Password       PasswordConfig
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"STOREFRONT_ARGON_MEMORY_KB" default:"19456"`
	ArgonTime        int `envconfig:"STOREFRONT_ARGON_TIME" default:"2"`
	ArgonParallelism int `envconfig:"STOREFRONT_ARGON_PARALLELISM" default:"1"`
	ArgonSaltLen     int `envconfig:"STOREFRONT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STOREFRONT_ARGON_KEY_LEN" default:"32"`
}
