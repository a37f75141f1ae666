package config

const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StorageDriverSQLite = "sqlite"
	StorageDriverRedis  = "redis"
	StorageDriverMemory = "memory"
)

const (
	EnvAppEnv         = "STOREFRONT_APP_ENV"
	EnvLogLevel       = "STOREFRONT_LOG_LEVEL"
	EnvLogFormat      = "STOREFRONT_LOG_FORMAT"
	EnvAPIBaseURL     = "STOREFRONT_API_BASE_URL"
	EnvAPITimeout     = "STOREFRONT_API_TIMEOUT"
	EnvStorageDriver  = "STOREFRONT_STORAGE_DRIVER"
	EnvStoragePath    = "STOREFRONT_STORAGE_PATH"
	EnvRedisURL       = "STOREFRONT_REDIS_URL"
	EnvRedisAddr      = "STOREFRONT_REDIS_ADDR"
	EnvMetricsFile    = "STOREFRONT_METRICS_TEXTFILE"
	EnvDevAPIPort     = "STOREFRONT_DEVAPI_PORT"
	EnvDevAPISecret   = "STOREFRONT_DEVAPI_JWT_SECRET"
	EnvDevAPIOrigins  = "STOREFRONT_DEVAPI_CORS_ORIGINS"
	EnvDevAPISeed     = "STOREFRONT_DEVAPI_SEED"
	EnvDevAPISessTTL  = "STOREFRONT_DEVAPI_SESSION_TTL"
	EnvDevAPIArgonMem = "STOREFRONT_ARGON_MEMORY_KB"
)
