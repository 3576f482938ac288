package config

// EnvPrefix is passed to envconfig; individual fields carry full names so the
// prefix only matters for variables without an explicit tag.
const EnvPrefix = "SORTEZAP"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv           = "SORTEZAP_APP_ENV"
	EnvAppPort          = "SORTEZAP_APP_PORT"
	EnvLiraPayAPISecret = "SORTEZAP_LIRAPAY_API_SECRET"
	EnvLiraPayWebhook   = "SORTEZAP_LIRAPAY_WEBHOOK_URL"
	EnvRedisURL         = "SORTEZAP_REDIS_URL"
)
