package config

const (
	EnvPrefix = "SUMO"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv      = "SUMO_APP_ENV"
	EnvPort        = "SUMO_APP_PORT"
	EnvLogLevel    = "SUMO_LOG_LEVEL"
	EnvServiceKind = "SUMO_SERVICE_KIND"

	EnvDBDSN  = "SUMO_DB_DSN"
	EnvDBHost = "SUMO_DB_HOST"
	EnvDBUser = "SUMO_DB_USER"
	EnvDBName = "SUMO_DB_NAME"

	EnvRedisURL = "SUMO_REDIS_URL"

	EnvUseSQLite   = "SUMO_USE_SQLITE"
	EnvAutoMigrate = "SUMO_AUTO_MIGRATE"

	EnvAdminPinHash = "SUMO_ADMIN_PIN_HASH"

	EnvWhatsAppProvider = "SUMO_WHATSAPP_PROVIDER"
	EnvPublicBaseURL    = "SUMO_PUBLIC_BASE_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
