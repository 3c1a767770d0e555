package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Admin        AdminConfig
	WhatsApp     WhatsAppConfig
	Notify       NotifyConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.WhatsApp.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SUMO_APP_ENV" required:"true"`
	Port         string `envconfig:"SUMO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SUMO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SUMO_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"SUMO_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SUMO_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SUMO_DB_DSN"`
	Driver string `envconfig:"SUMO_DB_DRIVER" default:"postgres"`

	SQLitePath string `envconfig:"SUMO_SQLITE_PATH" default:"sumo.db"`

	LegacyHost     string `envconfig:"SUMO_DB_HOST"`
	LegacyPort     int    `envconfig:"SUMO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SUMO_DB_USER"`
	LegacyPassword string `envconfig:"SUMO_DB_PASSWORD"`
	LegacyName     string `envconfig:"SUMO_DB_NAME"`
	LegacySSLMode  string `envconfig:"SUMO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SUMO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SUMO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SUMO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SUMO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	// SlowQuery logs statements slower than this as warnings; 0 disables.
	SlowQuery time.Duration `envconfig:"SUMO_DB_SLOW_QUERY" default:"250ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SUMO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SUMO_REDIS_ADDR"`
	Password     string        `envconfig:"SUMO_REDIS_PASSWORD"`
	DB           int           `envconfig:"SUMO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SUMO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SUMO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SUMO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SUMO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SUMO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SUMO_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SUMO_AUTO_MIGRATE" default:"false"`
}

// AdminConfig carries the shared admin PIN and the argon2 parameters used to
// hash it.
type AdminConfig struct {
	PinHash string `envconfig:"SUMO_ADMIN_PIN_HASH"`

	ArgonMemoryKB    int `envconfig:"SUMO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SUMO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SUMO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SUMO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SUMO_ARGON_KEY_LEN" default:"32"`

	PinRateLimitWindow time.Duration `envconfig:"SUMO_ADMIN_PIN_RATE_LIMIT_WINDOW" default:"1m"`
	PinRateLimitIP     int           `envconfig:"SUMO_ADMIN_PIN_RATE_LIMIT_IP_LIMIT" default:"30"`
}

const (
	WhatsAppProviderMeta     = "meta"
	WhatsAppProviderGreenAPI = "greenapi"
	WhatsAppProviderDisabled = "disabled"
)

type WhatsAppConfig struct {
	Provider string `envconfig:"SUMO_WHATSAPP_PROVIDER" default:"disabled"`

	GraphVersion  string `envconfig:"SUMO_WHATSAPP_GRAPH_VERSION" default:"v20.0"`
	PhoneNumberID string `envconfig:"SUMO_WHATSAPP_PHONE_NUMBER_ID"`
	AccessToken   string `envconfig:"SUMO_WHATSAPP_ACCESS_TOKEN"`

	GreenInstanceID string `envconfig:"SUMO_GREENAPI_INSTANCE_ID"`
	GreenToken      string `envconfig:"SUMO_GREENAPI_TOKEN"`
	GreenBaseURL    string `envconfig:"SUMO_GREENAPI_BASE_URL" default:"https://api.green-api.com"`

	DefaultCountryCode string        `envconfig:"SUMO_WHATSAPP_DEFAULT_COUNTRY_CODE" default:"595"`
	Timeout            time.Duration `envconfig:"SUMO_WHATSAPP_TIMEOUT" default:"10s"`
}

// NormalizedProvider returns the lower-cased provider name, defaulting to disabled.
func (w WhatsAppConfig) NormalizedProvider() string {
	p := strings.TrimSpace(strings.ToLower(w.Provider))
	if p == "" {
		return WhatsAppProviderDisabled
	}
	return p
}

func (w WhatsAppConfig) validate() error {
	switch w.NormalizedProvider() {
	case WhatsAppProviderMeta, WhatsAppProviderGreenAPI, WhatsAppProviderDisabled:
		return nil
	default:
		return fmt.Errorf("%s must be one of %s, %s, %s", EnvWhatsAppProvider,
			WhatsAppProviderMeta, WhatsAppProviderGreenAPI, WhatsAppProviderDisabled)
	}
}

// NotifyConfig holds the values composed into participant messages.
type NotifyConfig struct {
	PublicBaseURL string `envconfig:"SUMO_PUBLIC_BASE_URL" default:"http://localhost:3000"`
	SenderName    string `envconfig:"SUMO_NOTIFY_SENDER_NAME" default:"Sumo Pedidos"`

	BankName    string `envconfig:"SUMO_BANK_NAME"`
	BankHolder  string `envconfig:"SUMO_BANK_HOLDER"`
	BankAccount string `envconfig:"SUMO_BANK_ACCOUNT"`
	BankDoc     string `envconfig:"SUMO_BANK_DOC"`
	BankAlias   string `envconfig:"SUMO_BANK_ALIAS"`
}

type CronConfig struct {
	Interval                  time.Duration `envconfig:"SUMO_CRON_INTERVAL" default:"1m"`
	LockTTL                   time.Duration `envconfig:"SUMO_CRON_LOCK_TTL" default:"5m"`
	NotificationRetentionDays int           `envconfig:"SUMO_NOTIFICATION_LOG_RETENTION_DAYS" default:"30"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" || useSQLite {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
