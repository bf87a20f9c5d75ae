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
	JWT          JWTConfig
	Provider     ProviderConfig
	Webhook      WebhookConfig
	Sync         SyncConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Provider.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FNT_APP_ENV" required:"true"`
	Port         string `envconfig:"FNT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FNT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FNT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"FNT_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"FNT_DB_DSN"`
	Driver string `envconfig:"FNT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FNT_DB_HOST"`
	LegacyPort     int    `envconfig:"FNT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FNT_DB_USER"`
	LegacyPassword string `envconfig:"FNT_DB_PASSWORD"`
	LegacyName     string `envconfig:"FNT_DB_NAME"`
	LegacySSLMode  string `envconfig:"FNT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FNT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FNT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FNT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FNT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FNT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FNT_REDIS_ADDR"`
	Password     string        `envconfig:"FNT_REDIS_PASSWORD"`
	DB           int           `envconfig:"FNT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FNT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FNT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FNT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FNT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FNT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FNT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FNT_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"FNT_JWT_EXPIRATION_MINUTES" required:"true"`
}

// ProviderConfig holds the stock listings provider credentials and tuning.
type ProviderConfig struct {
	Key          string        `envconfig:"FNT_PROVIDER_KEY" required:"true"`
	Secret       string        `envconfig:"FNT_PROVIDER_SECRET" required:"true"`
	AdvertiserID string        `envconfig:"FNT_PROVIDER_ADVERTISER_ID" required:"true"`
	Env          string        `envconfig:"FNT_PROVIDER_ENV" default:"sandbox"`
	BaseURL      string        `envconfig:"FNT_PROVIDER_BASE_URL"`
	MaxRetries   int           `envconfig:"FNT_PROVIDER_MAX_RETRIES" default:"3"`
	BaseDelay    time.Duration `envconfig:"FNT_PROVIDER_BASE_DELAY" default:"1s"`
	HTTPTimeout  time.Duration `envconfig:"FNT_PROVIDER_HTTP_TIMEOUT" default:"30s"`
}

// Environment returns the normalized provider environment (sandbox/production).
func (p ProviderConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(p.Env))
	if env == "" {
		return ProviderEnvSandbox
	}
	return env
}

func (p ProviderConfig) validate() error {
	switch p.Environment() {
	case ProviderEnvSandbox, ProviderEnvProduction:
		return nil
	default:
		return fmt.Errorf("provider environment must be %q or %q", ProviderEnvSandbox, ProviderEnvProduction)
	}
}

type WebhookConfig struct {
	SigningSecret string `envconfig:"FNT_WEBHOOK_SIGNING_SECRET" required:"true"`
}

type SyncConfig struct {
	Interval time.Duration `envconfig:"FNT_SYNC_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"FNT_SYNC_LOCK_TTL" default:"30m"`
	EventTTL time.Duration `envconfig:"FNT_WEBHOOK_EVENT_TTL" default:"24h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FNT_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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
