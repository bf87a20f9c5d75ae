package config

const EnvPrefix = "FNT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	ProviderEnvSandbox    = "sandbox"
	ProviderEnvProduction = "production"
)

const (
	EnvAppEnv               = "FNT_APP_ENV"
	EnvPort                 = "FNT_APP_PORT"
	EnvDBDSN                = "FNT_DB_DSN"
	EnvDBHost               = "FNT_DB_HOST"
	EnvDBUser               = "FNT_DB_USER"
	EnvDBName               = "FNT_DB_NAME"
	EnvRedisURL             = "FNT_REDIS_URL"
	EnvJWTSecret            = "FNT_JWT_SECRET"
	EnvJWTIssuer            = "FNT_JWT_ISSUER"
	EnvJWTExpMins           = "FNT_JWT_EXPIRATION_MINUTES"
	EnvProviderKey          = "FNT_PROVIDER_KEY"
	EnvProviderSecret       = "FNT_PROVIDER_SECRET"
	EnvProviderAdvertiserID = "FNT_PROVIDER_ADVERTISER_ID"
	EnvProviderEnv          = "FNT_PROVIDER_ENV"
	EnvWebhookSigningSecret = "FNT_WEBHOOK_SIGNING_SECRET"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
