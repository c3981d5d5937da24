package config

// EnvPrefix scopes every environment variable read by envconfig.
const EnvPrefix = "CAMPUSEATS"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "CAMPUSEATS_DB_DSN"
	EnvDBHost = "CAMPUSEATS_DB_HOST"
	EnvDBUser = "CAMPUSEATS_DB_USER"
	EnvDBName = "CAMPUSEATS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
