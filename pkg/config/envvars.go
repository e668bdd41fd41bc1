package config

// EnvPrefix is passed to envconfig; individual fields carry full names.
const EnvPrefix = "charmz"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"

	DefaultSQLitePath = "charmz.db"
)

const (
	SnapshotBackendDB    = "db"
	SnapshotBackendRedis = "redis"
)

const (
	EnvAppEnv = "CHARMZ_APP_ENV"
	EnvDBDSN  = "CHARMZ_DB_DSN"
	EnvDBHost = "CHARMZ_DB_HOST"
	EnvDBUser = "CHARMZ_DB_USER"
	EnvDBName = "CHARMZ_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
