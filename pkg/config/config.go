package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Shop          ShopConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Shop.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"CHARMZ_APP_ENV" required:"true"`
	Port         string   `envconfig:"CHARMZ_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"CHARMZ_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"CHARMZ_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"CHARMZ_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CHARMZ_DB_DSN"`
	Driver string `envconfig:"CHARMZ_DB_DRIVER" default:"sqlite"`

	LegacyHost     string `envconfig:"CHARMZ_DB_HOST"`
	LegacyPort     int    `envconfig:"CHARMZ_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CHARMZ_DB_USER"`
	LegacyPassword string `envconfig:"CHARMZ_DB_PASSWORD"`
	LegacyName     string `envconfig:"CHARMZ_DB_NAME"`
	LegacySSLMode  string `envconfig:"CHARMZ_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CHARMZ_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CHARMZ_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CHARMZ_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CHARMZ_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is the embedded sqlite engine.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"CHARMZ_REDIS_URL"`
	Address      string        `envconfig:"CHARMZ_REDIS_ADDR"`
	Password     string        `envconfig:"CHARMZ_REDIS_PASSWORD"`
	DB           int           `envconfig:"CHARMZ_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CHARMZ_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CHARMZ_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CHARMZ_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CHARMZ_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CHARMZ_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint has been configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"CHARMZ_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CHARMZ_JWT_ISSUER" default:"charmz"`
	ExpirationMinutes int    `envconfig:"CHARMZ_JWT_EXPIRATION_MINUTES" default:"43200"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CHARMZ_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CHARMZ_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CHARMZ_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CHARMZ_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CHARMZ_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"CHARMZ_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit  int           `envconfig:"CHARMZ_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"CHARMZ_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"CHARMZ_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"CHARMZ_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"CHARMZ_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

// ShopConfig tunes the shopping-state container and its mocked flows.
type ShopConfig struct {
	SnapshotBackend string        `envconfig:"CHARMZ_SNAPSHOT_BACKEND" default:"db"`
	SnapshotPrefix  string        `envconfig:"CHARMZ_SNAPSHOT_PREFIX" default:"charmz:snapshot"`
	SnapshotTTL     time.Duration `envconfig:"CHARMZ_SNAPSHOT_TTL" default:"720h"`
	AuthDelay       time.Duration `envconfig:"CHARMZ_MOCK_AUTH_DELAY" default:"1s"`
	CheckoutDelay   time.Duration `envconfig:"CHARMZ_MOCK_CHECKOUT_DELAY" default:"1500ms"`
}

func (s ShopConfig) validate() error {
	switch strings.ToLower(s.SnapshotBackend) {
	case SnapshotBackendDB, SnapshotBackendRedis:
		return nil
	}
	return fmt.Errorf("unknown snapshot backend %q (expected %s or %s)", s.SnapshotBackend, SnapshotBackendDB, SnapshotBackendRedis)
}

// UsesRedisSnapshots reports whether shop snapshots are stored in redis.
func (s ShopConfig) UsesRedisSnapshots() bool {
	return strings.EqualFold(s.SnapshotBackend, SnapshotBackendRedis)
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CHARMZ_AUTO_MIGRATE" default:"false"`
	SeedCatalog bool `envconfig:"CHARMZ_SEED_CATALOG" default:"true"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	if db.IsSQLite() {
		db.DSN = DefaultSQLitePath
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
