package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the namespace for all environment variables.
const EnvPrefix = "PAWMART"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Media        MediaConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PAWMART_APP_ENV" required:"true"`
	Port         string `envconfig:"PAWMART_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"PAWMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PAWMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PAWMART_DB_DSN"`
	Driver string `envconfig:"PAWMART_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"PAWMART_DB_HOST"`
	Port     int    `envconfig:"PAWMART_DB_PORT" default:"5432"`
	User     string `envconfig:"PAWMART_DB_USER"`
	Password string `envconfig:"PAWMART_DB_PASSWORD"`
	Name     string `envconfig:"PAWMART_DB_NAME"`
	SSLMode  string `envconfig:"PAWMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PAWMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PAWMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PAWMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PAWMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN builds a postgres DSN from the discrete fields when one was not
// provided directly.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("db config requires either PAWMART_DB_DSN or host/user/name")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"PAWMART_REDIS_URL"`
	Address      string        `envconfig:"PAWMART_REDIS_ADDR"`
	Password     string        `envconfig:"PAWMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"PAWMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PAWMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PAWMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PAWMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PAWMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PAWMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"PAWMART_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"PAWMART_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"PAWMART_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"PAWMART_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PAWMART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PAWMART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PAWMART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PAWMART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PAWMART_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PAWMART_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"PAWMART_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"PAWMART_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"PAWMART_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"PAWMART_GCS_BUCKET"`
}

type MediaConfig struct {
	MaxUploadBytes int64 `envconfig:"PAWMART_MEDIA_MAX_UPLOAD_BYTES" default:"5242880"`
}
