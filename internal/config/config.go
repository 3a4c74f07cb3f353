package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	Env           string `env:"ENV" env-required:"true"`
	StorageDriver string `env:"STORAGE_DRIVER" env-default:"postgres"`
	HTTP          HTTPConfig
	Postgres      PostgresConfig
	Migrations    MigrationsConfig
	JWT           JWTConfig
	Session       SessionConfig
	Password      PasswordConfig
	Sentry        SentryConfig
}

type HTTPConfig struct {
	Host               string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port               string        `env:"HTTP_PORT" env-default:"3000"`
	ReadHeaderTimeout  time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"5s"`
	ShutdownTimeout    time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
	RequireAccessToken bool          `env:"HTTP_REQUIRE_ACCESS_TOKEN" env-default:"false"`
}

type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST" env-default:"localhost"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `env:"POSTGRES_USERNAME" env-default:"postgres"`
	Password       string        `env:"POSTGRES_PASSWORD"`
	Database       string        `env:"POSTGRES_DATABASE" env-default:"task_manager"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
}

type MigrationsConfig struct {
	Enabled bool `env:"MIGRATIONS_ENABLED" env-default:"true"`
}

type JWTConfig struct {
	Issuer         string        `env:"JWT_ISSUER" env-default:"task-manager"`
	SigningKey     string        `env:"JWT_SIGNING_KEY" env-required:"true"`
	AccessTokenTTL time.Duration `env:"JWT_ACCESS_TOKEN_TTL" env-default:"15m"`
}

type SessionConfig struct {
	// RefreshTokenTTL is the absolute lifetime of a session.
	RefreshTokenTTL   time.Duration `env:"SESSION_REFRESH_TOKEN_TTL" env-default:"240h"`
	RefreshTokenBytes int           `env:"SESSION_REFRESH_TOKEN_BYTES" env-default:"64"`
}

// PasswordConfig holds the argon2id parameters used for new hashes.
// Existing hashes carry their own parameters.
type PasswordConfig struct {
	Memory      uint32 `env:"PASSWORD_ARGON2_MEMORY" env-default:"65536"`
	Iterations  uint32 `env:"PASSWORD_ARGON2_ITERATIONS" env-default:"1"`
	Parallelism uint8  `env:"PASSWORD_ARGON2_PARALLELISM" env-default:"2"`
	SaltLength  uint32 `env:"PASSWORD_ARGON2_SALT_LENGTH" env-default:"16"`
	KeyLength   uint32 `env:"PASSWORD_ARGON2_KEY_LENGTH" env-default:"32"`
}

type SentryConfig struct {
	DSN          string        `env:"SENTRY_DSN"`
	FlushTimeout time.Duration `env:"SENTRY_FLUSH_TIMEOUT" env-default:"2s"`
}
