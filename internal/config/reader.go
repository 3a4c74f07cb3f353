package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Reader interface {
	Read() (*Config, error)
}

type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values that cleanenv accepts but the application cannot run with.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return fmt.Errorf("unknown env: %s", c.Env)
	}

	switch c.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("unknown storage driver: %s", c.StorageDriver)
	}

	if c.JWT.SigningKey == "" {
		return fmt.Errorf("jwt signing key is empty")
	}
	if c.Session.RefreshTokenBytes < 16 {
		return fmt.Errorf("refresh token must have at least 16 bytes, got %d", c.Session.RefreshTokenBytes)
	}
	if c.JWT.AccessTokenTTL <= 0 {
		return fmt.Errorf("access token ttl must be positive")
	}
	if c.Session.RefreshTokenTTL <= 0 {
		return fmt.Errorf("refresh token ttl must be positive")
	}
	return nil
}
