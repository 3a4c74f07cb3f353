package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvReader_Defaults(t *testing.T) {
	t.Setenv("ENV", EnvDev)
	t.Setenv("JWT_SIGNING_KEY", "secret")

	cfg, err := NewEnvReader().Read()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverPostgres, cfg.StorageDriver)
	assert.Equal(t, "3000", cfg.HTTP.Port)
	assert.False(t, cfg.HTTP.RequireAccessToken)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, 240*time.Hour, cfg.Session.RefreshTokenTTL)
	assert.Equal(t, 64, cfg.Session.RefreshTokenBytes)
	assert.Equal(t, uint32(65536), cfg.Password.Memory)
	assert.Equal(t, uint8(2), cfg.Password.Parallelism)
	assert.True(t, cfg.Migrations.Enabled)
}

func TestEnvReader_MissingSigningKey(t *testing.T) {
	t.Setenv("ENV", EnvDev)
	t.Setenv("JWT_SIGNING_KEY", "")

	_, err := NewEnvReader().Read()
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Env:           EnvProd,
			StorageDriver: StorageDriverMemory,
			JWT:           JWTConfig{SigningKey: "k", AccessTokenTTL: time.Minute},
			Session:       SessionConfig{RefreshTokenTTL: time.Hour, RefreshTokenBytes: 32},
		}
	}

	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Env = "staging"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.StorageDriver = "mongo"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Session.RefreshTokenBytes = 8
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.JWT.SigningKey = ""
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.JWT.AccessTokenTTL = 0
	assert.Error(t, cfg.Validate())
}
