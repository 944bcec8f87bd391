package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "stocktransfer-api", cfg.App.Name)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "5-M", cfg.RateLimit.Login)
	assert.Equal(t, 30*time.Second, cfg.Cache.ActorTTL)
	assert.True(t, cfg.Swagger.Enabled)
	assert.Equal(t, "postgres", cfg.App.Storage)
}

func TestLoad_Storage(t *testing.T) {
	t.Setenv("STORAGE", "Memory")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.App.Storage)

	t.Setenv("STORAGE", "mongo")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_PORT", "no-numérico")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SWAGGER_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 5432, cfg.DB.Port, "valor inválido cae al default")
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.False(t, cfg.Swagger.Enabled)
}

func TestLoad_ProductionSinSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "stock", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/stock?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
