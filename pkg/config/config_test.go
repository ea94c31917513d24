package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/obras-api/pkg/config"
)

func TestLoad_LeeVariablesDeEntorno(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("AUTH_COOKIE_SECURE", "true")
	t.Setenv("LOGIN_RATE_WINDOW_SECONDS", "30")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.True(t, cfg.JWT.CookieSecure)
	assert.Equal(t, "session", cfg.JWT.CookieName, "nombre de cookie por defecto")
	assert.Equal(t, 30*time.Second, cfg.RateLimit.LoginWindow)
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoad_ProduccionSinSecret_Falla(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err, "sin JWT_SECRET fuera de development debe fallar")
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "obras", Password: "p@ss:word", DBName: "obras", SSLMode: "disable"}
	assert.Equal(t, "postgres://obras:p%40ss%3Aword@db:5432/obras?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
