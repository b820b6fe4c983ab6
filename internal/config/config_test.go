package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "JWT_SECRET", "JWT_ACCESS_EXPIRY", "DEFAULT_PET_NAME", "PORT", "BCRYPT_COST"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "Pengu", cfg.DefaultPetName)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 30, cfg.LogRetentionDays)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_ACCESS_EXPIRY", "1h")
	t.Setenv("JWT_REFRESH_EXPIRY", "not-a-duration")
	t.Setenv("DEFAULT_PET_NAME", "Waddles")
	t.Setenv("LOG_RETENTION_DAYS", "-3")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, time.Hour, cfg.JWTAccessExpiry)
	assert.Equal(t, 168*time.Hour, cfg.JWTRefreshExpiry)
	assert.Equal(t, "Waddles", cfg.DefaultPetName)
	assert.Equal(t, 30, cfg.LogRetentionDays)
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "pengu", DBPort: "5432", DBSSLMode: "disable"}
	dsn := cfg.DSN()
	assert.True(t, strings.HasPrefix(dsn, "host=db user=u password=p dbname=pengu"))
	assert.Contains(t, dsn, "TimeZone=UTC")

	cfg.DatabaseURL = "postgres://u:p@db/pengu"
	assert.Equal(t, "postgres://u:p@db/pengu", cfg.DSN())
}

func TestValidate(t *testing.T) {
	err := (&Config{DBPassword: "p"}).Validate()
	require.Error(t, err)
	assert.Equal(t, "JWT_SECRET environment variable is required", err.Error())

	err = (&Config{JWTSecret: "s"}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")

	assert.NoError(t, (&Config{JWTSecret: "s", DatabaseURL: "postgres://x"}).Validate())
}
