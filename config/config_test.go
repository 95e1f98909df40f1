package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tin21habesha/primetrade.ai-backend/core"
)

func setSecrets(t *testing.T) {
	t.Helper()
	os.Clearenv()
	os.Setenv("JWT_ACCESS_SECRET", "access-secret")
	os.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setSecrets(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.Production())
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL())
	assert.Equal(t, 168*time.Hour, cfg.RefreshTTL())
	assert.Equal(t, 60*time.Second, cfg.CacheTTL())
	assert.Equal(t, 2*time.Second, cfg.RetryBackoff())
}

func TestLoad_SecretsFromEnvironmentOnly(t *testing.T) {
	// No .env file in the test working directory: the secrets must reach the
	// config through the environment alone.
	setSecrets(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "access-secret", cfg.JWTAccessSecret)
	assert.Equal(t, "refresh-secret", cfg.JWTRefreshSecret)
}

func TestLoad_MissingSecretsFatal(t *testing.T) {
	os.Clearenv()

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, core.KindConfiguration, core.KindOf(err))
}

func TestLoad_EqualSecretsRejected(t *testing.T) {
	os.Clearenv()
	os.Setenv("JWT_ACCESS_SECRET", "same")
	os.Setenv("JWT_REFRESH_SECRET", "same")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, core.KindConfiguration, core.KindOf(err))
}

func TestLoad_BcryptCostRange(t *testing.T) {
	setSecrets(t)
	os.Setenv("BCRYPT_COST", "3")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, core.KindConfiguration, core.KindOf(err))
}

func TestLoad_EnvOverrides(t *testing.T) {
	setSecrets(t)
	os.Setenv("SERVER_ADDR", ":9000")
	os.Setenv("APP_ENV", "production")
	os.Setenv("JWT_ACCESS_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.ServerAddr)
	assert.True(t, cfg.Production())
	assert.Equal(t, 30*time.Minute, cfg.AccessTTL())
}

func TestTTL_InvalidFallsBack(t *testing.T) {
	setSecrets(t)
	os.Setenv("JWT_ACCESS_TTL", "garbage")
	os.Setenv("JWT_REFRESH_TTL", "-1h")
	os.Setenv("CONNECT_BACKOFF", "bad")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL())
	assert.Equal(t, 168*time.Hour, cfg.RefreshTTL())
	assert.Equal(t, 2*time.Second, cfg.RetryBackoff())
}
