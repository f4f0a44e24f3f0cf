package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	var cfg Config
	cfg.Server.HTTPPort = "3000"
	cfg.Repositories.Postgres.Host = "localhost"
	cfg.Repositories.Postgres.DB = "event_management"
	cfg.JWT = JWTConfig{SecretKey: "s3cret", Issuer: "evently-api", AccessTokenTTL: time.Hour}
	return cfg
}

func TestValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		cfg := validConfig()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("MissingSecretHasNoFallback", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWT.SecretKey = "   "
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secretKey")
	})

	t.Run("KafkaEnabledWithoutBrokers", func(t *testing.T) {
		cfg := validConfig()
		cfg.Kafka.Enabled = true
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "kafka")
	})

	t.Run("ReportsEveryProblem", func(t *testing.T) {
		var cfg Config
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secretKey")
		assert.Contains(t, err.Error(), "repositories.postgres.host")
		assert.Contains(t, err.Error(), "server.HTTPPort")
	})
}

func TestInitConfigReadsSecretFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRETKEY", "from-env")
	t.Setenv("REPOSITORIES_POSTGRES_HOST", "db.internal")

	cfg, err := InitConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWT.SecretKey)
	assert.Equal(t, "db.internal", cfg.Repositories.Postgres.Host)
	assert.Equal(t, time.Hour, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, "evently-api", cfg.JWT.Issuer)
}

func TestInitConfigFailsWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRETKEY", "")
	t.Setenv("JWT_SECRET", "")

	_, err := InitConfig()
	require.Error(t, err)
}
