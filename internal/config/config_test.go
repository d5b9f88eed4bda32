package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_CustomValues(t *testing.T) {
	// Use t.Setenv which auto-restores after test
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("SHUTDOWN_TIMEOUT", "60")
	t.Setenv("DB_HOST", "db.example.com")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "myuser")
	t.Setenv("DB_PASSWORD", "secret123")
	t.Setenv("DB_NAME", "mydb")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("SERVICE_FEE_RATE", "0.15")
	t.Setenv("LOYALTY_EARN_RATIO", "50")

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 60, cfg.Server.ShutdownTimeout)

	assert.Equal(t, "db.example.com", cfg.DB.Host)
	assert.Equal(t, 5433, cfg.DB.Port)
	assert.Equal(t, "myuser", cfg.DB.User)
	assert.Equal(t, "secret123", cfg.DB.Password)
	assert.Equal(t, "mydb", cfg.DB.Name)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, true, cfg.Log.Pretty)

	assert.Equal(t, 0.15, cfg.Pricing.ServiceFeeRate)
	assert.Equal(t, 50, cfg.Pricing.LoyaltyEarnRatio)
}

func TestLoad_PartialOverride(t *testing.T) {
	// Only override some values, leave others as default
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DB_NAME", "custom_db")

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "custom_db", cfg.DB.Name)

	// Defaults still apply to everything unset
	assert.Equal(t, 30, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 0.10, cfg.Pricing.ServiceFeeRate)
	assert.Equal(t, 100, cfg.Pricing.LoyaltyEarnRatio)
}

func TestLoad_RejectsFeeRateOutOfRange(t *testing.T) {
	t.Setenv("SERVICE_FEE_RATE", "1.5")

	cfg, err := Load()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVICE_FEE_RATE")
}

func TestLoad_RejectsZeroEarnRatio(t *testing.T) {
	t.Setenv("LOYALTY_EARN_RATIO", "0")

	cfg, err := Load()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOYALTY_EARN_RATIO")
}

func TestDBConfig_DSN(t *testing.T) {
	dbCfg := DBConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "mypassword",
		Name:     "testdb",
		SSLMode:  "disable",
		MaxConns: 25,
		MinConns: 5,
	}

	dsn := dbCfg.DSN()
	assert.Contains(t, dsn, "postgres:mypassword@localhost:5432/testdb")
	assert.Contains(t, dsn, "sslmode=disable")
	assert.Contains(t, dsn, "pool_max_conns=25")
	assert.Contains(t, dsn, "pool_min_conns=5")
}
