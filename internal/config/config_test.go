package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"PORT", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB",
		"RESERVATION_HOLD_DURATION", "REAPER_INTERVAL", "REAPER_BATCH_SIZE",
	}
	for _, env := range envVars {
		os.Unsetenv(env)
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	// Server defaults
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)

	// Database defaults
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, "concert_booking", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)

	// Redis defaults
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, "6379", cfg.Redis.Port)
	assert.Equal(t, 0, cfg.Redis.DB)

	// Reservation defaults
	assert.Equal(t, 5*time.Minute, cfg.Reservation.HoldDuration)
	assert.Equal(t, 5*time.Second, cfg.Reservation.ReaperInterval)
	assert.Equal(t, 100, cfg.Reservation.ReaperBatchSize)
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "15432")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("RESERVATION_HOLD_DURATION", "10m")
	t.Setenv("REAPER_INTERVAL", "1s")
	t.Setenv("REAPER_BATCH_SIZE", "50")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "15432", cfg.Database.Port)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 10*time.Minute, cfg.Reservation.HoldDuration)
	assert.Equal(t, 1*time.Second, cfg.Reservation.ReaperInterval)
	assert.Equal(t, 50, cfg.Reservation.ReaperBatchSize)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("RESERVATION_HOLD_DURATION", "soon")

	cfg := Load()

	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 5*time.Minute, cfg.Reservation.HoldDuration)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := &DatabaseConfig{
		Host: "localhost", Port: "5432", User: "postgres",
		Password: "secret", DBName: "concert_booking", SSLMode: "disable",
	}

	dsn := cfg.DSN()

	assert.Equal(t, "host=localhost port=5432 user=postgres password=secret dbname=concert_booking sslmode=disable", dsn)
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := &RedisConfig{Host: "localhost", Port: "6379"}
	assert.Equal(t, "localhost:6379", cfg.Addr())
}
