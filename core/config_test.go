package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("ENV", "")

		conf := NewConfig()
		assert.Equal(t, "DEV", conf.Env)
		assert.True(t, conf.Debug)
		assert.False(t, conf.TestMode)
		assert.Equal(t, EnginePostgres, conf.Database.Engine)
		assert.Equal(t, "localhost:5432", conf.Database.Address())
		assert.True(t, conf.Database.DisableTLS)
		assert.Equal(t, ":8000", conf.Server.Host)
		assert.Equal(t, 5*time.Second, conf.Server.ShutdownTimeout)
		assert.Equal(t, time.UTC, conf.Location)
		assert.Empty(t, conf.Cache.RedisAddr)
	})

	t.Run("env prefix", func(t *testing.T) {
		t.Setenv("ENV", "qa")
		t.Setenv("QA_DATABASE_ENGINE", "SQLite")
		t.Setenv("QA_DATABASE_PATH", "/tmp/register.db")
		t.Setenv("QA_DATABASE_PORT", "6543")
		t.Setenv("QA_CACHE_REDISADDR", "localhost:6379")
		t.Setenv("QA_LOCATION", "Nowhere/Land")

		conf := NewConfig()
		assert.Equal(t, "QA", conf.Env)
		assert.False(t, conf.Debug)
		assert.True(t, conf.Database.IsSQLite())
		assert.Equal(t, "/tmp/register.db", conf.Database.Path)
		assert.Equal(t, 6543, conf.Database.Port)
		assert.False(t, conf.Database.DisableTLS)
		assert.Equal(t, "localhost:6379", conf.Cache.RedisAddr)
		assert.Equal(t, time.UTC, conf.Location, "unknown locations fall back to UTC")
	})
}

func TestConfig_Today(t *testing.T) {
	var conf *Config
	assert.Equal(t, DateOf(time.Now().UTC()), conf.Today())
	assert.Equal(t, MonthOf(conf.Today()), conf.CurrentMonth())
}
