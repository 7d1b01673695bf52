package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestRead(t *testing.T) {
	t.Cleanup(viper.Reset)

	t.Setenv("APP_ENV", "production")
	t.Setenv("POSTGRES_DATABASE", "catalog")
	t.Setenv("SNAPSHOT_KEY", "snapshots/categories.json")

	cfg := Read()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "catalog", cfg.PostgresDatabase)
	assert.Equal(t, "snapshots/categories.json", cfg.SnapshotKey)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "5432", cfg.PostgresPort)
	assert.Equal(t, "disable", cfg.PostgresSSLMode)
	assert.Equal(t, "catalog", cfg.ServiceName)
}
