package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Stockeando-api/pkg/config"
)

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	cfg, err := config.Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("LEDGER_RETENTION_DAYS", "45")
	t.Setenv("CODES_MAX_ATTEMPTS", "abc")
	t.Setenv("DASHBOARD_REFRESH_SECONDS", "10")
	t.Setenv("APP_TIMEZONE", "America/Argentina/Buenos_Aires")
	t.Setenv("BACKUP_DRIVER", "file")
	t.Setenv("BACKUP_DIR", "/tmp/respaldos")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 45, cfg.Ledger.RetentionDays)
	assert.Equal(t, 1000, cfg.Codes.MaxAttempts, "valor no numérico usa el default")
	assert.Equal(t, 10*time.Second, cfg.Dashboard.RefreshInterval())
	assert.Equal(t, "America/Argentina/Buenos_Aires", cfg.App.Location().String())
	assert.Equal(t, "/tmp/respaldos", cfg.Backup.Dir)
}

func TestLoad_S3SinBucket(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("BACKUP_DRIVER", "s3")
	t.Setenv("BACKUP_S3_BUCKET", "")
	_, err := config.Load()
	require.Error(t, err)
}

func TestAppConfig_LocationInvalida(t *testing.T) {
	assert.Equal(t, time.UTC, config.AppConfig{Timezone: "No/Existe"}.Location())
}

func TestDBConfig_DSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "stock", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/stock?sslmode=disable", c.ConnectionString())
	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
