package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/campusgate/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "memory", cfg.Cache.Kind)
	assert.Equal(t, "24h", cfg.JWT.AccessTTL)
	assert.Equal(t, "superadmin@school.com", cfg.Seed.SuperAdminEmail)
	assert.Equal(t, 10, cfg.Rate.Login.Limit)
}

func TestLoadYAMLConEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
jwt:
  access_ttl: 12h
rate:
  enabled: true
  login:
    limit: 5
`), 0o600))

	t.Setenv("SERVER_ADDR", ":7070")
	t.Setenv("SUPERADMIN_EMAIL", "root@school.com")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	// env pisa yaml; yaml pisa defaults
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "12h", cfg.JWT.AccessTTL)
	assert.Equal(t, 5, cfg.Rate.Login.Limit)
	assert.True(t, cfg.Rate.Enabled)
	assert.Equal(t, "root@school.com", cfg.Seed.SuperAdminEmail)
}

func TestLoadRechazaInvalido(t *testing.T) {
	dir := t.TempDir()

	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		return p
	}

	_, err := config.Load(write("bad_ttl.yaml", "jwt:\n  access_ttl: banana\n"))
	assert.Error(t, err)

	_, err = config.Load(write("bad_driver.yaml", "storage:\n  driver: oracle\n"))
	assert.Error(t, err)

	_, err = config.Load(write("pg_sin_dsn.yaml", "storage:\n  driver: postgres\n"))
	assert.Error(t, err)

	_, err = config.Load(write("redis_sin_addr.yaml", "cache:\n  kind: redis\n"))
	assert.Error(t, err)
}
