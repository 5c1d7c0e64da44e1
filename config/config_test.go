package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaults(t *testing.T) {
	c, err := Get("")
	require.NoError(t, err)

	assert.Equal(t, "8080", c.ApiPort)
	assert.Equal(t, "sqlite3", c.Database)
	assert.Equal(t, "portable", c.Statements)
	assert.Equal(t, 10, c.Pagination.DefaultLimit)
	assert.Equal(t, 1000, c.Pagination.MaxLimit)
	assert.Equal(t, "static", c.Descriptors.Source)
	assert.Equal(t, 5, c.Descriptors.Retries)
	assert.Equal(t, 500*time.Millisecond, c.Descriptors.RetryDelay)
	assert.Equal(t, []string{"*"}, c.CORS.AllowedOrigins)
}

func TestGetFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	content := `
api_port: "9090"
database: postgresql
db_host: db.local
security:
  api_token: secret
pagination:
  default_limit: 25
  max_limit: 200
redis:
  addr: "localhost:6379"
descriptors:
  source: database
  retries: 3
  retry_delay: 1s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := Get(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", c.ApiPort)
	assert.Equal(t, "postgres", c.Database)
	assert.Equal(t, "5432", c.DbPort)
	assert.Equal(t, "procedures", c.Statements)
	assert.Equal(t, "secret", c.Security.ApiToken)
	assert.Equal(t, 25, c.Pagination.DefaultLimit)
	assert.Equal(t, 200, c.Pagination.MaxLimit)
	assert.Equal(t, "localhost:6379", c.Redis.Addr)
	assert.Equal(t, "database", c.Descriptors.Source)
	assert.Equal(t, 3, c.Descriptors.Retries)
	assert.Equal(t, time.Second, c.Descriptors.RetryDelay)
}

func TestGetEnvironmentOverride(t *testing.T) {
	t.Setenv("MINIMARKET_API_PORT", "7070")
	t.Setenv("MINIMARKET_DATABASE", "mysql")

	c, err := Get("")
	require.NoError(t, err)

	assert.Equal(t, "7070", c.ApiPort)
	assert.Equal(t, "mysql", c.Database)
	assert.Equal(t, "3306", c.DbPort)
	assert.Equal(t, "portable", c.Statements)
}

func TestGetMissingFile(t *testing.T) {
	_, err := Get(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
