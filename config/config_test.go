package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, "https://www.amazon.com/s", config.SearchURL)
	assert.Equal(t, "products.yaml", config.ProductsFile)
	assert.Equal(t, 3, config.MaxPages)
	assert.Equal(t, 0.10, config.DropThreshold)
	assert.Equal(t, "file", config.SnapshotBackend)
	assert.Equal(t, "data", config.DataDir)
	assert.Equal(t, 60*time.Second, config.FetchBlockTime)
	assert.Equal(t, 3, config.ExportAttempts)

	// Test with environment variables
	os.Setenv("SEARCH_URL", "https://example.com/s")
	os.Setenv("DROP_THRESHOLD", "0.25")
	os.Setenv("SNAPSHOT_BACKEND", "redis")
	os.Setenv("REDIS_ADDR", "redis.example.com:6379")
	os.Setenv("REDIS_DB", "1")
	os.Setenv("FETCH_BLOCK_SECONDS", "30")
	os.Setenv("ALERTZY_ACCOUNT_KEY", "secret")

	config = LoadConfig()
	assert.Equal(t, "https://example.com/s", config.SearchURL)
	assert.Equal(t, 0.25, config.DropThreshold)
	assert.Equal(t, "redis", config.SnapshotBackend)
	assert.Equal(t, "redis.example.com:6379", config.RedisAddr)
	assert.Equal(t, 1, config.RedisDB)
	assert.Equal(t, 30*time.Second, config.FetchBlockTime)
	assert.Equal(t, "secret", config.AlertzyAccountKey)

	// Clean up
	os.Unsetenv("SEARCH_URL")
	os.Unsetenv("DROP_THRESHOLD")
	os.Unsetenv("SNAPSHOT_BACKEND")
	os.Unsetenv("REDIS_ADDR")
	os.Unsetenv("REDIS_DB")
	os.Unsetenv("FETCH_BLOCK_SECONDS")
	os.Unsetenv("ALERTZY_ACCOUNT_KEY")
}

func TestValidate(t *testing.T) {
	config := LoadConfig()
	assert.NoError(t, config.Validate())

	bad := config
	bad.DropThreshold = 0
	assert.Error(t, bad.Validate())

	bad = config
	bad.SnapshotBackend = "sqlite"
	assert.Error(t, bad.Validate())

	bad = config
	bad.MaxPages = 0
	assert.Error(t, bad.Validate())

	bad = config
	bad.ExportAttempts = 0
	assert.Error(t, bad.Validate())
}

func TestLoadQueries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.yaml")

	yaml := `products:
  - identity: echo-dot
    search: amazon echo dot
  - search: usb c cable
  - identity: ssd-1tb
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	config := LoadConfig()
	config.ProductsFile = path

	queries, err := config.LoadQueries()
	require.NoError(t, err)
	require.Len(t, queries, 3)

	assert.Equal(t, "echo-dot", queries[0].Identity)
	assert.Equal(t, "amazon echo dot", queries[0].SearchTerm)

	// Missing identity falls back to the search term and vice versa
	assert.Equal(t, "usb c cable", queries[1].Identity)
	assert.Equal(t, "usb c cable", queries[1].SearchTerm)
	assert.Equal(t, "ssd-1tb", queries[2].SearchTerm)
}

func TestLoadQueriesMissingFile(t *testing.T) {
	config := LoadConfig()
	config.ProductsFile = filepath.Join(t.TempDir(), "absent.yaml")

	_, err := config.LoadQueries()
	assert.Error(t, err)
}
