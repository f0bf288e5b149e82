package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/config"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"PAGE_SIZE", "SEARCH_DEBOUNCE", "SEARCH_LIMIT", "STUCK_AFTER", "REALTIME_LANES", "KAFKA_BROKERS"} {
		t.Setenv(k, "")
	}

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.PageSize)
	assert.Equal(t, 300*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, 100, cfg.SearchLimit)
	assert.Equal(t, 72*time.Hour, cfg.StuckAfter)
	assert.Equal(t, 8, cfg.RealtimeLanes)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "6432")
	t.Setenv("POSTGRES_USER", "bo")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "office")
	t.Setenv("PAGE_SIZE", "50")
	t.Setenv("SEARCH_DEBOUNCE", "150ms")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, 150*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "host=db port=6432 user=bo password=secret dbname=office sslmode=disable", cfg.DB.DSN())
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Setenv("PAGE_SIZE", "thirty")
	t.Setenv("STUCK_AFTER", "3 days")

	_, err := config.FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAGE_SIZE")
	assert.Contains(t, err.Error(), "STUCK_AFTER")
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SEARCH_LIMIT=25\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("SEARCH_LIMIT", "")
	os.Unsetenv("SEARCH_LIMIT")

	cfg, source, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".env"), source)
	assert.Equal(t, 25, cfg.SearchLimit)
}
