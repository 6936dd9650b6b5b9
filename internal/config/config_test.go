package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"SERVER_PORT", "STORE_DRIVER", "DB_FILE", "CART_KEY", "ORDER_SINK", "KAFKA_BROKERS"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, 3000, cfg.ServerPort)
	assert.Equal(t, DriverFile, cfg.StoreDriver)
	assert.Equal(t, "db.json", cfg.DBFile)
	assert.Equal(t, "thinaiHubCart", cfg.CartKey)
	assert.Equal(t, SinkAPI, cfg.OrderSink)
	assert.Nil(t, cfg.KafkaBrokers)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnvFile(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("KAFKA_BROKERS", "")
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("KAFKA_BROKERS")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SERVER_PORT=4100\nKAFKA_BROKERS=k1:9092,k2:9092\n"), 0o600))

	cfg := LoadConfig(path)

	assert.Equal(t, 4100, cfg.ServerPort)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestValidate(t *testing.T) {
	cfg := &Config{StoreDriver: DriverPostgres}
	require.Error(t, cfg.Validate())

	cfg.DatabaseURL = "postgres://localhost/thinai"
	require.NoError(t, cfg.Validate())

	cfg.StoreDriver = "mongo"
	var unknown *UnknownDriverError
	require.ErrorAs(t, cfg.Validate(), &unknown)
}
