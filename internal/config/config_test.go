package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("CONFIG_PATH", path)
}

func TestLoadFromFile(t *testing.T) {
	writeConfig(t, `
app:
  env: production
  port: 9090
mongo:
  uri: mongodb://db:27017
  db: MarketplaceDB
jwt:
  secret: file-secret
`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "9090", cfg.App.PortString())
	assert.False(t, cfg.App.Development())
	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
	assert.Equal(t, "file-secret", cfg.JWT.Secret)

	// defaults fill the gaps
	assert.Equal(t, 10, cfg.App.ShutdownSeconds)
	assert.Equal(t, 120, cfg.App.RatePerMin)
	assert.Equal(t, 60, cfg.JWT.TTLMinutes)
	assert.Equal(t, "marketplace.message.created", cfg.Kafka.Topic)
}

func TestEnvOverridesFile(t *testing.T) {
	writeConfig(t, `
app:
  port: 9090
mongo:
  uri: mongodb://db:27017
  db: MarketplaceDB
jwt:
  secret: file-secret
`)
	t.Setenv("SERVICE_PORT", "7070")
	t.Setenv("MONGODB_URI", "mongodb://other:27017")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.App.Port)
	assert.Equal(t, "mongodb://other:27017", cfg.Mongo.URI)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoadRejectsIncompleteConfig(t *testing.T) {
	writeConfig(t, `
app:
  port: 9090
mongo:
  uri: mongodb://db:27017
  db: MarketplaceDB
`)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
}

func TestLoadRejectsBucketWithoutRegion(t *testing.T) {
	writeConfig(t, `
app:
  port: 9090
mongo:
  uri: mongodb://db:27017
  db: MarketplaceDB
jwt:
  secret: s
s3:
  bucket: images
`)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3.region")
}
