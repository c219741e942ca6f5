package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vals map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vals[key]
		return v, ok
	}
}

func TestResolve_Defaults(t *testing.T) {
	cfg, err := Resolve(Config{}, env(nil))
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017/", cfg.Mongo.URI)
	assert.Equal(t, "mitre_attack", cfg.Mongo.Database)
	assert.Equal(t, "techniques", cfg.Mongo.Collection)
	assert.Equal(t, DefaultSourceURL, cfg.Source.URL)
	assert.Equal(t, "attack-pattern", cfg.Source.EntityType)
	assert.Equal(t, "replace", cfg.Load.Mode)
	assert.Equal(t, 0, cfg.Load.BatchSize)
	assert.Empty(t, cfg.Metrics.PushgatewayURL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestResolve_EnvOverridesFile(t *testing.T) {
	content := `
mongo:
  uri: mongodb://file:27017
  database: from_file
  collection: from_file
source:
  url: https://example.com/file.json
load:
  mode: swap
  batch_size: 50
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	fileCfg, err := LoadConfig(path)
	require.NoError(t, err)

	cfg, err := Resolve(fileCfg, env(map[string]string{
		"MONGO_URI":       "mongodb://env:27017",
		"DB_NAME":         "  env_db  ",
		"MITRE_JSON_URL":  "",
		"LOAD_BATCH_SIZE": "500",
		"PUSHGATEWAY_URL": "http://pushgateway:9091",
	}))
	require.NoError(t, err)

	assert.Equal(t, "mongodb://env:27017", cfg.Mongo.URI)
	assert.Equal(t, "env_db", cfg.Mongo.Database)
	assert.Equal(t, "from_file", cfg.Mongo.Collection)
	assert.Equal(t, "https://example.com/file.json", cfg.Source.URL)
	assert.Equal(t, "swap", cfg.Load.Mode)
	assert.Equal(t, 500, cfg.Load.BatchSize)
	assert.Equal(t, "http://pushgateway:9091", cfg.Metrics.PushgatewayURL)
}

func TestResolve_InvalidValues(t *testing.T) {
	tests := map[string]map[string]string{
		"source not http":    {"MITRE_JSON_URL": "ftp://example.com/x.json"},
		"source not url":     {"MITRE_JSON_URL": "enterprise-attack.json"},
		"mongo scheme":       {"MONGO_URI": "postgres://localhost"},
		"bad mode":           {"LOAD_MODE": "merge"},
		"negative batch":     {"LOAD_BATCH_SIZE": "-1"},
		"batch not int":      {"LOAD_BATCH_SIZE": "lots"},
		"bad log level":      {"LOG_LEVEL": "verbose"},
		"bad pushgateway":    {"PUSHGATEWAY_URL": "pushgateway:9091"},
		"timeout not int":    {"SOURCE_TIMEOUT": "1m"},
		"negative mongo tmo": {"MONGO_CONNECT_TIMEOUT": "-5"},
	}
	for name, vals := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Resolve(Config{}, env(vals))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mongo: [unclosed"), 0o644))
	_, err = LoadConfig(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "解析配置失败")
}
