package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir string, data map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJSON_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	path := writeTempJSON(t, dir, map[string]any{
		"identity_endpoint":  "https://id.example/v1",
		"identity_api_key":   "key-1",
		"document_dsn":       "postgres://localhost/profiles",
		"op_timeout_seconds": 30,
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJSON(cfg)

		assert.Equal(t, "https://id.example/v1", cfg.IdentityEndpoint)
		assert.Equal(t, "key-1", cfg.IdentityAPIKey)
		assert.Equal(t, "postgres://localhost/profiles", cfg.DocumentDSN)
		assert.Equal(t, 30*time.Second, cfg.OpTimeout)
		// Absent keys keep their defaults.
		assert.Equal(t, "profile.db", cfg.CacheDSN)
	})

	t.Run("no flags means no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{IdentityEndpoint: "defaults", OpTimeout: 42 * time.Second}
		parseJSON(cfg)

		assert.Equal(t, "defaults", cfg.IdentityEndpoint)
		assert.Equal(t, 42*time.Second, cfg.OpTimeout)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ not json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJSON(cfg) })
	})
}
